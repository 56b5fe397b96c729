package models

import (
	"fmt"
	"strings"
)

// Role defines who a session belongs to
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// StudentStatus is the admission lifecycle of a student
type StudentStatus string

const (
	StudentStatusPending   StudentStatus = "pending"
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

// Valid reports whether s is a known student status
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusPending, StudentStatusActive, StudentStatusInactive, StudentStatusGraduated:
		return true
	}
	return false
}

// Settable reports whether an admin may move a student into s
func (s StudentStatus) Settable() bool {
	return s == StudentStatusActive || s == StudentStatusInactive || s == StudentStatusGraduated
}

// UnmarshalText rejects unknown statuses at decode time
func (s *StudentStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, s, StudentStatus.Valid, "student status")
}

// RoomAvailability is the administrative flag on a room
type RoomAvailability string

const (
	RoomAvailable   RoomAvailability = "available"
	RoomOccupied    RoomAvailability = "occupied"
	RoomMaintenance RoomAvailability = "maintenance"
)

// Valid reports whether a is a known availability status
func (a RoomAvailability) Valid() bool {
	return a == RoomAvailable || a == RoomOccupied || a == RoomMaintenance
}

// UnmarshalText rejects unknown availability values at decode time
func (a *RoomAvailability) UnmarshalText(b []byte) error {
	return parseEnum(b, a, RoomAvailability.Valid, "availability status")
}

// LeaveStatus is the state of a leave request
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Valid reports whether s is a known leave status
func (s LeaveStatus) Valid() bool {
	return s == LeaveStatusPending || s == LeaveStatusApproved || s == LeaveStatusRejected
}

// Blocking reports whether a request in this state reserves its dates
func (s LeaveStatus) Blocking() bool {
	return s == LeaveStatusPending || s == LeaveStatusApproved
}

// UnmarshalText rejects unknown leave statuses at decode time
func (s *LeaveStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, s, LeaveStatus.Valid, "leave status")
}

// MaintenanceStatus is the state of a maintenance ticket
type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusRejected   MaintenanceStatus = "rejected"
)

// Valid reports whether s is a known maintenance status
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceStatusPending, MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusRejected:
		return true
	}
	return false
}

// UnmarshalText rejects unknown maintenance statuses at decode time
func (s *MaintenanceStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, s, MaintenanceStatus.Valid, "maintenance status")
}

// Priority ranks maintenance tickets
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// UnmarshalText rejects unknown priorities at decode time
func (p *Priority) UnmarshalText(b []byte) error {
	return parseEnum(b, p, Priority.Valid, "priority")
}

// NoticePriority ranks notices on the board
type NoticePriority string

const (
	NoticePriorityLow    NoticePriority = "low"
	NoticePriorityNormal NoticePriority = "normal"
	NoticePriorityHigh   NoticePriority = "high"
	NoticePriorityUrgent NoticePriority = "urgent"
)

// Valid reports whether p is a known notice priority
func (p NoticePriority) Valid() bool {
	switch p {
	case NoticePriorityLow, NoticePriorityNormal, NoticePriorityHigh, NoticePriorityUrgent:
		return true
	}
	return false
}

// UnmarshalText rejects unknown notice priorities at decode time
func (p *NoticePriority) UnmarshalText(b []byte) error {
	return parseEnum(b, p, NoticePriority.Valid, "notice priority")
}

// AttendanceStatus is a single day's mark for a student
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid reports whether s is a known attendance status
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceLate
}

// UnmarshalText rejects unknown attendance statuses at decode time
func (s *AttendanceStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, s, AttendanceStatus.Valid, "attendance status")
}

// parseEnum decodes b into dst. An empty value decodes to the zero value so that
// optional fields can be omitted; required fields are checked by the services.
func parseEnum[T ~string](b []byte, dst *T, valid func(T) bool, kind string) error {
	v := T(strings.ToLower(strings.TrimSpace(string(b))))
	if v != "" && !valid(v) {
		return fmt.Errorf("invalid %s %q", kind, string(b))
	}
	*dst = v
	return nil
}
