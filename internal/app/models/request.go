package models

import "time"

// DefaultLeaveType is applied when a leave request omits its type
const DefaultLeaveType = "Personal"

// LeaveRequest defines the leave request model based on the 'leave_requests' table
type LeaveRequest struct {
	ID          int64       `json:"id" example:"1"`
	StudentID   string      `json:"student_id" example:"MVGR2025001"`
	StudentName string      `json:"student_name,omitempty" example:"Ann Lee"`
	StartDate   Date        `json:"start_date" swaggertype:"string" example:"2025-01-10"`
	EndDate     Date        `json:"end_date" swaggertype:"string" example:"2025-01-12"`
	Reason      string      `json:"reason" example:"Family function"`
	LeaveType   string      `json:"leave_type" example:"Personal"`
	Status      LeaveStatus `json:"status" example:"pending"`
	AdminNotes  *string     `json:"admin_notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Range returns the inclusive span of days the request covers
func (l *LeaveRequest) Range() DateRange {
	return DateRange{Start: l.StartDate, End: l.EndDate}
}

// LeaveFilter narrows leave request listings
type LeaveFilter struct {
	StudentID string
	Status    LeaveStatus
}

// MaintenanceRequest defines the maintenance ticket model based on the 'maintenance_requests' table
type MaintenanceRequest struct {
	ID          int64             `json:"id" example:"1"`
	StudentID   string            `json:"student_id" example:"MVGR2025001"`
	StudentName string            `json:"student_name,omitempty" example:"Ann Lee"`
	RoomNumber  string            `json:"room_number" example:"A1"`
	IssueType   string            `json:"issue_type" example:"plumbing"`
	Description string            `json:"description" example:"Tap is leaking"`
	Priority    Priority          `json:"priority" example:"medium"`
	Status      MaintenanceStatus `json:"status" example:"pending"`
	AdminNotes  *string           `json:"admin_notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MaintenanceFilter narrows maintenance listings
type MaintenanceFilter struct {
	StudentID string
	Status    MaintenanceStatus
}

// PendingCounts feeds the admin dashboard and the daily digest
type PendingCounts struct {
	Maintenance int `json:"maintenance"`
	Leave       int `json:"leave"`
}
