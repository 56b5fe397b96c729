package models

import (
	"strings"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID             string        `json:"id" example:"MVGR2025001"`
	Name           string        `json:"name" example:"Ann Lee"`
	Email          string        `json:"email" example:"ann@example.com"`
	Contact        string        `json:"contact" example:"9876543210"`
	PasswordHash   string        `json:"-"`
	RoomNumber     *string       `json:"room_number" example:"A1"`
	Status         StudentStatus `json:"status" example:"pending"`
	RoomPreference string        `json:"room_preference,omitempty" example:"double"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// HasRoom reports whether the student currently occupies a bed
func (s *Student) HasRoom() bool {
	return s.RoomNumber != nil && strings.TrimSpace(*s.RoomNumber) != ""
}

// CurrentRoom returns the assigned room number or "" when unassigned
func (s *Student) CurrentRoom() string {
	if !s.HasRoom() {
		return ""
	}
	return *s.RoomNumber
}

// StudentFilter narrows student listings
type StudentFilter struct {
	Status     StudentStatus
	Unassigned bool
}

// StudentPatch carries the optional fields of a partial student update.
// RoomNumber set to a pointer to "" clears the assignment.
type StudentPatch struct {
	Name       *string
	Email      *string
	Contact    *string
	RoomNumber *string
}

// Empty reports whether the patch changes nothing
func (p StudentPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Contact == nil && p.RoomNumber == nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
