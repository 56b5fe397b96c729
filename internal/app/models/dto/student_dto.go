package dto

import "github.com/yigit/hostelhub/internal/app/models"

// CreateStudentRequest is the admin-side student creation payload
type CreateStudentRequest struct {
	Name           string  `json:"name" binding:"required,min=3,max=100" example:"Ann Lee"`
	Email          string  `json:"email" binding:"required,email" example:"ann@example.com"`
	Password       string  `json:"password" binding:"required,min=6,max=72" example:"secret1"`
	Contact        string  `json:"contact" binding:"omitempty,phone10" example:"9876543210"`
	RoomPreference string  `json:"room_preference" example:"double"`
	RoomNumber     *string `json:"room_number" example:"A1"`
}

// UpdateStudentRequest is a partial profile update. An empty room_number clears the assignment.
type UpdateStudentRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=3,max=100" example:"Ann Lee"`
	Email      *string `json:"email" binding:"omitempty,email" example:"ann@example.com"`
	Contact    *string `json:"contact" binding:"omitempty,phone10" example:"9876543210"`
	RoomNumber *string `json:"room_number" example:"A1"`
}

// Patch converts the request into a model patch
func (r UpdateStudentRequest) Patch() models.StudentPatch {
	return models.StudentPatch{
		Name:       r.Name,
		Email:      r.Email,
		Contact:    r.Contact,
		RoomNumber: r.RoomNumber,
	}
}

// UpdateStudentStatusRequest moves a student through the admission lifecycle
type UpdateStudentStatusRequest struct {
	Status models.StudentStatus `json:"status" binding:"required" example:"active"`
}

// StudentListQuery holds the list filters
type StudentListQuery struct {
	Status     models.StudentStatus `form:"status"`
	Unassigned bool                 `form:"unassigned"`
}
