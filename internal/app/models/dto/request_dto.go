package dto

import "github.com/yigit/hostelhub/internal/app/models"

// CreateLeaveRequest files a leave request for the calling student
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required,isodate" example:"2025-01-10"`
	EndDate   string `json:"end_date" binding:"required,isodate" example:"2025-01-12"`
	Reason    string `json:"reason" binding:"required,max=1000" example:"Family function"`
	LeaveType string `json:"leave_type" binding:"max=50" example:"Personal"`
}

// UpdateLeaveStatusRequest is the admin decision on a leave request
type UpdateLeaveStatusRequest struct {
	Status     models.LeaveStatus `json:"status" binding:"required" example:"approved"`
	AdminNotes *string            `json:"admin_notes" example:"Approved, travel safe"`
}

// CreateMaintenanceRequest files a maintenance ticket. The room defaults to the student's own.
type CreateMaintenanceRequest struct {
	IssueType   string          `json:"issue_type" binding:"required,max=50" example:"plumbing"`
	Description string          `json:"description" binding:"required,max=2000" example:"Tap is leaking"`
	Priority    models.Priority `json:"priority" example:"medium"`
	RoomNumber  string          `json:"room_number" example:"A1"`
}

// UpdateMaintenanceStatusRequest is the admin decision on a ticket
type UpdateMaintenanceStatusRequest struct {
	Status     models.MaintenanceStatus `json:"status" binding:"required" example:"in_progress"`
	AdminNotes *string                  `json:"admin_notes" example:"Plumber scheduled"`
}

// RequestListQuery filters leave and maintenance listings
type RequestListQuery struct {
	Status string `form:"status" example:"pending"`
}
