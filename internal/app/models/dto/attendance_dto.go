package dto

import "github.com/yigit/hostelhub/internal/app/models"

// AttendanceEntry is one student's mark in an upload
type AttendanceEntry struct {
	StudentID string                  `json:"student_id" binding:"required" example:"MVGR2025001"`
	Status    models.AttendanceStatus `json:"status" binding:"required" example:"present"`
}

// AttendanceUploadRequest replaces every mark recorded for Date
type AttendanceUploadRequest struct {
	Date    string            `json:"date" binding:"required,isodate" example:"2025-01-10"`
	Records []AttendanceEntry `json:"records" binding:"required,min=1,dive"`
}

// AttendanceUploadResponse reports the outcome of an upload
type AttendanceUploadResponse struct {
	Date     string `json:"date" example:"2025-01-10"`
	Inserted int    `json:"inserted" example:"42"`
	Replaced int64  `json:"replaced" example:"0"`
}

// DashboardResponse feeds the admin console landing page
type DashboardResponse struct {
	Students struct {
		Total int `json:"total" example:"120"`
	} `json:"students"`
	Rooms   models.RoomCounts    `json:"rooms"`
	Pending models.PendingCounts `json:"pending"`
}
