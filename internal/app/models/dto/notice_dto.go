package dto

import "github.com/yigit/hostelhub/internal/app/models"

// CreateNoticeRequest publishes a notice
type CreateNoticeRequest struct {
	Title    string                `json:"title" binding:"required,min=3,max=100" example:"Water outage"`
	Content  string                `json:"content" binding:"required" example:"No water supply between 10am and 2pm."`
	Priority models.NoticePriority `json:"priority" example:"normal"`
}

// UpdateNoticeRequest is a partial notice update
type UpdateNoticeRequest struct {
	Title    *string                `json:"title" binding:"omitempty,min=3,max=100" example:"Water outage extended"`
	Content  *string                `json:"content" binding:"omitempty,min=1"`
	Priority *models.NoticePriority `json:"priority" example:"high"`
}

// Patch converts the request into a model patch
func (r UpdateNoticeRequest) Patch() models.NoticePatch {
	return models.NoticePatch{
		Title:    r.Title,
		Content:  r.Content,
		Priority: r.Priority,
	}
}
