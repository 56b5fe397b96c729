package models

import "time"

// Notice defines the notice board model based on the 'notices' table
type Notice struct {
	ID        int64          `json:"id" example:"1"`
	AdminID   int64          `json:"admin_id" example:"1"`
	AdminName string         `json:"admin_name,omitempty" example:"admin"`
	Title     string         `json:"title" example:"Water outage"`
	Content   string         `json:"content" example:"No water supply between 10am and 2pm."`
	Priority  NoticePriority `json:"priority" example:"normal"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NoticePatch carries the optional fields of a partial notice update
type NoticePatch struct {
	Title    *string
	Content  *string
	Priority *NoticePriority
}

// Apply copies the set fields of the patch onto n
func (p NoticePatch) Apply(n *Notice) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
}

// Admin defines the administrator model based on the 'admins' table
type Admin struct {
	ID           int64     `json:"id" example:"1"`
	Username     string    `json:"username" example:"admin"`
	Email        string    `json:"email" example:"admin@example.com"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
