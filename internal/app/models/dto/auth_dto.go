package dto

import "github.com/yigit/hostelhub/internal/app/models"

// StudentRegisterRequest is the self-service registration payload
type StudentRegisterRequest struct {
	Name           string `json:"name" binding:"required,min=3,max=100" example:"Ann Lee"`
	Email          string `json:"email" binding:"required,email" example:"ann@example.com"`
	Contact        string `json:"contact" binding:"required,phone10" example:"9876543210"`
	Password       string `json:"password" binding:"required,min=6,max=72" example:"secret1"`
	RoomPreference string `json:"room_preference" binding:"required" example:"double"`
}

// StudentLoginRequest represents student login credentials
type StudentLoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// StudentAuthResponse is returned by student registration and login
type StudentAuthResponse struct {
	Message   string          `json:"message" example:"Login successful"`
	Student   *models.Student `json:"student"`
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in" example:"86400"`
}

// AdminLoginRequest represents admin login credentials
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// AdminRegisterRequest creates another administrator
type AdminRegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"warden"`
	Email    string `json:"email" binding:"required,email" example:"warden@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret1"`
}

// AdminAuthResponse is returned by admin login
type AdminAuthResponse struct {
	Message   string        `json:"message" example:"Login successful"`
	Admin     *models.Admin `json:"admin"`
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in" example:"86400"`
}

// ChangePasswordRequest changes the calling admin's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"admin123"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72" example:"n3wSecret"`
}
