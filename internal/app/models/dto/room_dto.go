package dto

import (
	"strings"

	"github.com/yigit/hostelhub/internal/app/models"
)

// CreateRoomRequest registers a new room
type CreateRoomRequest struct {
	RoomNumber         string                  `json:"room_number" binding:"required,max=20" example:"A1"`
	Capacity           int                     `json:"capacity" binding:"required,min=1,max=20" example:"2"`
	RoomType           string                  `json:"room_type" example:"double"`
	Floor              int                     `json:"floor" binding:"min=0" example:"1"`
	AvailabilityStatus models.RoomAvailability `json:"availability_status" example:"available"`
	Description        string                  `json:"description" example:"Corner room"`
}

// Room converts the request into a model with defaults applied
func (r CreateRoomRequest) Room() *models.Room {
	room := &models.Room{
		RoomNumber:         strings.TrimSpace(r.RoomNumber),
		Capacity:           r.Capacity,
		RoomType:           strings.TrimSpace(r.RoomType),
		Floor:              r.Floor,
		AvailabilityStatus: r.AvailabilityStatus,
		Description:        r.Description,
	}
	if room.RoomType == "" {
		room.RoomType = models.DefaultRoomType
	}
	if room.AvailabilityStatus == "" {
		room.AvailabilityStatus = models.RoomAvailable
	}
	return room
}

// UpdateRoomRequest is a partial room update
type UpdateRoomRequest struct {
	Capacity           *int                     `json:"capacity" binding:"omitempty,min=1,max=20" example:"3"`
	RoomType           *string                  `json:"room_type" example:"triple"`
	Floor              *int                     `json:"floor" binding:"omitempty,min=0" example:"1"`
	AvailabilityStatus *models.RoomAvailability `json:"availability_status" example:"maintenance"`
	Description        *string                  `json:"description"`
}

// Patch converts the request into a model patch
func (r UpdateRoomRequest) Patch() models.RoomPatch {
	return models.RoomPatch{
		Capacity:           r.Capacity,
		RoomType:           r.RoomType,
		Floor:              r.Floor,
		AvailabilityStatus: r.AvailabilityStatus,
		Description:        r.Description,
	}
}

// RoomStudentRequest names the student to assign or remove.
// Both snake_case and camelCase keys are accepted.
type RoomStudentRequest struct {
	StudentID      string `json:"student_id" example:"MVGR2025001"`
	StudentIDCamel string `json:"studentId" swaggerignore:"true"`
}

// ID returns whichever key the client sent
func (r RoomStudentRequest) ID() string {
	if id := strings.TrimSpace(r.StudentID); id != "" {
		return id
	}
	return strings.TrimSpace(r.StudentIDCamel)
}

// RoomDetailResponse is a room with its occupants
type RoomDetailResponse struct {
	*models.RoomOccupancy
	Students []*models.Student `json:"students"`
}
