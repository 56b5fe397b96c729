package models

import "time"

// DefaultRoomType is used when a room is created without a type
const DefaultRoomType = "standard"

// Room defines the room model based on the 'rooms' table
type Room struct {
	ID                 int64            `json:"id" example:"1"`
	RoomNumber         string           `json:"room_number" example:"A1"`
	Capacity           int              `json:"capacity" example:"2"`
	RoomType           string           `json:"room_type" example:"double"`
	Floor              int              `json:"floor" example:"1"`
	AvailabilityStatus RoomAvailability `json:"availability_status" example:"available"`
	Description        string           `json:"description,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// RoomOccupancy is a room annotated with its derived bed counts
type RoomOccupancy struct {
	Room
	OccupiedBeds  int `json:"occupied_beds" example:"1"`
	AvailableBeds int `json:"available_beds" example:"1"`
}

// NewRoomOccupancy derives the bed counts for a room with the given number of occupants
func NewRoomOccupancy(room Room, occupied int) *RoomOccupancy {
	available := room.Capacity - occupied
	if available < 0 {
		available = 0
	}
	return &RoomOccupancy{Room: room, OccupiedBeds: occupied, AvailableBeds: available}
}

// Full reports whether every bed is taken
func (r *RoomOccupancy) Full() bool {
	return r.OccupiedBeds >= r.Capacity
}

// Assignable reports whether a student can be placed in the room right now
func (r *RoomOccupancy) Assignable() bool {
	return r.AvailabilityStatus == RoomAvailable && !r.Full()
}

// RoomPatch carries the optional fields of a partial room update
type RoomPatch struct {
	Capacity           *int
	RoomType           *string
	Floor              *int
	AvailabilityStatus *RoomAvailability
	Description        *string
}

// Apply copies the set fields of the patch onto room
func (p RoomPatch) Apply(room *Room) {
	if p.Capacity != nil {
		room.Capacity = *p.Capacity
	}
	if p.RoomType != nil {
		room.RoomType = *p.RoomType
	}
	if p.Floor != nil {
		room.Floor = *p.Floor
	}
	if p.AvailabilityStatus != nil {
		room.AvailabilityStatus = *p.AvailabilityStatus
	}
	if p.Description != nil {
		room.Description = *p.Description
	}
}

// RoomCounts feeds the admin dashboard
type RoomCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}
