package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
)

// RoomService manages the room inventory and the assignment workflow
type RoomService interface {
	ListRooms(ctx context.Context) ([]*models.RoomOccupancy, error)
	ListAvailableRooms(ctx context.Context) ([]*models.RoomOccupancy, error)
	GetRoom(ctx context.Context, roomNumber string) (*dto.RoomDetailResponse, error)
	ListRoomStudents(ctx context.Context, roomNumber string) ([]*models.Student, error)
	CreateRoom(ctx context.Context, p *appAuth.Principal, req *dto.CreateRoomRequest) (*models.RoomOccupancy, error)
	UpdateRoom(ctx context.Context, p *appAuth.Principal, roomNumber string, req *dto.UpdateRoomRequest) (*models.RoomOccupancy, error)
	AssignStudent(ctx context.Context, p *appAuth.Principal, roomNumber, studentID string) (*models.RoomOccupancy, error)
	RemoveStudent(ctx context.Context, p *appAuth.Principal, roomNumber, studentID string) (*models.RoomOccupancy, error)
	DeleteRoom(ctx context.Context, p *appAuth.Principal, roomNumber string) error
}

type roomServiceImpl struct {
	repos   *repositories.Repositories
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) RoomService {
	return &roomServiceImpl{
		repos:   repos,
		metrics: m,
		logger:  logger,
	}
}

// ListRooms returns every room with derived occupancy, ordered by room number
func (s *roomServiceImpl) ListRooms(ctx context.Context) ([]*models.RoomOccupancy, error) {
	rooms, err := s.repos.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailableRooms returns rooms that can take another student right now
func (s *roomServiceImpl) ListAvailableRooms(ctx context.Context) ([]*models.RoomOccupancy, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*models.RoomOccupancy, 0, len(rooms))
	for _, room := range rooms {
		if room.Assignable() {
			available = append(available, room)
		}
	}
	return available, nil
}

// GetRoom returns a room with its current occupants
func (s *roomServiceImpl) GetRoom(ctx context.Context, roomNumber string) (*dto.RoomDetailResponse, error) {
	room, err := s.repos.Rooms.GetByNumber(ctx, roomNumber)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrRoomNotFound)
	}
	students, err := s.repos.Students.ListByRoom(ctx, room.RoomNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list room occupants: %w", err)
	}
	return &dto.RoomDetailResponse{RoomOccupancy: room, Students: students}, nil
}

// ListRoomStudents returns the occupants of a room
func (s *roomServiceImpl) ListRoomStudents(ctx context.Context, roomNumber string) ([]*models.Student, error) {
	if _, err := s.repos.Rooms.GetByNumber(ctx, roomNumber); err != nil {
		return nil, notFoundAs(err, apperrors.ErrRoomNotFound)
	}
	return s.repos.Students.ListByRoom(ctx, roomNumber)
}

// CreateRoom registers a new room
func (s *roomServiceImpl) CreateRoom(ctx context.Context, p *appAuth.Principal, req *dto.CreateRoomRequest) (*models.RoomOccupancy, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}

	room := req.Room()
	if room.RoomNumber == "" {
		return nil, apperrors.NewValidationError("room_number is required")
	}
	if room.Capacity < 1 {
		return nil, apperrors.NewValidationError("capacity must be at least 1")
	}

	if err := s.repos.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrRoomAlreadyExists
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.Info().Str("roomNumber", room.RoomNumber).Int("capacity", room.Capacity).Msg("Room created")
	return models.NewRoomOccupancy(*room, 0), nil
}

// UpdateRoom applies a partial update. Capacity may not drop below the current occupancy.
func (s *roomServiceImpl) UpdateRoom(ctx context.Context, p *appAuth.Principal, roomNumber string, req *dto.UpdateRoomRequest) (*models.RoomOccupancy, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Capacity != nil && *patch.Capacity < 1 {
		return nil, apperrors.NewValidationError("capacity must be at least 1")
	}

	var updated *models.RoomOccupancy
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		current, err := tx.Rooms.GetByNumberForUpdate(ctx, roomNumber)
		if err != nil {
			return notFoundAs(err, apperrors.ErrRoomNotFound)
		}

		room := current.Room
		patch.Apply(&room)
		if room.RoomType == "" {
			room.RoomType = models.DefaultRoomType
		}
		if room.Capacity < current.OccupiedBeds {
			return apperrors.ErrCapacityBelowOccupancy.WithDetails(map[string]interface{}{
				"occupied_beds": current.OccupiedBeds,
			})
		}

		if err := tx.Rooms.Update(ctx, &room); err != nil {
			return notFoundAs(err, apperrors.ErrRoomNotFound)
		}
		updated = models.NewRoomOccupancy(room, current.OccupiedBeds)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignStudent places a student in a room inside one transaction
func (s *roomServiceImpl) AssignStudent(ctx context.Context, p *appAuth.Principal, roomNumber, studentID string) (*models.RoomOccupancy, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("student_id is required")
	}

	var room *models.RoomOccupancy
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		var err error
		room, err = placeStudent(ctx, tx, roomNumber, studentID, false)
		return err
	})
	if err != nil {
		s.metrics.Assignment("rejected")
		return nil, err
	}

	s.metrics.Assignment("ok")
	s.logger.Info().Str("roomNumber", roomNumber).Str("studentID", studentID).Msg("Student assigned to room")
	return room, nil
}

// RemoveStudent clears a student's assignment to the given room
func (s *roomServiceImpl) RemoveStudent(ctx context.Context, p *appAuth.Principal, roomNumber, studentID string) (*models.RoomOccupancy, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("student_id is required")
	}

	var room *models.RoomOccupancy
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		student, err := tx.Students.GetByIDForUpdate(ctx, studentID)
		if err != nil {
			return notFoundAs(err, apperrors.ErrStudentNotFound)
		}
		if student.CurrentRoom() != roomNumber {
			return apperrors.ErrStudentNotInRoom
		}
		if err := tx.Students.SetRoom(ctx, studentID, nil); err != nil {
			return notFoundAs(err, apperrors.ErrStudentNotFound)
		}
		room, err = tx.Rooms.GetByNumber(ctx, roomNumber)
		return notFoundAs(err, apperrors.ErrRoomNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("roomNumber", roomNumber).Str("studentID", studentID).Msg("Student removed from room")
	return room, nil
}

// DeleteRoom removes an empty room
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, p *appAuth.Principal, roomNumber string) error {
	if err := appAuth.RequireAdmin(p); err != nil {
		return err
	}

	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		room, err := tx.Rooms.GetByNumberForUpdate(ctx, roomNumber)
		if err != nil {
			return notFoundAs(err, apperrors.ErrRoomNotFound)
		}
		if room.OccupiedBeds > 0 {
			return apperrors.ErrRoomHasStudents
		}
		if err := tx.Rooms.Delete(ctx, roomNumber); err != nil {
			if errors.Is(err, repositories.ErrReferenced) {
				return apperrors.ErrRoomHasStudents
			}
			return notFoundAs(err, apperrors.ErrRoomNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("roomNumber", roomNumber).Msg("Room deleted")
	return nil
}

// placeStudent runs the assignment checks against repositories bound to an
// open transaction. The room row is locked before occupancy is counted and the
// student row before its current room is read. With move set, a student who
// already has a different room is moved instead of rejected.
func placeStudent(ctx context.Context, tx *repositories.Repositories, roomNumber, studentID string, move bool) (*models.RoomOccupancy, error) {
	room, err := tx.Rooms.GetByNumberForUpdate(ctx, roomNumber)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrRoomNotFound)
	}

	var student *models.Student
	if move {
		if student, err = tx.Students.GetByIDForUpdate(ctx, studentID); err != nil {
			return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
		}
		if student.CurrentRoom() == room.RoomNumber {
			return room, nil
		}
	}

	if room.AvailabilityStatus != models.RoomAvailable {
		return nil, apperrors.ErrRoomNotAvailable
	}
	if room.Full() {
		return nil, apperrors.ErrRoomFull.WithDetails(map[string]interface{}{
			"capacity":      room.Capacity,
			"occupied_beds": room.OccupiedBeds,
		})
	}

	if !move {
		if student, err = tx.Students.GetByIDForUpdate(ctx, studentID); err != nil {
			return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
		}
		if student.HasRoom() {
			return nil, apperrors.ErrAlreadyAssigned.WithMessage("Student is already assigned to room " + student.CurrentRoom())
		}
	}

	if err := tx.Students.SetRoom(ctx, studentID, &room.RoomNumber); err != nil {
		return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
	}
	return models.NewRoomOccupancy(room.Room, room.OccupiedBeds+1), nil
}
