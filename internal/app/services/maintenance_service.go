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

// MaintenanceService handles maintenance tickets
type MaintenanceService interface {
	CreateRequest(ctx context.Context, p *appAuth.Principal, req *dto.CreateMaintenanceRequest) (*models.MaintenanceRequest, error)
	SetStatus(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateMaintenanceStatusRequest) (*models.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, p *appAuth.Principal, id int64) error
	ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.MaintenanceRequest, error)
	ListAll(ctx context.Context, p *appAuth.Principal, status string) ([]*models.MaintenanceRequest, error)
}

type maintenanceServiceImpl struct {
	repos   *repositories.Repositories
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) MaintenanceService {
	return &maintenanceServiceImpl{
		repos:   repos,
		metrics: m,
		logger:  logger,
	}
}

// CreateRequest files a ticket for the calling student. Without an explicit
// room the ticket goes to the student's current room.
func (s *maintenanceServiceImpl) CreateRequest(ctx context.Context, p *appAuth.Principal, req *dto.CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	if err := appAuth.RequireStudent(p); err != nil {
		return nil, err
	}

	ticket := &models.MaintenanceRequest{
		StudentID:   p.ID,
		IssueType:   strings.TrimSpace(req.IssueType),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		Status:      models.MaintenanceStatusPending,
	}
	if ticket.IssueType == "" || ticket.Description == "" {
		return nil, apperrors.NewValidationError("issue_type and description are required")
	}
	if ticket.Priority == "" {
		ticket.Priority = models.PriorityMedium
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("priority must be one of low, medium, high")
	}

	var created *models.MaintenanceRequest
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		student, err := tx.Students.GetByIDForUpdate(ctx, p.ID)
		if err != nil {
			return notFoundAs(err, apperrors.ErrStudentNotFound)
		}

		room := strings.TrimSpace(req.RoomNumber)
		if room == "" {
			if !student.HasRoom() {
				return apperrors.ErrNoRoomAssigned
			}
			room = student.CurrentRoom()
		} else if _, err := tx.Rooms.GetByNumber(ctx, room); err != nil {
			return notFoundAs(err, apperrors.ErrInvalidRoom)
		}
		ticket.RoomNumber = room

		if err := tx.Maintenance.Create(ctx, ticket); err != nil {
			if errors.Is(err, repositories.ErrInvalidReference) {
				return apperrors.ErrInvalidRoom
			}
			return fmt.Errorf("failed to create maintenance request: %w", err)
		}
		created, err = tx.Maintenance.GetByID(ctx, ticket.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RequestFiled("maintenance")
	s.logger.Info().Int64("requestID", created.ID).Str("studentID", p.ID).Str("roomNumber", created.RoomNumber).Msg("Maintenance request created")
	return created, nil
}

// SetStatus records an admin decision on a ticket
func (s *maintenanceServiceImpl) SetStatus(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateMaintenanceStatusRequest) (*models.MaintenanceRequest, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of pending, in_progress, completed, rejected")
	}

	updated, err := s.repos.Maintenance.UpdateStatus(ctx, id, req.Status, trimmedOrNil(req.AdminNotes))
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrMaintenanceRequestNotFound)
	}

	s.logger.Info().Int64("requestID", id).Str("status", string(req.Status)).Msg("Maintenance request status updated")
	return updated, nil
}

// DeleteRequest removes a ticket. Owners may only delete their pending tickets.
func (s *maintenanceServiceImpl) DeleteRequest(ctx context.Context, p *appAuth.Principal, id int64) error {
	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		ticket, err := tx.Maintenance.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, apperrors.ErrMaintenanceRequestNotFound)
		}
		if err := appAuth.CanDeleteRequest(p, ticket.StudentID, ticket.Status == models.MaintenanceStatusPending); err != nil {
			return err
		}
		return notFoundAs(tx.Maintenance.Delete(ctx, id), apperrors.ErrMaintenanceRequestNotFound)
	})
}

// ListForStudent returns one student's tickets, newest first
func (s *maintenanceServiceImpl) ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.MaintenanceRequest, error) {
	if err := appAuth.CanAccessStudent(p, studentID); err != nil {
		return nil, err
	}
	return s.repos.Maintenance.List(ctx, models.MaintenanceFilter{StudentID: studentID})
}

// ListAll returns every ticket, optionally narrowed to one status
func (s *maintenanceServiceImpl) ListAll(ctx context.Context, p *appAuth.Principal, status string) ([]*models.MaintenanceRequest, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	filter := models.MaintenanceFilter{Status: models.MaintenanceStatus(strings.ToLower(strings.TrimSpace(status)))}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status filter")
	}
	return s.repos.Maintenance.List(ctx, filter)
}
