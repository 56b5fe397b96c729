package services

import (
	"context"
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

// LeaveService handles the leave request workflow
type LeaveService interface {
	CreateLeave(ctx context.Context, p *appAuth.Principal, req *dto.CreateLeaveRequest) (*models.LeaveRequest, error)
	SetStatus(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateLeaveStatusRequest) (*models.LeaveRequest, error)
	DeleteLeave(ctx context.Context, p *appAuth.Principal, id int64) error
	ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.LeaveRequest, error)
	ListAll(ctx context.Context, p *appAuth.Principal, status string) ([]*models.LeaveRequest, error)
}

type leaveServiceImpl struct {
	repos   *repositories.Repositories
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) LeaveService {
	return &leaveServiceImpl{
		repos:   repos,
		metrics: m,
		logger:  logger,
	}
}

// CreateLeave files a pending leave request for the calling student.
// The overlap check and the insert share a transaction holding the student row lock.
func (s *leaveServiceImpl) CreateLeave(ctx context.Context, p *appAuth.Principal, req *dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if err := appAuth.RequireStudent(p); err != nil {
		return nil, err
	}

	span, err := parseSpan(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason is required")
	}
	leaveType := strings.TrimSpace(req.LeaveType)
	if leaveType == "" {
		leaveType = models.DefaultLeaveType
	}

	leave := &models.LeaveRequest{
		StudentID: p.ID,
		StartDate: span.Start,
		EndDate:   span.End,
		Reason:    reason,
		LeaveType: leaveType,
		Status:    models.LeaveStatusPending,
	}

	var created *models.LeaveRequest
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if _, err := tx.Students.GetByIDForUpdate(ctx, p.ID); err != nil {
			return notFoundAs(err, apperrors.ErrStudentNotFound)
		}
		if err := checkLeaveOverlap(ctx, tx, p.ID, span, 0); err != nil {
			return err
		}
		if err := tx.Leaves.Create(ctx, leave); err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		created, err = tx.Leaves.GetByID(ctx, leave.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RequestFiled("leave")
	s.logger.Info().Int64("leaveID", created.ID).Str("studentID", p.ID).Msg("Leave request created")
	return created, nil
}

// SetStatus records an admin decision. Moving a request back into a blocking
// status re-checks overlap so the no-overlap rule holds for every transition.
func (s *leaveServiceImpl) SetStatus(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateLeaveStatusRequest) (*models.LeaveRequest, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of pending, approved, rejected")
	}

	var updated *models.LeaveRequest
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		current, err := tx.Leaves.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, apperrors.ErrLeaveRequestNotFound)
		}

		if req.Status.Blocking() && !current.Status.Blocking() {
			if _, err := tx.Students.GetByIDForUpdate(ctx, current.StudentID); err != nil {
				return notFoundAs(err, apperrors.ErrStudentNotFound)
			}
			if err := checkLeaveOverlap(ctx, tx, current.StudentID, current.Range(), id); err != nil {
				return err
			}
		}

		updated, err = tx.Leaves.UpdateStatus(ctx, id, req.Status, trimmedOrNil(req.AdminNotes))
		return notFoundAs(err, apperrors.ErrLeaveRequestNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("leaveID", id).Str("status", string(req.Status)).Msg("Leave request status updated")
	return updated, nil
}

// DeleteLeave removes a request. Owners may only delete their pending requests.
func (s *leaveServiceImpl) DeleteLeave(ctx context.Context, p *appAuth.Principal, id int64) error {
	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		leave, err := tx.Leaves.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, apperrors.ErrLeaveRequestNotFound)
		}
		if err := appAuth.CanDeleteRequest(p, leave.StudentID, leave.Status == models.LeaveStatusPending); err != nil {
			return err
		}
		return notFoundAs(tx.Leaves.Delete(ctx, id), apperrors.ErrLeaveRequestNotFound)
	})
}

// ListForStudent returns one student's requests, newest first
func (s *leaveServiceImpl) ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.LeaveRequest, error) {
	if err := appAuth.CanAccessStudent(p, studentID); err != nil {
		return nil, err
	}
	return s.repos.Leaves.List(ctx, models.LeaveFilter{StudentID: studentID})
}

// ListAll returns every request, optionally narrowed to one status
func (s *leaveServiceImpl) ListAll(ctx context.Context, p *appAuth.Principal, status string) ([]*models.LeaveRequest, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	filter := models.LeaveFilter{Status: models.LeaveStatus(strings.ToLower(strings.TrimSpace(status)))}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status filter")
	}
	return s.repos.Leaves.List(ctx, filter)
}

// checkLeaveOverlap fails with ErrLeaveOverlap when another blocking request of
// the student shares a day with span. exceptID skips the request being updated.
func checkLeaveOverlap(ctx context.Context, tx *repositories.Repositories, studentID string, span models.DateRange, exceptID int64) error {
	overlaps, err := tx.Leaves.FindBlockingOverlaps(ctx, studentID, span)
	if err != nil {
		return fmt.Errorf("failed to check leave overlap: %w", err)
	}
	for _, other := range overlaps {
		if other.ID == exceptID {
			continue
		}
		return apperrors.ErrLeaveOverlap.WithDetails(map[string]interface{}{
			"conflicting_request_id": other.ID,
			"start_date":             other.StartDate.String(),
			"end_date":               other.EndDate.String(),
		})
	}
	return nil
}

func parseSpan(start, end string) (models.DateRange, error) {
	from, err := models.ParseDate(start)
	if err != nil {
		return models.DateRange{}, apperrors.NewValidationError("start_date must be a YYYY-MM-DD date")
	}
	to, err := models.ParseDate(end)
	if err != nil {
		return models.DateRange{}, apperrors.NewValidationError("end_date must be a YYYY-MM-DD date")
	}
	span := models.DateRange{Start: from, End: to}
	if !span.Valid() {
		return models.DateRange{}, apperrors.NewValidationError("start_date must be on or before end_date")
	}
	return span, nil
}
