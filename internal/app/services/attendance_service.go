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
)

// Attendance stats window bounds in days
const (
	DefaultStatsDays = 30
	MaxStatsDays     = 365
)

// AttendanceService maintains the attendance ledger
type AttendanceService interface {
	// RecordForDate replaces every mark for the request date with the uploaded set
	RecordForDate(ctx context.Context, p *appAuth.Principal, req *dto.AttendanceUploadRequest) (*dto.AttendanceUploadResponse, error)
	ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.AttendanceRecord, error)
	ListForDate(ctx context.Context, p *appAuth.Principal, date string) ([]*models.AttendanceRecord, error)
	Stats(ctx context.Context, p *appAuth.Principal, days int) ([]*models.AttendanceDayStats, error)
}

type attendanceServiceImpl struct {
	repos  *repositories.Repositories
	now    Clock
	logger zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(repos *repositories.Repositories, now Clock, logger zerolog.Logger) AttendanceService {
	return &attendanceServiceImpl{
		repos:  repos,
		now:    now,
		logger: logger,
	}
}

func (s *attendanceServiceImpl) RecordForDate(ctx context.Context, p *appAuth.Principal, req *dto.AttendanceUploadRequest) (*dto.AttendanceUploadResponse, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	adminID, err := p.AdminID()
	if err != nil {
		return nil, err
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be a YYYY-MM-DD date")
	}
	if len(req.Records) == 0 {
		return nil, apperrors.NewValidationError("records must contain at least one entry")
	}

	records := make([]*models.AttendanceRecord, 0, len(req.Records))
	seen := make(map[string]struct{}, len(req.Records))
	for i, entry := range req.Records {
		studentID := strings.TrimSpace(entry.StudentID)
		if studentID == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("records[%d].student_id is required", i))
		}
		if !entry.Status.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("records[%d].status must be one of present, absent, late", i))
		}
		if _, dup := seen[studentID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Student %s is listed more than once", studentID))
		}
		seen[studentID] = struct{}{}
		records = append(records, &models.AttendanceRecord{
			StudentID: studentID,
			Date:      date,
			Status:    entry.Status,
			MarkedBy:  adminID,
		})
	}

	var replaced int64
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		n, err := tx.Attendance.DeleteByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to clear attendance: %w", err)
		}
		replaced = n

		for _, record := range records {
			if err := tx.Attendance.Insert(ctx, record); err != nil {
				if errors.Is(err, repositories.ErrInvalidReference) {
					return apperrors.NewBadRequestError(fmt.Sprintf("Student %s does not exist", record.StudentID))
				}
				return fmt.Errorf("failed to record attendance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("date", date.String()).
		Int("inserted", len(records)).
		Int64("replaced", replaced).
		Int64("markedBy", adminID).
		Msg("Attendance recorded")

	return &dto.AttendanceUploadResponse{
		Date:     date.String(),
		Inserted: len(records),
		Replaced: replaced,
	}, nil
}

// ListForStudent returns a student's marks, newest date first
func (s *attendanceServiceImpl) ListForStudent(ctx context.Context, p *appAuth.Principal, studentID string) ([]*models.AttendanceRecord, error) {
	if err := appAuth.CanAccessStudent(p, studentID); err != nil {
		return nil, err
	}
	return s.repos.Attendance.ListByStudent(ctx, studentID)
}

func (s *attendanceServiceImpl) ListForDate(ctx context.Context, p *appAuth.Principal, date string) ([]*models.AttendanceRecord, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be a YYYY-MM-DD date")
	}
	return s.repos.Attendance.ListByDate(ctx, day)
}

// Stats aggregates the last days of the ledger. Zero means the default window.
func (s *attendanceServiceImpl) Stats(ctx context.Context, p *appAuth.Principal, days int) ([]*models.AttendanceDayStats, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 1 || days > MaxStatsDays {
		return nil, apperrors.NewValidationError(fmt.Sprintf("days must be between 1 and %d", MaxStatsDays))
	}
	return s.repos.Attendance.DailyStats(ctx, today(s.now).AddDays(-days))
}
