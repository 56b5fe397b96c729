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
	"github.com/yigit/hostelhub/internal/pkg/auth"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// StudentService defines the interface for the student directory
type StudentService interface {
	CreateStudent(ctx context.Context, p *appAuth.Principal, req *dto.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, p *appAuth.Principal, id string) (*models.Student, error)
	ListStudents(ctx context.Context, p *appAuth.Principal, query dto.StudentListQuery) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, p *appAuth.Principal, id string, req *dto.UpdateStudentRequest) (*models.Student, error)
	UpdateStatus(ctx context.Context, p *appAuth.Principal, id string, status models.StudentStatus) (*models.Student, error)
	DeleteStudent(ctx context.Context, p *appAuth.Principal, id string) error
}

type studentServiceImpl struct {
	repos        *repositories.Repositories
	emailService email.EmailService
	idPrefix     string
	now          Clock
	logger       zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	repos *repositories.Repositories,
	emailService email.EmailService,
	idPrefix string,
	now Clock,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		repos:        repos,
		emailService: emailService,
		idPrefix:     idPrefix,
		now:          now,
		logger:       logger,
	}
}

// CreateStudent registers a student on behalf of an admin. A room number, if
// given, goes through the assignment checks in the same transaction.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, p *appAuth.Principal, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateStudentFields(req.Name, req.Contact, req.Password, false); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Name:           strings.TrimSpace(req.Name),
		Email:          models.NormalizeEmail(req.Email),
		Contact:        strings.TrimSpace(req.Contact),
		PasswordHash:   hash,
		Status:         models.StudentStatusPending,
		RoomPreference: strings.TrimSpace(req.RoomPreference),
	}

	roomNumber := ""
	if req.RoomNumber != nil {
		roomNumber = strings.TrimSpace(*req.RoomNumber)
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		id, err := NextStudentID(ctx, tx.Counters, s.idPrefix, s.now())
		if err != nil {
			return err
		}
		student.ID = id
		if err := tx.Students.Create(ctx, student); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to create student: %w", err)
		}
		if roomNumber == "" {
			return nil
		}
		if _, err := placeStudent(ctx, tx, roomNumber, student.ID, false); err != nil {
			return err
		}
		student.RoomNumber = &roomNumber
		return nil
	})
	if err != nil {
		return nil, err
	}

	mailStudentID(s.emailService, s.logger, student)
	s.logger.Info().Str("studentID", student.ID).Str("createdBy", p.ID).Msg("Student created by admin")
	return student, nil
}

// GetStudent returns a student to an admin or to the student themself
func (s *studentServiceImpl) GetStudent(ctx context.Context, p *appAuth.Principal, id string) (*models.Student, error) {
	if err := appAuth.CanAccessStudent(p, id); err != nil {
		return nil, err
	}
	student, err := s.repos.Students.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
	}
	return student, nil
}

// ListStudents returns students newest first
func (s *studentServiceImpl) ListStudents(ctx context.Context, p *appAuth.Principal, query dto.StudentListQuery) ([]*models.Student, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if query.Status != "" && !query.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status filter")
	}
	return s.repos.Students.List(ctx, models.StudentFilter{
		Status:     query.Status,
		Unassigned: query.Unassigned,
	})
}

// UpdateStudent applies a partial profile update. Only admins may touch room_number.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, p *appAuth.Principal, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := appAuth.CanAccessStudent(p, id); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Name != nil && !validation.NewStringValidation(*patch.Name).
		WithRequired(true).
		WithLength(validation.NameMinLength, validation.NameMaxLength).
		Validate() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("name must be between %d and %d characters",
			validation.NameMinLength, validation.NameMaxLength))
	}
	if patch.Contact != nil && strings.TrimSpace(*patch.Contact) != "" && !validation.IsPhone(strings.TrimSpace(*patch.Contact)) {
		return nil, apperrors.NewValidationError("contact must be a 10-digit phone number")
	}
	if patch.Email != nil && models.NormalizeEmail(*patch.Email) == "" {
		return nil, apperrors.NewValidationError("email cannot be empty")
	}

	var updated *models.Student
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		student, err := tx.Students.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, apperrors.ErrStudentNotFound)
		}

		room := trimmedOrNil(patch.RoomNumber)
		if room != nil && *room != student.CurrentRoom() && !p.IsAdmin() {
			return appAuth.ErrAdminOnly.WithMessage("Only admins can change room assignments")
		}

		if patch.Name != nil || patch.Email != nil || patch.Contact != nil {
			if patch.Name != nil {
				student.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Email != nil {
				student.Email = models.NormalizeEmail(*patch.Email)
			}
			if patch.Contact != nil {
				student.Contact = strings.TrimSpace(*patch.Contact)
			}
			if err := tx.Students.UpdateProfile(ctx, student); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return apperrors.ErrEmailAlreadyExists
				}
				return notFoundAs(err, apperrors.ErrStudentNotFound)
			}
		}

		switch {
		case room == nil || *room == student.CurrentRoom():
		case *room == "":
			if err := tx.Students.SetRoom(ctx, id, nil); err != nil {
				return notFoundAs(err, apperrors.ErrStudentNotFound)
			}
		default:
			if _, err := placeStudent(ctx, tx, *room, id, true); err != nil {
				return err
			}
		}

		updated, err = tx.Students.GetByID(ctx, id)
		return notFoundAs(err, apperrors.ErrStudentNotFound)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus moves a student to active, inactive or graduated
func (s *studentServiceImpl) UpdateStatus(ctx context.Context, p *appAuth.Principal, id string, status models.StudentStatus) (*models.Student, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if !status.Settable() {
		return nil, apperrors.NewValidationError("status must be one of active, inactive, graduated")
	}

	if err := s.repos.Students.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
	}

	student, err := s.repos.Students.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrStudentNotFound)
	}
	s.logger.Info().Str("studentID", id).Str("status", string(status)).Msg("Student status updated")
	return student, nil
}

// DeleteStudent removes a student together with their requests and attendance
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, p *appAuth.Principal, id string) error {
	if err := appAuth.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.repos.Students.Delete(ctx, id); err != nil {
		return notFoundAs(err, apperrors.ErrStudentNotFound)
	}
	s.logger.Info().Str("studentID", id).Msg("Student deleted")
	return nil
}
