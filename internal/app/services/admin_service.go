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
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// AdminService covers administrator accounts and the dashboard
type AdminService interface {
	RegisterAdmin(ctx context.Context, p *appAuth.Principal, req *dto.AdminRegisterRequest) (*models.Admin, error)
	// CreateAdmin is the unauthenticated path used by seeding and the ops CLI
	CreateAdmin(ctx context.Context, username, email, password string) (*models.Admin, error)
	ChangePassword(ctx context.Context, p *appAuth.Principal, req *dto.ChangePasswordRequest) error
	Dashboard(ctx context.Context, p *appAuth.Principal) (*dto.DashboardResponse, error)
}

type adminServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(repos *repositories.Repositories, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

func (s *adminServiceImpl) RegisterAdmin(ctx context.Context, p *appAuth.Principal, req *dto.AdminRegisterRequest) (*models.Admin, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	admin, err := s.CreateAdmin(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", admin.Username).Str("createdBy", p.Name).Msg("Admin registered")
	return admin, nil
}

func (s *adminServiceImpl) CreateAdmin(ctx context.Context, username, email, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	email = models.NormalizeEmail(email)
	if username == "" || email == "" {
		return nil, apperrors.NewValidationError("username and email are required")
	}
	if len(password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{Username: username, Email: email, PasswordHash: hash}
	if err := s.repos.Admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrAdminAlreadyExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// ChangePassword replaces the calling admin's password after checking the current one
func (s *adminServiceImpl) ChangePassword(ctx context.Context, p *appAuth.Principal, req *dto.ChangePasswordRequest) error {
	if err := appAuth.RequireAdmin(p); err != nil {
		return err
	}
	adminID, err := p.AdminID()
	if err != nil {
		return err
	}
	if len(req.NewPassword) < validation.PasswordMinLength {
		return apperrors.NewValidationError(fmt.Sprintf("new_password must be at least %d characters", validation.PasswordMinLength))
	}

	admin, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return notFoundAs(err, apperrors.ErrAdminNotFound)
	}
	if !auth.CheckPassword(admin.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrWrongCurrentPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repos.Admins.UpdatePassword(ctx, adminID, hash); err != nil {
		return notFoundAs(err, apperrors.ErrAdminNotFound)
	}

	s.logger.Info().Int64("adminID", adminID).Msg("Admin password changed")
	return nil
}

func (s *adminServiceImpl) Dashboard(ctx context.Context, p *appAuth.Principal) (*dto.DashboardResponse, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return CollectDashboard(ctx, s.repos)
}

// CollectDashboard reads the counters shown on the dashboard and in the daily digest
func CollectDashboard(ctx context.Context, repos *repositories.Repositories) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	var err error

	if out.Students.Total, err = repos.Students.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	if out.Rooms, err = repos.Rooms.Counts(ctx); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	if out.Pending.Leave, err = repos.Leaves.CountByStatus(ctx, models.LeaveStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending leave requests: %w", err)
	}
	if out.Pending.Maintenance, err = repos.Maintenance.CountByStatus(ctx, models.MaintenanceStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending maintenance requests: %w", err)
	}
	return &out, nil
}
