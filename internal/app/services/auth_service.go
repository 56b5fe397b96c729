package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

// Authentication errors. Unknown accounts and wrong passwords share one message.
var (
	ErrInvalidLogin = &apperrors.CustomError{Err: apperrors.ErrInvalidCredentials, Message: "Invalid credentials"}
	ErrTokenExpired = &apperrors.CustomError{Err: apperrors.ErrTokenExpired, Message: "Token has expired"}
	ErrTokenInvalid = &apperrors.CustomError{Err: apperrors.ErrTokenInvalid, Message: "Invalid token"}
)

// AuthService handles sessions for students and admins
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.StudentAuthResponse, error)
	LoginStudent(ctx context.Context, req *dto.StudentLoginRequest) (*dto.StudentAuthResponse, error)
	LoginAdmin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error)
	// Authenticate validates a bearer token and returns the caller it was issued to
	Authenticate(ctx context.Context, token string) (*appAuth.Principal, error)
}

type authServiceImpl struct {
	repos        *repositories.Repositories
	jwtService   *auth.JWTService
	emailService email.EmailService
	idPrefix     string
	now          Clock
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	idPrefix string,
	now Clock,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		repos:        repos,
		jwtService:   jwtService,
		emailService: emailService,
		idPrefix:     idPrefix,
		now:          now,
		logger:       logger,
	}
}

// RegisterStudent creates a pending student, emails the new ID and signs a session token
func (s *authServiceImpl) RegisterStudent(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.StudentAuthResponse, error) {
	if err := validateStudentFields(req.Name, req.Contact, req.Password, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.RoomPreference) == "" {
		return nil, apperrors.NewValidationError("room_preference is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
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

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		id, err := NextStudentID(ctx, tx.Counters, s.idPrefix, s.now())
		if err != nil {
			return err
		}
		student.ID = id
		return tx.Students.Create(ctx, student)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", student.Email).Msg("Failed to register student")
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	mailStudentID(s.emailService, s.logger, student)

	token, expiresIn, err := s.tokenFor(student)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.ID).Msg("Student registered")
	return &dto.StudentAuthResponse{
		Message:   "Registration successful",
		Student:   student,
		Token:     token,
		ExpiresIn: expiresIn,
	}, nil
}

// LoginStudent checks the student's credentials and signs a session token
func (s *authServiceImpl) LoginStudent(ctx context.Context, req *dto.StudentLoginRequest) (*dto.StudentAuthResponse, error) {
	student, err := s.repos.Students.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if !auth.CheckPassword(student.PasswordHash, req.Password) {
		return nil, ErrInvalidLogin
	}

	token, expiresIn, err := s.tokenFor(student)
	if err != nil {
		return nil, err
	}

	return &dto.StudentAuthResponse{
		Message:   "Login successful",
		Student:   student,
		Token:     token,
		ExpiresIn: expiresIn,
	}, nil
}

// LoginAdmin checks an administrator's credentials and signs a session token
func (s *authServiceImpl) LoginAdmin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error) {
	admin, err := s.repos.Admins.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		return nil, ErrInvalidLogin
	}

	token, expiresIn, err := s.jwtService.GenerateToken(auth.Subject{
		ID:    strconv.FormatInt(admin.ID, 10),
		Role:  string(models.RoleAdmin),
		Email: admin.Email,
		Name:  admin.Username,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("adminID", admin.ID).Msg("Failed to sign admin token")
		return nil, err
	}

	return &dto.AdminAuthResponse{
		Message:   "Login successful",
		Admin:     admin,
		Token:     token,
		ExpiresIn: expiresIn,
	}, nil
}

// Authenticate maps a token onto a Principal. Expired tokens are reported separately.
func (s *authServiceImpl) Authenticate(_ context.Context, token string) (*appAuth.Principal, error) {
	claims, err := s.jwtService.ValidateAndExtractClaims(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	role := models.Role(claims.Role)
	if !role.Valid() || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return &appAuth.Principal{
		ID:         claims.ID,
		Role:       role,
		Email:      claims.Email,
		Name:       claims.Name,
		RoomNumber: claims.RoomNumber,
	}, nil
}

func (s *authServiceImpl) tokenFor(student *models.Student) (string, int, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(auth.Subject{
		ID:         student.ID,
		Role:       string(models.RoleStudent),
		Email:      student.Email,
		Name:       student.Name,
		RoomNumber: student.RoomNumber,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("studentID", student.ID).Msg("Failed to sign student token")
		return "", 0, err
	}
	return token, expiresIn, nil
}

// validateStudentFields re-checks the rules bound on the request DTOs so that
// callers outside HTTP get the same guarantees.
func validateStudentFields(name, contact, password string, contactRequired bool) error {
	if !validation.NewStringValidation(name).
		WithRequired(true).
		WithLength(validation.NameMinLength, validation.NameMaxLength).
		Validate() {
		return apperrors.NewValidationError(fmt.Sprintf("name must be between %d and %d characters",
			validation.NameMinLength, validation.NameMaxLength))
	}

	if contactRequired || strings.TrimSpace(contact) != "" {
		if !validation.IsPhone(strings.TrimSpace(contact)) {
			return apperrors.NewValidationError("contact must be a 10-digit phone number")
		}
	}

	if len(password) < validation.PasswordMinLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}
	return nil
}
