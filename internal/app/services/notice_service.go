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
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// NoticeService manages the notice board
type NoticeService interface {
	ListNotices(ctx context.Context) ([]*models.Notice, error)
	GetNotice(ctx context.Context, id int64) (*models.Notice, error)
	CreateNotice(ctx context.Context, p *appAuth.Principal, req *dto.CreateNoticeRequest) (*models.Notice, error)
	UpdateNotice(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateNoticeRequest) (*models.Notice, error)
	DeleteNotice(ctx context.Context, p *appAuth.Principal, id int64) error
}

type noticeServiceImpl struct {
	repos     *repositories.Repositories
	publisher NoticePublisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewNoticeService creates a new NoticeService. A nil publisher disables live events.
func NewNoticeService(repos *repositories.Repositories, publisher NoticePublisher, m *metrics.Metrics, logger zerolog.Logger) NoticeService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &noticeServiceImpl{
		repos:     repos,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *noticeServiceImpl) ListNotices(ctx context.Context) ([]*models.Notice, error) {
	return s.repos.Notices.List(ctx)
}

func (s *noticeServiceImpl) GetNotice(ctx context.Context, id int64) (*models.Notice, error) {
	notice, err := s.repos.Notices.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrNoticeNotFound)
	}
	return notice, nil
}

// CreateNotice publishes a notice authored by the calling admin
func (s *noticeServiceImpl) CreateNotice(ctx context.Context, p *appAuth.Principal, req *dto.CreateNoticeRequest) (*models.Notice, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}
	adminID, err := p.AdminID()
	if err != nil {
		return nil, err
	}

	notice := &models.Notice{
		AdminID:  adminID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Priority: req.Priority,
	}
	if notice.Priority == "" {
		notice.Priority = models.NoticePriorityNormal
	}
	if err := validateNotice(notice); err != nil {
		return nil, err
	}

	if err := s.repos.Notices.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	created, err := s.repos.Notices.GetByID(ctx, notice.ID)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrNoticeNotFound)
	}

	s.broadcast(EventNoticeCreated, created)
	s.logger.Info().Int64("noticeID", created.ID).Int64("adminID", adminID).Msg("Notice created")
	return created, nil
}

// UpdateNotice applies a partial update
func (s *noticeServiceImpl) UpdateNotice(ctx context.Context, p *appAuth.Principal, id int64, req *dto.UpdateNoticeRequest) (*models.Notice, error) {
	if err := appAuth.RequireAdmin(p); err != nil {
		return nil, err
	}

	var updated *models.Notice
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		notice, err := tx.Notices.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, apperrors.ErrNoticeNotFound)
		}

		req.Patch().Apply(notice)
		notice.Title = strings.TrimSpace(notice.Title)
		notice.Content = strings.TrimSpace(notice.Content)
		if err := validateNotice(notice); err != nil {
			return err
		}

		if err := tx.Notices.Update(ctx, notice); err != nil {
			return notFoundAs(err, apperrors.ErrNoticeNotFound)
		}
		updated, err = tx.Notices.GetByID(ctx, id)
		return notFoundAs(err, apperrors.ErrNoticeNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(EventNoticeUpdated, updated)
	return updated, nil
}

// DeleteNotice removes a notice
func (s *noticeServiceImpl) DeleteNotice(ctx context.Context, p *appAuth.Principal, id int64) error {
	if err := appAuth.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.repos.Notices.Delete(ctx, id); err != nil {
		return notFoundAs(err, apperrors.ErrNoticeNotFound)
	}

	s.broadcast(EventNoticeDeleted, map[string]int64{"id": id})
	s.logger.Info().Int64("noticeID", id).Msg("Notice deleted")
	return nil
}

func (s *noticeServiceImpl) broadcast(eventType string, data interface{}) {
	s.publisher.Publish(eventType, data)
	s.metrics.NoticeEvent(eventType)
}

func validateNotice(n *models.Notice) error {
	if !validation.NewStringValidation(n.Title).
		WithRequired(true).
		WithLength(validation.TitleMinLength, validation.TitleMaxLength).
		Validate() {
		return apperrors.NewValidationError(fmt.Sprintf("title must be between %d and %d characters",
			validation.TitleMinLength, validation.TitleMaxLength))
	}
	if n.Content == "" {
		return apperrors.NewValidationError("content is required")
	}
	if !n.Priority.Valid() {
		return apperrors.NewValidationError("priority must be one of low, normal, high, urgent")
	}
	return nil
}
