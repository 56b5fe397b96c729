// Package jobs runs scheduled background work
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
)

// digestTimeout bounds one digest run
const digestTimeout = 2 * time.Minute

// Digest emails every admin the pending leave and maintenance counts
type Digest struct {
	repos   *repositories.Repositories
	mailer  email.EmailService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewDigest creates the daily digest job
func NewDigest(repos *repositories.Repositories, mailer email.EmailService, m *metrics.Metrics, logger zerolog.Logger) *Digest {
	return &Digest{
		repos:   repos,
		mailer:  mailer,
		metrics: m,
		logger:  logger.With().Str("job", "digest").Logger(),
	}
}

// Run collects the counters once and mails them. A failed send to one admin
// does not stop the others; the joined error is returned.
func (d *Digest) Run(ctx context.Context) error {
	stats, err := services.CollectDashboard(ctx, d.repos)
	if err != nil {
		d.metrics.DigestRun("error")
		return fmt.Errorf("failed to collect digest counters: %w", err)
	}

	admins, err := d.repos.Admins.List(ctx)
	if err != nil {
		d.metrics.DigestRun("error")
		return fmt.Errorf("failed to list admins: %w", err)
	}

	var sendErr error
	for _, admin := range admins {
		digest := email.Digest{
			AdminName:          admin.Username,
			PendingLeave:       stats.Pending.Leave,
			PendingMaintenance: stats.Pending.Maintenance,
			TotalStudents:      stats.Students.Total,
			AvailableRooms:     stats.Rooms.Available,
		}
		if err := d.mailer.SendDigestEmail(admin.Email, digest); err != nil {
			d.logger.Warn().Err(err).Str("admin", admin.Username).Msg("Failed to send digest")
			sendErr = errors.Join(sendErr, err)
		}
	}

	if sendErr != nil {
		d.metrics.DigestRun("error")
		return sendErr
	}

	d.metrics.DigestRun("ok")
	d.logger.Info().
		Int("admins", len(admins)).
		Int("pendingLeave", stats.Pending.Leave).
		Int("pendingMaintenance", stats.Pending.Maintenance).
		Msg("Digest sent")
	return nil
}

// Scheduler owns the cron runner for background jobs
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler registers the digest on schedule (standard five-field cron syntax).
// Overlapping runs are skipped.
func NewScheduler(schedule string, digest *Digest, logger zerolog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := digest.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("Digest run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("entries", len(s.cron.Entries())).Msg("Job scheduler started")
}

// Stop halts scheduling and waits for a running job up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Timed out waiting for running jobs to finish")
	}
}
