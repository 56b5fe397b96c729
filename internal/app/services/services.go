// Package services implements the hostel workflows on top of the repositories.
//
// Services defined in this package:
//   - AuthService: student registration and login, admin login, token authentication
//   - StudentService: the student directory and its status lifecycle
//   - RoomService: room inventory and the assignment workflow
//   - LeaveService / MaintenanceService: request workflows
//   - NoticeService: the notice board and its live events
//   - AttendanceService: the attendance ledger
//   - AdminService: admin accounts and dashboard counters
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/pkg/email"
)

// StudentNumberCounter is the counter row that feeds student IDs
const StudentNumberCounter = "student_number"

// Notice event types pushed to websocket subscribers
const (
	EventNoticeCreated = "notice.created"
	EventNoticeUpdated = "notice.updated"
	EventNoticeDeleted = "notice.deleted"
)

// Clock returns the current time. Tests replace it with a fixed instant.
type Clock func() time.Time

// NoticePublisher fans notice events out to live subscribers
type NoticePublisher interface {
	Publish(eventType string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

// NextStudentID allocates the next sequential student ID, e.g. MVGR2025001.
// The counter increment is atomic, so concurrent registrations never share a number.
func NextStudentID(ctx context.Context, counters repositories.CounterRepository, prefix string, now time.Time) (string, error) {
	n, err := counters.Next(ctx, StudentNumberCounter)
	if err != nil {
		return "", fmt.Errorf("failed to allocate student number: %w", err)
	}
	return fmt.Sprintf("%s%d%03d", prefix, now.Year(), n), nil
}

// today returns the calendar day of the clock in UTC
func today(now Clock) models.Date {
	return models.NewDate(now().UTC())
}

// notFoundAs swaps a repository not-found error for a domain one
func notFoundAs(err error, domainErr error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return domainErr
	}
	return err
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// mailStudentID never fails the caller; delivery problems are only logged
func mailStudentID(emailService email.EmailService, logger zerolog.Logger, student *models.Student) {
	if emailService == nil {
		return
	}
	if err := emailService.SendStudentIDEmail(student.Email, student.Name, student.ID); err != nil {
		logger.Warn().Err(err).Str("studentID", student.ID).Msg("Failed to send student ID email")
	}
}
