package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/app/repositories/memory"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
)

type digestMailer struct {
	sent    map[string]email.Digest
	failFor string
}

func (m *digestMailer) SendStudentIDEmail(string, string, string) error { return nil }

func (m *digestMailer) SendDigestEmail(to string, d email.Digest) error {
	if to == m.failFor {
		return errors.New("smtp down")
	}
	if m.sent == nil {
		m.sent = map[string]email.Digest{}
	}
	m.sent[to] = d
	return nil
}

func seedDigestData(t *testing.T) *repositories.Repositories {
	t.Helper()
	ctx := context.Background()
	repos := memory.New().Repositories()

	for _, a := range []*models.Admin{
		{Username: "admin", Email: "admin@example.com", PasswordHash: "x"},
		{Username: "warden", Email: "warden@example.com", PasswordHash: "x"},
	} {
		if err := repos.Admins.Create(ctx, a); err != nil {
			t.Fatalf("create admin: %v", err)
		}
	}
	room := &models.Room{RoomNumber: "A1", Capacity: 2, RoomType: models.DefaultRoomType, AvailabilityStatus: models.RoomAvailable}
	if err := repos.Rooms.Create(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}
	return repos
}

func TestDigestMailsEveryAdmin(t *testing.T) {
	repos := seedDigestData(t)
	mailer := &digestMailer{}
	m := metrics.New()

	if err := NewDigest(repos, mailer, m, zerolog.Nop()).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d digests, want 2", len(mailer.sent))
	}
	got := mailer.sent["warden@example.com"]
	if got.AdminName != "warden" || got.AvailableRooms != 1 || got.PendingLeave != 0 {
		t.Errorf("digest = %+v", got)
	}
	assertMetric(t, m, `hostelhub_digest_runs_total{outcome="ok"} 1`)
}

func TestDigestKeepsGoingAfterFailedSend(t *testing.T) {
	repos := seedDigestData(t)
	mailer := &digestMailer{failFor: "admin@example.com"}
	m := metrics.New()

	err := NewDigest(repos, mailer, m, zerolog.Nop()).Run(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := mailer.sent["warden@example.com"]; !ok {
		t.Error("second admin was skipped")
	}
	assertMetric(t, m, `hostelhub_digest_runs_total{outcome="error"} 1`)
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	d := NewDigest(memory.New().Repositories(), &digestMailer{}, nil, zerolog.Nop())
	if _, err := NewScheduler("not a schedule", d, zerolog.Nop()); err == nil {
		t.Fatal("expected an error")
	}
	s, err := NewScheduler("0 8 * * *", d, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Start()
	s.Stop(context.Background())
}

func assertMetric(t *testing.T, m *metrics.Metrics, want string) {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("metrics missing %s", want)
	}
}
