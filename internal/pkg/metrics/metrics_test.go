package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesRecordedSeries(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/rooms", http.StatusForbidden, 20*time.Millisecond)
	m.Assignment("ok")
	m.RateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`hostelhub_http_requests_total{method="POST",route="/api/rooms",status="403"} 1`,
		`hostelhub_room_assignments_total{outcome="ok"} 1`,
		`hostelhub_rate_limited_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Second)
	m.Assignment("ok")
	m.RequestFiled("leave")
	m.NoticeEvent("notice.created")
	m.DigestRun("ok")
	m.RateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
