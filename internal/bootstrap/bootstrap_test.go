package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/repositories/memory"
	"github.com/yigit/hostelhub/internal/config"
)

var start = time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "24h"
	cfg.JWT.Issuer = "hostelhub"
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 100
	cfg.RateLimit.Window = time.Minute
	cfg.Students.IDPrefix = "PFX"
	cfg.Admin.Username = "admin"
	cfg.Admin.Email = "admin@example.com"
	cfg.Admin.Password = "admin123"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

type harness struct {
	t      *testing.T
	now    time.Time
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, now: start}
	clock := func() time.Time { return h.now }

	cfg := testConfig()
	deps, err := BuildDependencies(cfg, Infrastructure{Repos: memory.NewWithClock(clock).Repositories(), Now: clock}, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	go deps.Hub.Run()
	t.Cleanup(deps.Hub.Close)

	SeedDefaults(context.Background(), cfg, deps)

	h.router, err = SetupRouter(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	return h
}

func (h *harness) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			h.t.Fatalf("%s %s: invalid JSON %q", method, path, rec.Body.String())
		}
	}
	return rec, out
}

func (h *harness) expect(method, path, token string, body interface{}, status int) map[string]interface{} {
	h.t.Helper()
	rec, out := h.do(method, path, token, body)
	if rec.Code != status {
		h.t.Fatalf("%s %s: status = %d, want %d, body %s", method, path, rec.Code, status, rec.Body.String())
	}
	return out
}

func (h *harness) adminToken() string {
	h.t.Helper()
	out := h.expect(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "admin123"}, http.StatusOK)
	return field(out, "data", "token").(string)
}

func (h *harness) registerStudent(email string) (id, token string) {
	h.t.Helper()
	out := h.expect(http.MethodPost, "/api/students/register", "", map[string]string{
		"name":            "Ann Lee",
		"email":           email,
		"contact":         "9876543210",
		"password":        "secret1",
		"room_preference": "double",
	}, http.StatusCreated)
	return field(out, "data", "student", "id").(string), field(out, "data", "token").(string)
}

func field(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, p := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[p]
	}
	return cur
}

func TestHostelScenarioOverHTTP(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	ann, annToken := h.registerStudent("ann@example.com")
	if ann != "PFX2025001" {
		t.Fatalf("student id = %s", ann)
	}

	h.expect(http.MethodPost, "/api/rooms", admin, map[string]interface{}{"room_number": "A1", "capacity": 2}, http.StatusCreated)
	out := h.expect(http.MethodPost, "/api/rooms/A1/assign", admin, map[string]string{"student_id": ann}, http.StatusOK)
	if got := field(out, "data", "occupied_beds"); got != float64(1) {
		t.Errorf("occupied_beds = %v", got)
	}

	out = h.expect(http.MethodPost, "/api/leave-requests", annToken, map[string]string{
		"start_date": "2025-01-10", "end_date": "2025-01-12", "reason": "Family function",
	}, http.StatusCreated)
	if field(out, "data", "status") != "pending" {
		t.Errorf("leave status = %v", field(out, "data", "status"))
	}
	leaveID := int64(field(out, "data", "id").(float64))

	h.expect(http.MethodPut, "/api/leave-requests/"+itoa(leaveID), admin, map[string]string{"status": "approved"}, http.StatusOK)

	out = h.expect(http.MethodPost, "/api/leave-requests", annToken, map[string]string{
		"start_date": "2025-01-11", "end_date": "2025-01-13", "reason": "Trip",
	}, http.StatusConflict)
	if field(out, "error", "details", "code") != "LEAVE_OVERLAP" {
		t.Errorf("error = %v", out["error"])
	}

	// Owner sees only their own records
	h.expect(http.MethodGet, "/api/leave-requests/student/"+ann, annToken, nil, http.StatusOK)
	other, _ := h.registerStudent("bob@example.com")
	h.expect(http.MethodGet, "/api/students/"+other, annToken, nil, http.StatusForbidden)
}

func TestStudentTokenIsForbiddenOnAdminRoutes(t *testing.T) {
	h := newHarness(t)
	_, token := h.registerStudent("ann@example.com")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/rooms"},
		{http.MethodGet, "/api/students"},
		{http.MethodPost, "/api/attendance/upload"},
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodPost, "/api/notices"},
	} {
		out := h.expect(tc.method, tc.path, token, map[string]string{}, http.StatusForbidden)
		if out["success"] != false || field(out, "error", "code") != "AUTH_009" {
			t.Errorf("%s %s: body %v", tc.method, tc.path, out)
		}
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	h.expect(http.MethodGet, "/api/rooms", token, nil, http.StatusOK)

	h.now = h.now.Add(25 * time.Hour)
	out := h.expect(http.MethodGet, "/api/rooms", token, nil, http.StatusUnauthorized)
	if _, ok := out["data"]; ok {
		t.Errorf("401 carried data: %v", out)
	}
	if field(out, "error", "code") != "AUTH_006" {
		t.Errorf("error = %v", out["error"])
	}
}

func TestRateLimitRejectsRequest101(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 100; i++ {
		h.expect(http.MethodGet, "/api/notices", "", nil, http.StatusUnauthorized)
	}
	rec, out := h.do(http.MethodGet, "/api/notices", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request 101 status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if out["message"] != "Too many requests, please try again later" {
		t.Errorf("message = %v", out["message"])
	}

	// Login is never limited
	for i := 0; i < 3; i++ {
		h.expect(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "admin123"}, http.StatusOK)
	}

	// A new window starts afresh
	h.now = h.now.Add(time.Minute)
	h.expect(http.MethodGet, "/api/notices", "", nil, http.StatusUnauthorized)
}

func TestResponseEnvelopes(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	out := h.expect(http.MethodGet, "/api/rooms", admin, nil, http.StatusOK)
	if out["success"] != true || out["timestamp"] == nil {
		t.Errorf("success envelope = %v", out)
	}
	if rooms, ok := out["data"].([]interface{}); !ok || len(rooms) != 5 {
		t.Errorf("sample rooms = %v", out["data"])
	}

	out = h.expect(http.MethodGet, "/api/rooms/ZZZ", admin, nil, http.StatusNotFound)
	if out["success"] != false || out["message"] == "" || field(out, "error", "code") == nil {
		t.Errorf("error envelope = %v", out)
	}

	out = h.expect(http.MethodPost, "/api/students/register", "", map[string]string{
		"name": "Ann Lee", "email": "ann@example.com", "contact": "12345", "password": "secret1", "room_preference": "double",
	}, http.StatusBadRequest)
	if field(out, "error", "code") != "VAL_001" {
		t.Errorf("validation error = %v", out["error"])
	}

	h.expect(http.MethodPut, "/api/leave-requests/abc", admin, map[string]string{"status": "approved"}, http.StatusBadRequest)
}

func TestOpsEndpoints(t *testing.T) {
	h := newHarness(t)
	h.adminToken()

	out := h.expect(http.MethodGet, "/health", "", nil, http.StatusOK)
	if field(out, "data", "status") != "ok" {
		t.Errorf("health = %v", out)
	}

	rec, _ := h.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `route="/api/admin/login"`) {
		t.Errorf("metrics status %d", rec.Code)
	}

	rec, _ = h.do(http.MethodGet, "/api/rooms", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
