package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/repositories"
	"github.com/yigit/hostelhub/internal/app/repositories/memory"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
)

var testNow = time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func strPtr(s string) *string { return &s }

type sentMail struct {
	to, name, studentID string
}

type recordingMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	digests []email.Digest
}

func (m *recordingMailer) SendStudentIDEmail(to, name, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, name, studentID})
	return nil
}

func (m *recordingMailer) SendDigestEmail(_ string, d email.Digest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digests = append(m.digests, d)
	return nil
}

type publishedEvent struct {
	eventType string
	data      interface{}
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, data interface{}) {
	p.events = append(p.events, publishedEvent{eventType, data})
}

type fixture struct {
	repos       *repositories.Repositories
	jwt         *auth.JWTService
	auth        AuthService
	students    StudentService
	rooms       RoomService
	leaves      LeaveService
	maintenance MaintenanceService
	notices     NoticeService
	attendance  AttendanceService
	admins      AdminService
	mail        *recordingMailer
	events      *recordingPublisher
	admin       *appAuth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := memory.NewWithClock(fixedClock).Repositories()
	logger := zerolog.Nop()
	m := metrics.New()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 24 * time.Hour,
		TokenIssuer:    "hostelhub.test",
	}).WithClock(fixedClock)

	f := &fixture{
		repos:  repos,
		jwt:    jwtService,
		mail:   &recordingMailer{},
		events: &recordingPublisher{},
	}
	f.auth = NewAuthService(repos, jwtService, f.mail, "PFX", fixedClock, logger)
	f.students = NewStudentService(repos, f.mail, "PFX", fixedClock, logger)
	f.rooms = NewRoomService(repos, m, logger)
	f.leaves = NewLeaveService(repos, m, logger)
	f.maintenance = NewMaintenanceService(repos, m, logger)
	f.notices = NewNoticeService(repos, f.events, m, logger)
	f.attendance = NewAttendanceService(repos, fixedClock, logger)
	f.admins = NewAdminService(repos, logger)

	admin, err := f.admins.CreateAdmin(context.Background(), "admin", "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	f.admin = &appAuth.Principal{
		ID:    strconv.FormatInt(admin.ID, 10),
		Role:  models.RoleAdmin,
		Email: admin.Email,
		Name:  admin.Username,
	}
	return f
}

func (f *fixture) register(t *testing.T, name, mail string) (*models.Student, *appAuth.Principal) {
	t.Helper()
	resp, err := f.auth.RegisterStudent(context.Background(), &dto.StudentRegisterRequest{
		Name:           name,
		Email:          mail,
		Contact:        "9876543210",
		Password:       "secret1",
		RoomPreference: "double",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return resp.Student, &appAuth.Principal{
		ID:    resp.Student.ID,
		Role:  models.RoleStudent,
		Email: resp.Student.Email,
		Name:  resp.Student.Name,
	}
}

func (f *fixture) createRoom(t *testing.T, number string, capacity int) {
	t.Helper()
	if _, err := f.rooms.CreateRoom(context.Background(), f.admin, &dto.CreateRoomRequest{
		RoomNumber: number,
		Capacity:   capacity,
	}); err != nil {
		t.Fatalf("create room %s: %v", number, err)
	}
}

func (f *fixture) assign(t *testing.T, room, studentID string) {
	t.Helper()
	if _, err := f.rooms.AssignStudent(context.Background(), f.admin, room, studentID); err != nil {
		t.Fatalf("assign %s to %s: %v", studentID, room, err)
	}
}

func (f *fixture) fileLeave(t *testing.T, p *appAuth.Principal, start, end string) *models.LeaveRequest {
	t.Helper()
	leave, err := f.leaves.CreateLeave(context.Background(), p, &dto.CreateLeaveRequest{
		StartDate: start,
		EndDate:   end,
		Reason:    "Family function",
	})
	if err != nil {
		t.Fatalf("file leave %s..%s: %v", start, end, err)
	}
	return leave
}

func (f *fixture) roomOf(t *testing.T, studentID string) string {
	t.Helper()
	s, err := f.repos.Students.GetByID(context.Background(), studentID)
	if err != nil {
		t.Fatalf("get student %s: %v", studentID, err)
	}
	return s.CurrentRoom()
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	if ann.ID != "PFX2025001" {
		t.Fatalf("student id = %s, want PFX2025001", ann.ID)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].studentID != ann.ID {
		t.Errorf("student id mail not sent: %+v", f.mail.sent)
	}

	f.createRoom(t, "A1", 2)
	room, err := f.rooms.AssignStudent(ctx, f.admin, "A1", ann.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if room.OccupiedBeds != 1 || room.AvailableBeds != 1 {
		t.Errorf("occupancy = %d/%d, want 1 occupied 1 free", room.OccupiedBeds, room.AvailableBeds)
	}

	leave := f.fileLeave(t, annP, "2025-01-10", "2025-01-12")
	if leave.Status != models.LeaveStatusPending || leave.LeaveType != models.DefaultLeaveType {
		t.Errorf("new leave = %s/%s, want pending/Personal", leave.Status, leave.LeaveType)
	}
	if leave.StudentName != "Ann Lee" {
		t.Errorf("student_name = %q", leave.StudentName)
	}

	approved, err := f.leaves.SetStatus(ctx, f.admin, leave.ID, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusApproved})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.LeaveStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}

	_, err = f.leaves.CreateLeave(ctx, annP, &dto.CreateLeaveRequest{StartDate: "2025-01-11", EndDate: "2025-01-13", Reason: "Trip"})
	if !errors.Is(err, apperrors.ErrLeaveOverlap) {
		t.Fatalf("overlapping leave error = %v, want ErrLeaveOverlap", err)
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("overlap should be a conflict, got %v", err)
	}
}

func TestNewStudentsStartPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 2)

	registered, _ := f.register(t, "Ann Lee", "ann@example.com")
	created, err := f.students.CreateStudent(ctx, f.admin, &dto.CreateStudentRequest{
		Name:       "Bob Stone",
		Email:      "bob@example.com",
		Password:   "secret1",
		RoomNumber: strPtr("A1"),
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}

	for _, s := range []*models.Student{registered, created} {
		if s.Status != models.StudentStatusPending {
			t.Errorf("%s status = %s, want pending", s.ID, s.Status)
		}
	}
	if created.ID != "PFX2025002" {
		t.Errorf("second id = %s, want PFX2025002", created.ID)
	}
	if f.roomOf(t, created.ID) != "A1" {
		t.Errorf("admin create did not assign the room")
	}

	activated, err := f.students.UpdateStatus(ctx, f.admin, created.ID, models.StudentStatusActive)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if activated.Status != models.StudentStatusActive {
		t.Errorf("status = %s, want active", activated.Status)
	}
	if _, err := f.students.UpdateStatus(ctx, f.admin, created.ID, models.StudentStatusPending); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("setting pending: got %v, want validation error", err)
	}
}

func TestAdminCreateRollsBackOnFullRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 1)
	ann, _ := f.register(t, "Ann Lee", "ann@example.com")
	f.assign(t, "A1", ann.ID)

	_, err := f.students.CreateStudent(ctx, f.admin, &dto.CreateStudentRequest{
		Name:       "Bob Stone",
		Email:      "bob@example.com",
		Password:   "secret1",
		RoomNumber: strPtr("A1"),
	})
	if !errors.Is(err, apperrors.ErrRoomFull) {
		t.Fatalf("got %v, want ErrRoomFull", err)
	}
	if _, err := f.repos.Students.GetByEmail(ctx, "bob@example.com"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("student row survived the failed create: %v", err)
	}
}

func TestDuplicateEmailLeavesOneRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ann Lee", "ann@example.com")

	_, err := f.auth.RegisterStudent(ctx, &dto.StudentRegisterRequest{
		Name:           "Ann Again",
		Email:          "ANN@example.com",
		Contact:        "9876543210",
		Password:       "secret1",
		RoomPreference: "single",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("got %v, want ErrEmailAlreadyExists", err)
	}

	n, err := f.repos.Students.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("students = %d, want 1", n)
	}

	bob, _ := f.register(t, "Bob Stone", "bob@example.com")
	if bob.ID != "PFX2025002" {
		t.Errorf("id after failed registration = %s, want PFX2025002", bob.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  dto.StudentRegisterRequest
	}{
		{"short name", dto.StudentRegisterRequest{Name: "Al", Email: "al@example.com", Contact: "9876543210", Password: "secret1", RoomPreference: "x"}},
		{"bad contact", dto.StudentRegisterRequest{Name: "Alan", Email: "al@example.com", Contact: "12345", Password: "secret1", RoomPreference: "x"}},
		{"short password", dto.StudentRegisterRequest{Name: "Alan", Email: "al@example.com", Contact: "9876543210", Password: "abc", RoomPreference: "x"}},
		{"no preference", dto.StudentRegisterRequest{Name: "Alan", Email: "al@example.com", Contact: "9876543210", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := f.auth.RegisterStudent(context.Background(), &req); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, _ := f.register(t, "Ann Lee", "ann@example.com")

	if _, err := f.auth.LoginStudent(ctx, &dto.StudentLoginRequest{Email: "ann@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := f.auth.LoginStudent(ctx, &dto.StudentLoginRequest{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("unknown email: got %v", err)
	}

	resp, err := f.auth.LoginStudent(ctx, &dto.StudentLoginRequest{Email: " Ann@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	p, err := f.auth.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.ID != ann.ID || !p.IsStudent() {
		t.Errorf("principal = %+v", p)
	}

	adminResp, err := f.auth.LoginAdmin(ctx, &dto.AdminLoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	ap, err := f.auth.Authenticate(ctx, adminResp.Token)
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}
	if !ap.IsAdmin() || ap.ID != f.admin.ID {
		t.Errorf("admin principal = %+v", ap)
	}

	if _, err := f.auth.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage token: got %v", err)
	}

	expired, _, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "hostelhub.test",
	}).WithClock(func() time.Time { return testNow.Add(-2 * time.Hour) }).
		GenerateToken(auth.Subject{ID: ann.ID, Role: "student"})
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: got %v", err)
	}
}

func TestAssignmentConflictsWriteNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 1)
	f.createRoom(t, "B1", 2)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	bob, _ := f.register(t, "Bob Stone", "bob@example.com")
	f.assign(t, "A1", ann.ID)

	if _, err := f.rooms.AssignStudent(ctx, f.admin, "A1", bob.ID); !errors.Is(err, apperrors.ErrRoomFull) {
		t.Errorf("full room: got %v", err)
	}
	if got := f.roomOf(t, bob.ID); got != "" {
		t.Errorf("bob room = %q after failed assignment", got)
	}

	_, err := f.rooms.AssignStudent(ctx, f.admin, "B1", ann.ID)
	if !errors.Is(err, apperrors.ErrAlreadyAssigned) {
		t.Fatalf("double assignment: got %v", err)
	}
	if err.Error() != "Student is already assigned to room A1" {
		t.Errorf("message = %q", err.Error())
	}
	if got := f.roomOf(t, ann.ID); got != "A1" {
		t.Errorf("ann room = %q, want A1", got)
	}
	b1, err := f.rooms.GetRoom(ctx, "B1")
	if err != nil {
		t.Fatalf("get B1: %v", err)
	}
	if b1.OccupiedBeds != 0 || len(b1.Students) != 0 {
		t.Errorf("B1 occupancy changed: %d", b1.OccupiedBeds)
	}

	maint := models.RoomMaintenance
	if _, err := f.rooms.UpdateRoom(ctx, f.admin, "B1", &dto.UpdateRoomRequest{AvailabilityStatus: &maint}); err != nil {
		t.Fatalf("flag B1: %v", err)
	}
	if _, err := f.rooms.AssignStudent(ctx, f.admin, "B1", bob.ID); !errors.Is(err, apperrors.ErrRoomNotAvailable) {
		t.Errorf("unavailable room: got %v", err)
	}
	if _, err := f.rooms.AssignStudent(ctx, f.admin, "Z9", bob.ID); !errors.Is(err, apperrors.ErrRoomNotFound) {
		t.Errorf("unknown room: got %v", err)
	}
	if _, err := f.rooms.AssignStudent(ctx, f.admin, "A1", "PFX2025999"); !errors.Is(err, apperrors.ErrRoomFull) {
		t.Errorf("full room is reported before the unknown student: got %v", err)
	}
	if _, err := f.rooms.AssignStudent(ctx, annP, "B1", bob.ID); !errors.Is(err, appAuth.ErrAdminOnly) {
		t.Errorf("student caller: got %v", err)
	}

	available, err := f.rooms.ListAvailableRooms(ctx)
	if err != nil {
		t.Fatalf("available rooms: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("available rooms = %d, want 0 (A1 full, B1 flagged)", len(available))
	}
}

func TestOccupancyNeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 2)
	ann, _ := f.register(t, "Ann Lee", "ann@example.com")
	bob, _ := f.register(t, "Bob Stone", "bob@example.com")
	cat, _ := f.register(t, "Cat Moore", "cat@example.com")

	f.assign(t, "A1", ann.ID)
	f.assign(t, "A1", bob.ID)
	if _, err := f.rooms.AssignStudent(ctx, f.admin, "A1", cat.ID); !errors.Is(err, apperrors.ErrRoomFull) {
		t.Errorf("third assignment: got %v", err)
	}

	one := 1
	if _, err := f.rooms.UpdateRoom(ctx, f.admin, "A1", &dto.UpdateRoomRequest{Capacity: &one}); !errors.Is(err, apperrors.ErrCapacityBelowOccupancy) {
		t.Errorf("shrink below occupancy: got %v", err)
	}

	if _, err := f.rooms.RemoveStudent(ctx, f.admin, "B9", bob.ID); !errors.Is(err, apperrors.ErrStudentNotInRoom) {
		t.Errorf("remove from wrong room: got %v", err)
	}
	room, err := f.rooms.RemoveStudent(ctx, f.admin, "A1", bob.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if room.OccupiedBeds != 1 {
		t.Errorf("occupied = %d after removal, want 1", room.OccupiedBeds)
	}

	room, err = f.rooms.UpdateRoom(ctx, f.admin, "A1", &dto.UpdateRoomRequest{Capacity: &one})
	if err != nil {
		t.Fatalf("shrink to occupancy: %v", err)
	}
	if room.Capacity != 1 || room.AvailableBeds != 0 {
		t.Errorf("room = %+v", room)
	}

	rooms, err := f.rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, r := range rooms {
		if r.OccupiedBeds > r.Capacity {
			t.Errorf("room %s occupied %d > capacity %d", r.RoomNumber, r.OccupiedBeds, r.Capacity)
		}
	}

	if err := f.rooms.DeleteRoom(ctx, f.admin, "A1"); !errors.Is(err, apperrors.ErrRoomHasStudents) {
		t.Errorf("delete occupied room: got %v", err)
	}
	if _, err := f.rooms.RemoveStudent(ctx, f.admin, "A1", ann.ID); err != nil {
		t.Fatalf("remove ann: %v", err)
	}
	if err := f.rooms.DeleteRoom(ctx, f.admin, "A1"); err != nil {
		t.Errorf("delete empty room: %v", err)
	}
}

func TestDuplicateRoomNumber(t *testing.T) {
	f := newFixture(t)
	f.createRoom(t, "A1", 2)
	_, err := f.rooms.CreateRoom(context.Background(), f.admin, &dto.CreateRoomRequest{RoomNumber: "A1", Capacity: 3})
	if !errors.Is(err, apperrors.ErrRoomAlreadyExists) {
		t.Errorf("got %v, want ErrRoomAlreadyExists", err)
	}
}

func TestStudentUpdateRoomRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 1)
	f.createRoom(t, "B1", 1)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	bob, bobP := f.register(t, "Bob Stone", "bob@example.com")
	f.assign(t, "A1", ann.ID)

	if _, err := f.students.UpdateStudent(ctx, annP, ann.ID, &dto.UpdateStudentRequest{RoomNumber: strPtr("B1")}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student changing room: got %v", err)
	}
	if _, err := f.students.UpdateStudent(ctx, bobP, ann.ID, &dto.UpdateStudentRequest{Name: strPtr("Mallory")}); !errors.Is(err, appAuth.ErrNotOwner) {
		t.Errorf("editing someone else: got %v", err)
	}
	if _, err := f.students.UpdateStudent(ctx, annP, ann.ID, &dto.UpdateStudentRequest{Email: strPtr("bob@example.com")}); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("email collision: got %v", err)
	}

	updated, err := f.students.UpdateStudent(ctx, annP, ann.ID, &dto.UpdateStudentRequest{Name: strPtr("Ann Marie Lee")})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Name != "Ann Marie Lee" || updated.CurrentRoom() != "A1" {
		t.Errorf("updated = %+v", updated)
	}

	moved, err := f.students.UpdateStudent(ctx, f.admin, ann.ID, &dto.UpdateStudentRequest{RoomNumber: strPtr("B1")})
	if err != nil {
		t.Fatalf("admin move: %v", err)
	}
	if moved.CurrentRoom() != "B1" {
		t.Errorf("room = %q, want B1", moved.CurrentRoom())
	}

	if _, err := f.students.UpdateStudent(ctx, f.admin, bob.ID, &dto.UpdateStudentRequest{RoomNumber: strPtr("B1")}); !errors.Is(err, apperrors.ErrRoomFull) {
		t.Errorf("move into full room: got %v", err)
	}

	cleared, err := f.students.UpdateStudent(ctx, f.admin, ann.ID, &dto.UpdateStudentRequest{RoomNumber: strPtr("")})
	if err != nil {
		t.Fatalf("clear room: %v", err)
	}
	if cleared.HasRoom() {
		t.Errorf("room not cleared: %v", cleared.RoomNumber)
	}

	unassigned, err := f.students.ListStudents(ctx, f.admin, dto.StudentListQuery{Unassigned: true})
	if err != nil {
		t.Fatalf("list unassigned: %v", err)
	}
	if len(unassigned) != 2 {
		t.Errorf("unassigned = %d, want 2", len(unassigned))
	}
}

func TestStudentAccessAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	_, bobP := f.register(t, "Bob Stone", "bob@example.com")
	f.fileLeave(t, annP, "2025-02-01", "2025-02-02")

	if _, err := f.students.GetStudent(ctx, annP, ann.ID); err != nil {
		t.Errorf("self read: %v", err)
	}
	if _, err := f.students.GetStudent(ctx, bobP, ann.ID); !errors.Is(err, appAuth.ErrNotOwner) {
		t.Errorf("cross read: got %v", err)
	}
	if _, err := f.students.GetStudent(ctx, f.admin, "PFX2025999"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
	if _, err := f.students.ListStudents(ctx, annP, dto.StudentListQuery{}); !errors.Is(err, appAuth.ErrAdminOnly) {
		t.Errorf("student listing: got %v", err)
	}

	if err := f.students.DeleteStudent(ctx, f.admin, ann.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	leaves, err := f.leaves.ListAll(ctx, f.admin, "")
	if err != nil {
		t.Fatalf("list leaves: %v", err)
	}
	if len(leaves) != 0 {
		t.Errorf("leave requests survived student delete: %d", len(leaves))
	}
	if err := f.students.DeleteStudent(ctx, f.admin, ann.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestLeaveDeleteOnlyWhilePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, annP := f.register(t, "Ann Lee", "ann@example.com")
	_, bobP := f.register(t, "Bob Stone", "bob@example.com")

	pending := f.fileLeave(t, annP, "2025-01-10", "2025-01-12")
	decided := f.fileLeave(t, annP, "2025-02-10", "2025-02-12")
	if _, err := f.leaves.SetStatus(ctx, f.admin, decided.ID, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := f.leaves.DeleteLeave(ctx, bobP, pending.ID); !errors.Is(err, appAuth.ErrNotOwner) {
		t.Errorf("other student delete: got %v", err)
	}
	if err := f.leaves.DeleteLeave(ctx, annP, decided.ID); !errors.Is(err, apperrors.ErrRequestNotPending) {
		t.Errorf("owner delete of approved request: got %v", err)
	}
	if got, err := f.repos.Leaves.GetByID(ctx, decided.ID); err != nil || got.Status != models.LeaveStatusApproved {
		t.Errorf("approved request changed: %v %v", got, err)
	}

	if err := f.leaves.DeleteLeave(ctx, annP, pending.ID); err != nil {
		t.Errorf("owner delete of pending request: %v", err)
	}
	if err := f.leaves.DeleteLeave(ctx, f.admin, decided.ID); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if err := f.leaves.DeleteLeave(ctx, f.admin, decided.ID); !errors.Is(err, apperrors.ErrLeaveRequestNotFound) {
		t.Errorf("delete twice: got %v", err)
	}
}

func TestLeaveOverlapAcrossStatusChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	_, bobP := f.register(t, "Bob Stone", "bob@example.com")

	first := f.fileLeave(t, annP, "2025-01-10", "2025-01-12")
	if _, err := f.leaves.SetStatus(ctx, f.admin, first.ID, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusRejected, AdminNotes: strPtr(" exams ")}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Rejected requests do not block, and other students never do.
	second := f.fileLeave(t, annP, "2025-01-12", "2025-01-14")
	f.fileLeave(t, bobP, "2025-01-10", "2025-01-14")

	if _, err := f.leaves.SetStatus(ctx, f.admin, first.ID, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusPending}); !errors.Is(err, apperrors.ErrLeaveOverlap) {
		t.Errorf("reopening an overlapping request: got %v", err)
	}

	// Re-applying the current status is idempotent.
	for i := 0; i < 2; i++ {
		if _, err := f.leaves.SetStatus(ctx, f.admin, second.ID, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusApproved}); err != nil {
			t.Fatalf("approve #%d: %v", i+1, err)
		}
	}

	if _, err := f.leaves.CreateLeave(ctx, annP, &dto.CreateLeaveRequest{StartDate: "2025-01-20", EndDate: "2025-01-19", Reason: "x"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("reversed range: got %v", err)
	}
	if _, err := f.leaves.CreateLeave(ctx, f.admin, &dto.CreateLeaveRequest{StartDate: "2025-03-01", EndDate: "2025-03-02", Reason: "x"}); !errors.Is(err, appAuth.ErrStudentOnly) {
		t.Errorf("admin filing leave: got %v", err)
	}
	if _, err := f.leaves.SetStatus(ctx, f.admin, 999, &dto.UpdateLeaveStatusRequest{Status: models.LeaveStatusApproved}); !errors.Is(err, apperrors.ErrLeaveRequestNotFound) {
		t.Errorf("unknown id: got %v", err)
	}

	mine, err := f.leaves.ListForStudent(ctx, annP, ann.ID)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("own requests = %d, want 2", len(mine))
	}
	for _, l := range mine {
		if l.ID == first.ID && (l.AdminNotes == nil || *l.AdminNotes != "exams") {
			t.Errorf("admin notes = %v", l.AdminNotes)
		}
	}
	if _, err := f.leaves.ListForStudent(ctx, bobP, ann.ID); !errors.Is(err, appAuth.ErrNotOwner) {
		t.Errorf("cross listing: got %v", err)
	}

	pendingOnly, err := f.leaves.ListAll(ctx, f.admin, "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pendingOnly) != 1 {
		t.Errorf("pending = %d, want 1", len(pendingOnly))
	}
	if _, err := f.leaves.ListAll(ctx, f.admin, "archived"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad filter: got %v", err)
	}
}

func TestMaintenanceRoomResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 2)
	f.createRoom(t, "B1", 2)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")

	req := &dto.CreateMaintenanceRequest{IssueType: "plumbing", Description: "Tap is leaking"}
	if _, err := f.maintenance.CreateRequest(ctx, annP, req); !errors.Is(err, apperrors.ErrNoRoomAssigned) {
		t.Errorf("no room: got %v", err)
	}

	req.RoomNumber = "Z9"
	if _, err := f.maintenance.CreateRequest(ctx, annP, req); !errors.Is(err, apperrors.ErrInvalidRoom) {
		t.Errorf("unknown room: got %v", err)
	}

	f.assign(t, "A1", ann.ID)
	req.RoomNumber = ""
	ticket, err := f.maintenance.CreateRequest(ctx, annP, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.RoomNumber != "A1" || ticket.Priority != models.PriorityMedium || ticket.Status != models.MaintenanceStatusPending {
		t.Errorf("ticket = %+v", ticket)
	}

	req.RoomNumber = "B1"
	req.Priority = models.PriorityHigh
	other, err := f.maintenance.CreateRequest(ctx, annP, req)
	if err != nil {
		t.Fatalf("create for explicit room: %v", err)
	}
	if other.RoomNumber != "B1" {
		t.Errorf("room = %s, want B1", other.RoomNumber)
	}

	done, err := f.maintenance.SetStatus(ctx, f.admin, ticket.ID, &dto.UpdateMaintenanceStatusRequest{Status: models.MaintenanceStatusCompleted})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.MaintenanceStatusCompleted {
		t.Errorf("status = %s", done.Status)
	}
	if err := f.maintenance.DeleteRequest(ctx, annP, ticket.ID); !errors.Is(err, apperrors.ErrRequestNotPending) {
		t.Errorf("owner delete of completed ticket: got %v", err)
	}
	if err := f.maintenance.DeleteRequest(ctx, annP, other.ID); err != nil {
		t.Errorf("owner delete of pending ticket: %v", err)
	}
	if _, err := f.maintenance.SetStatus(ctx, annP, ticket.ID, &dto.UpdateMaintenanceStatusRequest{Status: models.MaintenanceStatusRejected}); !errors.Is(err, appAuth.ErrAdminOnly) {
		t.Errorf("student status change: got %v", err)
	}
}

func TestAttendanceReplacesOnlyThatDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	bob, _ := f.register(t, "Bob Stone", "bob@example.com")

	upload := func(date string, entries ...dto.AttendanceEntry) (*dto.AttendanceUploadResponse, error) {
		return f.attendance.RecordForDate(ctx, f.admin, &dto.AttendanceUploadRequest{Date: date, Records: entries})
	}

	if _, err := upload("2025-01-03",
		dto.AttendanceEntry{StudentID: ann.ID, Status: models.AttendancePresent},
		dto.AttendanceEntry{StudentID: bob.ID, Status: models.AttendanceAbsent},
	); err != nil {
		t.Fatalf("upload day 3: %v", err)
	}
	if _, err := upload("2025-01-04", dto.AttendanceEntry{StudentID: ann.ID, Status: models.AttendanceLate}); err != nil {
		t.Fatalf("upload day 4: %v", err)
	}

	resp, err := upload("2025-01-03", dto.AttendanceEntry{StudentID: ann.ID, Status: models.AttendanceAbsent})
	if err != nil {
		t.Fatalf("re-upload day 3: %v", err)
	}
	if resp.Inserted != 1 || resp.Replaced != 2 {
		t.Errorf("response = %+v, want 1 inserted 2 replaced", resp)
	}

	day3, err := f.attendance.ListForDate(ctx, f.admin, "2025-01-03")
	if err != nil {
		t.Fatalf("list day 3: %v", err)
	}
	if len(day3) != 1 || day3[0].Status != models.AttendanceAbsent {
		t.Errorf("day 3 = %+v", day3)
	}
	day4, err := f.attendance.ListForDate(ctx, f.admin, "2025-01-04")
	if err != nil {
		t.Fatalf("list day 4: %v", err)
	}
	if len(day4) != 1 || day4[0].Status != models.AttendanceLate {
		t.Errorf("day 4 touched: %+v", day4)
	}

	if _, err := upload("2025-01-03", dto.AttendanceEntry{StudentID: "PFX2025999", Status: models.AttendancePresent}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("unknown student: got %v", err)
	}
	if _, err := upload("2025-01-03",
		dto.AttendanceEntry{StudentID: bob.ID, Status: models.AttendancePresent},
		dto.AttendanceEntry{StudentID: bob.ID, Status: models.AttendanceLate},
	); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("duplicate student: got %v", err)
	}
	day3, _ = f.attendance.ListForDate(ctx, f.admin, "2025-01-03")
	if len(day3) != 1 || day3[0].StudentID != ann.ID {
		t.Errorf("failed uploads changed day 3: %+v", day3)
	}

	own, err := f.attendance.ListForStudent(ctx, annP, ann.ID)
	if err != nil {
		t.Fatalf("own attendance: %v", err)
	}
	if len(own) != 2 || own[0].Date.String() != "2025-01-04" {
		t.Errorf("own attendance = %+v", own)
	}
	if _, err := f.attendance.ListForStudent(ctx, annP, bob.ID); !errors.Is(err, appAuth.ErrNotOwner) {
		t.Errorf("cross read: got %v", err)
	}

	stats, err := f.attendance.Stats(ctx, f.admin, 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 || stats[0].Date.String() != "2025-01-04" || stats[1].Absent != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := f.attendance.Stats(ctx, f.admin, 400); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("oversized window: got %v", err)
	}
}

func TestNoticeWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, annP := f.register(t, "Ann Lee", "ann@example.com")

	if _, err := f.notices.CreateNotice(ctx, annP, &dto.CreateNoticeRequest{Title: "Party", Content: "Tonight"}); !errors.Is(err, appAuth.ErrAdminOnly) {
		t.Errorf("student notice: got %v", err)
	}

	notice, err := f.notices.CreateNotice(ctx, f.admin, &dto.CreateNoticeRequest{Title: "Water outage", Content: "10am to 2pm"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notice.Priority != models.NoticePriorityNormal || notice.AdminName != "admin" {
		t.Errorf("notice = %+v", notice)
	}

	title := "Water outage extended"
	if _, err := f.notices.UpdateNotice(ctx, f.admin, notice.ID, &dto.UpdateNoticeRequest{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	short := "No"
	if _, err := f.notices.UpdateNotice(ctx, f.admin, notice.ID, &dto.UpdateNoticeRequest{Title: &short}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("short title: got %v", err)
	}
	if err := f.notices.DeleteNotice(ctx, f.admin, notice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.notices.GetNotice(ctx, notice.ID); !errors.Is(err, apperrors.ErrNoticeNotFound) {
		t.Errorf("deleted notice: got %v", err)
	}

	want := []string{EventNoticeCreated, EventNoticeUpdated, EventNoticeDeleted}
	if len(f.events.events) != len(want) {
		t.Fatalf("events = %+v", f.events.events)
	}
	for i, ev := range f.events.events {
		if ev.eventType != want[i] {
			t.Errorf("event %d = %s, want %s", i, ev.eventType, want[i])
		}
	}
	if updated, ok := f.events.events[1].data.(*models.Notice); !ok || updated.Title != title {
		t.Errorf("update event payload = %+v", f.events.events[1].data)
	}
}

func TestAdminAccountsAndDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createRoom(t, "A1", 1)
	f.createRoom(t, "B1", 2)
	ann, annP := f.register(t, "Ann Lee", "ann@example.com")
	f.register(t, "Bob Stone", "bob@example.com")
	f.assign(t, "A1", ann.ID)
	f.fileLeave(t, annP, "2025-01-10", "2025-01-12")
	if _, err := f.maintenance.CreateRequest(ctx, annP, &dto.CreateMaintenanceRequest{IssueType: "electrical", Description: "Fan broken"}); err != nil {
		t.Fatalf("ticket: %v", err)
	}

	dash, err := f.admins.Dashboard(ctx, f.admin)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Students.Total != 2 || dash.Rooms.Total != 2 || dash.Pending.Leave != 1 || dash.Pending.Maintenance != 1 {
		t.Errorf("dashboard = %+v", dash)
	}
	if dash.Rooms.Available+dash.Rooms.Occupied != dash.Rooms.Total {
		t.Errorf("room counts do not add up: %+v", dash.Rooms)
	}
	if _, err := f.admins.Dashboard(ctx, annP); !errors.Is(err, appAuth.ErrAdminOnly) {
		t.Errorf("student dashboard: got %v", err)
	}

	if _, err := f.admins.RegisterAdmin(ctx, f.admin, &dto.AdminRegisterRequest{Username: "admin", Email: "other@example.com", Password: "secret1"}); !errors.Is(err, apperrors.ErrAdminAlreadyExists) {
		t.Errorf("duplicate username: got %v", err)
	}
	warden, err := f.admins.RegisterAdmin(ctx, f.admin, &dto.AdminRegisterRequest{Username: "warden", Email: "warden@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if warden.PasswordHash == "secret1" || warden.PasswordHash == "" {
		t.Error("password was not hashed")
	}

	if err := f.admins.ChangePassword(ctx, f.admin, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "n3wSecret"}); !errors.Is(err, apperrors.ErrWrongCurrentPassword) {
		t.Errorf("wrong current password: got %v", err)
	}
	if err := f.admins.ChangePassword(ctx, f.admin, &dto.ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "n3wSecret"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.auth.LoginAdmin(ctx, &dto.AdminLoginRequest{Username: "admin", Password: "n3wSecret"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestNextStudentIDPadsSequence(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewWithClock(fixedClock).Repositories()
	var last string
	for i := 0; i < 1000; i++ {
		id, err := NextStudentID(ctx, repos.Counters, "MVGR", testNow)
		if err != nil {
			t.Fatalf("NextStudentID: %v", err)
		}
		last = id
	}
	if last != "MVGR20251000" {
		t.Errorf("1000th id = %s, want MVGR20251000", last)
	}
}
