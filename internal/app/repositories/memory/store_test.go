package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := NewWithClock(fixedClock).Repositories()

	if err := repos.Rooms.Create(ctx, &models.Room{RoomNumber: "A1", Capacity: 2, AvailabilityStatus: models.RoomAvailable}); err != nil {
		t.Fatalf("create room: %v", err)
	}

	boom := errors.New("boom")
	err := repos.WithTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.Students.Create(ctx, &models.Student{ID: "S1", Name: "Ann", Email: "ann@example.com", RoomNumber: strPtr("A1")}); err != nil {
			return err
		}
		if _, err := tx.Counters.Next(ctx, "student_number"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := repos.Students.GetByID(ctx, "S1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("student survived rollback: %v", err)
	}
	room, err := repos.Rooms.GetByNumber(ctx, "A1")
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if room.OccupiedBeds != 0 {
		t.Errorf("occupied beds = %d after rollback", room.OccupiedBeds)
	}
	if v, _ := repos.Counters.Next(ctx, "student_number"); v != 1 {
		t.Errorf("counter = %d, want 1 after rollback", v)
	}
}

func TestStudentConstraints(t *testing.T) {
	ctx := context.Background()
	repos := NewWithClock(fixedClock).Repositories()

	if err := repos.Students.Create(ctx, &models.Student{ID: "S1", Email: "Ann@Example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.Students.Create(ctx, &models.Student{ID: "S2", Email: "ann@example.com"}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("expected duplicate email error, got %v", err)
	}
	if err := repos.Students.SetRoom(ctx, "S1", strPtr("Z9")); !errors.Is(err, repositories.ErrInvalidReference) {
		t.Errorf("expected invalid reference, got %v", err)
	}
	if _, err := repos.Students.GetByEmail(ctx, "ANN@example.com"); err != nil {
		t.Errorf("case-insensitive lookup failed: %v", err)
	}
}

func TestRoomDeleteRefusedWhileOccupied(t *testing.T) {
	ctx := context.Background()
	repos := NewWithClock(fixedClock).Repositories()

	_ = repos.Rooms.Create(ctx, &models.Room{RoomNumber: "A1", Capacity: 1, AvailabilityStatus: models.RoomAvailable})
	_ = repos.Students.Create(ctx, &models.Student{ID: "S1", Email: "a@b.c", RoomNumber: strPtr("A1")})

	if err := repos.Rooms.Delete(ctx, "A1"); !errors.Is(err, repositories.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	_ = repos.Students.SetRoom(ctx, "S1", nil)
	if err := repos.Rooms.Delete(ctx, "A1"); err != nil {
		t.Fatalf("delete empty room: %v", err)
	}
}

func TestStudentDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repos := NewWithClock(fixedClock).Repositories()

	admin := &models.Admin{Username: "admin", Email: "admin@example.com"}
	_ = repos.Admins.Create(ctx, admin)
	_ = repos.Rooms.Create(ctx, &models.Room{RoomNumber: "A1", Capacity: 1})
	_ = repos.Students.Create(ctx, &models.Student{ID: "S1", Email: "a@b.c"})

	day := models.MustParseDate("2025-01-10")
	_ = repos.Leaves.Create(ctx, &models.LeaveRequest{StudentID: "S1", StartDate: day, EndDate: day, Status: models.LeaveStatusPending})
	_ = repos.Maintenance.Create(ctx, &models.MaintenanceRequest{StudentID: "S1", RoomNumber: "A1", Status: models.MaintenanceStatusPending})
	_ = repos.Attendance.Insert(ctx, &models.AttendanceRecord{StudentID: "S1", Date: day, Status: models.AttendancePresent, MarkedBy: admin.ID})

	if err := repos.Students.Delete(ctx, "S1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	leaves, _ := repos.Leaves.List(ctx, models.LeaveFilter{})
	tickets, _ := repos.Maintenance.List(ctx, models.MaintenanceFilter{})
	records, _ := repos.Attendance.ListByDate(ctx, day)
	if len(leaves) != 0 || len(tickets) != 0 || len(records) != 0 {
		t.Errorf("dependent rows survived: leaves=%d tickets=%d attendance=%d", len(leaves), len(tickets), len(records))
	}
}

func TestBlockingOverlapsIgnoreRejected(t *testing.T) {
	ctx := context.Background()
	repos := NewWithClock(fixedClock).Repositories()
	_ = repos.Students.Create(ctx, &models.Student{ID: "S1", Email: "a@b.c"})

	mk := func(start, end string, status models.LeaveStatus) {
		err := repos.Leaves.Create(ctx, &models.LeaveRequest{
			StudentID: "S1",
			StartDate: models.MustParseDate(start),
			EndDate:   models.MustParseDate(end),
			Status:    status,
		})
		if err != nil {
			t.Fatalf("create leave: %v", err)
		}
	}
	mk("2025-01-10", "2025-01-12", models.LeaveStatusRejected)
	mk("2025-01-20", "2025-01-22", models.LeaveStatusApproved)

	span := models.DateRange{Start: models.MustParseDate("2025-01-11"), End: models.MustParseDate("2025-01-20")}
	got, err := repos.Leaves.FindBlockingOverlaps(ctx, "S1", span)
	if err != nil {
		t.Fatalf("find overlaps: %v", err)
	}
	if len(got) != 1 || got[0].Status != models.LeaveStatusApproved {
		t.Errorf("unexpected overlaps %+v", got)
	}
}
