package repositories

import (
	"context"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

// Shared repository errors. Services usually translate them into domain
// errors; the ones that slip through still map onto the right HTTP status.
var (
	ErrNotFound  = apperrors.NewResourceNotFoundError("Record not found")
	ErrDuplicate = apperrors.NewConflictError("Record already exists")
	// ErrReferenced is returned when a row cannot change because other rows point at it.
	ErrReferenced = apperrors.NewConflictError("Record is referenced by other records")
	// ErrInvalidReference is returned when a row points at something that does not exist.
	ErrInvalidReference = apperrors.NewBadRequestError("Referenced record does not exist")
	// ErrInvalidInput is returned when the store rejects the supplied values.
	ErrInvalidInput = apperrors.NewValidationError("Invalid input")
)

// StudentRepository persists students
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	// GetByIDForUpdate reads the student and locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	ListByRoom(ctx context.Context, roomNumber string) ([]*models.Student, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	UpdateProfile(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error
	SetRoom(ctx context.Context, id string, roomNumber *string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByRoom(ctx context.Context, roomNumber string) (int, error)
}

// RoomRepository persists rooms and derives their occupancy
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByNumber(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error)
	// GetByNumberForUpdate reads the room and locks the row until the surrounding transaction ends.
	GetByNumberForUpdate(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error)
	List(ctx context.Context) ([]*models.RoomOccupancy, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, roomNumber string) error
	Counts(ctx context.Context) (models.RoomCounts, error)
}

// LeaveRequestRepository persists leave requests
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *models.LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*models.LeaveRequest, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]*models.LeaveRequest, error)
	// FindBlockingOverlaps returns the student's pending or approved requests sharing a day with span.
	FindBlockingOverlaps(ctx context.Context, studentID string, span models.DateRange) ([]*models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, adminNotes *string) (*models.LeaveRequest, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status models.LeaveStatus) (int, error)
}

// MaintenanceRequestRepository persists maintenance tickets
type MaintenanceRequestRepository interface {
	Create(ctx context.Context, req *models.MaintenanceRequest) error
	GetByID(ctx context.Context, id int64) (*models.MaintenanceRequest, error)
	List(ctx context.Context, filter models.MaintenanceFilter) ([]*models.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.MaintenanceStatus, adminNotes *string) (*models.MaintenanceRequest, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status models.MaintenanceStatus) (int, error)
}

// NoticeRepository persists notices
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id int64) (*models.Notice, error)
	List(ctx context.Context) ([]*models.Notice, error)
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id int64) error
}

// AttendanceRepository persists the attendance ledger
type AttendanceRepository interface {
	DeleteByDate(ctx context.Context, date models.Date) (int64, error)
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	ListByDate(ctx context.Context, date models.Date) ([]*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error)
	// DailyStats aggregates every day on or after since, newest first.
	DailyStats(ctx context.Context, since models.Date) ([]*models.AttendanceDayStats, error)
}

// AdminRepository persists administrator accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// CounterRepository hands out monotonically increasing values per counter name
type CounterRepository interface {
	// Next atomically increments the named counter, creating it at 1 if absent, and returns the new value.
	Next(ctx context.Context, name string) (int64, error)
}

// TxRunner executes fn as a single unit of work against repositories bound to it.
// Returning an error from fn rolls every write back.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error

// Repositories holds all the repository instances
type Repositories struct {
	Students    StudentRepository
	Rooms       RoomRepository
	Leaves      LeaveRequestRepository
	Maintenance MaintenanceRequestRepository
	Notices     NoticeRepository
	Attendance  AttendanceRepository
	Admins      AdminRepository
	Counters    CounterRepository

	runTx TxRunner
}

// New assembles a Repositories value whose WithTransaction delegates to tx.
func New(repos Repositories, tx TxRunner) *Repositories {
	repos.runTx = tx
	return &repos
}

// WithTransaction runs fn inside a transaction. Calls made on an already
// transactional Repositories join the outer transaction.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	if r.runTx == nil {
		return fn(ctx, r)
	}
	return r.runTx(ctx, fn)
}

// NewTxBound assembles repositories bound to an already open transaction.
// Nested WithTransaction calls run directly against them.
func NewTxBound(repos Repositories) *Repositories {
	r := &repos
	r.runTx = func(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
		return fn(ctx, r)
	}
	return r
}
