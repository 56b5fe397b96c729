// Package memory implements the repository interfaces over in-process maps.
// It backs the "memory" database driver and the service and controller tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

// Store holds every table in memory behind a single mutex. A transaction
// holds the mutex for its whole duration and restores a snapshot when it fails.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

type attendanceKey struct {
	studentID string
	date      string
}

type state struct {
	students    map[string]*models.Student
	rooms       map[string]*models.Room
	leaves      map[int64]*models.LeaveRequest
	maintenance map[int64]*models.MaintenanceRequest
	notices     map[int64]*models.Notice
	attendance  map[attendanceKey]*models.AttendanceRecord
	admins      map[int64]*models.Admin
	counters    map[string]int64

	roomSeq, leaveSeq, maintenanceSeq, noticeSeq, adminSeq int64
}

// New creates an empty store using the wall clock for timestamps
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty store whose timestamps come from now
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now: now,
		state: &state{
			students:    map[string]*models.Student{},
			rooms:       map[string]*models.Room{},
			leaves:      map[int64]*models.LeaveRequest{},
			maintenance: map[int64]*models.MaintenanceRequest{},
			notices:     map[int64]*models.Notice{},
			attendance:  map[attendanceKey]*models.AttendanceRecord{},
			admins:      map[int64]*models.Admin{},
			counters:    map[string]int64{},
		},
	}
}

// Repositories returns the repository set backed by the store
func (s *Store) Repositories() *repositories.Repositories {
	return repositories.New(s.set(false), s.withTransaction)
}

func (s *Store) set(inTx bool) repositories.Repositories {
	v := view{store: s, inTx: inTx}
	return repositories.Repositories{
		Students:    &studentRepo{v},
		Rooms:       &roomRepo{v},
		Leaves:      &leaveRepo{v},
		Maintenance: &maintenanceRepo{v},
		Notices:     &noticeRepo{v},
		Attendance:  &attendanceRepo{v},
		Admins:      &adminRepo{v},
		Counters:    &counterRepo{v},
	}
}

func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	committed := false
	defer func() {
		if !committed {
			s.state = snapshot
		}
	}()

	if err := fn(ctx, repositories.NewTxBound(s.set(true))); err != nil {
		return err
	}
	committed = true
	return nil
}

// view is the handle every repository holds. Inside a transaction the
// mutex is already held, so operations run without locking.
type view struct {
	store *Store
	inTx  bool
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.state)
}

func (v view) now() time.Time {
	return v.store.now()
}

func (st *state) clone() *state {
	c := &state{
		students:       make(map[string]*models.Student, len(st.students)),
		rooms:          make(map[string]*models.Room, len(st.rooms)),
		leaves:         make(map[int64]*models.LeaveRequest, len(st.leaves)),
		maintenance:    make(map[int64]*models.MaintenanceRequest, len(st.maintenance)),
		notices:        make(map[int64]*models.Notice, len(st.notices)),
		attendance:     make(map[attendanceKey]*models.AttendanceRecord, len(st.attendance)),
		admins:         make(map[int64]*models.Admin, len(st.admins)),
		counters:       make(map[string]int64, len(st.counters)),
		roomSeq:        st.roomSeq,
		leaveSeq:       st.leaveSeq,
		maintenanceSeq: st.maintenanceSeq,
		noticeSeq:      st.noticeSeq,
		adminSeq:       st.adminSeq,
	}
	for k, v := range st.students {
		c.students[k] = cloneStudent(v)
	}
	for k, v := range st.rooms {
		r := *v
		c.rooms[k] = &r
	}
	for k, v := range st.leaves {
		c.leaves[k] = cloneLeave(v)
	}
	for k, v := range st.maintenance {
		c.maintenance[k] = cloneMaintenance(v)
	}
	for k, v := range st.notices {
		n := *v
		c.notices[k] = &n
	}
	for k, v := range st.attendance {
		a := *v
		c.attendance[k] = &a
	}
	for k, v := range st.admins {
		a := *v
		c.admins[k] = &a
	}
	for k, v := range st.counters {
		c.counters[k] = v
	}
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStudent(s *models.Student) *models.Student {
	c := *s
	c.RoomNumber = cloneString(s.RoomNumber)
	return &c
}

func cloneLeave(l *models.LeaveRequest) *models.LeaveRequest {
	c := *l
	c.AdminNotes = cloneString(l.AdminNotes)
	return &c
}

func cloneMaintenance(m *models.MaintenanceRequest) *models.MaintenanceRequest {
	c := *m
	c.AdminNotes = cloneString(m.AdminNotes)
	return &c
}

type counterRepo struct{ view }

func (r *counterRepo) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.do(ctx, func(st *state) error {
		st.counters[name]++
		value = st.counters[name]
		return nil
	})
	return value, err
}
