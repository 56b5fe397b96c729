package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

type noticeRepo struct{ view }

func (r *noticeRepo) read(st *state, n *models.Notice) *models.Notice {
	c := *n
	if a, ok := st.admins[n.AdminID]; ok {
		c.AdminName = a.Username
	}
	return &c
}

func (r *noticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.admins[notice.AdminID]; !ok {
			return repositories.ErrInvalidReference
		}
		st.noticeSeq++
		now := r.now()
		notice.ID = st.noticeSeq
		notice.CreatedAt, notice.UpdatedAt = now, now
		stored := *notice
		st.notices[notice.ID] = &stored
		return nil
	})
}

func (r *noticeRepo) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	var out *models.Notice
	err := r.do(ctx, func(st *state) error {
		n, ok := st.notices[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = r.read(st, n)
		return nil
	})
	return out, err
}

func (r *noticeRepo) List(ctx context.Context) ([]*models.Notice, error) {
	out := []*models.Notice{}
	err := r.do(ctx, func(st *state) error {
		for _, n := range st.notices {
			out = append(out, r.read(st, n))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, err
}

func (r *noticeRepo) Update(ctx context.Context, notice *models.Notice) error {
	return r.do(ctx, func(st *state) error {
		n, ok := st.notices[notice.ID]
		if !ok {
			return repositories.ErrNotFound
		}
		n.Title, n.Content, n.Priority = notice.Title, notice.Content, notice.Priority
		n.UpdatedAt = r.now()
		notice.UpdatedAt = n.UpdatedAt
		return nil
	})
}

func (r *noticeRepo) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.notices[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.notices, id)
		return nil
	})
}

type attendanceRepo struct{ view }

func (r *attendanceRepo) read(st *state, a *models.AttendanceRecord) *models.AttendanceRecord {
	c := *a
	c.StudentName = st.studentName(a.StudentID)
	if admin, ok := st.admins[a.MarkedBy]; ok {
		c.MarkedByName = admin.Username
	}
	return &c
}

func (r *attendanceRepo) DeleteByDate(ctx context.Context, date models.Date) (int64, error) {
	var n int64
	err := r.do(ctx, func(st *state) error {
		day := date.String()
		for k := range st.attendance {
			if k.date == day {
				delete(st.attendance, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *attendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.students[record.StudentID]; !ok {
			return repositories.ErrInvalidReference
		}
		if _, ok := st.admins[record.MarkedBy]; !ok {
			return repositories.ErrInvalidReference
		}
		key := attendanceKey{studentID: record.StudentID, date: record.Date.String()}
		if _, ok := st.attendance[key]; ok {
			return repositories.ErrDuplicate
		}
		record.CreatedAt = r.now()
		stored := *record
		st.attendance[key] = &stored
		return nil
	})
}

func (r *attendanceRepo) collect(ctx context.Context, keep func(attendanceKey) bool, less func(a, b *models.AttendanceRecord) bool) ([]*models.AttendanceRecord, error) {
	out := []*models.AttendanceRecord{}
	err := r.do(ctx, func(st *state) error {
		for k, a := range st.attendance {
			if keep(k) {
				out = append(out, r.read(st, a))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date models.Date) ([]*models.AttendanceRecord, error) {
	day := date.String()
	return r.collect(ctx, func(k attendanceKey) bool { return k.date == day },
		func(a, b *models.AttendanceRecord) bool { return a.StudentID < b.StudentID })
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error) {
	return r.collect(ctx, func(k attendanceKey) bool { return k.studentID == studentID },
		func(a, b *models.AttendanceRecord) bool { return a.Date.After(b.Date) })
}

func (r *attendanceRepo) DailyStats(ctx context.Context, since models.Date) ([]*models.AttendanceDayStats, error) {
	byDay := map[string]*models.AttendanceDayStats{}
	err := r.do(ctx, func(st *state) error {
		for _, a := range st.attendance {
			if a.Date.Before(since) {
				continue
			}
			day, ok := byDay[a.Date.String()]
			if !ok {
				day = &models.AttendanceDayStats{Date: a.Date}
				byDay[a.Date.String()] = day
			}
			day.Add(a.Status)
		}
		return nil
	})

	stats := make([]*models.AttendanceDayStats, 0, len(byDay))
	for _, s := range byDay {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.After(stats[j].Date) })
	return stats, err
}

type adminRepo struct{ view }

func (r *adminRepo) Create(ctx context.Context, admin *models.Admin) error {
	return r.do(ctx, func(st *state) error {
		for _, a := range st.admins {
			if a.Username == admin.Username || strings.EqualFold(a.Email, admin.Email) {
				return repositories.ErrDuplicate
			}
		}
		st.adminSeq++
		now := r.now()
		admin.ID = st.adminSeq
		admin.CreatedAt, admin.UpdatedAt = now, now
		stored := *admin
		st.admins[admin.ID] = &stored
		return nil
	})
}

func (r *adminRepo) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	var out *models.Admin
	err := r.do(ctx, func(st *state) error {
		a, ok := st.admins[id]
		if !ok {
			return repositories.ErrNotFound
		}
		c := *a
		out = &c
		return nil
	})
	return out, err
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var out *models.Admin
	err := r.do(ctx, func(st *state) error {
		for _, a := range st.admins {
			if a.Username == username {
				c := *a
				out = &c
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}

func (r *adminRepo) List(ctx context.Context) ([]*models.Admin, error) {
	out := []*models.Admin{}
	err := r.do(ctx, func(st *state) error {
		for _, a := range st.admins {
			c := *a
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.do(ctx, func(st *state) error {
		a, ok := st.admins[id]
		if !ok {
			return repositories.ErrNotFound
		}
		a.PasswordHash = passwordHash
		a.UpdatedAt = r.now()
		return nil
	})
}
