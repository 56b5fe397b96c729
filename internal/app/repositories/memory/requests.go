package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

func newerFirst(aCreated, bCreated time.Time, aID, bID int64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

func (st *state) studentName(id string) string {
	if s, ok := st.students[id]; ok {
		return s.Name
	}
	return ""
}

type leaveRepo struct{ view }

func (r *leaveRepo) Create(ctx context.Context, req *models.LeaveRequest) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.students[req.StudentID]; !ok {
			return repositories.ErrInvalidReference
		}
		st.leaveSeq++
		now := r.now()
		req.ID = st.leaveSeq
		req.CreatedAt, req.UpdatedAt = now, now
		st.leaves[req.ID] = cloneLeave(req)
		return nil
	})
}

func (r *leaveRepo) read(st *state, l *models.LeaveRequest) *models.LeaveRequest {
	c := cloneLeave(l)
	c.StudentName = st.studentName(l.StudentID)
	return c
}

func (r *leaveRepo) GetByID(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	var out *models.LeaveRequest
	err := r.do(ctx, func(st *state) error {
		l, ok := st.leaves[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = r.read(st, l)
		return nil
	})
	return out, err
}

func (r *leaveRepo) collect(ctx context.Context, keep func(*models.LeaveRequest) bool) ([]*models.LeaveRequest, error) {
	out := []*models.LeaveRequest{}
	err := r.do(ctx, func(st *state) error {
		for _, l := range st.leaves {
			if keep(l) {
				out = append(out, r.read(st, l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, err
}

func (r *leaveRepo) List(ctx context.Context, filter models.LeaveFilter) ([]*models.LeaveRequest, error) {
	return r.collect(ctx, func(l *models.LeaveRequest) bool {
		return (filter.StudentID == "" || l.StudentID == filter.StudentID) &&
			(filter.Status == "" || l.Status == filter.Status)
	})
}

func (r *leaveRepo) FindBlockingOverlaps(ctx context.Context, studentID string, span models.DateRange) ([]*models.LeaveRequest, error) {
	return r.collect(ctx, func(l *models.LeaveRequest) bool {
		return l.StudentID == studentID && l.Status.Blocking() && l.Range().Overlaps(span)
	})
}

func (r *leaveRepo) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, adminNotes *string) (*models.LeaveRequest, error) {
	var out *models.LeaveRequest
	err := r.do(ctx, func(st *state) error {
		l, ok := st.leaves[id]
		if !ok {
			return repositories.ErrNotFound
		}
		l.Status = status
		l.AdminNotes = cloneString(adminNotes)
		l.UpdatedAt = r.now()
		out = r.read(st, l)
		return nil
	})
	return out, err
}

func (r *leaveRepo) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.leaves[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.leaves, id)
		return nil
	})
}

func (r *leaveRepo) CountByStatus(ctx context.Context, status models.LeaveStatus) (int, error) {
	var n int
	err := r.do(ctx, func(st *state) error {
		for _, l := range st.leaves {
			if l.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

type maintenanceRepo struct{ view }

func (r *maintenanceRepo) Create(ctx context.Context, req *models.MaintenanceRequest) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.students[req.StudentID]; !ok {
			return repositories.ErrInvalidReference
		}
		if _, ok := st.rooms[req.RoomNumber]; !ok {
			return repositories.ErrInvalidReference
		}
		st.maintenanceSeq++
		now := r.now()
		req.ID = st.maintenanceSeq
		req.CreatedAt, req.UpdatedAt = now, now
		st.maintenance[req.ID] = cloneMaintenance(req)
		return nil
	})
}

func (r *maintenanceRepo) read(st *state, m *models.MaintenanceRequest) *models.MaintenanceRequest {
	c := cloneMaintenance(m)
	c.StudentName = st.studentName(m.StudentID)
	return c
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id int64) (*models.MaintenanceRequest, error) {
	var out *models.MaintenanceRequest
	err := r.do(ctx, func(st *state) error {
		m, ok := st.maintenance[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = r.read(st, m)
		return nil
	})
	return out, err
}

func (r *maintenanceRepo) List(ctx context.Context, filter models.MaintenanceFilter) ([]*models.MaintenanceRequest, error) {
	out := []*models.MaintenanceRequest{}
	err := r.do(ctx, func(st *state) error {
		for _, m := range st.maintenance {
			if (filter.StudentID == "" || m.StudentID == filter.StudentID) &&
				(filter.Status == "" || m.Status == filter.Status) {
				out = append(out, r.read(st, m))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, err
}

func (r *maintenanceRepo) UpdateStatus(ctx context.Context, id int64, status models.MaintenanceStatus, adminNotes *string) (*models.MaintenanceRequest, error) {
	var out *models.MaintenanceRequest
	err := r.do(ctx, func(st *state) error {
		m, ok := st.maintenance[id]
		if !ok {
			return repositories.ErrNotFound
		}
		m.Status = status
		m.AdminNotes = cloneString(adminNotes)
		m.UpdatedAt = r.now()
		out = r.read(st, m)
		return nil
	})
	return out, err
}

func (r *maintenanceRepo) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.maintenance[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.maintenance, id)
		return nil
	})
}

func (r *maintenanceRepo) CountByStatus(ctx context.Context, status models.MaintenanceStatus) (int, error) {
	var n int
	err := r.do(ctx, func(st *state) error {
		for _, m := range st.maintenance {
			if m.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}
