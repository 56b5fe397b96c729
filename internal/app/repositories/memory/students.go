package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

type studentRepo struct{ view }

func (st *state) emailTaken(email, exceptID string) bool {
	for _, s := range st.students {
		if s.ID != exceptID && strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}

func (st *state) occupants(roomNumber string) int {
	n := 0
	for _, s := range st.students {
		if s.RoomNumber != nil && *s.RoomNumber == roomNumber {
			n++
		}
	}
	return n
}

func (r *studentRepo) Create(ctx context.Context, student *models.Student) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.students[student.ID]; ok || st.emailTaken(student.Email, "") {
			return repositories.ErrDuplicate
		}
		if student.RoomNumber != nil {
			if _, ok := st.rooms[*student.RoomNumber]; !ok {
				return repositories.ErrInvalidReference
			}
		}
		now := r.now()
		student.CreatedAt, student.UpdatedAt = now, now
		st.students[student.ID] = cloneStudent(student)
		return nil
	})
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var out *models.Student
	err := r.do(ctx, func(st *state) error {
		s, ok := st.students[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = cloneStudent(s)
		return nil
	})
	return out, err
}

func (r *studentRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return r.GetByID(ctx, id)
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var out *models.Student
	err := r.do(ctx, func(st *state) error {
		for _, s := range st.students {
			if strings.EqualFold(s.Email, email) {
				out = cloneStudent(s)
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}

func (r *studentRepo) collect(ctx context.Context, keep func(*models.Student) bool, less func(a, b *models.Student) bool) ([]*models.Student, error) {
	out := []*models.Student{}
	err := r.do(ctx, func(st *state) error {
		for _, s := range st.students {
			if keep(s) {
				out = append(out, cloneStudent(s))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, err
}

func newestStudentFirst(a, b *models.Student) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *studentRepo) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	return r.collect(ctx, func(s *models.Student) bool {
		if filter.Status != "" && s.Status != filter.Status {
			return false
		}
		if filter.Unassigned && s.HasRoom() {
			return false
		}
		return true
	}, newestStudentFirst)
}

func (r *studentRepo) ListByRoom(ctx context.Context, roomNumber string) ([]*models.Student, error) {
	return r.collect(ctx, func(s *models.Student) bool {
		return s.RoomNumber != nil && *s.RoomNumber == roomNumber
	}, func(a, b *models.Student) bool { return a.Name < b.Name })
}

func (r *studentRepo) ListAll(ctx context.Context) ([]*models.Student, error) {
	return r.collect(ctx, func(*models.Student) bool { return true },
		func(a, b *models.Student) bool { return a.ID < b.ID })
}

func (r *studentRepo) UpdateProfile(ctx context.Context, student *models.Student) error {
	return r.do(ctx, func(st *state) error {
		s, ok := st.students[student.ID]
		if !ok {
			return repositories.ErrNotFound
		}
		if st.emailTaken(student.Email, student.ID) {
			return repositories.ErrDuplicate
		}
		s.Name, s.Email, s.Contact = student.Name, student.Email, student.Contact
		s.UpdatedAt = r.now()
		return nil
	})
}

func (r *studentRepo) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	return r.do(ctx, func(st *state) error {
		s, ok := st.students[id]
		if !ok {
			return repositories.ErrNotFound
		}
		s.Status = status
		s.UpdatedAt = r.now()
		return nil
	})
}

func (r *studentRepo) SetRoom(ctx context.Context, id string, roomNumber *string) error {
	return r.do(ctx, func(st *state) error {
		s, ok := st.students[id]
		if !ok {
			return repositories.ErrNotFound
		}
		if roomNumber != nil {
			if _, ok := st.rooms[*roomNumber]; !ok {
				return repositories.ErrInvalidReference
			}
		}
		s.RoomNumber = cloneString(roomNumber)
		s.UpdatedAt = r.now()
		return nil
	})
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.students[id]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.students, id)
		for k, l := range st.leaves {
			if l.StudentID == id {
				delete(st.leaves, k)
			}
		}
		for k, m := range st.maintenance {
			if m.StudentID == id {
				delete(st.maintenance, k)
			}
		}
		for k := range st.attendance {
			if k.studentID == id {
				delete(st.attendance, k)
			}
		}
		return nil
	})
}

func (r *studentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.do(ctx, func(st *state) error {
		n = len(st.students)
		return nil
	})
	return n, err
}

func (r *studentRepo) CountByRoom(ctx context.Context, roomNumber string) (int, error) {
	var n int
	err := r.do(ctx, func(st *state) error {
		n = st.occupants(roomNumber)
		return nil
	})
	return n, err
}
