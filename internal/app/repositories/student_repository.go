package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email", "COALESCE(contact, '')", "password_hash", "room_number",
	"status", "COALESCE(room_preference, '')", "created_at", "updated_at",
}

// PostgresStudentRepository handles student database operations
type PostgresStudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new PostgresStudentRepository
func NewStudentRepository(db DBTX) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		db: db,
		sb: newBuilder(),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	var status string
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Contact, &s.PasswordHash, &s.RoomNumber,
		&status, &s.RoomPreference, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = models.StudentStatus(status)
	return s, nil
}

// Create inserts a new student. The ID must already be allocated.
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("id", "name", "email", "contact", "password_hash", "room_number", "status", "room_preference").
		Values(student.ID, student.Name, student.Email, student.Contact, student.PasswordHash,
			student.RoomNumber, string(student.Status), student.RoomPreference).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.CreatedAt, &student.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error executing create student query")
		return translateWriteError(err, "creating student")
	}
	return nil
}

func (r *PostgresStudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting student")
	}
	return student, nil
}

// GetByID retrieves a student by ID
func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate retrieves a student and locks the row
func (r *PostgresStudentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true)
}

// GetByEmail retrieves a student by email, case-insensitively
func (r *PostgresStudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email), false)
}

func (r *PostgresStudentRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// List returns students matching the filter, newest first
func (r *PostgresStudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students").OrderBy("created_at DESC", "id DESC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Unassigned {
		q = q.Where(squirrel.Or{squirrel.Eq{"room_number": nil}, squirrel.Eq{"room_number": ""}})
	}
	return r.list(ctx, q)
}

// ListByRoom returns the students assigned to a room
func (r *PostgresStudentRepository) ListByRoom(ctx context.Context, roomNumber string) ([]*models.Student, error) {
	return r.list(ctx, r.sb.Select(studentColumns...).From("students").
		Where(squirrel.Eq{"room_number": roomNumber}).
		OrderBy("name ASC"))
}

// ListAll returns every student ordered by ID
func (r *PostgresStudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(ctx, r.sb.Select(studentColumns...).From("students").OrderBy("id ASC"))
}

// UpdateProfile writes the editable profile fields of a student
func (r *PostgresStudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":       student.Name,
			"email":      student.Email,
			"contact":    student.Contact,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}
	return r.execOne(ctx, sql, args, "updating student")
}

// UpdateStatus changes the admission status of a student
func (r *PostgresStudentRepository) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	sql, args, err := r.sb.Update("students").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student status query: %w", err)
	}
	return r.execOne(ctx, sql, args, "updating student status")
}

// SetRoom assigns a student to a room, or clears the assignment when roomNumber is nil
func (r *PostgresStudentRepository) SetRoom(ctx context.Context, id string, roomNumber *string) error {
	sql, args, err := r.sb.Update("students").
		Set("room_number", roomNumber).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set room query: %w", err)
	}
	return r.execOne(ctx, sql, args, "setting student room")
}

// Delete removes a student; dependent requests and attendance cascade
func (r *PostgresStudentRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}
	return r.execOne(ctx, sql, args, "deleting student")
}

// Count returns the number of students
func (r *PostgresStudentRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("students"))
}

// CountByRoom returns the number of students assigned to a room
func (r *PostgresStudentRepository) CountByRoom(ctx context.Context, roomNumber string) (int, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"room_number": roomNumber}))
}

func (r *PostgresStudentRepository) execOne(ctx context.Context, sql string, args []interface{}, action string) error {
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error " + action)
		return translateWriteError(err, action)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
