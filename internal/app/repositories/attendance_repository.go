package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// PostgresAttendanceRepository handles attendance ledger database operations
type PostgresAttendanceRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new PostgresAttendanceRepository
func NewAttendanceRepository(db DBTX) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{
		db: db,
		sb: newBuilder(),
	}
}

// DeleteByDate removes every record of the given day
func (r *PostgresAttendanceRepository) DeleteByDate(ctx context.Context, date models.Date) (int64, error) {
	sql, args, err := r.sb.Delete("attendance").Where(squirrel.Eq{"date": date.Time}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete attendance query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("date", date.String()).Msg("Error deleting attendance")
		return 0, fmt.Errorf("error deleting attendance: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// Insert adds one record. Unknown students yield ErrInvalidReference, repeats ErrDuplicate.
func (r *PostgresAttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	sql, args, err := r.sb.Insert("attendance").
		Columns("student_id", "date", "status", "marked_by").
		Values(record.StudentID, record.Date.Time, string(record.Status), record.MarkedBy).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&record.CreatedAt); err != nil {
		if !dberrors.IsForeignKeyViolation(err) && !dberrors.IsUniqueViolation(err) {
			logger.Error().Err(err).Str("studentID", record.StudentID).Msg("Error inserting attendance")
		}
		return translateWriteError(err, "inserting attendance")
	}
	return nil
}

func (r *PostgresAttendanceRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.AttendanceRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list attendance query")
		return nil, fmt.Errorf("error querying attendance: %w", err)
	}
	defer rows.Close()

	records := []*models.AttendanceRecord{}
	for rows.Next() {
		rec := &models.AttendanceRecord{}
		var day time.Time
		var status string
		if err := rows.Scan(&rec.StudentID, &rec.StudentName, &day, &status, &rec.MarkedBy, &rec.MarkedByName, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		rec.Date = models.NewDate(day)
		rec.Status = models.AttendanceStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

func (r *PostgresAttendanceRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"att.student_id", "COALESCE(s.name, '')", "att.date", "att.status",
		"att.marked_by", "COALESCE(a.username, '')", "att.created_at",
	).
		From("attendance att").
		LeftJoin("students s ON s.id = att.student_id").
		LeftJoin("admins a ON a.id = att.marked_by")
}

// ListByDate returns the records of one day ordered by student
func (r *PostgresAttendanceRepository) ListByDate(ctx context.Context, date models.Date) ([]*models.AttendanceRecord, error) {
	return r.list(ctx, r.baseSelect().Where(squirrel.Eq{"att.date": date.Time}).OrderBy("att.student_id ASC"))
}

// ListByStudent returns a student's records, newest day first
func (r *PostgresAttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error) {
	return r.list(ctx, r.baseSelect().Where(squirrel.Eq{"att.student_id": studentID}).OrderBy("att.date DESC"))
}

// DailyStats aggregates the ledger per day from since onwards, newest day first
func (r *PostgresAttendanceRepository) DailyStats(ctx context.Context, since models.Date) ([]*models.AttendanceDayStats, error) {
	sql, args, err := r.sb.Select(
		"date",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'present')",
		"COUNT(*) FILTER (WHERE status = 'absent')",
		"COUNT(*) FILTER (WHERE status = 'late')",
	).
		From("attendance").
		Where(squirrel.GtOrEq{"date": since.Time}).
		GroupBy("date").
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing attendance stats query")
		return nil, fmt.Errorf("error querying attendance stats: %w", err)
	}
	defer rows.Close()

	stats := []*models.AttendanceDayStats{}
	for rows.Next() {
		st := &models.AttendanceDayStats{}
		var day time.Time
		if err := rows.Scan(&day, &st.Total, &st.Present, &st.Absent, &st.Late); err != nil {
			return nil, fmt.Errorf("error scanning attendance stats row: %w", err)
		}
		st.Date = models.NewDate(day)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance stats rows: %w", err)
	}
	return stats, nil
}
