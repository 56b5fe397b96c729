package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var leaveColumns = []string{
	"l.id", "l.student_id", "COALESCE(s.name, '')", "l.start_date", "l.end_date", "l.reason",
	"l.leave_type", "l.status", "l.admin_notes", "l.created_at", "l.updated_at",
}

// PostgresLeaveRequestRepository handles leave request database operations
type PostgresLeaveRequestRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewLeaveRequestRepository creates a new PostgresLeaveRequestRepository
func NewLeaveRequestRepository(db DBTX) *PostgresLeaveRequestRepository {
	return &PostgresLeaveRequestRepository{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PostgresLeaveRequestRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(leaveColumns...).
		From("leave_requests l").
		LeftJoin("students s ON s.id = l.student_id")
}

func scanLeave(row pgx.Row) (*models.LeaveRequest, error) {
	l := &models.LeaveRequest{}
	var start, end time.Time
	var status string
	err := row.Scan(&l.ID, &l.StudentID, &l.StudentName, &start, &end, &l.Reason,
		&l.LeaveType, &status, &l.AdminNotes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.StartDate = models.NewDate(start)
	l.EndDate = models.NewDate(end)
	l.Status = models.LeaveStatus(status)
	return l, nil
}

// Create inserts a new leave request
func (r *PostgresLeaveRequestRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	sql, args, err := r.sb.Insert("leave_requests").
		Columns("student_id", "start_date", "end_date", "reason", "leave_type", "status").
		Values(req.StudentID, req.StartDate.Time, req.EndDate.Time, req.Reason, req.LeaveType, string(req.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create leave request SQL")
		return fmt.Errorf("failed to build create leave request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("studentID", req.StudentID).Msg("Error executing create leave request query")
		return translateWriteError(err, "creating leave request")
	}
	return nil
}

// GetByID retrieves a leave request by ID
func (r *PostgresLeaveRequestRepository) GetByID(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get leave request query: %w", err)
	}

	req, err := scanLeave(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting leave request")
	}
	return req, nil
}

func (r *PostgresLeaveRequestRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.LeaveRequest, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list leave requests SQL")
		return nil, fmt.Errorf("failed to build list leave requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list leave requests query")
		return nil, fmt.Errorf("error querying leave requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning leave request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave request rows: %w", err)
	}
	return requests, nil
}

// List returns leave requests matching the filter, newest first
func (r *PostgresLeaveRequestRepository) List(ctx context.Context, filter models.LeaveFilter) ([]*models.LeaveRequest, error) {
	q := r.baseSelect().OrderBy("l.created_at DESC", "l.id DESC")
	if filter.StudentID != "" {
		q = q.Where(squirrel.Eq{"l.student_id": filter.StudentID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"l.status": string(filter.Status)})
	}
	return r.list(ctx, q)
}

// FindBlockingOverlaps returns pending or approved requests of the student that share a day with span
func (r *PostgresLeaveRequestRepository) FindBlockingOverlaps(ctx context.Context, studentID string, span models.DateRange) ([]*models.LeaveRequest, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{
			"l.student_id": studentID,
			"l.status":     []string{string(models.LeaveStatusPending), string(models.LeaveStatusApproved)},
		}).
		Where(squirrel.LtOrEq{"l.start_date": span.End.Time}).
		Where(squirrel.GtOrEq{"l.end_date": span.Start.Time}).
		OrderBy("l.start_date ASC"))
}

// UpdateStatus sets the status and admin notes and returns the updated request
func (r *PostgresLeaveRequestRepository) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, adminNotes *string) (*models.LeaveRequest, error) {
	sql, args, err := r.sb.Update("leave_requests").
		Set("status", string(status)).
		Set("admin_notes", adminNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update leave status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("leaveRequestID", id).Msg("Error updating leave request status")
		return nil, translateWriteError(err, "updating leave request status")
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a leave request
func (r *PostgresLeaveRequestRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("leave_requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete leave request query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("leaveRequestID", id).Msg("Error deleting leave request")
		return fmt.Errorf("error deleting leave request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts leave requests in the given status
func (r *PostgresLeaveRequestRepository) CountByStatus(ctx context.Context, status models.LeaveStatus) (int, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("leave_requests").Where(squirrel.Eq{"status": string(status)}))
}
