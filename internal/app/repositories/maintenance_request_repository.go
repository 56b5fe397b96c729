package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var maintenanceColumns = []string{
	"m.id", "m.student_id", "COALESCE(s.name, '')", "m.room_number", "m.issue_type", "m.description",
	"m.priority", "m.status", "m.admin_notes", "m.created_at", "m.updated_at",
}

// PostgresMaintenanceRequestRepository handles maintenance request database operations
type PostgresMaintenanceRequestRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewMaintenanceRequestRepository creates a new PostgresMaintenanceRequestRepository
func NewMaintenanceRequestRepository(db DBTX) *PostgresMaintenanceRequestRepository {
	return &PostgresMaintenanceRequestRepository{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PostgresMaintenanceRequestRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(maintenanceColumns...).
		From("maintenance_requests m").
		LeftJoin("students s ON s.id = m.student_id")
}

func scanMaintenance(row pgx.Row) (*models.MaintenanceRequest, error) {
	m := &models.MaintenanceRequest{}
	var priority, status string
	err := row.Scan(&m.ID, &m.StudentID, &m.StudentName, &m.RoomNumber, &m.IssueType, &m.Description,
		&priority, &status, &m.AdminNotes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Priority = models.Priority(priority)
	m.Status = models.MaintenanceStatus(status)
	return m, nil
}

// Create inserts a new maintenance request
func (r *PostgresMaintenanceRequestRepository) Create(ctx context.Context, req *models.MaintenanceRequest) error {
	sql, args, err := r.sb.Insert("maintenance_requests").
		Columns("student_id", "room_number", "issue_type", "description", "priority", "status").
		Values(req.StudentID, req.RoomNumber, req.IssueType, req.Description, string(req.Priority), string(req.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create maintenance request SQL")
		return fmt.Errorf("failed to build create maintenance request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("studentID", req.StudentID).Msg("Error executing create maintenance request query")
		return translateWriteError(err, "creating maintenance request")
	}
	return nil
}

// GetByID retrieves a maintenance request by ID
func (r *PostgresMaintenanceRequestRepository) GetByID(ctx context.Context, id int64) (*models.MaintenanceRequest, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get maintenance request query: %w", err)
	}

	req, err := scanMaintenance(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting maintenance request")
	}
	return req, nil
}

// List returns maintenance requests matching the filter, newest first
func (r *PostgresMaintenanceRequestRepository) List(ctx context.Context, filter models.MaintenanceFilter) ([]*models.MaintenanceRequest, error) {
	q := r.baseSelect().OrderBy("m.created_at DESC", "m.id DESC")
	if filter.StudentID != "" {
		q = q.Where(squirrel.Eq{"m.student_id": filter.StudentID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"m.status": string(filter.Status)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list maintenance requests SQL")
		return nil, fmt.Errorf("failed to build list maintenance requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list maintenance requests query")
		return nil, fmt.Errorf("error querying maintenance requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.MaintenanceRequest{}
	for rows.Next() {
		req, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning maintenance request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating maintenance request rows: %w", err)
	}
	return requests, nil
}

// UpdateStatus sets the status and admin notes and returns the updated request
func (r *PostgresMaintenanceRequestRepository) UpdateStatus(ctx context.Context, id int64, status models.MaintenanceStatus, adminNotes *string) (*models.MaintenanceRequest, error) {
	sql, args, err := r.sb.Update("maintenance_requests").
		Set("status", string(status)).
		Set("admin_notes", adminNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update maintenance status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("maintenanceRequestID", id).Msg("Error updating maintenance request status")
		return nil, translateWriteError(err, "updating maintenance request status")
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a maintenance request
func (r *PostgresMaintenanceRequestRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("maintenance_requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete maintenance request query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("maintenanceRequestID", id).Msg("Error deleting maintenance request")
		return fmt.Errorf("error deleting maintenance request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts maintenance requests in the given status
func (r *PostgresMaintenanceRequestRepository) CountByStatus(ctx context.Context, status models.MaintenanceStatus) (int, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("maintenance_requests").Where(squirrel.Eq{"status": string(status)}))
}
