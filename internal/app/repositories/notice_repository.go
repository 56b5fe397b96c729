package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// PostgresNoticeRepository handles notice database operations
type PostgresNoticeRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewNoticeRepository creates a new PostgresNoticeRepository
func NewNoticeRepository(db DBTX) *PostgresNoticeRepository {
	return &PostgresNoticeRepository{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PostgresNoticeRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"n.id", "n.admin_id", "COALESCE(a.username, '')", "n.title", "n.content",
		"n.priority", "n.created_at", "n.updated_at",
	).
		From("notices n").
		LeftJoin("admins a ON a.id = n.admin_id")
}

func scanNotice(row pgx.Row) (*models.Notice, error) {
	n := &models.Notice{}
	var priority string
	if err := row.Scan(&n.ID, &n.AdminID, &n.AdminName, &n.Title, &n.Content, &priority, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Priority = models.NoticePriority(priority)
	return n, nil
}

// Create inserts a new notice
func (r *PostgresNoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	sql, args, err := r.sb.Insert("notices").
		Columns("admin_id", "title", "content", "priority").
		Values(notice.AdminID, notice.Title, notice.Content, string(notice.Priority)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create notice SQL")
		return fmt.Errorf("failed to build create notice query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("adminID", notice.AdminID).Msg("Error executing create notice query")
		return translateWriteError(err, "creating notice")
	}
	return nil
}

// GetByID retrieves a notice by ID
func (r *PostgresNoticeRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notice query: %w", err)
	}

	notice, err := scanNotice(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting notice")
	}
	return notice, nil
}

// List returns every notice, newest first
func (r *PostgresNoticeRepository) List(ctx context.Context) ([]*models.Notice, error) {
	sql, args, err := r.baseSelect().OrderBy("n.created_at DESC", "n.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notices query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notices query")
		return nil, fmt.Errorf("error querying notices: %w", err)
	}
	defer rows.Close()

	notices := []*models.Notice{}
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning notice row: %w", err)
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notice rows: %w", err)
	}
	return notices, nil
}

// Update writes title, content and priority
func (r *PostgresNoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	sql, args, err := r.sb.Update("notices").
		Set("title", notice.Title).
		Set("content", notice.Content).
		Set("priority", string(notice.Priority)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": notice.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update notice query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&notice.UpdatedAt); err != nil {
		return translateReadError(err, "updating notice")
	}
	return nil
}

// Delete removes a notice
func (r *PostgresNoticeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("notices").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete notice query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noticeID", id).Msg("Error deleting notice")
		return fmt.Errorf("error deleting notice: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
