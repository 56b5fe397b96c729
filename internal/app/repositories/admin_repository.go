package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// PostgresAdminRepository handles administrator database operations
type PostgresAdminRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new PostgresAdminRepository
func NewAdminRepository(db DBTX) *PostgresAdminRepository {
	return &PostgresAdminRepository{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PostgresAdminRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select("id", "username", "email", "password_hash", "created_at", "updated_at").From("admins")
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	a := &models.Admin{}
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new administrator
func (r *PostgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "email", "password_hash").
		Values(admin.Username, admin.Email, admin.PasswordHash).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error creating admin")
		return translateWriteError(err, "creating admin")
	}
	return nil
}

// GetByID retrieves an administrator by ID
func (r *PostgresAdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}
	admin, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting admin")
	}
	return admin, nil
}

// GetByUsername retrieves an administrator by username
func (r *PostgresAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}
	admin, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "getting admin by username")
	}
	return admin, nil
}

// List returns every administrator ordered by ID
func (r *PostgresAdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	sql, args, err := r.baseSelect().OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list admins query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying admins: %w", err)
	}
	defer rows.Close()

	admins := []*models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning admin row: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// UpdatePassword replaces the password hash of an administrator
func (r *PostgresAdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	sql, args, err := r.sb.Update("admins").
		Set("password_hash", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error updating admin password")
		return fmt.Errorf("error updating admin password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
