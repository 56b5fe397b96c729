package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/hostelhub/internal/db"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository works the same inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresRepositories initializes all repositories against a PostgreSQL pool
func NewPostgresRepositories(database *db.PostgresDB) *Repositories {
	return New(postgresSet(database.Pool), func(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
		return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return fn(ctx, NewTxBound(postgresSet(tx)))
		})
	})
}

func postgresSet(q DBTX) Repositories {
	return Repositories{
		Students:    NewStudentRepository(q),
		Rooms:       NewRoomRepository(q),
		Leaves:      NewLeaveRequestRepository(q),
		Maintenance: NewMaintenanceRequestRepository(q),
		Notices:     NewNoticeRepository(q),
		Attendance:  NewAttendanceRepository(q),
		Admins:      NewAdminRepository(q),
		Counters:    NewCounterRepository(q),
	}
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// translateWriteError maps constraint violations onto the shared repository errors
func translateWriteError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsUniqueViolation(err):
		return ErrDuplicate
	case dberrors.IsForeignKeyViolation(err):
		return ErrInvalidReference
	case dberrors.IsInputError(err):
		return ErrInvalidInput
	}
	return fmt.Errorf("error %s: %w", action, err)
}

// translateReadError maps pgx.ErrNoRows onto ErrNotFound
func translateReadError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("error %s: %w", action, err)
}

// countRows runs a SELECT COUNT(*) style query and returns the single integer it yields
func countRows(ctx context.Context, q DBTX, query squirrel.SelectBuilder) (int, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return n, nil
}
