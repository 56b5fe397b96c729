package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/dberrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

var roomColumns = []string{
	"r.id", "r.room_number", "r.capacity", "r.room_type", "r.floor",
	"r.availability_status", "COALESCE(r.description, '')", "r.created_at", "r.updated_at",
}

// PostgresRoomRepository handles room database operations
type PostgresRoomRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewRoomRepository creates a new PostgresRoomRepository
func NewRoomRepository(db DBTX) *PostgresRoomRepository {
	return &PostgresRoomRepository{
		db: db,
		sb: newBuilder(),
	}
}

// occupancySelect joins the student count onto every room row
func (r *PostgresRoomRepository) occupancySelect() squirrel.SelectBuilder {
	return r.sb.Select(append(roomColumns, "COUNT(s.id)")...).
		From("rooms r").
		LeftJoin("students s ON s.room_number = r.room_number").
		GroupBy("r.id")
}

func scanRoom(row pgx.Row, extra ...any) (*models.Room, error) {
	room := &models.Room{}
	var status string
	dest := []any{&room.ID, &room.RoomNumber, &room.Capacity, &room.RoomType, &room.Floor,
		&status, &room.Description, &room.CreatedAt, &room.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	room.AvailabilityStatus = models.RoomAvailability(status)
	return room, nil
}

// Create inserts a new room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Insert("rooms").
		Columns("room_number", "capacity", "room_type", "floor", "availability_status", "description").
		Values(room.RoomNumber, room.Capacity, room.RoomType, room.Floor, string(room.AvailabilityStatus), room.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create room SQL")
		return fmt.Errorf("failed to build create room query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("roomNumber", room.RoomNumber).Msg("Error executing create room query")
		return translateWriteError(err, "creating room")
	}
	return nil
}

// GetByNumber retrieves a room with its occupancy
func (r *PostgresRoomRepository) GetByNumber(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error) {
	sql, args, err := r.occupancySelect().Where(squirrel.Eq{"r.room_number": roomNumber}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get room query: %w", err)
	}

	var occupied int
	room, err := scanRoom(r.db.QueryRow(ctx, sql, args...), &occupied)
	if err != nil {
		return nil, translateReadError(err, "getting room")
	}
	return models.NewRoomOccupancy(*room, occupied), nil
}

// GetByNumberForUpdate locks the room row, then counts its occupants.
// Postgres does not allow FOR UPDATE together with GROUP BY, hence two statements.
func (r *PostgresRoomRepository) GetByNumberForUpdate(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error) {
	sql, args, err := r.sb.Select(roomColumns...).
		From("rooms r").
		Where(squirrel.Eq{"r.room_number": roomNumber}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock room query: %w", err)
	}

	room, err := scanRoom(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err, "locking room")
	}

	occupied, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"room_number": roomNumber}))
	if err != nil {
		return nil, err
	}
	return models.NewRoomOccupancy(*room, occupied), nil
}

// List returns every room with its occupancy, ordered by room number
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*models.RoomOccupancy, error) {
	sql, args, err := r.occupancySelect().OrderBy("r.room_number ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list rooms SQL")
		return nil, fmt.Errorf("failed to build list rooms query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list rooms query")
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*models.RoomOccupancy{}
	for rows.Next() {
		var occupied int
		room, err := scanRoom(rows, &occupied)
		if err != nil {
			return nil, fmt.Errorf("error scanning room row: %w", err)
		}
		rooms = append(rooms, models.NewRoomOccupancy(*room, occupied))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}
	return rooms, nil
}

// Update writes the mutable room fields
func (r *PostgresRoomRepository) Update(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Update("rooms").
		SetMap(map[string]interface{}{
			"capacity":            room.Capacity,
			"room_type":           room.RoomType,
			"floor":               room.Floor,
			"availability_status": string(room.AvailabilityStatus),
			"description":         room.Description,
			"updated_at":          squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"room_number": room.RoomNumber}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update room query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&room.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Str("roomNumber", room.RoomNumber).Msg("Error updating room")
		return translateWriteError(err, "updating room")
	}
	return nil
}

// Delete removes a room. Rooms still referenced by students yield ErrReferenced.
func (r *PostgresRoomRepository) Delete(ctx context.Context, roomNumber string) error {
	sql, args, err := r.sb.Delete("rooms").Where(squirrel.Eq{"room_number": roomNumber}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete room query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		logger.Error().Err(err).Str("roomNumber", roomNumber).Msg("Error deleting room")
		return fmt.Errorf("error deleting room: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the dashboard room totals. Occupied means "not flagged available".
func (r *PostgresRoomRepository) Counts(ctx context.Context) (models.RoomCounts, error) {
	var counts models.RoomCounts
	sql, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE availability_status = 'available')",
	).From("rooms").ToSql()
	if err != nil {
		return counts, fmt.Errorf("failed to build room counts query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&counts.Total, &counts.Available); err != nil {
		logger.Error().Err(err).Msg("Error counting rooms")
		return counts, fmt.Errorf("error counting rooms: %w", err)
	}
	counts.Occupied = counts.Total - counts.Available
	return counts, nil
}
