package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/hostelhub/internal/pkg/logger"
)

const nextCounterSQL = `INSERT INTO counters (counter_name, counter_value) VALUES ($1, 1)
ON CONFLICT (counter_name) DO UPDATE SET counter_value = counters.counter_value + 1, updated_at = NOW()
RETURNING counter_value`

// PostgresCounterRepository hands out sequence values from the counters table
type PostgresCounterRepository struct {
	db DBTX
}

// NewCounterRepository creates a new PostgresCounterRepository
func NewCounterRepository(db DBTX) *PostgresCounterRepository {
	return &PostgresCounterRepository{db: db}
}

// Next increments the named counter in a single upsert and returns the new value
func (r *PostgresCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	if err := r.db.QueryRow(ctx, nextCounterSQL, name).Scan(&value); err != nil {
		logger.Error().Err(err).Str("counter", name).Msg("Error incrementing counter")
		return 0, fmt.Errorf("error incrementing counter %s: %w", name, err)
	}
	return value, nil
}
