package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/model"
)

// SaveState stores the serialized workflow state for one record kind,
// replacing any previous value.
func (s *SQLiteStorage) SaveState(ctx context.Context, kind string, state []byte) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (kind, state, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(kind) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		kind, state)
	if err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// LoadState returns the serialized workflow state for one record kind, or
// common.ErrNotFound when no session was saved.
func (s *SQLiteStorage) LoadState(ctx context.Context, kind string) ([]byte, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM sessions WHERE kind = ?`, kind).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	return state, nil
}

// SaveDriverPool caches the aggregated driver pool so list commands can
// highlight and filter without re-running a multi-day aggregation.
func (s *SQLiteStorage) SaveDriverPool(ctx context.Context, drivers []model.Driver) error {
	data, err := json.Marshal(drivers)
	if err != nil {
		return fmt.Errorf("failed to encode driver pool: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO driver_pool (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		data)
	if err != nil {
		return fmt.Errorf("failed to save driver pool: %w", err)
	}
	return nil
}

// LoadDriverPool returns the cached driver pool, or common.ErrNotFound when
// no pool has been aggregated yet.
func (s *SQLiteStorage) LoadDriverPool(ctx context.Context) ([]model.Driver, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM driver_pool WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load driver pool: %w", err)
	}

	var drivers []model.Driver
	if err := json.Unmarshal(data, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode driver pool: %w", err)
	}
	return drivers, nil
}
