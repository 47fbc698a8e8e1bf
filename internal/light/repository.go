package light

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// deviceIDHexLen is the number of hex characters appended to the
// configured prefix when minting a device identity.
const deviceIDHexLen = 8

// Repository defines the interface for lighting state persistence.
type Repository interface {
	SaveSnapshot(ctx context.Context, s State) error
	LoadSnapshot(ctx context.Context) (State, error)
	DeviceID(ctx context.Context, prefix string) (string, error)
}

// SQLiteRepository implements Repository using SQLite. Both tables are
// single-row; the light has exactly one state and one identity.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed lighting repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveSnapshot upserts the persisted state snapshot.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s State) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}

	const query = `INSERT INTO light_state (id, snapshot, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, string(data), timestamp()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the persisted state.
//
// Returns:
//   - State: the decoded state with colour fields normalised
//   - error: ErrNoSnapshot when nothing has been saved yet, or
//     ErrInvalidSnapshot when the stored row cannot be decoded
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) (State, error) {
	const query = `SELECT snapshot FROM light_state WHERE id = 1`

	var data string
	err := r.db.QueryRowContext(ctx, query).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNoSnapshot
	}
	if err != nil {
		return State{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return snap.ToState()
}

// DeviceID returns the stable device identifier, minting and persisting
// one on first use. The identity survives restarts and state resets.
//
// Parameters:
//   - prefix: the configured identifier prefix, e.g. "LIGHT-"
func (r *SQLiteRepository) DeviceID(ctx context.Context, prefix string) (string, error) {
	const selectQuery = `SELECT device_id FROM device_identity WHERE id = 1`

	var id string
	err := r.db.QueryRowContext(ctx, selectQuery).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("loading device identity: %w", err)
	}

	id = mintDeviceID(prefix)
	const insertQuery = `INSERT INTO device_identity (id, device_id, created_at)
		VALUES (1, ?, ?)`
	if _, err := r.db.ExecContext(ctx, insertQuery, id, timestamp()); err != nil {
		return "", fmt.Errorf("storing device identity: %w", err)
	}
	return id, nil
}

// mintDeviceID builds an identifier from the prefix and random hex,
// e.g. "LIGHT-a1b2c3d4".
func mintDeviceID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s%x", prefix, u[:deviceIDHexLen/2])
}

// timestamp formats the current time the way the schema stores it.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
