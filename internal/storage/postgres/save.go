package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSaveNotFound is returned when a slot has no save.
var ErrSaveNotFound = errors.New("save not found")

// ErrInvalidSave is returned when a payload is not a JSON object with a
// positive integer "version" field.
var ErrInvalidSave = errors.New("invalid save payload")

// SaveInfo describes a stored save without its payload.
type SaveInfo struct {
	Slot      string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveRepository persists encoded game snapshots keyed by slot.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts data under slot.
//
// Precondition: slot must be non-empty.
// Postcondition: the slot holds data, or ErrInvalidSave is returned and the
// stored save is unchanged.
func (r *SaveRepository) Save(ctx context.Context, slot string, data []byte) error {
	version, err := payloadVersion(data)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO saves (slot, version, snapshot)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slot) DO UPDATE
		 SET version = EXCLUDED.version, snapshot = EXCLUDED.snapshot, updated_at = NOW()`,
		slot, version, data,
	)
	if err != nil {
		return fmt.Errorf("upserting save %q: %w", slot, err)
	}
	return nil
}

// Load returns the payload stored under slot.
//
// Postcondition: ok is false with a nil error when the slot is empty.
func (r *SaveRepository) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT snapshot FROM saves WHERE slot = $1`,
		slot,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying save %q: %w", slot, err)
	}
	return data, true, nil
}

// List returns every stored save, most recently updated first.
func (r *SaveRepository) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT slot, version, created_at, updated_at
		 FROM saves ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SaveInfo, error) {
		var s SaveInfo
		err := row.Scan(&s.Slot, &s.Version, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning saves: %w", err)
	}
	return infos, nil
}

// Delete removes the save under slot.
//
// Postcondition: Returns ErrSaveNotFound if the slot was empty.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting save %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}

// payloadVersion extracts the schema version so that it can be indexed
// without decoding the whole snapshot.
func payloadVersion(data []byte) (int, error) {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if head.Version < 1 {
		return 0, fmt.Errorf("%w: missing version", ErrInvalidSave)
	}
	return head.Version, nil
}
