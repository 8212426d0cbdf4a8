package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saltmarsh/adventure/internal/game/state"
)

// ErrSaveNotFound is returned when a save slot lookup yields no results.
var ErrSaveNotFound = errors.New("save not found")

// Save represents one persisted game snapshot.
type Save struct {
	ID        int64
	Slot      string
	GameTitle string
	Snapshot  state.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveRepository persists game snapshots as jsonb rows, one per slot.
type SaveRepository struct {
	db        *pgxpool.Pool
	gameTitle string
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
// Slots are scoped per game title so one database serves many games.
//
// Precondition: db must be a valid, open connection pool; gameTitle
// must be non-empty.
func NewSaveRepository(db *pgxpool.Pool, gameTitle string) *SaveRepository {
	return &SaveRepository{db: db, gameTitle: gameTitle}
}

// Save upserts the snapshot under the given slot.
//
// Precondition: slot must be non-empty.
// Postcondition: A later Load of the same slot returns this snapshot.
func (r *SaveRepository) Save(ctx context.Context, slot string, snap state.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO saves (game_title, slot, snapshot)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (game_title, slot)
		 DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()`,
		r.gameTitle, slot, payload,
	)
	if err != nil {
		return fmt.Errorf("upserting save: %w", err)
	}
	return nil
}

// Load retrieves the snapshot stored under the given slot.
//
// Precondition: slot must be non-empty.
// Postcondition: Returns the snapshot or ErrSaveNotFound.
func (r *SaveRepository) Load(ctx context.Context, slot string) (state.Snapshot, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT snapshot FROM saves WHERE game_title = $1 AND slot = $2`,
		r.gameTitle, slot,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return state.Snapshot{}, ErrSaveNotFound
		}
		return state.Snapshot{}, fmt.Errorf("querying save: %w", err)
	}

	var snap state.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return state.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

// List returns the saves for this game, newest first.
//
// Postcondition: Returns zero or more saves with Snapshot unset; load
// individual slots for full snapshots.
func (r *SaveRepository) List(ctx context.Context) ([]Save, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, slot, game_title, created_at, updated_at
		 FROM saves WHERE game_title = $1
		 ORDER BY updated_at DESC`,
		r.gameTitle,
	)
	if err != nil {
		return nil, fmt.Errorf("querying saves: %w", err)
	}
	defer rows.Close()

	var saves []Save
	for rows.Next() {
		var s Save
		if err := rows.Scan(&s.ID, &s.Slot, &s.GameTitle, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		saves = append(saves, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return saves, nil
}

// Delete removes the save stored under the given slot.
//
// Precondition: slot must be non-empty.
// Postcondition: The slot no longer exists, or ErrSaveNotFound is
// returned when it never did.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM saves WHERE game_title = $1 AND slot = $2`,
		r.gameTitle, slot,
	)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}
