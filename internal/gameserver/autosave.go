package gameserver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SnapshotStore persists encoded snapshots by save slot.
type SnapshotStore interface {
	// Save writes data under slot, replacing any previous save.
	Save(ctx context.Context, slot string, data []byte) error
	// Load returns the save under slot; ok is false when none exists.
	Load(ctx context.Context, slot string) (data []byte, ok bool, err error)
}

// Autosaver periodically writes the game's snapshot to a store.
//
// Invariant: at most one save is in flight at a time.
type Autosaver struct {
	game     *Game
	store    SnapshotStore
	slot     string
	interval time.Duration
	logger   *zap.Logger
}

// NewAutosaver returns an Autosaver that saves game to slot every interval.
//
// Precondition: interval must be > 0; game, store and logger must be non-nil.
func NewAutosaver(game *Game, store SnapshotStore, slot string, interval time.Duration, logger *zap.Logger) *Autosaver {
	if interval <= 0 {
		panic("gameserver.NewAutosaver: interval must be > 0")
	}
	return &Autosaver{game: game, store: store, slot: slot, interval: interval, logger: logger}
}

// SaveNow encodes the current snapshot and writes it.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	data, err := EncodeSnapshot(a.game.Snapshot())
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, a.slot, data); err != nil {
		return fmt.Errorf("saving slot %q: %w", a.slot, err)
	}
	a.logger.Debug("game saved", zap.String("slot", a.slot), zap.Int("bytes", len(data)))
	return nil
}

// Load restores the slot's save into the game.
//
// Postcondition: returns (false, nil) when the slot is empty, leaving the
// game untouched; a corrupt save returns an error and also leaves it untouched.
func (a *Autosaver) Load(ctx context.Context) (bool, error) {
	data, ok, err := a.store.Load(ctx, a.slot)
	if err != nil {
		return false, fmt.Errorf("loading slot %q: %w", a.slot, err)
	}
	if !ok {
		return false, nil
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return false, err
	}
	if err := a.game.Restore(snap); err != nil {
		return false, err
	}
	a.logger.Info("game loaded", zap.String("slot", a.slot))
	return true, nil
}

// Run saves every interval until ctx is cancelled, then makes one final
// save with a fresh context.
//
// Postcondition: blocks until ctx is done; failed saves are logged, not fatal.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.SaveNow(final); err != nil {
				a.logger.Warn("final save failed", zap.Error(err))
			}
			return
		case <-ticker.C:
			if err := a.SaveNow(ctx); err != nil {
				a.logger.Warn("autosave failed", zap.Error(err))
			}
		}
	}
}
