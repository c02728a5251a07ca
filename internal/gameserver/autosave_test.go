package gameserver_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/gameserver"
)

type memStore struct {
	mu    sync.Mutex
	saves map[string][]byte
	count int
	err   error
}

func newMemStore() *memStore {
	return &memStore{saves: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves[slot] = append([]byte(nil), data...)
	m.count++
	return nil
}

func (m *memStore) Load(_ context.Context, slot string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	data, ok := m.saves[slot]
	return data, ok, nil
}

func (m *memStore) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func TestNewAutosaver_PanicsOnNonPositiveInterval(t *testing.T) {
	h := newHarness(t, dice.NewSeededSource(1))
	assert.Panics(t, func() {
		gameserver.NewAutosaver(h.game, newMemStore(), "main", 0, zap.NewNop())
	})
}

func TestAutosaver_SaveNowThenLoad(t *testing.T) {
	store := newMemStore()
	src := newHarness(t, dice.NewSeededSource(2))
	src.game.Start()
	src.sched.Advance(10 * time.Second)
	require.NoError(t, gameserver.NewAutosaver(src.game, store, "main", time.Minute, zap.NewNop()).SaveNow(context.Background()))

	dst := newHarness(t, dice.NewSeededSource(3))
	ok, err := gameserver.NewAutosaver(dst.game, store, "main", time.Minute, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, src.game.Snapshot().Enemy, dst.game.Snapshot().Enemy)
}

func TestAutosaver_LoadEmptySlot(t *testing.T) {
	h := newHarness(t, dice.NewSeededSource(4))
	before := h.game.Snapshot()
	ok, err := gameserver.NewAutosaver(h.game, newMemStore(), "empty", time.Minute, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, h.game.Snapshot())
}

func TestAutosaver_LoadCorruptSave(t *testing.T) {
	store := newMemStore()
	store.saves["main"] = []byte(`{"version":1,"bogus":true}`)
	h := newHarness(t, dice.NewSeededSource(5))
	_, err := gameserver.NewAutosaver(h.game, store, "main", time.Minute, zap.NewNop()).Load(context.Background())
	require.ErrorIs(t, err, gameserver.ErrInvalidSnapshot)
}

func TestAutosaver_StoreErrorsPropagate(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")
	h := newHarness(t, dice.NewSeededSource(6))
	a := gameserver.NewAutosaver(h.game, store, "main", time.Minute, zap.NewNop())
	require.ErrorContains(t, a.SaveNow(context.Background()), "disk full")
	_, err := a.Load(context.Background())
	require.ErrorContains(t, err, "disk full")
}

func TestAutosaver_RunSavesPeriodicallyAndOnShutdown(t *testing.T) {
	store := newMemStore()
	h := newHarness(t, dice.NewSeededSource(7))
	a := gameserver.NewAutosaver(h.game, store, "main", 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.saved() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	n := store.saved()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, store.saved())
}
