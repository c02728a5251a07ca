package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/gameserver"
	"github.com/cory-johannsen/idlequest/internal/storage/postgres"
	"github.com/cory-johannsen/idlequest/internal/testutil"
)

func newSaveRepo(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewSaveRepository(pc.RawPool)
}

func TestSaveRepository_LoadMissing(t *testing.T) {
	repo := newSaveRepo(t)
	data, ok, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestSaveRepository_UpsertAndLoad(t *testing.T) {
	repo := newSaveRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "main", []byte(`{"version":1,"gold":5}`)))
	require.NoError(t, repo.Save(ctx, "main", []byte(`{"version":1,"gold":9}`)))

	data, ok, err := repo.Load(ctx, "main")
	require.NoError(t, err)
	require.True(t, ok)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 9, got["gold"])

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "main", infos[0].Slot)
	assert.Equal(t, 1, infos[0].Version)
	assert.False(t, infos[0].UpdatedAt.Before(infos[0].CreatedAt))
}

func TestSaveRepository_RejectsInvalidPayload(t *testing.T) {
	repo := newSaveRepo(t)
	ctx := context.Background()
	require.ErrorIs(t, repo.Save(ctx, "main", []byte(`not json`)), postgres.ErrInvalidSave)
	require.ErrorIs(t, repo.Save(ctx, "main", []byte(`{"gold":1}`)), postgres.ErrInvalidSave)
	_, ok, err := repo.Load(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveRepository_Delete(t *testing.T) {
	repo := newSaveRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "main", []byte(`{"version":1}`)))
	require.NoError(t, repo.Delete(ctx, "main"))
	require.ErrorIs(t, repo.Delete(ctx, "main"), postgres.ErrSaveNotFound)
}

func TestSaveRepository_GameSnapshotRoundTrip(t *testing.T) {
	repo := newSaveRepo(t)
	ctx := context.Background()

	content, err := gameserver.LoadDefaultContent()
	require.NoError(t, err)
	newGame := func(seed uint64) (*gameserver.Game, *combat.ManualScheduler) {
		sched := combat.NewManualScheduler()
		g, err := gameserver.NewGame(gameserver.DefaultConfig(), content, sched,
			dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop()), gameserver.NopSink{}, zap.NewNop())
		require.NoError(t, err)
		return g, sched
	}

	src, sched := newGame(1)
	src.Start()
	sched.Advance(time.Minute)
	require.NoError(t, gameserver.NewAutosaver(src, repo, "slot-a", time.Hour, zap.NewNop()).SaveNow(ctx))

	dst, _ := newGame(2)
	ok, err := gameserver.NewAutosaver(dst, repo, "slot-a", time.Hour, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	want, got := src.Snapshot(), dst.Snapshot()
	assert.Equal(t, want.Character.Level, got.Character.Level)
	assert.Equal(t, want.Character.XP, got.Character.XP)
	assert.Equal(t, want.Enemy, got.Enemy)
	assert.Equal(t, want.Inventory, got.Inventory)
}
