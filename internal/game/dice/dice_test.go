package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
)

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSeededSource_IsDeterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededSource_DifferentSeedsDiverge(t *testing.T) {
	a := dice.NewSeededSource(1)
	b := dice.NewSeededSource(2)
	same := 0
	for i := 0; i < 50; i++ {
		if a.Intn(1_000_000) == b.Intn(1_000_000) {
			same++
		}
	}
	assert.Less(t, same, 50)
}

func TestIntRange_Inclusive_Property(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := lo + rapid.IntRange(0, 50).Draw(rt, "span")
		v := dice.IntRange(src, lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestIntRange_PanicsWhenInverted(t *testing.T) {
	assert.Panics(t, func() { dice.IntRange(dice.NewSeededSource(1), 5, 4) })
}

func TestBetween_Property(t *testing.T) {
	src := dice.NewSeededSource(9)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(-10, 10).Draw(rt, "lo")
		hi := lo + rapid.Float64Range(0.001, 10).Draw(rt, "span")
		v := dice.Between(src, lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.Less(rt, v, hi)
	})
}

func TestRoller_Chance_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.New(core))

	assert.True(t, r.Chance("always", 100))
	assert.False(t, r.Chance("never", 0))

	entries := logs.FilterMessage("chance roll").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "always", entries[0].ContextMap()["label"])
}

func TestRoller_Pick_InRange(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(5), zap.NewNop())
	for i := 0; i < 200; i++ {
		v := r.Pick("name", 3)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 3)
	}
}
