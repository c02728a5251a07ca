package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/testutil"
)

func scripted(floats ...float64) *dice.Roller {
	return dice.NewLoggedRoller(testutil.NewScriptedSource(floats...), zap.NewNop())
}

func TestMissChance_EqualLevelIsBase(t *testing.T) {
	assert.Equal(t, combat.BaseMissChance, combat.MissChance(20, 20, false, 0))
	assert.Equal(t, combat.BaseMissChance, combat.MissChance(5, 20, false, 0))
}

func TestMissChance_TenAboveIsCeiling(t *testing.T) {
	assert.Equal(t, combat.MaxMissChance, combat.MissChance(30, 20, false, 0))
	assert.Equal(t, combat.MaxMissChance, combat.MissChance(60, 20, false, 0))
}

func TestMissChance_QuadraticRamp(t *testing.T) {
	assert.Equal(t, 1.5, combat.MissChance(21, 20, false, 0))
	assert.Equal(t, 5.5, combat.MissChance(23, 20, false, 0))
	assert.Equal(t, 41.5, combat.MissChance(29, 20, false, 0))
}

func TestMissChance_MaxLevelAccuracy(t *testing.T) {
	assert.Equal(t, 60.0, combat.MissChance(130, 100, true, 0))
	assert.InDelta(t, 25.0, combat.MissChance(130, 100, true, 100), 1e-9)
	assert.Equal(t, combat.MaxLevelMissFloor, combat.MissChance(130, 100, true, 1000))
	assert.Equal(t, combat.MaxLevelMissCeiling, combat.MissChance(200, 100, true, 0))
	assert.Equal(t, combat.BaseMissChance, combat.MissChance(100, 100, true, 0))
}

func TestMissChance_NonDecreasingInGap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pl := rapid.IntRange(1, 99).Draw(rt, "player")
		el := rapid.IntRange(1, 150).Draw(rt, "enemy")
		a := combat.MissChance(el, pl, false, 0)
		b := combat.MissChance(el+1, pl, false, 0)
		assert.LessOrEqual(rt, a, b)
		assert.GreaterOrEqual(rt, a, combat.BaseMissChance)
		assert.LessOrEqual(rt, a, combat.MaxMissChance)
	})
}

func TestIntervals(t *testing.T) {
	assert.Equal(t, 2*time.Second, combat.PlayerAttackInterval(0, 1))
	assert.Equal(t, time.Second, combat.PlayerAttackInterval(0, 2))
	assert.Equal(t, time.Second, combat.PlayerAttackInterval(100, 1))
	assert.Equal(t, 2935*time.Millisecond, combat.EnemyAttackInterval(1))
	assert.Equal(t, 2935*time.Millisecond/2, combat.EnemyAttackInterval(2))
	assert.Equal(t, 500*time.Millisecond, combat.RegenInterval(2))
	assert.Equal(t, time.Second, combat.SpawnDelay(2))
	assert.Equal(t, 250*time.Millisecond, combat.RestEndSpawnDelay(4))
	assert.Panics(t, func() { combat.Scale(time.Second, 0) })
}

func TestPlayerAttack_Miss(t *testing.T) {
	hit := combat.PlayerAttack(scripted(0.005), combat.Attacker{Attack: 100}, combat.BaseMissChance)
	assert.True(t, hit.Miss)
	assert.Zero(t, hit.Damage)
}

func TestPlayerAttack_MasteryAndCrit(t *testing.T) {
	a := combat.Attacker{Attack: 100, Critical: 10, Mastery: 10}

	normal := combat.PlayerAttack(scripted(0.5, 0.5, 0.99), a, combat.BaseMissChance)
	assert.False(t, normal.Miss)
	assert.False(t, normal.Critical)
	assert.Equal(t, 110, normal.Damage)

	crit := combat.PlayerAttack(scripted(0.5, 0.5, 0.0), a, combat.BaseMissChance)
	assert.True(t, crit.Critical)
	assert.Equal(t, 220, crit.Damage)
}

func TestPlayerAttack_VarianceBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		attack := rapid.Float64Range(1, 10000).Draw(rt, "attack")
		r := dice.NewLoggedRoller(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), zap.NewNop())
		hit := combat.PlayerAttack(r, combat.Attacker{Attack: attack}, 0)
		require.False(rt, hit.Miss)
		assert.GreaterOrEqual(rt, float64(hit.Damage), float64(int(attack*0.8))-1)
		assert.LessOrEqual(rt, float64(hit.Damage), attack*1.2)
	})
}

func TestEnemyAttack_NoVarianceBelowAttack(t *testing.T) {
	tune := combat.DefaultTuning()
	hit := tune.EnemyAttack(scripted(0), 100, 0, 0)
	assert.Equal(t, 100, hit.Damage)
	assert.False(t, hit.Miss)
}

func TestEnemyAttack_UnderLevelPenalty(t *testing.T) {
	tune := combat.DefaultTuning()
	hit := tune.EnemyAttack(scripted(0), 100, 0, 5)
	assert.Equal(t, 200, hit.Damage)
}

func TestEnemyAttack_ArmorCap(t *testing.T) {
	tune := combat.DefaultTuning()
	assert.Equal(t, combat.DefaultArmorCap, tune.ArmorMitigation(1e9))
	hit := tune.EnemyAttack(scripted(0), 1000, 1e9, 0)
	assert.Equal(t, 100, hit.Damage)
}

func TestArmorMitigation_NeverExceedsCap(t *testing.T) {
	tune := combat.DefaultTuning()
	rapid.Check(t, func(rt *rapid.T) {
		def := rapid.Float64Range(0, 1e7).Draw(rt, "defense")
		m := tune.ArmorMitigation(def)
		assert.GreaterOrEqual(rt, m, 0.0)
		assert.LessOrEqual(rt, m, tune.ArmorCap)
	})
}

func TestTuning_Validate(t *testing.T) {
	assert.NoError(t, combat.DefaultTuning().Validate())
	bad := combat.Tuning{ArmorK: 0, ArmorCap: 1, GhostFormDuration: 0}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "armor_k")
	assert.Contains(t, err.Error(), "armor_cap")
	assert.Contains(t, err.Error(), "ghost_form_duration")
}

func TestMode_StringRoundTrip(t *testing.T) {
	for _, m := range []combat.Mode{combat.ModeActive, combat.ModeResting, combat.ModeGhostForm, combat.ModeGameOver} {
		got, ok := combat.ParseMode(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := combat.ParseMode("sleeping")
	assert.False(t, ok)
}
