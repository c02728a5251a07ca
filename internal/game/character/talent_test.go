package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/idlequest/internal/game/character"
)

func withTalents(t *testing.T, unspent int, ranks map[character.TalentKey]int) *character.Character {
	t.Helper()
	s := leveled(t, 30).State()
	s.UnspentTalents = unspent
	s.TalentRanks = ranks
	c, err := character.FromState(character.DefaultRules(), s)
	require.NoError(t, err)
	return c
}

func TestSpendTalent_NoPoints(t *testing.T) {
	c := character.New(character.DefaultRules())
	assert.ErrorIs(t, c.SpendTalent(character.TalentAttackSpeed), character.ErrNoTalentPoints)
	assert.Zero(t, c.Talents().Rank(character.TalentAttackSpeed))
}

func TestSpendTalent_Unknown(t *testing.T) {
	c := withTalents(t, 1, nil)
	assert.ErrorIs(t, c.SpendTalent("fireball"), character.ErrUnknownTalent)
	assert.Equal(t, 1, c.Talents().Unspent())
}

func TestSpendTalent_GateFirst(t *testing.T) {
	c := withTalents(t, 3, map[character.TalentKey]int{character.TalentAttackSpeed: 4})
	assert.ErrorIs(t, c.SpendTalent(character.TalentCriticalStrike), character.ErrTalentGateLocked)

	require.NoError(t, c.SpendTalent(character.TalentAttackSpeed))
	assert.Equal(t, 5, c.Talents().Rank(character.TalentAttackSpeed))
	assert.Equal(t, 2, c.Talents().Unspent())
	assert.ErrorIs(t, c.SpendTalent(character.TalentAttackSpeed), character.ErrTalentMaxed)

	require.NoError(t, c.SpendTalent(character.TalentCriticalStrike))
	assert.Equal(t, 1, c.Talents().Rank(character.TalentCriticalStrike))
}

func TestSpendTalent_MutualExclusion(t *testing.T) {
	c := withTalents(t, 2, map[character.TalentKey]int{
		character.TalentAttackSpeed:    5,
		character.TalentCriticalStrike: 1,
	})
	before := c.Effective()

	err := c.SpendTalent(character.TalentHealthRegen)

	assert.ErrorIs(t, err, character.ErrTalentExclusive)
	assert.Equal(t, 1, c.Talents().Rank(character.TalentCriticalStrike))
	assert.Zero(t, c.Talents().Rank(character.TalentHealthRegen))
	assert.Equal(t, 2, c.Talents().Unspent())
	assert.Equal(t, before, c.Effective())
}

func TestSpendTalent_NextTierAfterMaxed(t *testing.T) {
	c := withTalents(t, 1, map[character.TalentKey]int{
		character.TalentAttackSpeed:    5,
		character.TalentCriticalStrike: 5,
	})
	require.NoError(t, c.SpendTalent(character.TalentScalingArmor))
	assert.Equal(t, 1, c.Talents().Rank(character.TalentScalingArmor))
}

func TestSpendTalent_RecomputesStats(t *testing.T) {
	c := withTalents(t, 1, nil)
	before := c.Effective().Haste
	require.NoError(t, c.SpendTalent(character.TalentAttackSpeed))
	assert.InDelta(t, before+5, c.Effective().Haste, 1e-9)
}

func TestResetTalents_Refunds(t *testing.T) {
	c := withTalents(t, 1, map[character.TalentKey]int{
		character.TalentAttackSpeed:  5,
		character.TalentScalingArmor: 3,
	})
	n := c.ResetTalents()
	assert.Equal(t, 8, n)
	assert.Equal(t, 9, c.Talents().Unspent())
	assert.Empty(t, c.Talents().Ranks())
	assert.Zero(t, c.Effective().Haste)
}
