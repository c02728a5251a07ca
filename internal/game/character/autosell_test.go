package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

func TestAutoSellPolicy_Rarity(t *testing.T) {
	g := newGenerator(t)
	c := character.New(character.DefaultRules())
	common := g.Generate(inventory.ArchetypeHead, 1, inventory.RarityCommon, "of the Tiger")
	epic := g.Generate(inventory.ArchetypeHead, 1, inventory.RarityEpic, "of the Tiger")

	p := character.AutoSellPolicy{Common: true}
	assert.True(t, p.ShouldSell(c, common))
	assert.False(t, p.ShouldSell(c, epic))
	assert.False(t, character.AutoSellPolicy{}.ShouldSell(c, common))
}

func TestAutoSellPolicy_WorseThanEquipped(t *testing.T) {
	g := newGenerator(t)
	c := leveled(t, 10)
	inv := inventory.NewInventory()
	p := character.AutoSellPolicy{WorseThanEquipped: true}

	low := g.Generate(inventory.ArchetypeWeapon, 2, inventory.RarityCommon, "of the Tiger")
	assert.False(t, p.ShouldSell(c, low), "empty slot never sells")

	mid := g.Generate(inventory.ArchetypeWeapon, 5, inventory.RarityCommon, "of the Tiger")
	inv.Add(mid)
	_, err := c.Equip(inv, mid.ID)
	require.NoError(t, err)

	high := g.Generate(inventory.ArchetypeWeapon, 9, inventory.RarityCommon, "of the Tiger")
	assert.True(t, p.ShouldSell(c, low))
	assert.False(t, p.ShouldSell(c, high))

	dagger := g.Generate(inventory.ArchetypeDagger, 1, inventory.RarityCommon, "of the Tiger")
	assert.False(t, p.ShouldSell(c, dagger), "daggers compare against the empty off hand")
}
