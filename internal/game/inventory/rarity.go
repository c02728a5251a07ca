package inventory

import (
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
)

// Rarity is an item quality tier.
type Rarity string

// Rarity constants, in ascending order of quality.
const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// RarityInfo holds the static properties of one rarity tier.
type RarityInfo struct {
	Rarity Rarity
	// Color is a display tag for collaborators rendering the item.
	Color string
	// LevelBoost is added to item level when scaling stats. It does not
	// change the displayed item level.
	LevelBoost int
	// GoldMultiplier scales the sell price.
	GoldMultiplier float64
	// DropChance is the percent chance of this tier on a loot roll.
	DropChance float64
}

var rarityTable = []RarityInfo{
	{Rarity: RarityCommon, Color: "#ffffff", LevelBoost: 0, GoldMultiplier: 1, DropChance: 72},
	{Rarity: RarityUncommon, Color: "#1eff00", LevelBoost: 5, GoldMultiplier: 2, DropChance: 25},
	{Rarity: RarityRare, Color: "#0070dd", LevelBoost: 10, GoldMultiplier: 5, DropChance: 2.5},
	{Rarity: RarityEpic, Color: "#a335ee", LevelBoost: 15, GoldMultiplier: 10, DropChance: 0.49},
	{Rarity: RarityLegendary, Color: "#ff8000", LevelBoost: 25, GoldMultiplier: 20, DropChance: 0.01},
}

// Rarities returns the rarity table in ascending order.
func Rarities() []RarityInfo {
	out := make([]RarityInfo, len(rarityTable))
	copy(out, rarityTable)
	return out
}

// Info returns the static properties of r.
//
// Precondition: r.Valid(). Panics otherwise.
func (r Rarity) Info() RarityInfo {
	for _, info := range rarityTable {
		if info.Rarity == r {
			return info
		}
	}
	panic(fmt.Sprintf("inventory: unknown rarity %q", r))
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	for _, info := range rarityTable {
		if info.Rarity == r {
			return true
		}
	}
	return false
}

// Weighted is one entry of a cumulative rarity roll.
type Weighted struct {
	Rarity Rarity
	Chance float64
}

// DropWeights returns the loot drop distribution.
func DropWeights() []Weighted {
	out := make([]Weighted, 0, len(rarityTable))
	for _, info := range rarityTable {
		out = append(out, Weighted{Rarity: info.Rarity, Chance: info.DropChance})
	}
	return out
}

// PickRarity performs cumulative-probability selection over weights using a
// roll in [0, 100).
//
// Precondition: weights is non-empty.
// Postcondition: Returns the first tier whose cumulative chance exceeds roll,
// or the last tier when rounding leaves the roll uncovered.
func PickRarity(weights []Weighted, roll float64) Rarity {
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Chance
		if roll < cumulative {
			return w.Rarity
		}
	}
	return weights[len(weights)-1].Rarity
}

// RollRarity draws a rarity from weights.
//
// Precondition: r and weights are non-empty.
func RollRarity(r *dice.Roller, weights []Weighted) Rarity {
	return PickRarity(weights, r.Percent("rarity"))
}
