package inventory

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
)

// Per-level scaling constants for generated stats.
const (
	WeaponScaling       = 8.0
	ArmorMaxHPScaling   = 35.0
	ArmorDefenseScaling = 3.0
	ArmorRegenScaling   = 1.5
	SecondaryScaling    = 15.0
)

// Defense power weights combine armor stats into one comparison scalar.
const (
	DefensePowerMaxHPWeight   = 0.05
	DefensePowerDefenseWeight = 1.0
	DefensePowerRegenWeight   = 10.0
)

// Secondary pools are split with a ratio drawn from this range.
const (
	minSplitRatio = 0.25
	maxSplitRatio = 0.75
)

// LevelScalingMultiplier returns 0.3 + 0.7x + 3x² where x = level/100.
//
// Postcondition: strictly increasing for level >= 0; 0.307... at level 1
// and 4.0 at level 100.
func LevelScalingMultiplier(level float64) float64 {
	x := level / 100
	return 0.3 + 0.7*x + 3.0*x*x
}

// SellPrice returns floor(level × gold multiplier), minimum 1.
//
// Precondition: rarity.Valid().
func SellPrice(level int, rarity Rarity) int {
	p := int(math.Floor(float64(level) * rarity.Info().GoldMultiplier))
	if p < 1 {
		return 1
	}
	return p
}

// DefensePower combines armor stats into one comparison scalar.
func DefensePower(maxHP, defense, regen float64) float64 {
	return maxHP*DefensePowerMaxHPWeight + defense*DefensePowerDefenseWeight + regen*DefensePowerRegenWeight
}

// Generator produces item instances from the base catalogue.
type Generator struct {
	reg    *Registry
	roller *dice.Roller
	newID  func() string
}

// NewGenerator returns a Generator drawing bases from reg and randomness from roller.
//
// Precondition: reg and roller must be non-nil.
func NewGenerator(reg *Registry, roller *dice.Roller) *Generator {
	return &Generator{reg: reg, roller: roller, newID: uuid.NewString}
}

// Registry returns the base catalogue the generator draws from.
func (g *Generator) Registry() *Registry {
	return g.reg
}

// Generate creates an item of archetype a at itemLevel with the given rarity
// and affix. Stats are frozen at creation.
//
// Precondition: a has a registered base; itemLevel >= 1; rarity and affixName
// are known. Violations are programming errors and panic.
// Postcondition: returned item passes Validate; exactly one of Weapon/Armor is set.
func (g *Generator) Generate(a Archetype, itemLevel int, rarity Rarity, affixName string) *Item {
	def, ok := g.reg.ForArchetype(a)
	if !ok {
		panic(fmt.Sprintf("inventory: no base item for archetype %q", a))
	}
	if itemLevel < 1 {
		panic(fmt.Sprintf("inventory: item level must be >= 1, got %d", itemLevel))
	}
	affix := MustAffix(affixName)
	info := rarity.Info()

	effective := float64(itemLevel + info.LevelBoost)
	scaled := def.BaseStatValue * effective * LevelScalingMultiplier(effective)

	it := &Item{
		ID:        g.newID(),
		Name:      def.Name,
		Archetype: a,
		Level:     itemLevel,
		Rarity:    rarity,
		Affix:     affix.Name,
		SellPrice: SellPrice(itemLevel, rarity),
	}
	if a.IsWeapon() {
		it.Weapon = &WeaponStats{Attack: scaled * WeaponScaling}
	} else {
		maxHP := scaled * ArmorMaxHPScaling
		defense := scaled * ArmorDefenseScaling
		regen := scaled * ArmorRegenScaling
		it.Armor = &ArmorStats{
			MaxHP:        maxHP,
			Defense:      defense,
			HealthRegen:  regen,
			DefensePower: DefensePower(maxHP, defense, regen),
		}
	}

	pool := scaled * SecondaryScaling
	ratio := g.roller.Between("affix split", minSplitRatio, maxSplitRatio)
	it.Secondary.Add(affix.Stats[0], pool*ratio)
	it.Secondary.Add(affix.Stats[1], pool*(1-ratio))
	return it
}

// RandomAffix returns the name of a uniformly chosen affix.
func (g *Generator) RandomAffix() string {
	return affixTable[g.roller.Pick("affix", len(affixTable))].Name
}

// RandomArchetype returns a uniformly chosen archetype with a registered base.
//
// Precondition: the registry is non-empty.
func (g *Generator) RandomArchetype() Archetype {
	as := g.reg.Archetypes()
	return as[g.roller.Pick("archetype", len(as))]
}

// Roll generates an item of archetype a at itemLevel with a rarity drawn
// from weights and a random affix.
//
// Precondition: weights is non-empty.
func (g *Generator) Roll(a Archetype, itemLevel int, weights []Weighted) *Item {
	rarity := RollRarity(g.roller, weights)
	return g.Generate(a, itemLevel, rarity, g.RandomAffix())
}
