// Package character defines the player character aggregate: base and
// effective stats, equipment, talents, and the progression rules that
// mutate them.
package character

import (
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// Stats is a full combat stat block. On base stats Critical, Haste, and
// Mastery are flat points; on effective stats they are percentages.
type Stats struct {
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	MaxHP       float64 `json:"max_hp"`
	HealthRegen float64 `json:"health_regen"`
	Critical    float64 `json:"critical"`
	Haste       float64 `json:"haste"`
	Mastery     float64 `json:"mastery"`
}

// Character is the player aggregate.
//
// Invariant: 0 <= HP() <= Effective().MaxHP after every exported mutation.
// Invariant: Effective() is always the output of Recompute over the current inputs.
type Character struct {
	rules Rules

	base      Stats
	effective Stats

	level         int
	xp            int
	xpToNextLevel int
	hp            float64
	gold          int

	equipment   map[inventory.Slot]*inventory.Item
	talents     *Talents
	regenCapped bool
}

// New returns a level 1 character at full health.
//
// Precondition: rules.Validate() == nil.
// Postcondition: Level() == 1; HP() == Effective().MaxHP.
func New(rules Rules) *Character {
	c := &Character{
		rules: rules,
		base: Stats{
			Attack:      BaseAttack(1),
			MaxHP:       StartingMaxHP,
			HealthRegen: StartingHealthRegen,
		},
		level:     1,
		equipment: make(map[inventory.Slot]*inventory.Item),
		talents:   NewTalents(),
	}
	c.xpToNextLevel = XPToNextLevel(rules, 1)
	c.Recompute()
	c.hp = c.effective.MaxHP
	return c
}

// Rules returns the rules this character was built with.
func (c *Character) Rules() Rules { return c.rules }

// Base returns the base stats.
func (c *Character) Base() Stats { return c.base }

// Effective returns the derived stats.
func (c *Character) Effective() Stats { return c.effective }

// Level returns the current level.
func (c *Character) Level() int { return c.level }

// XP returns experience accumulated toward the next level.
func (c *Character) XP() int { return c.xp }

// XPToNextLevel returns the experience threshold for the current level.
func (c *Character) XPToNextLevel() int { return c.xpToNextLevel }

// Gold returns the gold balance.
func (c *Character) Gold() int { return c.gold }

// HP returns current health.
func (c *Character) HP() float64 { return c.hp }

// HPRatio returns HP()/MaxHP in [0, 1].
func (c *Character) HPRatio() float64 {
	if c.effective.MaxHP <= 0 {
		return 0
	}
	return c.hp / c.effective.MaxHP
}

// HealthRegenCapped reports whether gear regen hit the max-HP based cap.
func (c *Character) HealthRegenCapped() bool { return c.regenCapped }

// Talents returns the talent ranks and unspent points.
func (c *Character) Talents() *Talents { return c.talents }

// Equipped returns the item in slot, or nil.
func (c *Character) Equipped(slot inventory.Slot) *inventory.Item {
	return c.equipment[slot]
}

// EquippedItems returns the occupied slots.
func (c *Character) EquippedItems() map[inventory.Slot]*inventory.Item {
	out := make(map[inventory.Slot]*inventory.Item, len(c.equipment))
	for s, it := range c.equipment {
		out[s] = it
	}
	return out
}

// SetHP sets health, clamped to [0, MaxHP].
func (c *Character) SetHP(hp float64) {
	c.hp = hp
	c.clampHP()
}

// Heal adds amount to health, clamped to MaxHP.
//
// Postcondition: returns the health actually restored.
func (c *Character) Heal(amount float64) float64 {
	before := c.hp
	c.SetHP(c.hp + amount)
	return c.hp - before
}

// HealToFull sets HP to MaxHP.
func (c *Character) HealToFull() {
	c.hp = c.effective.MaxHP
}

// TakeDamage subtracts amount from health, flooring at 0.
//
// Postcondition: returns true when HP reached 0.
func (c *Character) TakeDamage(amount float64) bool {
	c.SetHP(c.hp - amount)
	return c.hp <= 0
}

// AddGold credits amount.
//
// Precondition: amount >= 0.
func (c *Character) AddGold(amount int) {
	if amount < 0 {
		panic("character: AddGold called with negative amount")
	}
	c.gold += amount
}

// SpendGold debits amount.
//
// Postcondition: returns ErrInsufficientGold and leaves gold unchanged when
// the balance is short.
func (c *Character) SpendGold(amount int) error {
	if amount > c.gold {
		return ErrInsufficientGold
	}
	c.gold -= amount
	return nil
}

func (c *Character) clampHP() {
	if c.hp > c.effective.MaxHP {
		c.hp = c.effective.MaxHP
	}
	if c.hp < 0 {
		c.hp = 0
	}
}
