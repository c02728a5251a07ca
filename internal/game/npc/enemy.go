// Package npc generates enemies from the active zone and resolves the loot
// they drop.
package npc

import (
	"math"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/world"
)

// Enemy scaling constants.
const (
	HPBase           = 75.0
	HPScaling        = 1.0975
	AttackBase       = 10.0
	AttackScaling    = 1.080
	XPRewardBase     = 20.0
	XPRewardExponent = 1.3
)

// Enemy is a live opponent. It is regenerated wholesale on every spawn.
type Enemy struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxHP    int    `json:"max_hp"`
	HP       int    `json:"hp"`
	Attack   int    `json:"attack"`
	XPReward int    `json:"xp_reward"`
}

// Alive reports whether the enemy has health remaining.
func (e *Enemy) Alive() bool {
	return e != nil && e.HP > 0
}

// TakeDamage subtracts amount, flooring at 0.
//
// Postcondition: returns true when the enemy is defeated.
func (e *Enemy) TakeDamage(amount int) bool {
	e.HP -= amount
	if e.HP < 0 {
		e.HP = 0
	}
	return e.HP == 0
}

// Tier is a level band applying extra difficulty on top of exponential growth.
type Tier struct {
	MinLevel int
	HP       float64
	Attack   float64
}

// tiers is ordered by MinLevel; the last tier whose MinLevel <= level applies.
var tiers = []Tier{
	{MinLevel: 1, HP: 1.0, Attack: 1.0},
	{MinLevel: 21, HP: 1.10, Attack: 1.05},
	{MinLevel: 41, HP: 1.25, Attack: 1.15},
	{MinLevel: 61, HP: 1.40, Attack: 1.25},
	{MinLevel: 81, HP: 1.60, Attack: 1.35},
}

// TierFor returns the difficulty tier for level.
func TierFor(level int) Tier {
	t := tiers[0]
	for _, candidate := range tiers {
		if level >= candidate.MinLevel {
			t = candidate
		}
	}
	return t
}

// Scaled holds the level-derived numbers of an enemy.
type Scaled struct {
	MaxHP    int
	Attack   int
	XPReward int
}

// ScaleFor derives an enemy's stats from its level.
//
// Precondition: level >= 1.
// Postcondition: every field is >= 1.
func ScaleFor(level int) Scaled {
	tier := TierFor(level)
	l := float64(level)
	return Scaled{
		MaxHP:    atLeastOne(HPBase * math.Pow(HPScaling, l-1) * tier.HP),
		Attack:   atLeastOne(AttackBase * math.Pow(AttackScaling, l-1) * tier.Attack),
		XPReward: atLeastOne(XPRewardBase * math.Pow(l, XPRewardExponent)),
	}
}

func atLeastOne(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

// Generator spawns enemies.
type Generator struct {
	roller *dice.Roller
}

// NewGenerator returns a Generator drawing randomness from roller.
//
// Precondition: roller is non-nil.
func NewGenerator(roller *dice.Roller) *Generator {
	return &Generator{roller: roller}
}

// Spawn creates a full-health enemy for zone at floor against a player of
// playerLevel.
//
// Precondition: zone passes Validate.
// Postcondition: enemy level lies in world.WindowFor(zone, floor, playerLevel);
// HP == MaxHP; name is drawn from the zone's pool.
func (g *Generator) Spawn(zone *world.Zone, floor, playerLevel int) *Enemy {
	lo, hi := world.WindowFor(zone, floor, playerLevel)
	level := g.roller.IntRange("enemy level", lo, hi)
	s := ScaleFor(level)
	return &Enemy{
		Name:     zone.EnemyNames[g.roller.Pick("enemy name", len(zone.EnemyNames))],
		Level:    level,
		MaxHP:    s.MaxHP,
		HP:       s.MaxHP,
		Attack:   s.Attack,
		XPReward: s.XPReward,
	}
}
