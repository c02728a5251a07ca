package combat

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/stats"
)

// Base cadences before haste and game speed are applied.
const (
	BasePlayerAttackInterval = 2000 * time.Millisecond
	BaseEnemyAttackInterval  = 2935 * time.Millisecond
	BaseRegenInterval        = 1000 * time.Millisecond
	BaseSpawnDelay           = 2000 * time.Millisecond
	BaseRestEndSpawnDelay    = 1000 * time.Millisecond
	DefaultGhostFormDuration = 45 * time.Second
)

// Rest thresholds, as fractions of max HP.
const (
	RestingThreshold = 0.35
	RestEntryCeiling = 0.85
	RestHealFraction = 0.10
)

// Miss chance curve, in percent.
const (
	BaseMissChance      = 1.0
	MissRampCoefficient = 0.5
	MaxMissChance       = 90.0
	MissRampLevels      = 10

	MaxLevelMissPerLevel    = 2.0
	MaxLevelMissCeiling     = 95.0
	MaxLevelAccuracyFactor  = 0.35
	MaxLevelAccuracyMaximum = 70.0
	MaxLevelMissFloor       = 5.0
)

// Damage variance bounds. The enemy's floor is never below its attack.
const (
	PlayerVarianceLow  = 0.8
	PlayerVarianceHigh = 1.2
	EnemyVarianceLow   = 1.0
	EnemyVarianceHigh  = 1.2
	CritMultiplier     = 2.0
	UnderLevelPenalty  = 0.2
	DefaultArmorCap    = 0.90
)

// Tuning holds the combat balance knobs exposed through configuration.
type Tuning struct {
	ArmorK            float64
	ArmorCap          float64
	GhostFormDuration time.Duration
}

// DefaultTuning returns the shipped balance values.
func DefaultTuning() Tuning {
	return Tuning{
		ArmorK:            stats.ArmorK,
		ArmorCap:          DefaultArmorCap,
		GhostFormDuration: DefaultGhostFormDuration,
	}
}

// Validate checks the tuning invariants.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (t Tuning) Validate() error {
	var errs []string
	if t.ArmorK <= 0 {
		errs = append(errs, fmt.Sprintf("armor_k must be > 0, got %g", t.ArmorK))
	}
	if t.ArmorCap < 0 || t.ArmorCap >= 1 {
		errs = append(errs, fmt.Sprintf("armor_cap must be in [0, 1), got %g", t.ArmorCap))
	}
	if t.GhostFormDuration <= 0 {
		errs = append(errs, "ghost_form_duration must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Scale divides a base duration by the game-speed multiplier.
//
// Precondition: speed > 0.
func Scale(d time.Duration, speed float64) time.Duration {
	if speed <= 0 {
		panic("combat: Scale called with non-positive speed")
	}
	return time.Duration(float64(d) / speed)
}

// PlayerAttackInterval is 2000ms / (1 + haste/100) / speed.
//
// Precondition: haste >= 0; speed > 0.
func PlayerAttackInterval(haste, speed float64) time.Duration {
	return Scale(time.Duration(float64(BasePlayerAttackInterval)/(1+haste/100)), speed)
}

// EnemyAttackInterval ignores haste.
func EnemyAttackInterval(speed float64) time.Duration {
	return Scale(BaseEnemyAttackInterval, speed)
}

// RegenInterval is the heal tick cadence.
func RegenInterval(speed float64) time.Duration {
	return Scale(BaseRegenInterval, speed)
}

// SpawnDelay is the pause between an enemy's defeat and the next spawn.
func SpawnDelay(speed float64) time.Duration {
	return Scale(BaseSpawnDelay, speed)
}

// RestEndSpawnDelay is the pause between leaving rest and the next spawn.
func RestEndSpawnDelay(speed float64) time.Duration {
	return Scale(BaseRestEndSpawnDelay, speed)
}

// MissChance returns the player's miss percentage against an enemy.
//
// Below max level the chance rises quadratically with the level gap and
// jumps to MaxMissChance at MissRampLevels or more. At max level, accuracy
// (the sum of crit, haste and mastery percentages) offsets a linear penalty.
//
// Postcondition: result is in [BaseMissChance, MaxLevelMissCeiling].
func MissChance(enemyLevel, playerLevel int, atMaxLevel bool, accuracy float64) float64 {
	d := enemyLevel - playerLevel
	if d <= 0 {
		return BaseMissChance
	}
	if atMaxLevel {
		base := math.Min(float64(d)*MaxLevelMissPerLevel, MaxLevelMissCeiling)
		reduction := math.Min(accuracy*MaxLevelAccuracyFactor, MaxLevelAccuracyMaximum)
		return math.Max(base-reduction, MaxLevelMissFloor)
	}
	if d >= MissRampLevels {
		return MaxMissChance
	}
	return BaseMissChance + MissRampCoefficient*float64(d*d)
}

// ArmorMitigation returns the capped damage reduction fraction for defense.
func (t Tuning) ArmorMitigation(defense float64) float64 {
	return stats.Mitigation(defense, t.ArmorK, t.ArmorCap)
}

// Attacker is the slice of player stats the attack roll needs.
type Attacker struct {
	Attack   float64
	Critical float64
	Mastery  float64
}

// PlayerAttack rolls one player swing: miss, variance, mastery, then crit.
//
// Postcondition: a miss deals 0; otherwise Damage >= 0 and is floored.
func PlayerAttack(r *dice.Roller, a Attacker, missChance float64) Hit {
	if r.Chance("player miss", missChance) {
		return Hit{Miss: true}
	}
	variance := r.Between("player variance", PlayerVarianceLow, PlayerVarianceHigh)
	dmg := math.Floor(a.Attack*variance) * (1 + a.Mastery/100)
	crit := r.Chance("player crit", a.Critical)
	if crit {
		dmg *= CritMultiplier
	}
	return Hit{Damage: int(math.Floor(dmg)), Critical: crit}
}

// EnemyAttack rolls one enemy swing against a defender with defense.
// levelsBelow is how far the player sits under the zone's minimum level.
//
// Postcondition: Damage >= 0 and is floored; never a miss.
func (t Tuning) EnemyAttack(r *dice.Roller, attack int, defense float64, levelsBelow int) Hit {
	variance := r.Between("enemy variance", EnemyVarianceLow, EnemyVarianceHigh)
	dmg := math.Floor(float64(attack) * variance)
	dmg -= dmg * t.ArmorMitigation(defense)
	if levelsBelow > 0 {
		dmg *= 1 + UnderLevelPenalty*float64(levelsBelow)
	}
	return Hit{Damage: int(math.Floor(dmg))}
}
