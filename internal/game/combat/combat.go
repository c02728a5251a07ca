// Package combat implements the idle combat rules: the attack and damage
// formulas, the session modes, and the keyed task scheduler the game
// controller uses to drive its cadences.
package combat

// Mode is the combat session state. Exactly one mode is active at a time.
type Mode int

const (
	// ModeActive means the player and enemy cadences are running.
	ModeActive Mode = iota
	// ModeResting heals at an accelerated rate with no enemy present.
	ModeResting
	// ModeGhostForm is the invulnerable post-death countdown.
	ModeGhostForm
	// ModeGameOver halts every timer until the session is reset.
	ModeGameOver
)

// String returns the mode name used in snapshots and logs.
func (m Mode) String() string {
	switch m {
	case ModeActive:
		return "active"
	case ModeResting:
		return "resting"
	case ModeGhostForm:
		return "ghost_form"
	case ModeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of String.
//
// Postcondition: ok is false for any name String does not produce.
func ParseMode(name string) (Mode, bool) {
	for _, m := range []Mode{ModeActive, ModeResting, ModeGhostForm, ModeGameOver} {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// Target identifies who a combat text event is attached to.
type Target string

const (
	TargetPlayer Target = "player"
	TargetEnemy  Target = "enemy"
)

// Hit is the outcome of one attack.
type Hit struct {
	// Damage is the floored amount applied; zero on a miss.
	Damage   int
	Critical bool
	Miss     bool
}
