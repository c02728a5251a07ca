package character

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/idlequest/internal/game/stats"
)

// Progression constants.
const (
	MaxLevel = 100

	StartingMaxHP       = 200.0
	StartingHealthRegen = 0.5

	BaseAttackStart   = 10.0
	BaseAttackScaling = 1.025

	LevelUpMaxHP       = 5.0
	LevelUpDefense     = 1.0
	LevelUpHealthRegen = 0.05

	// TalentPointStartLevel is the first level awarding a talent point;
	// points follow every TalentPointInterval levels after it.
	TalentPointStartLevel = 10
	TalentPointInterval   = 2
)

// Rules are the balance knobs consumed by the stat composer and the
// progression engine.
type Rules struct {
	CritK    float64
	HasteK   float64
	MasteryK float64

	CritCap    float64
	HasteCap   float64
	MasteryCap float64

	// RegenCapPct caps gear-derived health regen at this fraction of max HP.
	RegenCapPct float64

	// XPCurveC and XPCurveE define floor(C × level^E).
	XPCurveC float64
	XPCurveE float64
}

// DefaultRules returns the shipped balance.
func DefaultRules() Rules {
	return Rules{
		CritK:       stats.CritK,
		HasteK:      stats.HasteK,
		MasteryK:    stats.MasteryK,
		CritCap:     stats.CritCap,
		HasteCap:    stats.HasteCap,
		MasteryCap:  stats.MasteryCap,
		RegenCapPct: 0.10,
		XPCurveC:    80,
		XPCurveE:    1.6,
	}
}

// Validate checks the rule invariants.
//
// Postcondition: Returns nil if r is usable, or an error describing all violations.
func (r Rules) Validate() error {
	var errs []string
	for name, k := range map[string]float64{"crit_k": r.CritK, "haste_k": r.HasteK, "mastery_k": r.MasteryK} {
		if k <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0, got %g", name, k))
		}
	}
	for name, c := range map[string]float64{"crit_cap": r.CritCap, "haste_cap": r.HasteCap, "mastery_cap": r.MasteryCap} {
		if c <= 0 || c >= 100 {
			errs = append(errs, fmt.Sprintf("%s must be in (0, 100), got %g", name, c))
		}
	}
	if r.RegenCapPct <= 0 || r.RegenCapPct > 1 {
		errs = append(errs, fmt.Sprintf("regen_cap_pct must be in (0, 1], got %g", r.RegenCapPct))
	}
	if r.XPCurveC <= 0 {
		errs = append(errs, fmt.Sprintf("xp_curve_c must be > 0, got %g", r.XPCurveC))
	}
	if r.XPCurveE <= 0 {
		errs = append(errs, fmt.Sprintf("xp_curve_e must be > 0, got %g", r.XPCurveE))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}
