package character

import (
	"math"

	"github.com/cory-johannsen/idlequest/internal/game/inventory"
	"github.com/cory-johannsen/idlequest/internal/game/stats"
)

// Recompute derives effective stats from base stats, equipped items, and
// talent ranks.
//
// Postcondition: effective Critical/Haste/Mastery are capped percentages;
// 0 <= HP() <= MaxHP; calling Recompute again without mutation is a no-op.
func (c *Character) Recompute() {
	r := c.rules
	e := Stats{
		Attack:      c.base.Attack,
		Defense:     c.base.Defense,
		MaxHP:       c.base.MaxHP,
		HealthRegen: c.base.HealthRegen,
	}
	flat := inventory.SecondaryStats{
		Critical: c.base.Critical,
		Haste:    c.base.Haste,
		Mastery:  c.base.Mastery,
	}

	for _, slot := range inventory.Slots {
		it := c.equipment[slot]
		if it == nil {
			continue
		}
		b := it.Bonus()
		e.Attack += b.Attack
		e.Defense += b.Defense
		e.MaxHP += b.MaxHP
		e.HealthRegen += b.HealthRegen
		flat.Critical += b.Critical
		flat.Haste += b.Haste
		flat.Mastery += b.Mastery
	}

	regenCap := e.MaxHP * r.RegenCapPct
	c.regenCapped = e.HealthRegen >= regenCap
	e.HealthRegen = math.Min(e.HealthRegen, regenCap)

	for _, def := range talentDefs {
		rank := float64(c.talents.Rank(def.Key))
		if rank == 0 {
			continue
		}
		switch def.Key {
		case TalentAttackSpeed:
			flat.Haste += rank * stats.PercentageToFlat(def.BonusPerRank, r.HasteK)
		case TalentCriticalStrike:
			flat.Critical += rank * stats.PercentageToFlat(def.BonusPerRank, r.CritK)
		case TalentHealthRegen:
			e.HealthRegen += rank * def.BonusPerRank
		case TalentScalingArmor:
			e.Defense += rank * def.BonusPerRank * (1 + float64(c.level)*0.1)
		}
	}

	e.Critical = math.Min(stats.FlatToPercentage(flat.Critical, r.CritK), r.CritCap)
	e.Haste = math.Min(stats.FlatToPercentage(flat.Haste, r.HasteK), r.HasteCap)
	e.Mastery = math.Min(stats.FlatToPercentage(flat.Mastery, r.MasteryK), r.MasteryCap)

	c.effective = e
	c.clampHP()
}
