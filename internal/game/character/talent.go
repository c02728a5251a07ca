package character

import "fmt"

// TalentKey identifies a talent.
type TalentKey string

// Talent keys.
const (
	TalentAttackSpeed    TalentKey = "attackSpeed"
	TalentCriticalStrike TalentKey = "criticalStrike"
	TalentHealthRegen    TalentKey = "healthRegen"
	TalentScalingArmor   TalentKey = "scalingArmor"
)

// TalentDef is the static definition of a talent.
type TalentDef struct {
	Key          TalentKey
	Name         string
	MaxRank      int
	BonusPerRank float64
	// Gate marks the talent that must be maxed before any other.
	Gate bool
}

var talentDefs = []TalentDef{
	{Key: TalentAttackSpeed, Name: "Swift Strikes", MaxRank: 5, BonusPerRank: 5, Gate: true},
	{Key: TalentCriticalStrike, Name: "Deadly Precision", MaxRank: 5, BonusPerRank: 3},
	{Key: TalentHealthRegen, Name: "Vitality", MaxRank: 5, BonusPerRank: 0.5},
	{Key: TalentScalingArmor, Name: "Iron Skin", MaxRank: 5, BonusPerRank: 100},
}

// TalentDefs returns every talent definition, gate first.
func TalentDefs() []TalentDef {
	out := make([]TalentDef, len(talentDefs))
	copy(out, talentDefs)
	return out
}

// LookupTalent returns the definition for key.
func LookupTalent(key TalentKey) (TalentDef, bool) {
	for _, d := range talentDefs {
		if d.Key == key {
			return d, true
		}
	}
	return TalentDef{}, false
}

// Talents holds talent ranks and unspent points.
//
// Invariant: 0 <= Rank(k) <= MaxRank for every known k.
type Talents struct {
	ranks   map[TalentKey]int
	unspent int
}

// NewTalents returns an empty talent set.
func NewTalents() *Talents {
	return &Talents{ranks: make(map[TalentKey]int)}
}

// Rank returns the current rank of key.
func (t *Talents) Rank(key TalentKey) int { return t.ranks[key] }

// Unspent returns the number of unspent points.
func (t *Talents) Unspent() int { return t.unspent }

// Ranks returns a copy of all non-zero ranks.
func (t *Talents) Ranks() map[TalentKey]int {
	out := make(map[TalentKey]int, len(t.ranks))
	for k, v := range t.ranks {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// CanSpend reports whether a point may be spent on key.
//
// Postcondition: returns nil, or one of ErrUnknownTalent, ErrNoTalentPoints,
// ErrTalentMaxed, ErrTalentGateLocked, ErrTalentExclusive.
func (t *Talents) CanSpend(key TalentKey) error {
	def, ok := LookupTalent(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTalent, key)
	}
	if t.unspent <= 0 {
		return ErrNoTalentPoints
	}
	if t.ranks[key] >= def.MaxRank {
		return fmt.Errorf("%s: %w", def.Name, ErrTalentMaxed)
	}
	if def.Gate {
		return nil
	}
	for _, g := range talentDefs {
		if g.Gate && t.ranks[g.Key] < g.MaxRank {
			return fmt.Errorf("%s requires %s: %w", def.Name, g.Name, ErrTalentGateLocked)
		}
	}
	for _, other := range talentDefs {
		if other.Gate || other.Key == key {
			continue
		}
		r := t.ranks[other.Key]
		if r > 0 && r < other.MaxRank {
			return fmt.Errorf("%s is in progress: %w", other.Name, ErrTalentExclusive)
		}
	}
	return nil
}

// reset refunds every rank.
func (t *Talents) reset() int {
	refunded := 0
	for k, v := range t.ranks {
		refunded += v
		delete(t.ranks, k)
	}
	t.unspent += refunded
	return refunded
}

// SpendTalent invests one point in key and recomputes effective stats.
//
// Postcondition: on error ranks, points, and stats are unchanged.
func (c *Character) SpendTalent(key TalentKey) error {
	if err := c.talents.CanSpend(key); err != nil {
		return err
	}
	c.talents.ranks[key]++
	c.talents.unspent--
	c.Recompute()
	return nil
}

// ResetTalents refunds every invested point and recomputes effective stats.
//
// Postcondition: all ranks are 0; returns the number of points refunded.
func (c *Character) ResetTalents() int {
	n := c.talents.reset()
	c.Recompute()
	return n
}
