package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// State is the serializable form of a Character. Effective stats are carried
// for display only and are never trusted on load.
type State struct {
	Base              Stats                              `json:"base"`
	Effective         Stats                              `json:"effective"`
	Level             int                                `json:"level"`
	XP                int                                `json:"xp"`
	XPToNextLevel     int                                `json:"xp_to_next_level"`
	HP                float64                            `json:"hp"`
	Gold              int                                `json:"gold"`
	Equipment         map[inventory.Slot]*inventory.Item `json:"equipment"`
	TalentRanks       map[TalentKey]int                  `json:"talent_ranks"`
	UnspentTalents    int                                `json:"unspent_talents"`
	HealthRegenCapped bool                               `json:"health_regen_capped"`
}

// State captures c.
func (c *Character) State() State {
	return State{
		Base:              c.base,
		Effective:         c.effective,
		Level:             c.level,
		XP:                c.xp,
		XPToNextLevel:     c.xpToNextLevel,
		HP:                c.hp,
		Gold:              c.gold,
		Equipment:         c.EquippedItems(),
		TalentRanks:       c.talents.Ranks(),
		UnspentTalents:    c.talents.unspent,
		HealthRegenCapped: c.regenCapped,
	}
}

// FromState rebuilds a Character from s and recomputes its effective stats.
//
// Precondition: rules.Validate() == nil.
// Postcondition: Returns a consistent Character or an error naming every
// violated field; s is not retained.
func FromState(rules Rules, s State) (*Character, error) {
	var errs []error
	if s.Level < 1 || s.Level > MaxLevel {
		errs = append(errs, fmt.Errorf("level must be in [1, %d], got %d", MaxLevel, s.Level))
	}
	if s.XP < 0 {
		errs = append(errs, fmt.Errorf("xp must be >= 0, got %d", s.XP))
	}
	if s.Gold < 0 {
		errs = append(errs, fmt.Errorf("gold must be >= 0, got %d", s.Gold))
	}
	if s.UnspentTalents < 0 {
		errs = append(errs, fmt.Errorf("unspent talents must be >= 0, got %d", s.UnspentTalents))
	}
	if s.Base.MaxHP <= 0 {
		errs = append(errs, fmt.Errorf("base max hp must be > 0, got %g", s.Base.MaxHP))
	}
	for k, v := range s.TalentRanks {
		def, ok := LookupTalent(k)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown talent %q", k))
			continue
		}
		if v < 0 || v > def.MaxRank {
			errs = append(errs, fmt.Errorf("talent %q rank %d out of range", k, v))
		}
	}
	equipment := make(map[inventory.Slot]*inventory.Item, len(s.Equipment))
	for slot, it := range s.Equipment {
		if it == nil {
			continue
		}
		if !inventory.ValidSlot(slot) {
			errs = append(errs, fmt.Errorf("unknown slot %q", slot))
			continue
		}
		if err := it.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if !canOccupy(it.Archetype, slot) {
			errs = append(errs, fmt.Errorf("%s cannot occupy slot %q", it.Archetype, slot))
			continue
		}
		cp := *it
		equipment[slot] = &cp
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid character state: %w", errors.Join(errs...))
	}

	c := &Character{
		rules:         rules,
		base:          s.Base,
		level:         s.Level,
		xp:            s.XP,
		xpToNextLevel: XPToNextLevel(rules, s.Level),
		hp:            s.HP,
		gold:          s.Gold,
		equipment:     equipment,
		talents:       NewTalents(),
	}
	for k, v := range s.TalentRanks {
		if v > 0 {
			c.talents.ranks[k] = v
		}
	}
	c.talents.unspent = s.UnspentTalents
	c.Recompute()
	return c, nil
}

func canOccupy(a inventory.Archetype, slot inventory.Slot) bool {
	for _, s := range a.EquipSlots() {
		if s == slot {
			return true
		}
	}
	return false
}
