package inventory

import (
	"errors"
	"fmt"
)

// ItemDef is a base catalogue entry from which item instances are generated.
type ItemDef struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Archetype     Archetype `yaml:"archetype"`
	BaseStatValue float64   `yaml:"base_stat_value"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !d.Archetype.Valid() {
		errs = append(errs, fmt.Errorf("Archetype %q is not a known archetype", d.Archetype))
	}
	if d.BaseStatValue <= 0 {
		errs = append(errs, errors.New("BaseStatValue must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// WeaponStats is the primary stat block of weapons and daggers.
type WeaponStats struct {
	Attack float64 `json:"attack"`
}

// ArmorStats is the primary stat block of armor pieces.
type ArmorStats struct {
	MaxHP        float64 `json:"max_hp"`
	Defense      float64 `json:"defense"`
	HealthRegen  float64 `json:"health_regen"`
	DefensePower float64 `json:"defense_power"`
}

// Item is a generated piece of equipment. Exactly one of Weapon and Armor is
// set, matching Archetype.IsWeapon. Items are never mutated after generation.
type Item struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Archetype Archetype      `json:"archetype"`
	Level     int            `json:"level"`
	Rarity    Rarity         `json:"rarity"`
	Affix     string         `json:"affix"`
	Weapon    *WeaponStats   `json:"weapon,omitempty"`
	Armor     *ArmorStats    `json:"armor,omitempty"`
	Secondary SecondaryStats `json:"secondary"`
	SellPrice int            `json:"sell_price"`
}

// Bonus is the flat contribution an equipped item makes to a character.
type Bonus struct {
	Attack      float64
	Defense     float64
	MaxHP       float64
	HealthRegen float64
	Critical    float64
	Haste       float64
	Mastery     float64
}

// Bonus returns the item's flat stat contribution.
func (it *Item) Bonus() Bonus {
	b := Bonus{
		Critical: it.Secondary.Critical,
		Haste:    it.Secondary.Haste,
		Mastery:  it.Secondary.Mastery,
	}
	if it.Weapon != nil {
		b.Attack = it.Weapon.Attack
	}
	if it.Armor != nil {
		b.MaxHP = it.Armor.MaxHP
		b.Defense = it.Armor.Defense
		b.HealthRegen = it.Armor.HealthRegen
	}
	return b
}

// Power is the single scalar used for gear comparison: attack for weapons,
// defense power for armor.
func (it *Item) Power() float64 {
	if it.Weapon != nil {
		return it.Weapon.Attack
	}
	if it.Armor != nil {
		return it.Armor.DefensePower
	}
	return 0
}

// DisplayName renders "Lvl N Rarity Name Affix".
func (it *Item) DisplayName() string {
	return fmt.Sprintf("Lvl %d %s %s %s", it.Level, it.Rarity, it.Name, it.Affix)
}

// GroupKey identifies items that display as one stack.
func (it *Item) GroupKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", it.Name, it.Level, it.Rarity, it.Affix)
}

// Validate checks an item decoded from outside the generator.
//
// Postcondition: returns nil iff the item could have been produced by Generate.
func (it *Item) Validate() error {
	var errs []error
	if it.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !it.Archetype.Valid() {
		errs = append(errs, fmt.Errorf("unknown archetype %q", it.Archetype))
	}
	if it.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", it.Level))
	}
	if !it.Rarity.Valid() {
		errs = append(errs, fmt.Errorf("unknown rarity %q", it.Rarity))
	}
	if _, ok := LookupAffix(it.Affix); !ok {
		errs = append(errs, fmt.Errorf("unknown affix %q", it.Affix))
	}
	if it.Archetype.Valid() {
		if it.Archetype.IsWeapon() && (it.Weapon == nil || it.Armor != nil) {
			errs = append(errs, errors.New("weapon items must carry only weapon stats"))
		}
		if !it.Archetype.IsWeapon() && (it.Armor == nil || it.Weapon != nil) {
			errs = append(errs, errors.New("armor items must carry only armor stats"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q invalid: %v", it.ID, errs)
	}
	return nil
}
