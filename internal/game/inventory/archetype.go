// Package inventory models generated equipment: archetypes, rarities,
// affixes, the base item catalogue, the item generator, and the owned-item
// collection.
package inventory

import "fmt"

// Archetype identifies the kind of equipment an item is.
type Archetype string

// Archetype constants.
const (
	ArchetypeWeapon    Archetype = "weapon"
	ArchetypeDagger    Archetype = "dagger"
	ArchetypeHead      Archetype = "head"
	ArchetypeShoulders Archetype = "shoulders"
	ArchetypeChest     Archetype = "chest"
	ArchetypeLegs      Archetype = "legs"
	ArchetypeFeet      Archetype = "feet"
)

// Archetypes lists every archetype in catalogue order.
var Archetypes = []Archetype{
	ArchetypeWeapon, ArchetypeDagger,
	ArchetypeHead, ArchetypeShoulders, ArchetypeChest, ArchetypeLegs, ArchetypeFeet,
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeWeapon, ArchetypeDagger,
		ArchetypeHead, ArchetypeShoulders, ArchetypeChest, ArchetypeLegs, ArchetypeFeet:
		return true
	}
	return false
}

// IsWeapon reports whether items of this archetype carry attack rather than armor stats.
func (a Archetype) IsWeapon() bool {
	return a == ArchetypeWeapon || a == ArchetypeDagger
}

// Slot names one of the seven equipment slots.
type Slot string

// Slot constants.
const (
	SlotWeapon    Slot = "weapon"
	SlotOffHand   Slot = "off_hand"
	SlotHead      Slot = "head"
	SlotShoulders Slot = "shoulders"
	SlotChest     Slot = "chest"
	SlotLegs      Slot = "legs"
	SlotFeet      Slot = "feet"
)

// Slots lists all equipment slots in display order.
var Slots = []Slot{SlotWeapon, SlotOffHand, SlotHead, SlotShoulders, SlotChest, SlotLegs, SlotFeet}

// ValidSlot reports whether s is one of the seven equipment slots.
func ValidSlot(s Slot) bool {
	for _, v := range Slots {
		if v == s {
			return true
		}
	}
	return false
}

// EquipSlots returns the slots an item of archetype a may occupy, in
// preference order. A weapon may be dual wielded into the off hand.
//
// Precondition: a.Valid(). Panics otherwise.
func (a Archetype) EquipSlots() []Slot {
	switch a {
	case ArchetypeWeapon:
		return []Slot{SlotWeapon, SlotOffHand}
	case ArchetypeDagger:
		return []Slot{SlotOffHand}
	case ArchetypeHead:
		return []Slot{SlotHead}
	case ArchetypeShoulders:
		return []Slot{SlotShoulders}
	case ArchetypeChest:
		return []Slot{SlotChest}
	case ArchetypeLegs:
		return []Slot{SlotLegs}
	case ArchetypeFeet:
		return []Slot{SlotFeet}
	}
	panic(fmt.Sprintf("inventory: unknown archetype %q", a))
}

// ComparisonSlot returns the slot whose occupant an item of archetype a is
// compared against when judging upgrades.
//
// Precondition: a.Valid().
func (a Archetype) ComparisonSlot() Slot {
	return a.EquipSlots()[0]
}
