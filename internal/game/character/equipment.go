package character

import (
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// Equip moves the item with id from inv into its slot. An empty eligible slot
// is preferred; otherwise the first eligible slot's occupant is returned to inv.
//
// Precondition: inv is non-nil.
// Postcondition: on success the item is in exactly one slot and absent from
// inv, effective stats are recomputed, and the displaced item (if any) is
// returned. On error nothing changes.
func (c *Character) Equip(inv *inventory.Inventory, id string) (*inventory.Item, error) {
	it, ok := inv.Get(id)
	if !ok {
		return nil, fmt.Errorf("equip %q: %w", id, ErrItemNotFound)
	}
	if it.Level > c.level {
		return nil, fmt.Errorf("equip %s (level %d) at level %d: %w", it.Name, it.Level, c.level, ErrLevelTooLow)
	}

	slots := it.Archetype.EquipSlots()
	target := slots[0]
	for _, s := range slots {
		if c.equipment[s] == nil {
			target = s
			break
		}
	}

	inv.Remove(id)
	displaced := c.equipment[target]
	if displaced != nil {
		inv.Add(displaced)
	}
	c.equipment[target] = it
	c.Recompute()
	return displaced, nil
}

// Unequip returns the equipped item with id to inv.
//
// Postcondition: on success the slot is empty, the item appears in inv
// exactly once, and effective stats are recomputed.
func (c *Character) Unequip(inv *inventory.Inventory, id string) (*inventory.Item, error) {
	slot, ok := c.slotOf(id)
	if !ok {
		return nil, fmt.Errorf("unequip %q: %w", id, ErrNotEquipped)
	}
	it := c.equipment[slot]
	delete(c.equipment, slot)
	inv.Add(it)
	c.Recompute()
	return it, nil
}

// IsEquipped reports whether an item with id occupies any slot.
func (c *Character) IsEquipped(id string) bool {
	_, ok := c.slotOf(id)
	return ok
}

func (c *Character) slotOf(id string) (inventory.Slot, bool) {
	for s, it := range c.equipment {
		if it.ID == id {
			return s, true
		}
	}
	return "", false
}
