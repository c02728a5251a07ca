package inventory

import (
	"fmt"
	"sort"
)

// Inventory is the ordered collection of unequipped owned items.
//
// Invariant: no two items share an ID.
type Inventory struct {
	items []*Item
}

// NewInventory returns an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// Add appends it.
//
// Precondition: it is non-nil and its ID is not already held. A duplicate ID
// is a programming error and panics.
func (inv *Inventory) Add(it *Item) {
	if _, ok := inv.index(it.ID); ok {
		panic(fmt.Sprintf("inventory: duplicate item id %q", it.ID))
	}
	inv.items = append(inv.items, it)
}

// Get returns the item with id.
func (inv *Inventory) Get(id string) (*Item, bool) {
	i, ok := inv.index(id)
	if !ok {
		return nil, false
	}
	return inv.items[i], true
}

// Remove takes the item with id out of the inventory.
//
// Postcondition: on success the item is no longer held; returns false if absent.
func (inv *Inventory) Remove(id string) (*Item, bool) {
	i, ok := inv.index(id)
	if !ok {
		return nil, false
	}
	it := inv.items[i]
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
	return it, true
}

// Clear removes and returns every item.
func (inv *Inventory) Clear() []*Item {
	out := inv.items
	inv.items = nil
	return out
}

// Len returns the number of held items.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Items returns a copy of the held items in insertion order.
func (inv *Inventory) Items() []*Item {
	out := make([]*Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Group is a display stack of identical-looking items.
type Group struct {
	Key   string
	Items []*Item
}

// Groups returns items grouped by name, level, rarity, and affix, ordered by
// descending level then name.
func (inv *Inventory) Groups() []Group {
	byKey := make(map[string]*Group)
	var order []string
	for _, it := range inv.items {
		k := it.GroupKey()
		g, ok := byKey[k]
		if !ok {
			g = &Group{Key: k}
			byKey[k] = g
			order = append(order, k)
		}
		g.Items = append(g.Items, it)
	}
	out := make([]Group, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Items[0], out[j].Items[0]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Name < b.Name
	})
	return out
}

func (inv *Inventory) index(id string) (int, bool) {
	for i, it := range inv.items {
		if it.ID == id {
			return i, true
		}
	}
	return 0, false
}
