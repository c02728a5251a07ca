package character

import "github.com/cory-johannsen/idlequest/internal/game/inventory"

// AutoSellPolicy decides whether a freshly dropped item is converted to gold
// instead of entering the inventory.
type AutoSellPolicy struct {
	Common   bool `json:"common"`
	Uncommon bool `json:"uncommon"`
	Rare     bool `json:"rare"`
	// WorseThanEquipped sells items whose power does not beat the item in
	// their comparison slot. Empty slots never trigger a sale.
	WorseThanEquipped bool `json:"worse_than_equipped"`
}

// ShouldSell reports whether it should be auto-sold given what c wears.
func (p AutoSellPolicy) ShouldSell(c *Character, it *inventory.Item) bool {
	switch it.Rarity {
	case inventory.RarityCommon:
		if p.Common {
			return true
		}
	case inventory.RarityUncommon:
		if p.Uncommon {
			return true
		}
	case inventory.RarityRare:
		if p.Rare {
			return true
		}
	}
	if !p.WorseThanEquipped {
		return false
	}
	current := c.Equipped(it.Archetype.ComparisonSlot())
	if current == nil {
		return false
	}
	return it.Power() <= current.Power()
}
