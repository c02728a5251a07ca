// Package shop implements the item shop: a rotating stock of rolled
// equipment sold at a markup, refreshed for gold or free charges.
package shop

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

const (
	MinStock = 4
	MaxStock = 6
	// PriceMultiplier is applied to an item's sell price.
	PriceMultiplier = 5
	// RefreshCostMultiplier scales the Uncommon sell price at the player's level.
	RefreshCostMultiplier = 3
	// StartingFreeCharges is the number of free refreshes a new game has.
	StartingFreeCharges = 1
)

var (
	ErrUnknownItem      = errors.New("vendor does not sell that item")
	ErrInsufficientGold = errors.New("not enough gold")
)

// StockWeights is the vendor rarity distribution. It never offers Common or
// Legendary items.
func StockWeights() []inventory.Weighted {
	return []inventory.Weighted{
		{Rarity: inventory.RarityUncommon, Chance: 97.01},
		{Rarity: inventory.RarityRare, Chance: 2.5},
		{Rarity: inventory.RarityEpic, Chance: 0.49},
	}
}

// Price returns what the vendor charges for it.
func Price(it *inventory.Item) int {
	return it.SellPrice * PriceMultiplier
}

// RefreshCost returns the gold cost of a paid refresh at playerLevel.
func RefreshCost(playerLevel int) int {
	return int(float64(playerLevel)*inventory.RarityUncommon.Info().GoldMultiplier) * RefreshCostMultiplier
}

// Wallet is the gold the vendor charges against.
type Wallet interface {
	Gold() int
	SpendGold(amount int) error
}

// Vendor holds the current stock and refresh bookkeeping. It is not safe for
// concurrent use; the game controller serializes access.
type Vendor struct {
	items  *inventory.Generator
	roller *dice.Roller

	stock            []*inventory.Item
	level            int
	freeCharges      int
	lastRefreshLevel int
}

// New returns an empty vendor with its starting free charge.
//
// Precondition: items and roller are non-nil.
func New(items *inventory.Generator, roller *dice.Roller) *Vendor {
	return &Vendor{
		items:       items,
		roller:      roller,
		level:       1,
		freeCharges: StartingFreeCharges,
	}
}

// Stock returns the offered items in display order.
func (v *Vendor) Stock() []*inventory.Item {
	out := make([]*inventory.Item, len(v.stock))
	copy(out, v.stock)
	return out
}

// Level is the item level of the current stock.
func (v *Vendor) Level() int { return v.level }

// FreeCharges is the number of refreshes available without paying gold.
func (v *Vendor) FreeCharges() int { return v.freeCharges }

// Open stocks the vendor for a new session at playerLevel without spending
// a charge.
//
// Postcondition: Level() >= playerLevel; stock holds MinStock..MaxStock items.
func (v *Vendor) Open(playerLevel int) {
	v.level = max(v.level, playerLevel)
	v.restock(playerLevel)
}

// Refresh replaces the stock, consuming a free charge if one is available and
// gold otherwise. Each refresh raises the vendor level by one, never past
// playerLevel.
//
// Postcondition: on error the stock, charges and gold are unchanged. Returns
// the gold spent (0 when a charge was used).
func (v *Vendor) Refresh(playerLevel int, w Wallet) (int, error) {
	cost := 0
	if v.freeCharges > 0 {
		v.freeCharges--
	} else {
		cost = RefreshCost(playerLevel)
		if w.Gold() < cost {
			return 0, fmt.Errorf("refresh costs %d, have %d: %w", cost, w.Gold(), ErrInsufficientGold)
		}
		if err := w.SpendGold(cost); err != nil {
			return 0, err
		}
	}
	v.level = min(v.level+1, playerLevel)
	v.restock(playerLevel)
	return cost, nil
}

// Buy removes id from the stock and returns it after charging its price.
//
// Postcondition: on error the stock and gold are unchanged.
func (v *Vendor) Buy(id string, w Wallet) (*inventory.Item, error) {
	idx := -1
	for i, it := range v.stock {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("item %q: %w", id, ErrUnknownItem)
	}
	it := v.stock[idx]
	price := Price(it)
	if w.Gold() < price {
		return nil, fmt.Errorf("%s costs %d, have %d: %w", it.DisplayName(), price, w.Gold(), ErrInsufficientGold)
	}
	if err := w.SpendGold(price); err != nil {
		return nil, err
	}
	v.stock = append(v.stock[:idx], v.stock[idx+1:]...)
	return it, nil
}

// OnLevelUp grants one free charge per level gained since the last refresh.
//
// Postcondition: returns the number of charges granted.
func (v *Vendor) OnLevelUp(playerLevel int) int {
	if playerLevel <= v.lastRefreshLevel {
		return 0
	}
	gained := playerLevel - v.lastRefreshLevel
	v.freeCharges += gained
	v.lastRefreshLevel = playerLevel
	return gained
}

// Reset returns the vendor to its new-game state and restocks at level 1.
func (v *Vendor) Reset() {
	v.stock = nil
	v.level = 1
	v.freeCharges = StartingFreeCharges
	v.lastRefreshLevel = 0
	v.Open(1)
}

func (v *Vendor) restock(playerLevel int) {
	n := v.roller.IntRange("vendor stock", MinStock, MaxStock)
	v.stock = make([]*inventory.Item, 0, n)
	for i := 0; i < n; i++ {
		v.stock = append(v.stock, v.items.Roll(v.items.RandomArchetype(), v.level, StockWeights()))
	}
	v.lastRefreshLevel = playerLevel
}
