package npc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// CurrencyDrop defines the gold an enemy can drop on death.
type CurrencyDrop struct {
	Name string `yaml:"name"`
	// Chance is the percent chance in (0, 100].
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
	// AddEnemyLevel credits the enemy's level on top of the rolled quantity.
	AddEnemyLevel bool `yaml:"add_enemy_level"`
}

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string `yaml:"item"`
	// Chance is the percent chance in (0, 100].
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible loot drops rolled on every enemy defeat.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants. When reg is
// non-nil every item id must resolve in it.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty loot table (no currency, no items) is valid.
func (lt *LootTable) Validate(reg *inventory.Registry) error {
	if c := lt.Currency; c != nil {
		if c.Chance <= 0 || c.Chance > 100 {
			return fmt.Errorf("loot table: currency chance must be in (0, 100], got %g", c.Chance)
		}
		if c.MinQty < 0 {
			return fmt.Errorf("loot table: currency min_qty must be >= 0, got %d", c.MinQty)
		}
		if c.MinQty > c.MaxQty {
			return fmt.Errorf("loot table: currency min_qty (%d) must be <= max_qty (%d)", c.MinQty, c.MaxQty)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if reg != nil {
			if _, ok := reg.Item(item.ItemID); !ok {
				return fmt.Errorf("loot table: item[%d] references unknown item %q", i, item.ItemID)
			}
		}
		if item.Chance <= 0 || item.Chance > 100 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 100], got %g", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LoadLootTableFromBytes parses and validates a loot table.
//
// Postcondition: Returns a validated table or a non-nil error.
func LoadLootTableFromBytes(data []byte, reg *inventory.Registry) (*LootTable, error) {
	var lt LootTable
	if err := yaml.Unmarshal(data, &lt); err != nil {
		return nil, fmt.Errorf("parsing loot table: %w", err)
	}
	if err := lt.Validate(reg); err != nil {
		return nil, err
	}
	return &lt, nil
}

// LoadLootTableFromFile reads and validates a loot table file.
func LoadLootTableFromFile(path string, reg *inventory.Registry) (*LootTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading loot table %s: %w", path, err)
	}
	return LoadLootTableFromBytes(data, reg)
}

// AntiFarmGap is how many levels above an enemy the player must be before
// drops stop tracking the player's level.
const AntiFarmGap = 3

// ItemLevel picks the level of a dropped item. Out-levelled enemies drop
// items at their own level; otherwise the level is uniform in
// [max(1, playerLevel-2), playerLevel+1].
func ItemLevel(r *dice.Roller, enemyLevel, playerLevel int) int {
	if playerLevel >= enemyLevel+AntiFarmGap {
		return max(1, enemyLevel)
	}
	return r.IntRange("item level", max(1, playerLevel-2), playerLevel+1)
}

// LootResult holds the generated loot from a single enemy defeat.
type LootResult struct {
	// Gold credited from currency drops.
	Gold int
	// Items destined for the inventory.
	Items []*inventory.Item
	// AutoSold items were converted to AutoSoldGold instead.
	AutoSold     []*inventory.Item
	AutoSoldGold int
}

// TotalGold is currency plus auto-sale proceeds.
func (r LootResult) TotalGold() int {
	return r.Gold + r.AutoSoldGold
}

// Resolver rolls a loot table and feeds item drops to the item generator.
type Resolver struct {
	table  *LootTable
	items  *inventory.Generator
	roller *dice.Roller
}

// NewResolver returns a Resolver for table.
//
// Precondition: table passed Validate against items.Registry().
func NewResolver(table *LootTable, items *inventory.Generator, roller *dice.Roller) *Resolver {
	return &Resolver{table: table, items: items, roller: roller}
}

// Roll rolls every entry independently. autoSell may be nil; when it returns
// true for an item, the item is converted to its sell price.
//
// Postcondition: every generated item appears in exactly one of Items or AutoSold.
func (r *Resolver) Roll(enemyLevel, playerLevel int, autoSell func(*inventory.Item) bool) LootResult {
	var res LootResult
	if c := r.table.Currency; c != nil && r.roller.Chance("currency drop", c.Chance) {
		qty := r.roller.IntRange("currency qty", c.MinQty, c.MaxQty)
		if c.AddEnemyLevel {
			qty += enemyLevel
		}
		res.Gold += qty
	}
	for _, drop := range r.table.Items {
		if !r.roller.Chance("item drop "+drop.ItemID, drop.Chance) {
			continue
		}
		def, ok := r.items.Registry().Item(drop.ItemID)
		if !ok {
			panic(fmt.Sprintf("npc: loot table references unknown item %q", drop.ItemID))
		}
		qty := r.roller.IntRange("item qty", drop.MinQty, drop.MaxQty)
		for i := 0; i < qty; i++ {
			it := r.items.Roll(def.Archetype, ItemLevel(r.roller, enemyLevel, playerLevel), inventory.DropWeights())
			if autoSell != nil && autoSell(it) {
				res.AutoSold = append(res.AutoSold, it)
				res.AutoSoldGold += it.SellPrice
				continue
			}
			res.Items = append(res.Items, it)
		}
	}
	return res
}
