package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/idlequest/content"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
	"github.com/cory-johannsen/idlequest/internal/game/npc"
	"github.com/cory-johannsen/idlequest/internal/testutil"
)

func validLootTable() npc.LootTable {
	return npc.LootTable{
		Currency: &npc.CurrencyDrop{Name: "Coin", Chance: 5, MinQty: 3, MaxQty: 8},
		Items: []npc.ItemDrop{
			{ItemID: "iron_sword", Chance: 0.5, MinQty: 1, MaxQty: 1},
			{ItemID: "iron_boots", Chance: 100, MinQty: 1, MaxQty: 3},
		},
	}
}

func registry(t testing.TB) *inventory.Registry {
	t.Helper()
	reg, err := inventory.LoadRegistryFromBytes(content.Items)
	require.NoError(t, err)
	return reg
}

func newResolver(t testing.TB, src dice.Source) *npc.Resolver {
	t.Helper()
	reg := registry(t)
	table, err := npc.LoadLootTableFromBytes(content.Loot, reg)
	require.NoError(t, err)
	r := roller(src)
	return npc.NewResolver(table, inventory.NewGenerator(reg, r), r)
}

func TestLootTable_Validate_AcceptsValid(t *testing.T) {
	lt := validLootTable()
	assert.NoError(t, lt.Validate(registry(t)))
}

func TestLootTable_Validate_Empty(t *testing.T) {
	lt := npc.LootTable{}
	assert.NoError(t, lt.Validate(nil))
}

func TestLootTable_Validate_Rejects(t *testing.T) {
	cases := map[string]func(lt *npc.LootTable){
		"currency min > max":  func(lt *npc.LootTable) { lt.Currency.MinQty = 9 },
		"currency zero":       func(lt *npc.LootTable) { lt.Currency.Chance = 0 },
		"negative currency":   func(lt *npc.LootTable) { lt.Currency.MinQty = -1 },
		"chance above 100":    func(lt *npc.LootTable) { lt.Items[0].Chance = 150 },
		"zero chance":         func(lt *npc.LootTable) { lt.Items[0].Chance = 0 },
		"min_qty > max_qty":   func(lt *npc.LootTable) { lt.Items[1].MinQty = 5 },
		"zero min_qty":        func(lt *npc.LootTable) { lt.Items[1].MinQty = 0 },
		"unknown item":        func(lt *npc.LootTable) { lt.Items[0].ItemID = "ray_gun" },
		"empty item id":       func(lt *npc.LootTable) { lt.Items[0].ItemID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			lt := validLootTable()
			cur := *lt.Currency
			lt.Currency = &cur
			mutate(&lt)
			assert.Error(t, lt.Validate(registry(t)))
		})
	}
}

func TestResolver_AllDrop(t *testing.T) {
	r := newResolver(t, testutil.NewScriptedSource(0))

	res := r.Roll(5, 10, nil)

	assert.Equal(t, 3+5, res.Gold, "minimum coin roll plus enemy level")
	require.Len(t, res.Items, 7)
	for _, it := range res.Items {
		assert.Equal(t, 5, it.Level, "out-levelled enemies drop at their own level")
		assert.Equal(t, inventory.RarityCommon, it.Rarity)
	}
	assert.Empty(t, res.AutoSold)
}

func TestResolver_NothingDrops(t *testing.T) {
	r := newResolver(t, testutil.NewScriptedSource(0.99))
	res := r.Roll(5, 5, nil)
	assert.Zero(t, res.TotalGold())
	assert.Empty(t, res.Items)
}

func TestResolver_AutoSellRedirectsToGold(t *testing.T) {
	r := newResolver(t, testutil.NewScriptedSource(0))
	res := r.Roll(5, 10, func(*inventory.Item) bool { return true })

	assert.Empty(t, res.Items)
	require.Len(t, res.AutoSold, 7)
	assert.Equal(t, 7*5, res.AutoSoldGold)
	assert.Equal(t, 8+35, res.TotalGold())
}

func TestItemLevel_Window(t *testing.T) {
	r := roller(dice.NewSeededSource(8))
	rapid.Check(t, func(rt *rapid.T) {
		pl := rapid.IntRange(1, 100).Draw(rt, "player")
		el := rapid.IntRange(max(1, pl-10), pl+5).Draw(rt, "enemy")
		lvl := npc.ItemLevel(r, el, pl)
		if pl >= el+npc.AntiFarmGap {
			assert.Equal(rt, el, lvl)
			return
		}
		assert.GreaterOrEqual(rt, lvl, max(1, pl-2))
		assert.LessOrEqual(rt, lvl, pl+1)
	})
}
