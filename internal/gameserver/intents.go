package gameserver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
	"github.com/cory-johannsen/idlequest/internal/game/shop"
	"github.com/cory-johannsen/idlequest/internal/game/world"
)

// reject mirrors a rejected intent to the sink and returns it.
//
// Precondition: g.mu is held.
func (g *Game) reject(intent string, err error) error {
	g.logger.Debug("intent rejected", zap.String("intent", intent), zap.Error(err))
	g.sink.LogMessage(rejectionMessage(err))
	return fmt.Errorf("%s: %w", intent, err)
}

// rejectionMessage picks the most specific player-facing text for err.
func rejectionMessage(err error) string {
	for _, sentinel := range []error{
		ErrGameOver, ErrGhostForm, ErrAlreadyResting, ErrTooHealthyToRest, ErrInvalidSpeed, ErrItemEquipped,
		character.ErrItemNotFound, character.ErrNotEquipped, character.ErrLevelTooLow,
		character.ErrUnknownTalent, character.ErrNoTalentPoints, character.ErrTalentMaxed,
		character.ErrTalentGateLocked, character.ErrTalentExclusive,
		world.ErrFirstZone, world.ErrLastZone, world.ErrNotEndless, world.ErrFloorOutOfRange,
		world.ErrUnknownDirection, shop.ErrUnknownItem, shop.ErrInsufficientGold,
	} {
		if errors.Is(err, sentinel) {
			return capitalize(sentinel.Error()) + "."
		}
	}
	return capitalize(err.Error()) + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// playable rejects intents that need a live session.
//
// Precondition: g.mu is held.
func (g *Game) playable(intent string) error {
	if g.mode == combat.ModeGameOver {
		return g.reject(intent, ErrGameOver)
	}
	return nil
}

// Equip moves an inventory item into its slot.
//
// Postcondition: on error state is unchanged and the rejection is mirrored
// to the sink.
func (g *Game) Equip(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("equip"); err != nil {
		return err
	}
	displaced, err := g.player.Equip(g.inv, id)
	if err != nil {
		return g.reject("equip", err)
	}
	it := equippedItem(g.player, id)
	g.sink.LogMessage(fmt.Sprintf("Equipped %s.", it.DisplayName()))
	if displaced != nil {
		g.sink.LogMessage(fmt.Sprintf("Unequipped %s.", displaced.DisplayName()))
	}
	g.rearmPlayerCadence()
	g.sink.StateChanged()
	return nil
}

func equippedItem(c *character.Character, id string) *inventory.Item {
	for _, it := range c.EquippedItems() {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Unequip returns an equipped item to the inventory.
func (g *Game) Unequip(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("unequip"); err != nil {
		return err
	}
	it, err := g.player.Unequip(g.inv, id)
	if err != nil {
		return g.reject("unequip", err)
	}
	g.sink.LogMessage(fmt.Sprintf("Unequipped %s.", it.DisplayName()))
	g.rearmPlayerCadence()
	g.sink.StateChanged()
	return nil
}

// Sell converts an inventory item to its sell price. Equipped items must be
// unequipped first.
func (g *Game) Sell(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("sell"); err != nil {
		return err
	}
	if g.player.IsEquipped(id) {
		return g.reject("sell", ErrItemEquipped)
	}
	it, ok := g.inv.Remove(id)
	if !ok {
		return g.reject("sell", fmt.Errorf("%q: %w", id, character.ErrItemNotFound))
	}
	g.player.AddGold(it.SellPrice)
	g.sink.LogMessage(fmt.Sprintf("Sold %s for %d gold.", it.DisplayName(), it.SellPrice))
	g.sink.StateChanged()
	return nil
}

// SellAll sells every inventory item. Equipped items are untouched.
func (g *Game) SellAll() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("sell all"); err != nil {
		return err
	}
	sold := g.inv.Clear()
	total := 0
	for _, it := range sold {
		total += it.SellPrice
	}
	g.player.AddGold(total)
	g.sink.LogMessage(fmt.Sprintf("Sold %d item(s) for %d gold.", len(sold), total))
	g.sink.StateChanged()
	return nil
}

// SpendTalent invests one point in key.
func (g *Game) SpendTalent(key character.TalentKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("spend talent"); err != nil {
		return err
	}
	if err := g.player.SpendTalent(key); err != nil {
		return g.reject("spend talent", err)
	}
	def, _ := character.LookupTalent(key)
	g.sink.LogMessage(fmt.Sprintf("%s is now rank %d.", def.Name, g.player.Talents().Rank(key)))
	g.rearmPlayerCadence()
	g.sink.StateChanged()
	return nil
}

// ResetTalents refunds every invested point.
func (g *Game) ResetTalents() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("reset talents"); err != nil {
		return err
	}
	n := g.player.ResetTalents()
	g.sink.LogMessage(fmt.Sprintf("Refunded %d talent point(s).", n))
	g.rearmPlayerCadence()
	g.sink.StateChanged()
	return nil
}

// ChangeZone moves one zone in dir. A running fight is abandoned and a new
// enemy appears immediately; resting and ghost form continue in the new zone.
func (g *Game) ChangeZone(dir world.Direction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("change zone"); err != nil {
		return err
	}
	zone, err := g.nav.Move(dir)
	if err != nil {
		return g.reject("change zone", err)
	}
	g.logger.Info("zone changed", zap.String("zone", zone.Name))
	g.sink.LogMessage(fmt.Sprintf("You travel to %s.", zone.Name))
	g.respawnIfActive()
	g.sink.StateChanged()
	return nil
}

// ChangeFloor moves delta floors inside the endless zone.
func (g *Game) ChangeFloor(delta int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("change floor"); err != nil {
		return err
	}
	floor, err := g.nav.ChangeFloor(delta)
	if err != nil {
		return g.reject("change floor", err)
	}
	g.sink.LogMessage(fmt.Sprintf("You descend to floor %d.", floor))
	g.respawnIfActive()
	g.sink.StateChanged()
	return nil
}

func (g *Game) respawnIfActive() {
	if g.mode != combat.ModeActive || !g.started {
		return
	}
	g.stopCadences()
	g.spawnNow()
}

// SetGameSpeed changes the global speed multiplier and re-arms every
// running cadence at the new interval.
func (g *Game) SetGameSpeed(multiplier float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if multiplier <= 0 || multiplier > g.cfg.MaxSpeed {
		return g.reject("set game speed",
			fmt.Errorf("%w: %g not in (0, %g]", ErrInvalidSpeed, multiplier, g.cfg.MaxSpeed))
	}
	g.speed = multiplier
	g.logger.Info("game speed changed", zap.Float64("speed", multiplier))
	g.sink.LogMessage(fmt.Sprintf("Game speed set to %gx.", multiplier))
	if !g.started {
		return nil
	}
	switch g.mode {
	case combat.ModeActive:
		g.armRegen()
		if g.enemy.Alive() {
			g.startCadences()
		} else if g.spawnPending {
			g.scheduleSpawn(combat.SpawnDelay(g.speed))
		}
	case combat.ModeResting:
		g.armRegen()
	}
	g.sink.StateChanged()
	return nil
}

// ForceRest starts resting on demand. It is refused at or above
// RestEntryCeiling of max HP; a live enemy flees.
func (g *Game) ForceRest() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.mode {
	case combat.ModeGameOver:
		return g.reject("force rest", ErrGameOver)
	case combat.ModeGhostForm:
		return g.reject("force rest", ErrGhostForm)
	case combat.ModeResting:
		return g.reject("force rest", ErrAlreadyResting)
	}
	if g.player.HPRatio() >= combat.RestEntryCeiling {
		return g.reject("force rest", ErrTooHealthyToRest)
	}
	g.enterRest("You force yourself to rest...")
	g.sink.StateChanged()
	return nil
}

// ToggleAutoRest enables or disables resting at low health.
func (g *Game) ToggleAutoRest(on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("toggle auto rest"); err != nil {
		return err
	}
	g.autoRest = on
	if on {
		g.sink.LogMessage("Auto-rest enabled.")
	} else {
		g.sink.LogMessage("Auto-rest disabled.")
	}
	g.sink.StateChanged()
	return nil
}

// SetAutoSell replaces the auto-sell policy applied to new drops.
func (g *Game) SetAutoSell(p character.AutoSellPolicy) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("set auto sell"); err != nil {
		return err
	}
	g.autoSell = p
	g.sink.StateChanged()
	return nil
}

// BuyVendorItem purchases id from the shop into the inventory.
func (g *Game) BuyVendorItem(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("buy"); err != nil {
		return err
	}
	it, err := g.shop.Buy(id, g.player)
	if err != nil {
		return g.reject("buy", err)
	}
	g.inv.Add(it)
	g.sink.LogMessage(fmt.Sprintf("Purchased %s.", it.DisplayName()))
	g.sink.StateChanged()
	return nil
}

// RefreshVendor restocks the shop using a free charge or gold.
func (g *Game) RefreshVendor() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.playable("refresh vendor"); err != nil {
		return err
	}
	cost, err := g.shop.Refresh(g.player.Level(), g.player)
	if err != nil {
		return g.reject("refresh vendor", err)
	}
	if cost == 0 {
		g.sink.LogMessage(fmt.Sprintf("Used a free refresh charge. Remaining: %d.", g.shop.FreeCharges()))
	} else {
		g.sink.LogMessage(fmt.Sprintf("Refreshed vendor stock for %d gold.", cost))
	}
	g.sink.LogMessage(fmt.Sprintf("Vendor now offers level %d items.", g.shop.Level()))
	g.sink.StateChanged()
	return nil
}

// GameOver halts the session. Only Reset, Snapshot and Restore remain
// meaningful afterwards.
func (g *Game) GameOver() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode == combat.ModeGameOver {
		return g.reject("game over", ErrGameOver)
	}
	g.cancelAll()
	g.mode = combat.ModeGameOver
	g.spawnPending = false
	g.logger.Info("game over", zap.Int("level", g.player.Level()))
	g.sink.LogMessage("Game over.")
	g.sink.StateChanged()
	return nil
}

// Reset starts a brand-new level-1 session in the first zone.
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelAll()
	g.player = character.New(g.cfg.Rules)
	g.inv.Clear()
	g.nav.Reset()
	g.shop.Reset()
	g.enemy = nil
	g.mode = combat.ModeActive
	g.speed = g.cfg.StartingSpeed
	g.autoRest = g.cfg.AutoRest
	g.autoSell = character.AutoSellPolicy{}
	g.spawnPending = false
	g.logger.Info("game reset")
	g.sink.LogMessage("A new adventure begins.")
	if g.started {
		g.armForMode()
	}
	g.sink.StateChanged()
	return nil
}
