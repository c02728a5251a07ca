package gameserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
	"github.com/cory-johannsen/idlequest/internal/game/npc"
	"github.com/cory-johannsen/idlequest/internal/game/shop"
	"github.com/cory-johannsen/idlequest/internal/game/world"
)

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the flat persisted form of a session. Effective stats inside
// Character are informational; Restore always recomputes them.
type Snapshot struct {
	Version      int                      `json:"version"`
	Character    character.State          `json:"character"`
	Enemy        *npc.Enemy               `json:"enemy,omitempty"`
	Inventory    []*inventory.Item        `json:"inventory"`
	Zone         string                   `json:"zone"`
	Floor        int                      `json:"floor"`
	Mode         string                   `json:"mode"`
	SpawnPending bool                     `json:"spawn_pending"`
	GameSpeed    float64                  `json:"game_speed"`
	AutoRest     bool                     `json:"auto_rest"`
	AutoSell     character.AutoSellPolicy `json:"auto_sell"`
	Vendor       shop.State               `json:"vendor"`
}

// Snapshot captures the session without side effects.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	var enemy *npc.Enemy
	if g.enemy != nil {
		cp := *g.enemy
		enemy = &cp
	}
	return Snapshot{
		Version:      SnapshotVersion,
		Character:    g.player.State(),
		Enemy:        enemy,
		Inventory:    g.inv.Items(),
		Zone:         g.nav.Current().Name,
		Floor:        g.nav.Floor(),
		Mode:         g.mode.String(),
		SpawnPending: g.spawnPending,
		GameSpeed:    g.speed,
		AutoRest:     g.autoRest,
		AutoSell:     g.autoSell,
		Vendor:       g.shop.State(),
	}
}

// restored holds a fully validated session ready to be swapped in.
type restored struct {
	player       *character.Character
	inv          *inventory.Inventory
	nav          *world.Navigator
	enemy        *npc.Enemy
	mode         combat.Mode
	spawnPending bool
}

// build validates s and constructs the replacement state without touching g.
func (g *Game) build(s Snapshot) (restored, error) {
	var errs []error
	if s.Version != SnapshotVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d", s.Version))
	}
	mode, ok := combat.ParseMode(s.Mode)
	if !ok {
		errs = append(errs, fmt.Errorf("unknown mode %q", s.Mode))
	}
	if s.GameSpeed <= 0 || s.GameSpeed > g.cfg.MaxSpeed {
		errs = append(errs, fmt.Errorf("game speed %g not in (0, %g]", s.GameSpeed, g.cfg.MaxSpeed))
	}
	if err := s.Vendor.Validate(); err != nil {
		errs = append(errs, err)
	}
	if e := s.Enemy; e != nil {
		if e.Level < 1 || e.MaxHP < 1 || e.HP < 0 || e.HP > e.MaxHP || e.Attack < 1 || e.XPReward < 1 {
			errs = append(errs, fmt.Errorf("enemy %q has inconsistent stats", e.Name))
		}
	}
	nav := world.NewNavigator(g.content.Zones)
	if err := nav.SetPosition(s.Zone, s.Floor); err != nil {
		errs = append(errs, err)
	}
	player, err := character.FromState(g.cfg.Rules, s.Character)
	if err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool)
	for slot, it := range s.Character.Equipment {
		if it == nil {
			continue
		}
		if seen[it.ID] {
			errs = append(errs, fmt.Errorf("equipment %s: duplicate id %q", slot, it.ID))
		}
		seen[it.ID] = true
	}
	inv := inventory.NewInventory()
	for i, it := range s.Inventory {
		if it == nil {
			errs = append(errs, fmt.Errorf("inventory[%d] is null", i))
			continue
		}
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("inventory[%d]: %w", i, err))
			continue
		}
		if seen[it.ID] {
			errs = append(errs, fmt.Errorf("inventory[%d]: duplicate id %q", i, it.ID))
			continue
		}
		seen[it.ID] = true
		cp := *it
		inv.Add(&cp)
	}
	if len(errs) > 0 {
		return restored{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(errs...))
	}

	r := restored{
		player:       player,
		inv:          inv,
		nav:          nav,
		mode:         mode,
		spawnPending: s.SpawnPending && mode == combat.ModeActive,
	}
	if s.Enemy != nil {
		cp := *s.Enemy
		r.enemy = &cp
	}
	if mode == combat.ModeGhostForm {
		player.SetHP(0)
	}
	return r, nil
}

// Restore replaces the session with s, recomputes effective stats and
// re-arms the tasks the restored mode needs.
//
// Postcondition: on error the session is untouched; the error wraps
// ErrInvalidSnapshot and names every violation.
func (g *Game) Restore(s Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.build(s)
	if err != nil {
		g.logger.Warn("snapshot rejected", zap.Error(err))
		return err
	}
	g.cancelAll()
	g.player = r.player
	g.inv = r.inv
	g.nav = r.nav
	g.enemy = r.enemy
	g.mode = r.mode
	g.spawnPending = r.spawnPending
	g.speed = s.GameSpeed
	g.autoRest = s.AutoRest
	g.autoSell = s.AutoSell
	g.shop.Restore(s.Vendor)
	g.logger.Info("snapshot restored",
		zap.Int("level", g.player.Level()),
		zap.String("zone", g.nav.Current().Name),
		zap.String("mode", g.mode.String()),
	)
	if g.started {
		g.armForMode()
	}
	g.sink.StateChanged()
	return nil
}

// EncodeSnapshot serializes s as JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot produced by EncodeSnapshot. Unknown
// fields are rejected so that foreign saves fail instead of half-loading.
//
// Postcondition: errors wrap ErrInvalidSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if s.Version == 0 {
		return Snapshot{}, fmt.Errorf("%w: missing version", ErrInvalidSnapshot)
	}
	return s, nil
}
