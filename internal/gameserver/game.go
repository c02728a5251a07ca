// Package gameserver owns the idle game aggregate: the character, the live
// enemy, the inventory, the zone position and the shop. Game serializes every
// mutation behind one mutex and drives combat with keyed scheduler tasks.
package gameserver

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/content"
	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
	"github.com/cory-johannsen/idlequest/internal/game/npc"
	"github.com/cory-johannsen/idlequest/internal/game/shop"
	"github.com/cory-johannsen/idlequest/internal/game/world"
)

// Config holds the balance settings a Game is built with.
type Config struct {
	Rules         character.Rules
	Tuning        combat.Tuning
	StartingSpeed float64
	MaxSpeed      float64
	AutoRest      bool
}

// DefaultConfig returns the shipped balance at normal speed with auto-rest on.
func DefaultConfig() Config {
	return Config{
		Rules:         character.DefaultRules(),
		Tuning:        combat.DefaultTuning(),
		StartingSpeed: 1,
		MaxSpeed:      10,
		AutoRest:      true,
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	if err := c.Rules.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.MaxSpeed <= 0 {
		errs = append(errs, fmt.Sprintf("max speed must be > 0, got %g", c.MaxSpeed))
	}
	if c.StartingSpeed <= 0 || c.StartingSpeed > c.MaxSpeed {
		errs = append(errs, fmt.Sprintf("starting speed must be in (0, %g], got %g", c.MaxSpeed, c.StartingSpeed))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Content bundles the static catalogues a Game reads from.
type Content struct {
	Items *inventory.Registry
	Zones *world.Catalog
	Loot  *npc.LootTable
}

// LoadDefaultContent parses the embedded catalogues.
//
// Postcondition: Returns validated content or a non-nil error.
func LoadDefaultContent() (Content, error) {
	items, err := inventory.LoadRegistryFromBytes(content.Items)
	if err != nil {
		return Content{}, fmt.Errorf("loading items: %w", err)
	}
	zones, err := world.LoadCatalogFromBytes(content.Zones)
	if err != nil {
		return Content{}, fmt.Errorf("loading zones: %w", err)
	}
	loot, err := npc.LoadLootTableFromBytes(content.Loot, items)
	if err != nil {
		return Content{}, fmt.Errorf("loading loot: %w", err)
	}
	return Content{Items: items, Zones: zones, Loot: loot}, nil
}

// Game is the single-writer controller of one idle session.
//
// Invariant: every field below mu is read and written only with mu held.
// Scheduled callbacks acquire mu and discard themselves when their task
// generation is stale.
type Game struct {
	cfg     Config
	logger  *zap.Logger
	sink    Sink
	sched   combat.Scheduler
	roller  *dice.Roller
	content Content
	items   *inventory.Generator
	enemies *npc.Generator
	loot    *npc.Resolver

	mu           sync.Mutex
	player       *character.Character
	inv          *inventory.Inventory
	nav          *world.Navigator
	shop         *shop.Vendor
	enemy        *npc.Enemy
	mode         combat.Mode
	speed        float64
	autoRest     bool
	autoSell     character.AutoSellPolicy
	spawnPending bool
	started      bool
	gens         map[combat.TaskKey]uint64
}

// NewGame builds a fresh level-1 session. Nothing runs until Start.
//
// Precondition: every pointer argument is non-nil; content was loaded with
// LoadDefaultContent or equivalent validation.
// Postcondition: Returns a Game in ModeActive with no enemy, or an error if
// cfg is invalid.
func NewGame(cfg Config, c Content, sched combat.Scheduler, roller *dice.Roller, sink Sink, logger *zap.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}
	items := inventory.NewGenerator(c.Items, roller)
	g := &Game{
		cfg:      cfg,
		logger:   logger,
		sink:     sink,
		sched:    sched,
		roller:   roller,
		content:  c,
		items:    items,
		enemies:  npc.NewGenerator(roller),
		loot:     npc.NewResolver(c.Loot, items, roller),
		player:   character.New(cfg.Rules),
		inv:      inventory.NewInventory(),
		nav:      world.NewNavigator(c.Zones),
		shop:     shop.New(items, roller),
		mode:     combat.ModeActive,
		speed:    cfg.StartingSpeed,
		autoRest: cfg.AutoRest,
		gens:     make(map[combat.TaskKey]uint64),
	}
	g.shop.Open(g.player.Level())
	return g, nil
}

// Start spawns the first enemy and arms the cadences for the current mode.
// Calling Start on a running game is a no-op.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.logger.Info("game started",
		zap.String("zone", g.nav.Current().Name),
		zap.Int("level", g.player.Level()),
		zap.String("mode", g.mode.String()),
	)
	g.armForMode()
	g.sink.StateChanged()
}

// Stop cancels every pending task. The game can be started again.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = false
	g.cancelAll()
	g.logger.Info("game stopped")
}

// Mode returns the current combat mode.
func (g *Game) Mode() combat.Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// guard wraps fn so that it runs under the game lock only while key's
// generation is unchanged.
func (g *Game) guard(key combat.TaskKey, fn func()) func() {
	g.gens[key]++
	gen := g.gens[key]
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.gens[key] != gen {
			return
		}
		fn()
	}
}
