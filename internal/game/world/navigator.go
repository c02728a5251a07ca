package world

import (
	"errors"
	"fmt"
)

// Level window constants.
const (
	// LevelRange is how far enemy levels may stray from the player's level.
	LevelRange = 2

	FloorBase  = 95
	FloorStep  = 5
	FloorWidth = 5
	MinFloor   = 1
	MaxFloor   = 20
)

// Direction is a zone navigation intent.
type Direction string

// Direction constants.
const (
	Previous Direction = "previous"
	Next     Direction = "next"
)

// Navigation rejections.
var (
	ErrFirstZone        = errors.New("already in the first zone")
	ErrLastZone         = errors.New("already in the last zone")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrNotEndless       = errors.New("current zone has no floors")
	ErrFloorOutOfRange  = errors.New("floor out of range")
	ErrUnknownZone      = errors.New("unknown zone")
)

// Navigator tracks the active zone and the endless-zone floor.
//
// Invariant: 0 <= index < catalog.Len(); MinFloor <= floor <= MaxFloor.
type Navigator struct {
	catalog *Catalog
	index   int
	floor   int
}

// NewNavigator returns a Navigator positioned at the first zone, floor 1.
//
// Precondition: catalog is non-nil.
func NewNavigator(catalog *Catalog) *Navigator {
	return &Navigator{catalog: catalog, floor: MinFloor}
}

// Catalog returns the zone catalogue.
func (n *Navigator) Catalog() *Catalog { return n.catalog }

// Current returns the active zone.
func (n *Navigator) Current() *Zone { return n.catalog.At(n.index) }

// Index returns the active zone's position.
func (n *Navigator) Index() int { return n.index }

// Floor returns the endless-zone floor.
func (n *Navigator) Floor() int { return n.floor }

// Move steps one zone in dir.
//
// Postcondition: on error the position is unchanged.
func (n *Navigator) Move(dir Direction) (*Zone, error) {
	switch dir {
	case Previous:
		if n.index == 0 {
			return nil, ErrFirstZone
		}
		n.index--
	case Next:
		if n.index == n.catalog.Len()-1 {
			return nil, ErrLastZone
		}
		n.index++
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	return n.Current(), nil
}

// StepBack moves to the previous zone unless already first.
//
// Postcondition: returns true if the zone changed.
func (n *Navigator) StepBack() bool {
	if n.index == 0 {
		return false
	}
	n.index--
	return true
}

// ChangeFloor moves delta floors within the endless zone.
//
// Postcondition: on error the floor is unchanged.
func (n *Navigator) ChangeFloor(delta int) (int, error) {
	if !n.Current().Endless {
		return n.floor, ErrNotEndless
	}
	next := n.floor + delta
	if next < MinFloor || next > MaxFloor {
		return n.floor, fmt.Errorf("%w: %d not in [%d, %d]", ErrFloorOutOfRange, next, MinFloor, MaxFloor)
	}
	n.floor = next
	return n.floor, nil
}

// SetPosition restores a saved position.
//
// Postcondition: on error the position is unchanged.
func (n *Navigator) SetPosition(zoneName string, floor int) error {
	i, ok := n.catalog.Index(zoneName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownZone, zoneName)
	}
	if floor < MinFloor || floor > MaxFloor {
		return fmt.Errorf("%w: %d", ErrFloorOutOfRange, floor)
	}
	n.index = i
	n.floor = floor
	return nil
}

// Reset returns to the first zone, floor 1.
func (n *Navigator) Reset() {
	n.index = 0
	n.floor = MinFloor
}

// LevelWindow returns the inclusive enemy level range for the active zone.
// Endless zones use [95 + 5×floor, +5]. Other zones intersect their bounds
// with playerLevel ± LevelRange, falling back to the zone bounds when the
// intersection is empty.
//
// Postcondition: 1 <= lo <= hi.
func (n *Navigator) LevelWindow(playerLevel int) (lo, hi int) {
	return WindowFor(n.Current(), n.floor, playerLevel)
}

// WindowFor computes the level window for zone z at floor.
func WindowFor(z *Zone, floor, playerLevel int) (lo, hi int) {
	if z.Endless {
		base := FloorBase + floor*FloorStep
		return base, base + FloorWidth
	}
	zoneMax := z.MaxLevel
	if z.Unbounded() {
		zoneMax = max(z.MinLevel, playerLevel+LevelRange)
	}
	lo = max(z.MinLevel, playerLevel-LevelRange, 1)
	hi = min(zoneMax, playerLevel+LevelRange)
	if lo > hi {
		return z.MinLevel, zoneMax
	}
	return lo, hi
}
