package shop

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// State is the persisted form of a Vendor.
type State struct {
	Stock            []*inventory.Item `json:"stock"`
	Level            int               `json:"level"`
	FreeCharges      int               `json:"free_charges"`
	LastRefreshLevel int               `json:"last_refresh_level"`
}

// State captures the vendor for a snapshot.
func (v *Vendor) State() State {
	return State{
		Stock:            v.Stock(),
		Level:            v.level,
		FreeCharges:      v.freeCharges,
		LastRefreshLevel: v.lastRefreshLevel,
	}
}

// Validate checks a persisted vendor state.
func (s State) Validate() error {
	var errs []error
	if s.Level < 1 {
		errs = append(errs, fmt.Errorf("vendor level must be >= 1, got %d", s.Level))
	}
	if s.FreeCharges < 0 {
		errs = append(errs, fmt.Errorf("vendor free charges must be >= 0, got %d", s.FreeCharges))
	}
	if s.LastRefreshLevel < 0 {
		errs = append(errs, fmt.Errorf("vendor last refresh level must be >= 0, got %d", s.LastRefreshLevel))
	}
	seen := make(map[string]bool, len(s.Stock))
	for i, it := range s.Stock {
		if it == nil {
			errs = append(errs, fmt.Errorf("vendor stock[%d] is null", i))
			continue
		}
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("vendor stock[%d]: %w", i, err))
		}
		if seen[it.ID] {
			errs = append(errs, fmt.Errorf("vendor stock[%d]: duplicate id %q", i, it.ID))
		}
		seen[it.ID] = true
	}
	return errors.Join(errs...)
}

// Restore replaces the vendor's state with s.
//
// Precondition: s.Validate() returned nil.
func (v *Vendor) Restore(s State) {
	v.stock = make([]*inventory.Item, len(s.Stock))
	copy(v.stock, s.Stock)
	v.level = s.Level
	v.freeCharges = s.FreeCharges
	v.lastRefreshLevel = s.LastRefreshLevel
}
