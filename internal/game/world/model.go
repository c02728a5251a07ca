// Package world defines the zone catalogue and the navigator that tracks the
// active zone and endless-zone floor.
package world

import (
	"errors"
	"fmt"
)

// Zone is an immutable catalogue entry.
type Zone struct {
	Name     string
	MinLevel int
	// MaxLevel is the highest enemy level; 0 means unbounded.
	MaxLevel int
	// Endless zones derive enemy levels from the floor counter instead of
	// the player's level.
	Endless    bool
	EnemyNames []string
}

// Unbounded reports whether the zone has no level ceiling.
func (z *Zone) Unbounded() bool {
	return z.MaxLevel == 0
}

// Validate checks the zone invariants.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (z *Zone) Validate() error {
	var errs []error
	if z.Name == "" {
		errs = append(errs, errors.New("zone name must not be empty"))
	}
	if z.MinLevel < 1 {
		errs = append(errs, fmt.Errorf("zone %q: min_level must be >= 1, got %d", z.Name, z.MinLevel))
	}
	if !z.Unbounded() && z.MaxLevel < z.MinLevel {
		errs = append(errs, fmt.Errorf("zone %q: max_level %d must be >= min_level %d", z.Name, z.MaxLevel, z.MinLevel))
	}
	if len(z.EnemyNames) == 0 {
		errs = append(errs, fmt.Errorf("zone %q: must have at least one enemy name", z.Name))
	}
	return errors.Join(errs...)
}

// Catalog is the ordered list of zones from first to last.
type Catalog struct {
	zones []*Zone
}

// NewCatalog builds a Catalog.
//
// Precondition: zones is non-empty and ordered.
// Postcondition: Returns a Catalog, or an error if any zone is invalid, names
// repeat, or an endless/unbounded zone is not last.
func NewCatalog(zones []*Zone) (*Catalog, error) {
	if len(zones) == 0 {
		return nil, errors.New("zone catalogue must contain at least one zone")
	}
	seen := make(map[string]bool, len(zones))
	for i, z := range zones {
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if seen[z.Name] {
			return nil, fmt.Errorf("duplicate zone name %q", z.Name)
		}
		seen[z.Name] = true
		if (z.Endless || z.Unbounded()) && i != len(zones)-1 {
			return nil, fmt.Errorf("zone %q: only the last zone may be endless or unbounded", z.Name)
		}
	}
	return &Catalog{zones: zones}, nil
}

// Len returns the number of zones.
func (c *Catalog) Len() int { return len(c.zones) }

// At returns the zone at index i.
//
// Precondition: 0 <= i < Len().
func (c *Catalog) At(i int) *Zone { return c.zones[i] }

// Index returns the position of the zone named name.
func (c *Catalog) Index(name string) (int, bool) {
	for i, z := range c.zones {
		if z.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Zones returns the zones in order.
func (c *Catalog) Zones() []*Zone {
	out := make([]*Zone, len(c.zones))
	copy(out, c.zones)
	return out
}
