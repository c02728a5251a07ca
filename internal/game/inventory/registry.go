package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry holds the base item catalogue indexed by ID and by archetype.
type Registry struct {
	items       map[string]*ItemDef
	byArchetype map[Archetype]*ItemDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:       make(map[string]*ItemDef),
		byArchetype: make(map[Archetype]*ItemDef),
	}
}

// RegisterItem adds d to the registry. The first definition registered for
// an archetype becomes that archetype's base.
//
// Precondition: d must not be nil and must pass Validate.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	if _, ok := r.byArchetype[d.Archetype]; !ok {
		r.byArchetype[d.Archetype] = d
	}
	return nil
}

// Item returns the ItemDef for the given id.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// ForArchetype returns the base definition for archetype a.
func (r *Registry) ForArchetype(a Archetype) (*ItemDef, bool) {
	d, ok := r.byArchetype[a]
	return d, ok
}

// Archetypes returns the archetypes that have a registered base, in catalogue order.
func (r *Registry) Archetypes() []Archetype {
	var out []Archetype
	for _, a := range Archetypes {
		if _, ok := r.byArchetype[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

type yamlItemFile struct {
	Items []*ItemDef `yaml:"items"`
}

// LoadRegistryFromBytes parses and validates a base item catalogue.
//
// Precondition: data must be YAML with a top-level "items" list.
// Postcondition: Returns a populated Registry or a non-nil error.
func LoadRegistryFromBytes(data []byte) (*Registry, error) {
	var f yamlItemFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing item catalogue: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("item catalogue must define at least one item")
	}
	reg := NewRegistry()
	for i, d := range f.Items {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		if err := reg.RegisterItem(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadRegistryFromFile reads and validates a base item catalogue file.
//
// Precondition: path must point to a readable YAML file.
// Postcondition: Returns a populated Registry or a non-nil error.
func LoadRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item catalogue %s: %w", path, err)
	}
	return LoadRegistryFromBytes(data)
}
