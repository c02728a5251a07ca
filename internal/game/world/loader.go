package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for the zone catalogue.
type yamlCatalogFile struct {
	Zones []yamlZone `yaml:"zones"`
}

// yamlZone is the YAML representation of a zone.
type yamlZone struct {
	Name     string   `yaml:"name"`
	MinLevel int      `yaml:"min_level"`
	MaxLevel int      `yaml:"max_level"`
	Endless  bool     `yaml:"endless"`
	Enemies  []string `yaml:"enemies"`
}

// LoadCatalogFromFile reads and validates a zone catalogue file.
//
// Precondition: path must point to a valid YAML catalogue file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone catalogue %s: %w", path, err)
	}
	return LoadCatalogFromBytes(data)
}

// LoadCatalogFromBytes parses and validates a zone catalogue from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalogue schema.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing zone YAML: %w", err)
	}
	zones := make([]*Zone, 0, len(file.Zones))
	for _, yz := range file.Zones {
		zones = append(zones, &Zone{
			Name:       yz.Name,
			MinLevel:   yz.MinLevel,
			MaxLevel:   yz.MaxLevel,
			Endless:    yz.Endless,
			EnemyNames: yz.Enemies,
		})
	}
	cat, err := NewCatalog(zones)
	if err != nil {
		return nil, fmt.Errorf("validating zone catalogue: %w", err)
	}
	return cat, nil
}
