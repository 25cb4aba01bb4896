// Package catalog provides the static on-road price catalog:
// brand → model → variant → transmission → price. The data is embedded at
// build time and parsed once into an immutable in-memory structure, so
// lookups need no synchronization.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed catalog.json
var catalogFS embed.FS

// Brand maps model → variant → transmission → on-road price.
type Brand map[string]map[string]map[string]float64

// Catalog is the read-only vehicle price catalog.
type Catalog struct {
	brands map[string]Brand
}

// Load parses the embedded catalog data.
func Load() (*Catalog, error) {
	raw, err := catalogFS.ReadFile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}

	var brands map[string]Brand
	if err := json.Unmarshal(raw, &brands); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return &Catalog{brands: brands}, nil
}

// Lookup returns the model/variant/transmission price mapping for a brand.
// Unknown brands return an empty mapping, not an error.
func (c *Catalog) Lookup(brand string) Brand {
	if b, ok := c.brands[brand]; ok {
		return b
	}
	return Brand{}
}

// Brands returns the known brand names.
func (c *Catalog) Brands() []string {
	names := make([]string, 0, len(c.brands))
	for name := range c.brands {
		names = append(names, name)
	}
	return names
}
