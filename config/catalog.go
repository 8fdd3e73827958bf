package config

import (
	"github.com/kilianp07/trainyard/core/catalog"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/tickets"
)

// CatalogConfig lists the wagon classes trains are composed of.
type CatalogConfig struct {
	Classes []model.WagonClass `json:"classes"`
}

// SetDefaults uses the reference catalog when no class is configured.
func (c *CatalogConfig) SetDefaults() {
	if len(c.Classes) == 0 {
		c.Classes = catalog.DefaultClasses()
	}
}

// Validate checks names and capacities.
func (c CatalogConfig) Validate() error {
	_, err := catalog.New(c.Classes)
	return err
}

// Build returns the catalog.
func (c CatalogConfig) Build() (*catalog.Catalog, error) {
	return catalog.New(c.Classes)
}

// TicketsConfig controls the sales generator.
type TicketsConfig struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	// Seed makes draws reproducible; zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// SetDefaults uses the reference range when both bounds are unset.
func (c *TicketsConfig) SetDefaults() {
	if c.Lower == 0 && c.Upper == 0 {
		c.Lower = tickets.DefaultRange.Lower
		c.Upper = tickets.DefaultRange.Upper
	}
}

// Range returns the configured draw range.
func (c TicketsConfig) Range() tickets.Range {
	return tickets.Range{Lower: c.Lower, Upper: c.Upper}
}

// Validate checks the range.
func (c TicketsConfig) Validate() error {
	return c.Range().Validate()
}
