// Package catalog holds the wagon classes a train can be composed of and the
// seating capacity of one wagon of each class.
package catalog

import (
	"fmt"
	"strings"

	"github.com/kilianp07/trainyard/core/model"
)

// Catalog is an ordered, read-only table of wagon classes. It is safe for
// concurrent reads once constructed.
type Catalog struct {
	classes []model.WagonClass
	index   map[string]int
}

// Default returns the reference catalog.
func Default() *Catalog {
	c, _ := New(DefaultClasses())
	return c
}

// DefaultClasses lists the reference wagon classes in display order.
func DefaultClasses() []model.WagonClass {
	return []model.WagonClass{
		{Name: "economy-berth", Capacity: 54},
		{Name: "compartment", Capacity: 32},
		{Name: "sleeper", Capacity: 10},
	}
}

// New validates classes and keeps their declaration order.
func New(classes []model.WagonClass) (*Catalog, error) {
	c := &Catalog{
		classes: make([]model.WagonClass, 0, len(classes)),
		index:   make(map[string]int, len(classes)),
	}
	for _, wc := range classes {
		name := strings.TrimSpace(wc.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: wagon class name is required")
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("catalog: duplicate wagon class %q", name)
		}
		wc.Name = name
		if err := wc.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.index[name] = len(c.classes)
		c.classes = append(c.classes, wc)
	}
	return c, nil
}

// CapacityOf returns the seats of one wagon of the named class.
func (c *Catalog) CapacityOf(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, &model.UnknownClassError{Class: name}
	}
	return c.classes[i].Capacity, nil
}

// ClassNames returns the class names in declaration order.
func (c *Catalog) ClassNames() []string {
	out := make([]string, len(c.classes))
	for i, wc := range c.classes {
		out[i] = wc.Name
	}
	return out
}

// Classes returns a copy of the catalog entries.
func (c *Catalog) Classes() []model.WagonClass {
	out := make([]model.WagonClass, len(c.classes))
	copy(out, c.classes)
	return out
}

func (c *Catalog) Len() int { return len(c.classes) }
