// Package scenarios replays dispatch cycles described in YAML files and
// checks the composed trains against expectations.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/trainyard/core/model"
)

// RouteDef is one dispatch request.
type RouteDef struct {
	Departure string `yaml:"departure"`
	Arrival   string `yaml:"arrival"`
}

// RangeDef overrides the sales draw range.
type RangeDef struct {
	Lower int `yaml:"lower"`
	Upper int `yaml:"upper"`
}

// Expected lists what every dispatched train must look like. Error, when set,
// names the error kind the scenario must fail with instead.
type Expected struct {
	Wagons   map[string]int `yaml:"wagons,omitempty"`
	Order    []string       `yaml:"order,omitempty"`
	Capacity int            `yaml:"capacity,omitempty"`
	Trains   int            `yaml:"trains,omitempty"`
	Error    string         `yaml:"error,omitempty"`
}

// Scenario is a QA case.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Catalog     []model.WagonClass `yaml:"catalog,omitempty"`
	Range       *RangeDef          `yaml:"range,omitempty"`
	Seed        int64              `yaml:"seed,omitempty"`
	Sales       []model.ClassSales `yaml:"sales,omitempty"`
	Routes      []RouteDef         `yaml:"routes"`
	Expected    Expected           `yaml:"expected"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	if len(sc.Routes) == 0 {
		return nil, fmt.Errorf("%s: at least one route is required", path)
	}
	if sc.Expected.Error != "" {
		if _, ok := errorKinds[sc.Expected.Error]; !ok {
			return nil, fmt.Errorf("%s: unknown error kind %q", path, sc.Expected.Error)
		}
	}
	return &sc, nil
}

var errorKinds = map[string]error{
	"invalid_route":    model.ErrInvalidRoute,
	"invalid_range":    model.ErrInvalidRange,
	"unknown_class":    model.ErrUnknownClass,
	"invalid_capacity": model.ErrInvalidCapacity,
	"invalid_sales":    model.ErrInvalidSales,
}
