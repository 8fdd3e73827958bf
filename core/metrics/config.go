package metrics

import (
	"fmt"

	"github.com/kilianp07/trainyard/core/factory"
)

// Config defines settings for metrics sinks and the Prometheus endpoint.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusAddr string                 `json:"prometheus_addr"`
}

// Validate checks that every sink entry names a type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
