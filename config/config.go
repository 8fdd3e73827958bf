package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/trainyard/api/trains"
	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/metrics"
	"github.com/kilianp07/trainyard/infra/monitoring"
	"github.com/kilianp07/trainyard/infra/mqtt"
)

// EnvPrefix marks environment overrides. K_TICKETS__UPPER=80 sets tickets.upper.
const EnvPrefix = "K_"

type Config struct {
	Catalog CatalogConfig     `json:"catalog"`
	Tickets TicketsConfig     `json:"tickets"`
	Journal journal.Config    `json:"journal"`
	Metrics metrics.Config    `json:"metrics"`
	MQTT    mqtt.Config       `json:"mqtt"`
	API     trains.Config     `json:"api"`
	Sentry  monitoring.Config `json:"sentry"`
	Logging LoggingConfig     `json:"logging"`
}

// Load reads the optional config file at path, applies .env and K_ environment
// overrides, then fills defaults and validates every section. An empty path
// yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Catalog.SetDefaults()
	c.Tickets.SetDefaults()
	c.Journal.SetDefaults()
	c.MQTT.SetDefaults()
	c.API.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Tickets.Validate(); err != nil {
		return fmt.Errorf("tickets: %w", err)
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
