package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/tickets"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "trainyard.yaml", `catalog:
  classes:
    - name: Sleeper
      capacity: 54
    - name: Berth
      capacity: 10
tickets:
  lower: 10
  upper: 20
  seed: 7
journal:
  backend: sqlite
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: nop
mqtt:
  broker: "tcp://localhost:1883"
  topic_prefix: "yard"
api:
  addr: ":8080"
  token: "tok"
  rate_limit:
    requests_per_second: 5
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []model.WagonClass{{Name: "Sleeper", Capacity: 54}, {Name: "Berth", Capacity: 10}}, cfg.Catalog.Classes)
	assert.Equal(t, tickets.Range{Lower: 10, Upper: 20}, cfg.Tickets.Range())
	assert.Equal(t, int64(7), cfg.Tickets.Seed)
	assert.Equal(t, "sqlite", cfg.Journal.Backend)
	assert.Equal(t, "trains.db", cfg.Journal.Path)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)
	assert.Equal(t, "yard", cfg.MQTT.TopicPrefix)
	assert.Equal(t, 3, cfg.MQTT.MaxRetries)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, 6, cfg.API.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Catalog.Classes, 3)
	assert.Equal(t, tickets.DefaultRange, cfg.Tickets.Range())
	assert.Equal(t, "none", cfg.Journal.Backend)
	assert.False(t, cfg.MQTT.Enabled())
	assert.False(t, cfg.API.Enabled())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_JSONWithEnvOverride(t *testing.T) {
	path := writeFile(t, "trainyard.json", `{"tickets":{"lower":30,"upper":100},"logging":{"level":"warn"}}`)
	t.Setenv("K_TICKETS__UPPER", "80")
	t.Setenv("K_API__ADDR", ":9090")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Tickets.Upper)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"range":         "tickets:\n  lower: 50\n  upper: 50\n",
		"capacity":      "catalog:\n  classes:\n    - name: Sleeper\n      capacity: 0\n",
		"duplicate":     "catalog:\n  classes:\n    - {name: A, capacity: 1}\n    - {name: A, capacity: 2}\n",
		"journal":       "journal:\n  backend: postgres\n",
		"sink type":     "metrics:\n  sinks:\n    - conf: {}\n",
		"mqtt qos":      "mqtt:\n  broker: tcp://b:1883\n  qos: 5\n",
		"logging level": "logging:\n  level: loud\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidRangeIsConfigError(t *testing.T) {
	_, err := Load(writeFile(t, "c.yaml", "tickets:\n  lower: 50\n  upper: 50\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	assert.True(t, model.IsConfigError(err))
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "c.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")
}
