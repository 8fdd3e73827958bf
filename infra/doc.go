// Package infra holds the adapters that connect trainyard to the outside:
// the zerolog logger, Prometheus and InfluxDB sinks, the MQTT announcer and
// Sentry reporting. They implement interfaces declared under core.
package infra
