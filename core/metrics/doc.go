// Package metrics defines the sink contract for ticket sales and train
// dispatch observability. Implementations such as the Prometheus and
// InfluxDB sinks live in infra/metrics and register themselves with the
// factory so they can be selected from configuration. NewSink returns a
// MultiSink automatically when several sinks are configured.
package metrics
