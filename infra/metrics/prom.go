package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/trainyard/core/metrics"
)

// PromSink records ticket sales and dispatched trains in Prometheus metrics.
type PromSink struct {
	sold       *prometheus.CounterVec
	dispatched prometheus.Counter
	wagons     *prometheus.CounterVec
	trainSize  prometheus.Histogram
	ledger     prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// that are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	sold, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trainyard_tickets_sold_total",
		Help: "Tickets sold per wagon class",
	}, []string{"class"}))
	if err != nil {
		return nil, err
	}
	// Station names are operator input, so routes stay out of the labels.
	dispatched, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trainyard_trains_dispatched_total",
		Help: "Trains dispatched",
	}))
	if err != nil {
		return nil, err
	}
	wagons, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trainyard_wagons_coupled_total",
		Help: "Wagons coupled per wagon class",
	}, []string{"class"}))
	if err != nil {
		return nil, err
	}
	trainSize, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trainyard_train_wagons",
		Help:    "Number of wagons per dispatched train",
		Buckets: prometheus.LinearBuckets(2, 2, 12),
	}))
	if err != nil {
		return nil, err
	}
	ledger, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trainyard_ledger_trains",
		Help: "Trains recorded in the in-memory ledger",
	}))
	if err != nil {
		return nil, err
	}
	return &PromSink{sold: sold, dispatched: dispatched, wagons: wagons, trainSize: trainSize, ledger: ledger}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordTicketSales adds the sold tickets to the per-class counter.
func (s *PromSink) RecordTicketSales(ev coremetrics.SalesEvent) error {
	for _, cs := range ev.Sales {
		s.sold.WithLabelValues(cs.Class).Add(float64(cs.Sold))
	}
	return nil
}

// RecordTrainDispatched counts the train and its wagons.
func (s *PromSink) RecordTrainDispatched(ev coremetrics.DispatchEvent) error {
	s.dispatched.Inc()
	for _, c := range ev.Classes {
		s.wagons.WithLabelValues(c.Class).Add(float64(c.Wagons))
	}
	s.trainSize.Observe(float64(ev.Wagons))
	return nil
}

// RecordLedgerSize sets the ledger gauge.
func (s *PromSink) RecordLedgerSize(size int) error {
	s.ledger.Set(float64(size))
	return nil
}
