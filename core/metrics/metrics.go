package metrics

import (
	"time"

	"github.com/kilianp07/trainyard/core/model"
)

// SalesEvent captures the ticket sales drawn for one route.
type SalesEvent struct {
	Route model.Route
	Sales []model.ClassSales
	Time  time.Time
}

// DispatchEvent describes a composed train leaving the yard.
type DispatchEvent struct {
	TrainID  string
	Route    model.Route
	Classes  []model.ClassCount
	Wagons   int
	Capacity int
	Sold     int
	Time     time.Time
}

// NewDispatchEvent builds a DispatchEvent from a dispatched train and the
// sales it was composed for.
func NewDispatchEvent(t model.Train, sales model.TicketSales) DispatchEvent {
	return DispatchEvent{
		TrainID:  t.ID,
		Route:    t.Route,
		Classes:  t.Summary(),
		Wagons:   t.WagonCount(),
		Capacity: t.TotalCapacity(),
		Sold:     sales.Total(),
		Time:     t.DispatchedAt,
	}
}

// Sink records dispatch activity for observability purposes.
type Sink interface {
	RecordTicketSales(ev SalesEvent) error
	RecordTrainDispatched(ev DispatchEvent) error
}

// LedgerSizeRecorder is implemented by sinks able to track the ledger length.
type LedgerSizeRecorder interface {
	RecordLedgerSize(size int) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTicketSales(SalesEvent) error        { return nil }
func (NopSink) RecordTrainDispatched(DispatchEvent) error { return nil }
func (NopSink) RecordLedgerSize(int) error                { return nil }
