// Package journal records an audit trail of dispatched trains. The journal is
// write-mostly: the dispatch ledger is never rebuilt from it.
package journal

import (
	"context"
	"time"

	"github.com/kilianp07/trainyard/core/model"
)

// Record captures one dispatched train and the sales it was composed from.
type Record struct {
	DispatchID string             `json:"dispatch_id"`
	Timestamp  time.Time          `json:"timestamp"`
	Route      model.Route        `json:"route"`
	Sales      []model.ClassSales `json:"sales"`
	Wagons     []model.Wagon      `json:"wagons"`
	Summary    []model.ClassCount `json:"summary"`
}

// NewRecord builds a record from a train and its sales.
func NewRecord(t model.Train, sales model.TicketSales) Record {
	return Record{
		DispatchID: t.ID,
		Timestamp:  t.DispatchedAt,
		Route:      t.Route,
		Sales:      sales.Entries(),
		Wagons:     t.Wagons(),
		Summary:    t.Summary(),
	}
}

// Query defines filters for retrieving records.
type Query struct {
	Start     time.Time
	End       time.Time
	Departure string
	Arrival   string
	Class     string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
