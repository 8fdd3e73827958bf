package events

import (
	"time"

	"github.com/kilianp07/trainyard/core/model"
)

// SalesGenerated is published once ticket sales are drawn for a route.
type SalesGenerated struct {
	Route model.Route
	Sales model.TicketSales
	Time  time.Time
}

// TrainDispatched is published after the train is appended to the ledger.
// LedgerSize is the number of trains in the ledger including this one.
type TrainDispatched struct {
	Train      model.Train
	Sales      model.TicketSales
	LedgerSize int
}

// Event is the union carried on the dispatch bus.
type Event interface {
	isDispatchEvent()
}

func (SalesGenerated) isDispatchEvent()  {}
func (TrainDispatched) isDispatchEvent() {}
