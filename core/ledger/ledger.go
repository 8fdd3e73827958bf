// Package ledger keeps the ordered record of trains dispatched by this process.
package ledger

import (
	"strings"
	"sync"

	"github.com/kilianp07/trainyard/core/model"
)

// Ledger is an append-only list of dispatched trains.
type Ledger interface {
	Append(model.Train)
	ListAll() []model.Train
	Len() int
}

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	Departure string
	Arrival   string
}

// MemoryLedger is the in-process Ledger. Appends are serialized so readers such
// as the HTTP API may list concurrently with the dispatch loop.
type MemoryLedger struct {
	mu     sync.RWMutex
	trains []model.Train
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{trains: []model.Train{}}
}

// Append records a train. Identical trains are kept as separate entries.
func (l *MemoryLedger) Append(t model.Train) {
	l.mu.Lock()
	l.trains = append(l.trains, t)
	l.mu.Unlock()
}

// ListAll returns every train in dispatch order.
func (l *MemoryLedger) ListAll() []model.Train {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Train, len(l.trains))
	copy(out, l.trains)
	return out
}

// List returns trains matching f in dispatch order. Station names compare
// case-insensitively, like route validation.
func (l *MemoryLedger) List(f Filter) []model.Train {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Train, 0, len(l.trains))
	for _, t := range l.trains {
		if f.Departure != "" && !equalFold(t.Route.Departure, f.Departure) {
			continue
		}
		if f.Arrival != "" && !equalFold(t.Route.Arrival, f.Arrival) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trains)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
