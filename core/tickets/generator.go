// Package tickets draws random ticket sales per wagon class.
package tickets

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kilianp07/trainyard/core/model"
)

// Source supplies bounded uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

// NewRandSource wraps math/rand. A zero seed is replaced by the current time.
func NewRandSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Range bounds the number of tickets sold per class. Upper is exclusive.
type Range struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// DefaultRange draws between 30 and 99 tickets per class.
var DefaultRange = Range{Lower: 30, Upper: 100}

// Validate rejects empty or negative ranges.
func (r Range) Validate() error {
	if r.Lower < 0 {
		return fmt.Errorf("%w: lower bound %d is negative", model.ErrInvalidRange, r.Lower)
	}
	if r.Lower >= r.Upper {
		return fmt.Errorf("%w: lower bound %d must be below upper bound %d", model.ErrInvalidRange, r.Lower, r.Upper)
	}
	return nil
}

// Generator draws ticket sales from a Source.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator creates a Generator. A nil source falls back to a time-seeded one.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewRandSource(0)
	}
	return &Generator{src: src}
}

// Generate draws one count per class in [r.Lower, r.Upper), keeping the
// order of classNames.
func (g *Generator) Generate(classNames []string, r Range) (model.TicketSales, error) {
	if err := r.Validate(); err != nil {
		return model.TicketSales{}, err
	}
	span := r.Upper - r.Lower
	entries := make([]model.ClassSales, len(classNames))
	g.mu.Lock()
	for i, name := range classNames {
		entries[i] = model.ClassSales{Class: name, Sold: r.Lower + g.src.Intn(span)}
	}
	g.mu.Unlock()
	return model.NewTicketSales(entries...), nil
}
