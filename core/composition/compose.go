// Package composition turns ticket sales into an ordered list of wagons.
//
// For every class the engine emits ceil(sold/capacity) wagons of full rated
// capacity, in the order the classes appear in the sales table. A class with
// no tickets sold contributes no wagons.
package composition

import (
	"fmt"

	"github.com/kilianp07/trainyard/core/model"
)

// CapacityLookup resolves the seats of one wagon of a class.
// *catalog.Catalog implements it.
type CapacityLookup interface {
	CapacityOf(class string) (int, error)
}

// Compose builds the wagon list for sales.
func Compose(sales model.TicketSales, caps CapacityLookup) ([]model.Wagon, error) {
	entries := sales.Entries()
	counts := make([]int, len(entries))
	capacities := make([]int, len(entries))
	total := 0
	for i, e := range entries {
		capacity, err := caps.CapacityOf(e.Class)
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", e.Class, err)
		}
		if capacity < 1 {
			return nil, &model.InvalidCapacityError{Class: e.Class, Capacity: capacity}
		}
		if e.Sold < 0 {
			return nil, fmt.Errorf("compose %s: %w: negative ticket count %d", e.Class, model.ErrInvalidSales, e.Sold)
		}
		counts[i] = ceilDiv(e.Sold, capacity)
		capacities[i] = capacity
		total += counts[i]
	}
	wagons := make([]model.Wagon, 0, total)
	for i, e := range entries {
		for n := 0; n < counts[i]; n++ {
			wagons = append(wagons, model.Wagon{Class: e.Class, Capacity: capacities[i]})
		}
	}
	return wagons, nil
}

// WagonsFor returns how many wagons of the given capacity seat sold tickets.
func WagonsFor(sold, capacity int) (int, error) {
	if capacity < 1 {
		return 0, fmt.Errorf("%w: %d", model.ErrInvalidCapacity, capacity)
	}
	if sold < 0 {
		return 0, fmt.Errorf("%w: negative ticket count %d", model.ErrInvalidSales, sold)
	}
	return ceilDiv(sold, capacity), nil
}

// ceilDiv expects a >= 0 and b >= 1.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
