package scenarios

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/trainyard/app"
	"github.com/kilianp07/trainyard/core/catalog"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/tickets"
)

// Result holds the trains a scenario produced and every expectation it missed.
type Result struct {
	Name       string
	Trains     []model.Train
	Mismatches []string
}

// Passed reports whether every expectation held.
func (r Result) Passed() bool { return len(r.Mismatches) == 0 }

func (r *Result) mismatch(format string, args ...any) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// Run executes the scenario against a fresh service.
func Run(ctx context.Context, sc *Scenario) Result {
	res := Result{Name: sc.Name}
	trains, err := dispatch(ctx, sc)
	res.Trains = trains

	if kind := sc.Expected.Error; kind != "" {
		switch {
		case err == nil:
			res.mismatch("expected %s error, got none", kind)
		case !errors.Is(err, errorKinds[kind]):
			res.mismatch("expected %s error, got %v", kind, err)
		}
		return res
	}
	if err != nil {
		res.mismatch("unexpected error: %v", err)
		return res
	}
	if want := sc.Expected.Trains; want > 0 && len(trains) != want {
		res.mismatch("expected %d trains, got %d", want, len(trains))
	}
	for _, t := range trains {
		check(&res, sc.Expected, t)
	}
	return res
}

func dispatch(ctx context.Context, sc *Scenario) ([]model.Train, error) {
	classes := sc.Catalog
	if len(classes) == 0 {
		classes = catalog.DefaultClasses()
	}
	cat, err := catalog.New(classes)
	if err != nil {
		return nil, err
	}
	opts := app.Options{
		Catalog:   cat,
		Generator: tickets.NewGenerator(tickets.NewRandSource(sc.Seed)),
	}
	if sc.Range != nil {
		opts.Range = tickets.Range{Lower: sc.Range.Lower, Upper: sc.Range.Upper}
		if err := opts.Range.Validate(); err != nil {
			return nil, err
		}
	}
	svc, err := app.NewService(opts)
	if err != nil {
		return nil, err
	}
	var sales *model.TicketSales
	if len(sc.Sales) > 0 {
		s := model.NewTicketSales(sc.Sales...)
		sales = &s
	}
	trains := make([]model.Train, 0, len(sc.Routes))
	for _, r := range sc.Routes {
		route, err := model.NewRoute(r.Departure, r.Arrival)
		if err != nil {
			return trains, err
		}
		var res app.Result
		if sales != nil {
			res, err = svc.DispatchWithSales(ctx, route, *sales)
		} else {
			res, err = svc.Dispatch(ctx, route)
		}
		if err != nil {
			return trains, err
		}
		trains = append(trains, res.Train)
	}
	return trains, nil
}

func check(res *Result, exp Expected, t model.Train) {
	got := make(map[string]int)
	var order []string
	for _, c := range t.Summary() {
		got[c.Class] = c.Wagons
		order = append(order, c.Class)
	}
	if exp.Wagons != nil {
		classes := make([]string, 0, len(exp.Wagons))
		for class := range exp.Wagons {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			if got[class] != exp.Wagons[class] {
				res.mismatch("train %s: %s wagons = %d, want %d", t.Route, class, got[class], exp.Wagons[class])
			}
		}
	}
	if exp.Order != nil && !equal(order, exp.Order) {
		res.mismatch("train %s: class order %v, want %v", t.Route, order, exp.Order)
	}
	if exp.Capacity > 0 && t.TotalCapacity() != exp.Capacity {
		res.mismatch("train %s: capacity %d, want %d", t.Route, t.TotalCapacity(), exp.Capacity)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
