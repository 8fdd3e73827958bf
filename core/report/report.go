// Package report aggregates dispatched trains into fleet statistics.
package report

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/model"
)

// ClassTotals aggregates one wagon class across trains.
type ClassTotals struct {
	Class  string `json:"class"`
	Wagons int    `json:"wagons"`
	Seats  int    `json:"seats"`
	Sold   int    `json:"sold"`
	// LoadFactor is Sold/Seats rounded to two places; zero when no seats.
	LoadFactor decimal.Decimal `json:"load_factor"`
}

// Summary describes a set of dispatched trains.
type Summary struct {
	Trains       int           `json:"trains"`
	Wagons       int           `json:"wagons"`
	Seats        int           `json:"seats"`
	MeanWagons   float64       `json:"mean_wagons"`
	StdDevWagons float64       `json:"stddev_wagons"`
	Classes      []ClassTotals `json:"classes"`
}

// Summarize aggregates trains. sold holds cumulative tickets sold per class
// and may be nil, in which case load factors are zero.
func Summarize(trains []model.Train, sold map[string]int) Summary {
	s := Summary{Trains: len(trains), Classes: []ClassTotals{}}
	if len(trains) == 0 {
		return s
	}
	sizes := make([]float64, len(trains))
	idx := make(map[string]int)
	for i, t := range trains {
		sizes[i] = float64(t.WagonCount())
		s.Wagons += t.WagonCount()
		s.Seats += t.TotalCapacity()
		for _, c := range t.Summary() {
			j, ok := idx[c.Class]
			if !ok {
				j = len(s.Classes)
				idx[c.Class] = j
				s.Classes = append(s.Classes, ClassTotals{Class: c.Class})
			}
			s.Classes[j].Wagons += c.Wagons
			s.Classes[j].Seats += c.Capacity
		}
	}
	s.MeanWagons = stat.Mean(sizes, nil)
	if len(sizes) > 1 {
		s.StdDevWagons = stat.StdDev(sizes, nil)
	}
	for i := range s.Classes {
		c := &s.Classes[i]
		c.Sold = sold[c.Class]
		c.LoadFactor = LoadFactor(c.Sold, c.Seats)
	}
	return s
}

// FromRecords summarizes journal records using the sales stored with each one.
func FromRecords(recs []journal.Record) Summary {
	trains := make([]model.Train, len(recs))
	sold := make(map[string]int)
	for i, r := range recs {
		trains[i] = model.NewTrain(r.DispatchID, r.Route, r.Wagons, r.Timestamp)
		for _, cs := range r.Sales {
			sold[cs.Class] += cs.Sold
		}
	}
	return Summarize(trains, sold)
}

// LoadFactor returns sold/seats rounded to two decimal places.
func LoadFactor(sold, seats int) decimal.Decimal {
	if seats <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sold)).DivRound(decimal.NewFromInt(int64(seats)), 2)
}
