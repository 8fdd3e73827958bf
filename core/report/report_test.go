package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/model"
)

func wagons(class string, capacity, n int) []model.Wagon {
	out := make([]model.Wagon, n)
	for i := range out {
		out[i] = model.Wagon{Class: class, Capacity: capacity}
	}
	return out
}

func TestSummarize(t *testing.T) {
	route := model.Route{Departure: "Moscow", Arrival: "Kazan"}
	now := time.Now()
	t1 := model.NewTrain("a", route, append(wagons("sleeper", 10, 2), wagons("compartment", 32, 2)...), now)
	t2 := model.NewTrain("b", route, wagons("compartment", 32, 6), now)

	s := Summarize([]model.Train{t1, t2}, map[string]int{"sleeper": 15, "compartment": 200})
	assert.Equal(t, 2, s.Trains)
	assert.Equal(t, 10, s.Wagons)
	assert.Equal(t, 276, s.Seats)
	assert.InDelta(t, 5.0, s.MeanWagons, 1e-9)
	assert.InDelta(t, 1.4142135, s.StdDevWagons, 1e-6)

	require.Len(t, s.Classes, 2)
	assert.Equal(t, "sleeper", s.Classes[0].Class)
	assert.Equal(t, 20, s.Classes[0].Seats)
	assert.Equal(t, "0.75", s.Classes[0].LoadFactor.String())
	assert.Equal(t, "compartment", s.Classes[1].Class)
	assert.Equal(t, 8, s.Classes[1].Wagons)
	assert.Equal(t, "0.78", s.Classes[1].LoadFactor.String())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Zero(t, s.Trains)
	assert.Empty(t, s.Classes)
	_, err := json.Marshal(s)
	require.NoError(t, err)
}

func TestSummarize_SingleTrainHasNoSpread(t *testing.T) {
	tr := model.NewTrain("a", model.Route{Departure: "A", Arrival: "B"}, wagons("sleeper", 10, 3), time.Now())
	s := Summarize([]model.Train{tr}, nil)
	assert.Equal(t, 3.0, s.MeanWagons)
	assert.Zero(t, s.StdDevWagons)
	assert.True(t, s.Classes[0].LoadFactor.IsZero())
	_, err := json.Marshal(s)
	require.NoError(t, err)
}

func TestFromRecords(t *testing.T) {
	recs := []journal.Record{
		{
			DispatchID: "x",
			Route:      model.Route{Departure: "A", Arrival: "B"},
			Sales:      []model.ClassSales{{Class: "sleeper", Sold: 9}},
			Wagons:     wagons("sleeper", 10, 1),
		},
	}
	s := FromRecords(recs)
	require.Len(t, s.Classes, 1)
	assert.Equal(t, 9, s.Classes[0].Sold)
	assert.Equal(t, "0.9", s.Classes[0].LoadFactor.String())
}

func TestLoadFactor(t *testing.T) {
	assert.Equal(t, "0.67", LoadFactor(2, 3).String())
	assert.True(t, LoadFactor(5, 0).IsZero())
	assert.Equal(t, "1", LoadFactor(32, 32).String())
}
