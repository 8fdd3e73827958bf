package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoute(t *testing.T) {
	cases := []struct {
		name      string
		dep, arr  string
		wantError bool
	}{
		{"distinct", "Moscow", "Kazan", false},
		{"same ignoring case", "Moscow", "moscow", true},
		{"empty departure", "", "Kazan", true},
		{"blank arrival", "Moscow", "   ", true},
		{"padded duplicate", " Kazan ", "KAZAN", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := NewRoute(c.dep, c.arr)
			if c.wantError {
				assert.ErrorIs(t, err, ErrInvalidRoute)
				assert.True(t, IsRecoverable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Moscow - Kazan", r.String())
		})
	}
}

func TestTicketSalesOrder(t *testing.T) {
	s := NewTicketSales(
		ClassSales{Class: "sleeper", Sold: 10},
		ClassSales{Class: "compartment", Sold: 40},
		ClassSales{Class: "sleeper", Sold: 12},
	)
	assert.Equal(t, []string{"sleeper", "compartment"}, s.Classes())
	n, ok := s.Sold("sleeper")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	_, ok = s.Sold("berth")
	assert.False(t, ok)
	assert.Equal(t, 52, s.Total())

	entries := s.Entries()
	entries[0].Sold = 99
	n, _ = s.Sold("sleeper")
	assert.Equal(t, 12, n, "entries must be a copy")
}

func TestTrainSummary(t *testing.T) {
	route, err := NewRoute("Moscow", "Kazan")
	require.NoError(t, err)
	wagons := []Wagon{
		{Class: "economy-berth", Capacity: 54},
		{Class: "economy-berth", Capacity: 54},
		{Class: "sleeper", Capacity: 10},
	}
	tr := NewTrain("t1", route, wagons, time.Unix(0, 0))
	wagons[0].Class = "mutated"

	assert.Equal(t, 3, tr.WagonCount())
	assert.Equal(t, 118, tr.TotalCapacity())
	assert.Equal(t, []ClassCount{
		{Class: "economy-berth", Wagons: 2, Capacity: 108},
		{Class: "sleeper", Wagons: 1, Capacity: 10},
	}, tr.Summary())
	assert.Equal(t, "economy-berth", tr.Wagons()[0].Class)
}

func TestTrainJSON(t *testing.T) {
	route, _ := NewRoute("A", "B")
	tr := NewTrain("t1", route, []Wagon{{Class: "sleeper", Capacity: 10}}, time.Unix(10, 0).UTC())
	data, err := json.Marshal(tr)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"id", "route", "dispatched_at", "wagons", "summary"} {
		assert.Contains(t, m, k)
	}

	var back Train
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tr.Wagons(), back.Wagons())
	assert.Equal(t, tr.Route, back.Route)
}

func TestErrorHelpers(t *testing.T) {
	err := &UnknownClassError{Class: "lux"}
	assert.True(t, errors.Is(err, ErrUnknownClass))
	assert.True(t, IsConfigError(err))
	assert.False(t, IsRecoverable(err))

	capErr := WagonClass{Name: "x", Capacity: 0}.Validate()
	assert.ErrorIs(t, capErr, ErrInvalidCapacity)
	var ice *InvalidCapacityError
	require.True(t, errors.As(capErr, &ice))
	assert.Equal(t, "x", ice.Class)

	salesErr := fmt.Errorf("compose berth: %w", ErrInvalidSales)
	assert.True(t, IsConfigError(salesErr))
	assert.False(t, IsRecoverable(salesErr))
}
