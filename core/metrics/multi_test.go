package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainyard/core/model"
)

type recordSink struct {
	sales, trains, sizes int
	err                  error
}

func (r *recordSink) RecordTicketSales(SalesEvent) error {
	r.sales++
	return r.err
}

func (r *recordSink) RecordTrainDispatched(DispatchEvent) error {
	r.trains++
	return r.err
}

func (r *recordSink) RecordLedgerSize(int) error {
	r.sizes++
	return nil
}

func TestMultiSink_Forwards(t *testing.T) {
	s1, s2 := &recordSink{}, &recordSink{}
	m := NewMultiSink(s1, s2)
	require.NoError(t, m.RecordTicketSales(SalesEvent{}))
	require.NoError(t, m.RecordTrainDispatched(DispatchEvent{}))
	require.NoError(t, m.RecordLedgerSize(3))
	assert.Equal(t, 1, s1.sales)
	assert.Equal(t, 1, s2.trains)
	assert.Equal(t, 1, s2.sizes)
}

func TestMultiSink_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1, s2 := &recordSink{err: boom}, &recordSink{}
	m := NewMultiSink(s1, s2)
	assert.ErrorIs(t, m.RecordTrainDispatched(DispatchEvent{}), boom)
	assert.Equal(t, 0, s2.trains)
}

type closingSink struct {
	NopSink
	closed int
}

func (c *closingSink) Close() { c.closed++ }

func TestMultiSink_Close(t *testing.T) {
	c1, c2 := &closingSink{}, &closingSink{}
	m := NewMultiSink(c1, &recordSink{}, c2)
	m.Close()
	assert.Equal(t, 1, c1.closed)
	assert.Equal(t, 1, c2.closed)

	var sink Sink = m
	_, ok := sink.(interface{ Close() })
	assert.True(t, ok)
}

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewDispatchEvent(t *testing.T) {
	route, err := model.NewRoute("Moscow", "Kazan")
	require.NoError(t, err)
	wagons := []model.Wagon{
		{Class: "sleeper", Capacity: 10},
		{Class: "sleeper", Capacity: 10},
		{Class: "compartment", Capacity: 32},
	}
	tr := model.NewTrain("t1", route, wagons, fixedTime)
	sales := model.NewTicketSales(
		model.ClassSales{Class: "sleeper", Sold: 15},
		model.ClassSales{Class: "compartment", Sold: 20},
	)
	ev := NewDispatchEvent(tr, sales)
	assert.Equal(t, "t1", ev.TrainID)
	assert.Equal(t, 3, ev.Wagons)
	assert.Equal(t, 52, ev.Capacity)
	assert.Equal(t, 35, ev.Sold)
	assert.Equal(t, fixedTime, ev.Time)
	require.Len(t, ev.Classes, 2)
	assert.Equal(t, "sleeper", ev.Classes[0].Class)
}
