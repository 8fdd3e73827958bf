package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainyard/core/model"
)

func sampleRecord(t *testing.T, id, dep, arr string, ts time.Time) Record {
	t.Helper()
	r, err := model.NewRoute(dep, arr)
	require.NoError(t, err)
	tr := model.NewTrain(id, r, []model.Wagon{
		{Class: "compartment", Capacity: 32},
		{Class: "compartment", Capacity: 32},
	}, ts)
	sales := model.NewTicketSales(
		model.ClassSales{Class: "sleeper", Sold: 0},
		model.ClassSales{Class: "compartment", Sold: 40},
	)
	return NewRecord(tr, sales)
}

func TestRecord_JSON(t *testing.T) {
	rec := sampleRecord(t, "t1", "Moscow", "Kazan", time.Unix(0, 0))
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"dispatch_id", "timestamp", "route", "sales", "wagons", "summary"} {
		assert.Contains(t, m, k)
	}
}

func TestJSONLStore_AppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, sampleRecord(t, "a", "Moscow", "Kazan", base)))
	require.NoError(t, store.Append(ctx, sampleRecord(t, "b", "Kazan", "Sochi", base.Add(time.Hour))))

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].DispatchID)

	out, err := store.Query(ctx, Query{Departure: "kazan"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].DispatchID)

	out, err = store.Query(ctx, Query{Start: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = store.Query(ctx, Query{Class: "sleeper"})
	require.NoError(t, err)
	assert.Empty(t, out, "classes without wagons must not match")
}

func TestJSONLStore_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), sampleRecord(t, "a", "A", "B", time.Now())))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 5, 1)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	rec := sampleRecord(t, "a", "Moscow", "Kazan", time.Now())
	// ~1.5MB of records forces at least one rotation at 1MB.
	for i := 0; i < 6000; i++ {
		require.NoError(t, store.Append(context.Background(), rec))
	}
	files, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "trains*"))
	assert.Greater(t, len(files), 1, "expected rotated files")

	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, out, 6000)
}

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore("file:journal_test.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	base := time.Now()
	require.NoError(t, store.Append(ctx, sampleRecord(t, "a", "Moscow", "Kazan", base)))
	require.NoError(t, store.Append(ctx, sampleRecord(t, "b", "Sochi", "Kazan", base.Add(time.Second))))

	out, err := store.Query(ctx, Query{Departure: "MOSCOW"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].DispatchID)

	out, err = store.Query(ctx, Query{Arrival: "kazan", Class: "compartment"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	_, err = Open(Config{Backend: "csv"})
	assert.Error(t, err)

	s, err = Open(Config{Backend: "jsonl", Path: filepath.Join(t.TempDir(), "j.jsonl"), MaxSizeMB: 1})
	require.NoError(t, err)
	assert.IsType(t, &RotatingJSONLStore{}, s)
	require.NoError(t, s.Close())
}
