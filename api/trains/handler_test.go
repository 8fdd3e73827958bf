package trains

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/ledger"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/infra/logger"
)

type fakeSource struct {
	l    *ledger.MemoryLedger
	sold map[string]int
}

func (f *fakeSource) Trains(flt ledger.Filter) []model.Train { return f.l.List(flt) }
func (f *fakeSource) SoldByClass() map[string]int           { return f.sold }

type memJournal struct {
	recs []journal.Record
	last journal.Query
}

func (m *memJournal) Append(_ context.Context, r journal.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memJournal) Query(_ context.Context, q journal.Query) ([]journal.Record, error) {
	m.last = q
	return m.recs, nil
}

func (m *memJournal) Close() error { return nil }

func newTestRouter(t *testing.T, cfg Config) (http.Handler, *memJournal) {
	t.Helper()
	l := ledger.NewMemoryLedger()
	at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	l.Append(model.NewTrain("a", model.Route{Departure: "Moscow", Arrival: "Kazan"},
		[]model.Wagon{{Class: "sleeper", Capacity: 10}, {Class: "sleeper", Capacity: 10}}, at))
	l.Append(model.NewTrain("b", model.Route{Departure: "Omsk", Arrival: "Tomsk"},
		[]model.Wagon{{Class: "compartment", Capacity: 32}}, at))
	j := &memJournal{}
	h := &Handler{Source: &fakeSource{l: l, sold: map[string]int{"sleeper": 15}}, Journal: j}
	return NewRouter(h, cfg, logger.NopLogger{}, nil), j
}

func get(t *testing.T, h http.Handler, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListTrains(t *testing.T) {
	h, _ := newTestRouter(t, Config{})
	rr := get(t, h, "/api/trains", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Count  int              `json:"count"`
		Trains []map[string]any `json:"trains"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "a", body.Trains[0]["id"])
	assert.Equal(t, "b", body.Trains[1]["id"])

	rr = get(t, h, "/api/trains?departure=moscow", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestSummary(t *testing.T) {
	h, _ := newTestRouter(t, Config{})
	rr := get(t, h, "/api/trains/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Trains  int `json:"trains"`
		Wagons  int `json:"wagons"`
		Classes []struct {
			Class      string `json:"class"`
			LoadFactor string `json:"load_factor"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Trains)
	assert.Equal(t, 3, body.Wagons)
	require.Len(t, body.Classes, 2)
	assert.Equal(t, "sleeper", body.Classes[0].Class)
	assert.Equal(t, "0.75", body.Classes[0].LoadFactor)
}

func TestQueryJournal(t *testing.T) {
	h, j := newTestRouter(t, Config{})
	rr := get(t, h, "/api/journal?class=sleeper&departure=Moscow&start=2024-01-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	assert.Equal(t, "sleeper", j.last.Class)
	assert.Equal(t, "Moscow", j.last.Departure)
	assert.Equal(t, 2024, j.last.Start.Year())

	rr = get(t, h, "/api/journal?start=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQueryJournal_Disabled(t *testing.T) {
	h := NewRouter(&Handler{Source: &fakeSource{l: ledger.NewMemoryLedger()}}, Config{}, logger.NopLogger{}, nil)
	rr := get(t, h, "/api/journal", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBearerAuth(t *testing.T) {
	h, _ := newTestRouter(t, Config{Token: "secret"})
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/trains", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/trains", "wrong").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/trains", "secret").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz", "").Code, "health is public")
}

func TestRateLimit(t *testing.T) {
	h, _ := newTestRouter(t, Config{RateLimit: RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}})
	assert.Equal(t, http.StatusOK, get(t, h, "/api/trains", "").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/trains", "").Code)
	rr := get(t, h, "/api/trains", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	now := time.Now()
	rl.now = func() time.Time { return now }
	assert.True(t, rl.allow("10.0.0.1"))
	rl.now = func() time.Time { return now.Add(time.Hour) }
	rl.Prune(time.Minute)
	assert.Empty(t, rl.clients)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", clientIP(req, false))
	assert.Equal(t, "203.0.113.5", clientIP(req, true))
}

func TestConfig(t *testing.T) {
	c := Config{RateLimit: RateLimitConfig{RequestsPerSecond: 4}}
	c.SetDefaults()
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 5, c.RateLimit.Burst)
	assert.NoError(t, c.Validate())
	assert.False(t, c.Enabled())
	assert.Error(t, Config{RateLimit: RateLimitConfig{RequestsPerSecond: -1}}.Validate())
}
