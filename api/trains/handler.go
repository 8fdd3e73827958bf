// Package trains exposes the dispatch ledger, fleet report and journal over a
// read-only HTTP API.
package trains

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/ledger"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/report"
)

// Source supplies the ledger view served by the API.
type Source interface {
	Trains(f ledger.Filter) []model.Train
	SoldByClass() map[string]int
}

// Handler serves the API endpoints.
type Handler struct {
	Source  Source
	Journal journal.Store
}

type trainList struct {
	Count  int           `json:"count"`
	Trains []model.Train `json:"trains"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListTrains handles GET /api/trains.
func (h *Handler) ListTrains(w http.ResponseWriter, r *http.Request) {
	f := ledger.Filter{
		Departure: r.URL.Query().Get("departure"),
		Arrival:   r.URL.Query().Get("arrival"),
	}
	trains := h.Source.Trains(f)
	writeJSON(w, http.StatusOK, trainList{Count: len(trains), Trains: trains})
}

// Summary handles GET /api/trains/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	trains := h.Source.Trains(ledger.Filter{})
	writeJSON(w, http.StatusOK, report.Summarize(trains, h.Source.SoldByClass()))
}

// QueryJournal handles GET /api/journal.
func (h *Handler) QueryJournal(w http.ResponseWriter, r *http.Request) {
	if h.Journal == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}
	q := journal.Query{
		Departure: r.URL.Query().Get("departure"),
		Arrival:   r.URL.Query().Get("arrival"),
		Class:     r.URL.Query().Get("class"),
	}
	var err error
	if q.Start, err = parseTime(r.URL.Query().Get("start")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	if q.End, err = parseTime(r.URL.Query().Get("end")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}
	recs, err := h.Journal.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []journal.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
