package model

import (
	"encoding/json"
	"time"
)

// Train is a dispatched composition on a route.
type Train struct {
	ID           string    `json:"id"`
	Route        Route     `json:"route"`
	DispatchedAt time.Time `json:"dispatched_at"`
	wagons       []Wagon
}

// ClassCount is the number of wagons of one class in a train.
type ClassCount struct {
	Class    string `json:"class"`
	Wagons   int    `json:"wagons"`
	Capacity int    `json:"capacity"`
}

// NewTrain aggregates a route and its wagons. The wagon slice is copied.
func NewTrain(id string, route Route, wagons []Wagon, at time.Time) Train {
	w := make([]Wagon, len(wagons))
	copy(w, wagons)
	return Train{ID: id, Route: route, DispatchedAt: at, wagons: w}
}

// Wagons returns a copy of the wagons in composition order.
func (t Train) Wagons() []Wagon {
	out := make([]Wagon, len(t.wagons))
	copy(out, t.wagons)
	return out
}

func (t Train) WagonCount() int { return len(t.wagons) }

// TotalCapacity sums the seats of every wagon.
func (t Train) TotalCapacity() int {
	n := 0
	for _, w := range t.wagons {
		n += w.Capacity
	}
	return n
}

// Summary counts wagons per class in order of first appearance.
func (t Train) Summary() []ClassCount {
	var out []ClassCount
	pos := map[string]int{}
	for _, w := range t.wagons {
		i, ok := pos[w.Class]
		if !ok {
			i = len(out)
			pos[w.Class] = i
			out = append(out, ClassCount{Class: w.Class})
		}
		out[i].Wagons++
		out[i].Capacity += w.Capacity
	}
	return out
}

type trainJSON struct {
	ID           string       `json:"id"`
	Route        Route        `json:"route"`
	DispatchedAt time.Time    `json:"dispatched_at"`
	Wagons       []Wagon      `json:"wagons"`
	Summary      []ClassCount `json:"summary,omitempty"`
}

// MarshalJSON includes the wagons and their per-class summary.
func (t Train) MarshalJSON() ([]byte, error) {
	return json.Marshal(trainJSON{
		ID:           t.ID,
		Route:        t.Route,
		DispatchedAt: t.DispatchedAt,
		Wagons:       t.Wagons(),
		Summary:      t.Summary(),
	})
}

// UnmarshalJSON restores a train; the summary is recomputed on demand.
func (t *Train) UnmarshalJSON(data []byte) error {
	var v trainJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = NewTrain(v.ID, v.Route, v.Wagons, v.DispatchedAt)
	return nil
}
