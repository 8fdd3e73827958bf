package model

import (
	"fmt"
	"strings"
)

// Route names the departure and arrival stations of a train.
type Route struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// NewRoute trims both names and rejects empty endpoints as well as endpoints
// that are equal ignoring case.
func NewRoute(departure, arrival string) (Route, error) {
	dep := strings.TrimSpace(departure)
	arr := strings.TrimSpace(arrival)
	if dep == "" || arr == "" {
		return Route{}, fmt.Errorf("%w: departure and arrival are required", ErrInvalidRoute)
	}
	if strings.EqualFold(dep, arr) {
		return Route{}, fmt.Errorf("%w: departure and arrival cannot be the same (%s)", ErrInvalidRoute, dep)
	}
	return Route{Departure: dep, Arrival: arr}, nil
}

func (r Route) String() string {
	return r.Departure + " - " + r.Arrival
}
