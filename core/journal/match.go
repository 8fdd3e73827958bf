package journal

import "strings"

// matches applies the query filters shared by the file based stores.
func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Departure != "" && !strings.EqualFold(r.Route.Departure, q.Departure) {
		return false
	}
	if q.Arrival != "" && !strings.EqualFold(r.Route.Arrival, q.Arrival) {
		return false
	}
	if q.Class != "" {
		return r.hasClass(q.Class)
	}
	return true
}

func (r Record) hasClass(class string) bool {
	for _, c := range r.Summary {
		if c.Class == class && c.Wagons > 0 {
			return true
		}
	}
	return false
}
