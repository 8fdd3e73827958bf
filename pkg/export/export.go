// Package export writes dispatched trains and journal records in
// interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/model"
)

var trainHeader = []string{"id", "departure", "arrival", "dispatched_at", "wagons", "capacity", "classes"}

// WriteJSON writes the trains to w as a JSON array.
func WriteJSON(w io.Writer, trains []model.Train) error {
	if trains == nil {
		trains = []model.Train{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(trains)
}

// WriteCSV writes one row per train. The classes column lists
// class:wagons pairs in coupling order separated by semicolons.
func WriteCSV(w io.Writer, trains []model.Train) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trainHeader); err != nil {
		return err
	}
	for _, t := range trains {
		rec := []string{
			t.ID,
			t.Route.Departure,
			t.Route.Arrival,
			t.DispatchedAt.Format(time.RFC3339),
			strconv.Itoa(t.WagonCount()),
			strconv.Itoa(t.TotalCapacity()),
			classColumn(t.Summary()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsJSON writes journal records to w as a JSON array.
func WriteRecordsJSON(w io.Writer, recs []journal.Record) error {
	if recs == nil {
		recs = []journal.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// WriteRecordsCSV writes one row per journal record including the sales.
func WriteRecordsCSV(w io.Writer, recs []journal.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"dispatch_id", "timestamp", "departure", "arrival", "sales", "wagons", "classes"}); err != nil {
		return err
	}
	for _, r := range recs {
		sales := make([]string, len(r.Sales))
		for i, s := range r.Sales {
			sales[i] = fmt.Sprintf("%s:%d", s.Class, s.Sold)
		}
		rec := []string{
			r.DispatchID,
			r.Timestamp.Format(time.RFC3339),
			r.Route.Departure,
			r.Route.Arrival,
			strings.Join(sales, ";"),
			strconv.Itoa(len(r.Wagons)),
			classColumn(r.Summary),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func classColumn(counts []model.ClassCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s:%d", c.Class, c.Wagons)
	}
	return strings.Join(parts, ";")
}
