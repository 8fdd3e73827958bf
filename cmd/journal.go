package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainyard/config"
	"github.com/kilianp07/trainyard/core/journal"
	"github.com/kilianp07/trainyard/core/report"
	"github.com/kilianp07/trainyard/pkg/export"
)

var journalOpts struct {
	from, to           string
	departure, arrival string
	class              string
	format             string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the dispatch journal",
}

var journalLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List journaled trains",
	RunE:  runJournalLs,
}

var journalReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize journaled trains",
	RunE:  runJournalReport,
}

func init() {
	for _, c := range []*cobra.Command{journalLsCmd, journalReportCmd} {
		c.Flags().StringVar(&journalOpts.from, "from", "", "start time (RFC3339)")
		c.Flags().StringVar(&journalOpts.to, "to", "", "end time (RFC3339)")
		c.Flags().StringVar(&journalOpts.departure, "departure", "", "departure station")
		c.Flags().StringVar(&journalOpts.arrival, "arrival", "", "arrival station")
		c.Flags().StringVar(&journalOpts.class, "class", "", "only trains with wagons of this class")
		journalCmd.AddCommand(c)
	}
	journalLsCmd.Flags().StringVar(&journalOpts.format, "format", "table", "output format: table, json or csv")
	rootCmd.AddCommand(journalCmd)
}

func journalQuery() (journal.Query, error) {
	q := journal.Query{
		Departure: journalOpts.departure,
		Arrival:   journalOpts.arrival,
		Class:     journalOpts.class,
	}
	var err error
	if journalOpts.from != "" {
		if q.Start, err = time.Parse(time.RFC3339, journalOpts.from); err != nil {
			return q, fmt.Errorf("--from: %w", err)
		}
	}
	if journalOpts.to != "" {
		if q.End, err = time.Parse(time.RFC3339, journalOpts.to); err != nil {
			return q, fmt.Errorf("--to: %w", err)
		}
	}
	return q, nil
}

func queryJournal(cmd *cobra.Command) ([]journal.Record, error) {
	q, err := journalQuery()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Journal.Backend == "none" {
		return nil, fmt.Errorf("journal disabled: set journal.backend to jsonl or sqlite")
	}
	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Query(cmd.Context(), q)
}

func runJournalLs(cmd *cobra.Command, _ []string) error {
	recs, err := queryJournal(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch journalOpts.format {
	case "json":
		return export.WriteRecordsJSON(out, recs)
	case "csv":
		return export.WriteRecordsCSV(out, recs)
	case "table":
		return writeTable(out, recs)
	default:
		return fmt.Errorf("unknown format %q", journalOpts.format)
	}
}

func runJournalReport(cmd *cobra.Command, _ []string) error {
	recs, err := queryJournal(cmd)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report.FromRecords(recs))
}

func writeTable(w io.Writer, recs []journal.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DISPATCHED\tROUTE\tWAGONS\tCLASSES")
	for _, r := range recs {
		classes := ""
		for i, c := range r.Summary {
			if i > 0 {
				classes += " "
			}
			classes += fmt.Sprintf("%s:%d", c.Class, c.Wagons)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Timestamp.Format(time.RFC3339), r.Route, len(r.Wagons), classes)
	}
	return tw.Flush()
}
