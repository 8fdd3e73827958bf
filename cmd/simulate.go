package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainyard/core/ledger"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/report"
	"github.com/kilianp07/trainyard/pkg/export"
)

var simulateOpts struct {
	routes []string
	cycles int
	format string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Dispatch trains for the given routes without prompting",
	Example: "  trainyard simulate --routes Moscow:Kazan,Omsk:Tomsk --cycles 3\n" +
		"  trainyard simulate --routes Moscow:Kazan --format csv",
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringSliceVar(&simulateOpts.routes, "routes", nil, "comma separated departure:arrival pairs")
	simulateCmd.Flags().IntVar(&simulateOpts.cycles, "cycles", 1, "number of passes over the route list")
	simulateCmd.Flags().StringVar(&simulateOpts.format, "format", "text", "output format: text, json or csv")
	_ = simulateCmd.MarkFlagRequired("routes")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	routes, err := parseRoutes(simulateOpts.routes)
	if err != nil {
		return err
	}
	if simulateOpts.cycles < 1 {
		return fmt.Errorf("--cycles must be at least 1")
	}
	switch simulateOpts.format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q", simulateOpts.format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	rt.Start(runCtx)
	defer closeRuntime(rt)

	out := cmd.OutOrStdout()
	for i := 0; i < simulateOpts.cycles; i++ {
		for _, r := range routes {
			res, err := rt.Service.Dispatch(runCtx, r)
			if err != nil {
				return fmt.Errorf("dispatch %s: %w", r, err)
			}
			if simulateOpts.format == "text" {
				printResult(out, res.Train, res.Sales)
			}
		}
	}

	trains := rt.Service.Trains(ledger.Filter{})
	switch simulateOpts.format {
	case "json":
		return export.WriteJSON(out, trains)
	case "csv":
		return export.WriteCSV(out, trains)
	}
	sum := report.Summarize(trains, rt.Service.SoldByClass())
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

// parseRoutes turns departure:arrival pairs into validated routes.
func parseRoutes(pairs []string) ([]model.Route, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("at least one route is required")
	}
	routes := make([]model.Route, 0, len(pairs))
	for _, p := range pairs {
		dep, arr, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("route %q: expected departure:arrival", p)
		}
		r, err := model.NewRoute(dep, arr)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", p, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func printResult(w io.Writer, t model.Train, sales model.TicketSales) {
	fmt.Fprintf(w, "%s  %s\n", t.ID, t.Route)
	for _, cs := range sales.Entries() {
		fmt.Fprintf(w, "  sold %-15s %4d\n", cs.Class, cs.Sold)
	}
	for _, c := range t.Summary() {
		fmt.Fprintf(w, "  coupled %-12s %2d wagons, %4d seats\n", c.Class, c.Wagons, c.Capacity)
	}
}
