package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainyard/qa/scenarios"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "QA scenario commands",
}

var scenarioRunCmd = &cobra.Command{
	Use:   "run <file.yaml>...",
	Short: "Replay scenario files and report mismatches",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScenarios,
}

func init() {
	scenarioCmd.AddCommand(scenarioRunCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		sc, err := scenarios.Load(path)
		if err != nil {
			return err
		}
		res := scenarios.Run(cmd.Context(), sc)
		if res.Passed() {
			fmt.Fprintf(out, "PASS %s (%d trains)\n", res.Name, len(res.Trains))
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n", res.Name)
		for _, m := range res.Mismatches {
			fmt.Fprintf(out, "  %s\n", m)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}
	return nil
}
