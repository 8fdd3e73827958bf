package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainyard/app"
	"github.com/kilianp07/trainyard/app/console"
	"github.com/kilianp07/trainyard/config"
	"github.com/kilianp07/trainyard/infra/logger"
	_ "github.com/kilianp07/trainyard/infra/metrics"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "trainyard",
	Short:         "Compose and dispatch passenger trains from ticket sales",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadRuntime() (*app.Runtime, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.Build(cfg)
}

func closeRuntime(rt *app.Runtime) {
	if err := rt.Close(); err != nil {
		logger.New("main").Errorf("runtime close: %v", err)
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
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

	return console.New(rt.Service, cmd.InOrStdin(), cmd.OutOrStdout()).Run(runCtx)
}
