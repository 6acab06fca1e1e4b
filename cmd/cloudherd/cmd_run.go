package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cloudherd/cloudherd/config"
	"github.com/cloudherd/cloudherd/storage"
	"github.com/cloudherd/cloudherd/telemetry"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one collection cycle and exit",
	Long: `Run a single collection cycle over every configured region.

Discovers the organization's member accounts, assumes the collection
role in each, collects the configured services and upserts the
snapshots into Postgres. A per-region summary prints to stdout.`,
	Example: `  cloudherd run                          # Use ./cloudherd.yaml
  cloudherd run --config /etc/cloudherd.yaml`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger("cloudherd", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.Connect(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}

	metrics := telemetry.NewCollectionMetrics(prometheus.DefaultRegisterer)
	return collectOnce(ctx, cfg, store, metrics, logger, os.Stdout)
}
