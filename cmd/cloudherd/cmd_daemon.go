package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cloudherd/cloudherd/config"
	"github.com/cloudherd/cloudherd/storage"
	"github.com/cloudherd/cloudherd/telemetry"
)

var (
	daemonInterval    time.Duration
	daemonMetricsAddr string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run periodic collection cycles with a metrics endpoint",
	Long: `Run Cloudherd as a long-lived process.

A full collection cycle runs immediately and then at every interval.
Prometheus metrics are served on /metrics, a liveness probe on /health.
SIGINT/SIGTERM stop the loop and shut the server down gracefully.`,
	Example: `  cloudherd daemon                       # Collect every hour
  cloudherd daemon --interval 6h         # Collect every six hours
  cloudherd daemon --metrics-addr :9090  # Custom metrics port`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", time.Hour, "Collection interval")
	daemonCmd.Flags().StringVar(&daemonMetricsAddr, "metrics-addr", ":2112", "Metrics HTTP listen address")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger("cloudherd", cfg.LogLevel)

	store, err := storage.Connect(cmd.Context(), cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(cmd.Context()); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewCollectionMetrics(registry)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var g run.Group
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	g.Add(func() error {
		ticker := time.NewTicker(daemonInterval)
		defer ticker.Stop()
		for {
			if err := collectOnce(ctx, cfg, store, metrics, logger, os.Stdout); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error().Err(err).Msg("collection cycle failed")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}, func(error) {
		cancel()
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{
		Addr:              daemonMetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Add(func() error {
		logger.Info().Str("addr", daemonMetricsAddr).Msg("metrics server listening")
		return srv.ListenAndServe()
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	err = g.Run()

	var sig run.SignalError
	if errors.As(err, &sig) {
		logger.Info().Str("signal", sig.Signal.String()).Msg("shutting down")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
