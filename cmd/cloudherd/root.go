package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgPath string

	rootCmd = &cobra.Command{
		Use:   "cloudherd",
		Short: "Multi-account cloud asset inventory",
		Long: `Cloudherd - Multi-Account Cloud Asset Inventory

Cloudherd walks every account of an AWS organization, assumes a
collection role in each, enriches the resources it finds with metric
statistics and volume topology, and persists idempotent snapshots in
Postgres. Accounts fail independently: one denied role never aborts
the run.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Cloudherd {{.Version}} - Multi-Account Cloud Asset Inventory
`)
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "cloudherd.yaml", "Path to configuration file")
}
