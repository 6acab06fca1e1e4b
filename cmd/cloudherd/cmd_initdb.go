package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudherd/cloudherd/config"
	"github.com/cloudherd/cloudherd/storage"
	"github.com/cloudherd/cloudherd/telemetry"
)

// initDBCmd represents the init-db command
var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the inventory schema and exit",
	Long: `Create the accounts, compute_resources, s3_buckets and
lambda_functions tables if they do not exist. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		return store.InitSchema(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
