package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/config"
	awsprovider "github.com/cloudherd/cloudherd/providers/aws"
	"github.com/cloudherd/cloudherd/runner"
	"github.com/cloudherd/cloudherd/storage"
	"github.com/cloudherd/cloudherd/telemetry"
)

// buildRegistry maps each service name to a factory closed over the shared
// store and collection options. Adding a service means adding an entry here.
func buildRegistry(store *storage.Store, col config.Collection, logger zerolog.Logger) runner.Registry {
	opts := awsprovider.EnrichmentOptions{
		MetricName:    col.MetricName,
		MetricWindows: col.MetricWindows,
	}

	return runner.Registry{
		"ec2": func(cfg aws.Config, region, accountID string) runner.Collector {
			return awsprovider.NewEC2Collector(cfg, region, accountID, store, opts, logger)
		},
		"s3": func(cfg aws.Config, _, accountID string) runner.Collector {
			return awsprovider.NewS3Collector(cfg, accountID, store, logger)
		},
		"lambda": func(cfg aws.Config, region, accountID string) runner.Collector {
			return awsprovider.NewLambdaCollector(cfg, region, accountID, store, logger)
		},
	}
}

// collectOnce runs one full collection cycle: organization discovery, then
// every configured region over every member account. Region results print
// to out as they complete.
func collectOnce(ctx context.Context, cfg *config.Config, store *storage.Store, metrics *telemetry.CollectionMetrics, logger zerolog.Logger, out io.Writer) error {
	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	baseCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return fmt.Errorf("failed to load aws credentials: %w", err)
	}

	accounts, err := awsprovider.NewOrgLister(baseCfg, logger).ListAccounts(ctx)
	if err != nil {
		return err
	}

	registry := buildRegistry(store, cfg.Collection, logger)
	for _, region := range cfg.Regions {
		broker := awsprovider.NewCredentialBroker(baseCfg, region, logger)
		r := runner.New(broker, registry, store, metrics, runner.Options{
			Region:             region,
			RoleName:           cfg.RoleName,
			Services:           cfg.Services,
			AccountConcurrency: cfg.Collection.AccountConcurrency,
			AccountTimeout:     cfg.Collection.AccountTimeout,
		}, logger)

		res := r.Run(ctx, accounts)
		res.Summary(out)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
