package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// InstanceWriter persists compute snapshots.
type InstanceWriter interface {
	UpsertInstance(ctx context.Context, snap types.ComputeResourceSnapshot) (bool, error)
}

// EC2Collector runs the full enrichment and persistence cycle for the
// compute instances of one account in one region.
type EC2Collector struct {
	client    EC2Client
	enricher  *ResourceEnricher
	store     InstanceWriter
	accountID string
	region    string
	logger    zerolog.Logger
}

// NewEC2Collector wires the collector from a scoped config.
func NewEC2Collector(cfg aws.Config, region, accountID string, store InstanceWriter, opts EnrichmentOptions, logger zerolog.Logger) *EC2Collector {
	client := ec2.NewFromConfig(cfg)
	metrics := NewMetricAggregator(cfg, logger)
	volumes := NewVolumeTopologyResolver(client, logger)

	return &EC2Collector{
		client:    client,
		enricher:  NewResourceEnricher(metrics, volumes, region, accountID, opts, logger),
		store:     store,
		accountID: accountID,
		region:    region,
		logger:    logger,
	}
}

// Name identifies the collector in the service registry.
func (c *EC2Collector) Name() string { return "ec2" }

// Collect enumerates, enriches and persists all instances. An enumeration
// failure yields an empty result for this account/service; it is logged,
// never propagated. No partial page results are retained.
func (c *EC2Collector) Collect(ctx context.Context) (int, error) {
	instances, err := c.enumerate(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("account_id", c.accountID).
			Str("region", c.region).
			Msg("instance enumeration failed")
		return 0, nil
	}

	count := 0
	for _, inst := range instances {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		snap := c.enricher.Enrich(ctx, inst)
		if _, err := c.store.UpsertInstance(ctx, snap); err != nil {
			c.logger.Error().
				Err(err).
				Str("instance_id", snap.InstanceID).
				Msg("failed to persist instance snapshot")
			continue
		}
		count++
	}

	c.logger.Info().
		Str("account_id", c.accountID).
		Str("region", c.region).
		Int("instances", count).
		Msg("collected ec2 instances")
	return count, nil
}

func (c *EC2Collector) enumerate(ctx context.Context) ([]ec2types.Instance, error) {
	var instances []ec2types.Instance

	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, res := range page.Reservations {
			instances = append(instances, res.Instances...)
		}
	}
	return instances, nil
}
