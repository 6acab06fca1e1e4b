package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// FunctionWriter persists function snapshots.
type FunctionWriter interface {
	UpsertFunction(ctx context.Context, snap types.FunctionSnapshot) (bool, error)
}

// LambdaCollector inventories the serverless functions of one account in
// one region.
type LambdaCollector struct {
	client    LambdaClient
	store     FunctionWriter
	accountID string
	region    string
	logger    zerolog.Logger
}

// NewLambdaCollector wires the collector from a scoped config.
func NewLambdaCollector(cfg aws.Config, region, accountID string, store FunctionWriter, logger zerolog.Logger) *LambdaCollector {
	return &LambdaCollector{
		client:    lambda.NewFromConfig(cfg),
		store:     store,
		accountID: accountID,
		region:    region,
		logger:    logger,
	}
}

// Name identifies the collector in the service registry.
func (c *LambdaCollector) Name() string { return "lambda" }

// Collect pages through all functions and persists one snapshot each.
// An enumeration failure yields an empty result, logged, never propagated.
// No partial page results are retained.
func (c *LambdaCollector) Collect(ctx context.Context) (int, error) {
	functions, err := c.enumerate(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("account_id", c.accountID).
			Str("region", c.region).
			Msg("function enumeration failed")
		return 0, nil
	}

	count := 0
	for _, fn := range functions {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		snap := types.FunctionSnapshot{
			FunctionName:   aws.ToString(fn.FunctionName),
			AccountID:      c.accountID,
			Region:         c.region,
			Provider:       "aws",
			Runtime:        string(fn.Runtime),
			MemoryMB:       int(aws.ToInt32(fn.MemorySize)),
			TimeoutSeconds: int(aws.ToInt32(fn.Timeout)),
			State:          string(fn.State),
			LastModified:   aws.ToString(fn.LastModified),
		}

		if _, err := c.store.UpsertFunction(ctx, snap); err != nil {
			c.logger.Error().Err(err).Str("function", snap.FunctionName).Msg("failed to persist function snapshot")
			continue
		}
		count++
	}

	c.logger.Info().
		Str("account_id", c.accountID).
		Str("region", c.region).
		Int("functions", count).
		Msg("collected lambda functions")
	return count, nil
}

func (c *LambdaCollector) enumerate(ctx context.Context) ([]lambdatypes.FunctionConfiguration, error) {
	var functions []lambdatypes.FunctionConfiguration

	paginator := lambda.NewListFunctionsPaginator(c.client, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		functions = append(functions, page.Functions...)
	}
	return functions, nil
}
