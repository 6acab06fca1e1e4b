package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// BucketWriter persists bucket snapshots.
type BucketWriter interface {
	UpsertBucket(ctx context.Context, snap types.BucketSnapshot) (bool, error)
}

// S3Collector inventories the buckets of one account. Buckets are a global
// listing; the per-bucket region comes from the location lookup, so this
// collector ignores the run region.
type S3Collector struct {
	client    S3Client
	store     BucketWriter
	accountID string
	logger    zerolog.Logger
}

// NewS3Collector wires the collector from a scoped config.
func NewS3Collector(cfg aws.Config, accountID string, store BucketWriter, logger zerolog.Logger) *S3Collector {
	return &S3Collector{
		client:    s3.NewFromConfig(cfg),
		store:     store,
		accountID: accountID,
		logger:    logger,
	}
}

// Name identifies the collector in the service registry.
func (c *S3Collector) Name() string { return "s3" }

// Collect lists all buckets and persists one snapshot per bucket.
// An enumeration failure yields an empty result, logged, never propagated.
func (c *S3Collector) Collect(ctx context.Context) (int, error) {
	out, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("account_id", c.accountID).
			Msg("bucket enumeration failed")
		return 0, nil
	}

	count := 0
	for _, bucket := range out.Buckets {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		name := aws.ToString(bucket.Name)
		snap := types.BucketSnapshot{
			BucketName:       name,
			AccountID:        c.accountID,
			Provider:         "aws",
			CreationDate:     formatTime(bucket.CreationDate),
			Region:           c.bucketRegion(ctx, name),
			VersioningStatus: c.bucketVersioning(ctx, name),
			Tags:             c.bucketTags(ctx, name),
		}

		if _, err := c.store.UpsertBucket(ctx, snap); err != nil {
			c.logger.Error().Err(err).Str("bucket", name).Msg("failed to persist bucket snapshot")
			continue
		}
		count++
	}

	c.logger.Info().
		Str("account_id", c.accountID).
		Int("buckets", count).
		Msg("collected s3 buckets")
	return count, nil
}

func (c *S3Collector) bucketRegion(ctx context.Context, name string) string {
	out, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(name)})
	if err != nil {
		return types.Unavailable
	}
	// An empty location constraint means us-east-1.
	if out.LocationConstraint == "" {
		return "us-east-1"
	}
	return string(out.LocationConstraint)
}

func (c *S3Collector) bucketVersioning(ctx context.Context, name string) string {
	out, err := c.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(name)})
	if err != nil {
		return types.Unavailable
	}
	return string(out.Status)
}

func (c *S3Collector) bucketTags(ctx context.Context, name string) map[string]string {
	out, err := c.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: aws.String(name)})
	if err != nil {
		// Buckets without a tag set answer with an error; treat as no tags.
		return map[string]string{}
	}
	return convertS3Tags(out.TagSet)
}
