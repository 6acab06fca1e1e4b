package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudherd/cloudherd/types"
)

type memInstanceStore struct {
	snaps  []types.ComputeResourceSnapshot
	failOn string
}

func (s *memInstanceStore) UpsertInstance(_ context.Context, snap types.ComputeResourceSnapshot) (bool, error) {
	if s.failOn != "" && snap.InstanceID == s.failOn {
		return false, errors.New("upsert failed")
	}
	s.snaps = append(s.snaps, snap)
	return true, nil
}

type memBucketStore struct {
	snaps []types.BucketSnapshot
}

func (s *memBucketStore) UpsertBucket(_ context.Context, snap types.BucketSnapshot) (bool, error) {
	s.snaps = append(s.snaps, snap)
	return true, nil
}

type memFunctionStore struct {
	snaps []types.FunctionSnapshot
}

func (s *memFunctionStore) UpsertFunction(_ context.Context, snap types.FunctionSnapshot) (bool, error) {
	s.snaps = append(s.snaps, snap)
	return true, nil
}

func newTestEC2Collector(client *fakeEC2, store InstanceWriter) *EC2Collector {
	return &EC2Collector{
		client:    client,
		enricher:  newTestEnricher(client, nil),
		store:     store,
		accountID: "111122223333",
		region:    "us-east-1",
		logger:    zerolog.Nop(),
	}
}

func instancePage(ids []string, nextToken *string) *ec2.DescribeInstancesOutput {
	instances := make([]ec2types.Instance, 0, len(ids))
	for _, id := range ids {
		instances = append(instances, ec2types.Instance{InstanceId: aws.String(id)})
	}
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: instances}},
		NextToken:    nextToken,
	}
}

func TestEC2CollectPersistsAllInstances(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(params *ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			if params.NextToken == nil {
				return instancePage([]string{"i-1"}, aws.String("page-2")), nil
			}
			return instancePage([]string{"i-2"}, nil), nil
		},
		describeVolumes: func(*ec2.DescribeVolumesInput) (*ec2.DescribeVolumesOutput, error) {
			return &ec2.DescribeVolumesOutput{}, nil
		},
	}
	store := &memInstanceStore{}

	count, err := newTestEC2Collector(client, store).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, store.snaps, 2)
	assert.Equal(t, "i-1", store.snaps[0].InstanceID)
	assert.Equal(t, "i-2", store.snaps[1].InstanceID)
	assert.Equal(t, "111122223333", store.snaps[0].AccountID)
}

func TestEC2CollectEnumerationFailure(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			return nil, errors.New("request expired")
		},
	}
	store := &memInstanceStore{}

	count, err := newTestEC2Collector(client, store).Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.snaps)
}

func TestEC2CollectPartialPagesDiscarded(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(params *ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			if params.NextToken == nil {
				return instancePage([]string{"i-1"}, aws.String("page-2")), nil
			}
			return nil, errors.New("throttled")
		},
	}
	store := &memInstanceStore{}

	// A failure on any page drops the whole enumeration; the first page's
	// instance is never persisted.
	count, err := newTestEC2Collector(client, store).Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.snaps)
}

func TestEC2CollectUpsertFailureSkipsInstance(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			return instancePage([]string{"i-1", "i-2"}, nil), nil
		},
		describeVolumes: func(*ec2.DescribeVolumesInput) (*ec2.DescribeVolumesOutput, error) {
			return &ec2.DescribeVolumesOutput{}, nil
		},
	}
	store := &memInstanceStore{failOn: "i-1"}

	count, err := newTestEC2Collector(client, store).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.snaps, 1)
	assert.Equal(t, "i-2", store.snaps[0].InstanceID)
}

func TestS3Collect(t *testing.T) {
	client := &fakeS3{
		listBuckets: func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
			return &s3.ListBucketsOutput{Buckets: []s3types.Bucket{
				{Name: aws.String("data-lake")},
			}}, nil
		},
		getBucketLocation: func(params *s3.GetBucketLocationInput) (*s3.GetBucketLocationOutput, error) {
			require.Equal(t, "data-lake", aws.ToString(params.Bucket))
			return &s3.GetBucketLocationOutput{}, nil
		},
		getBucketVersioning: func(*s3.GetBucketVersioningInput) (*s3.GetBucketVersioningOutput, error) {
			return &s3.GetBucketVersioningOutput{Status: s3types.BucketVersioningStatusEnabled}, nil
		},
		getBucketTagging: func(*s3.GetBucketTaggingInput) (*s3.GetBucketTaggingOutput, error) {
			return nil, errors.New("NoSuchTagSet")
		},
	}
	store := &memBucketStore{}
	c := &S3Collector{client: client, store: store, accountID: "111122223333", logger: zerolog.Nop()}

	count, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.snaps, 1)

	snap := store.snaps[0]
	assert.Equal(t, "data-lake", snap.BucketName)
	// Empty location constraint means us-east-1.
	assert.Equal(t, "us-east-1", snap.Region)
	assert.Equal(t, "Enabled", snap.VersioningStatus)
	assert.Empty(t, snap.Tags)
}

func TestS3CollectEnumerationFailure(t *testing.T) {
	client := &fakeS3{
		listBuckets: func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
			return nil, errors.New("access denied")
		},
	}
	store := &memBucketStore{}
	c := &S3Collector{client: client, store: store, accountID: "111122223333", logger: zerolog.Nop()}

	count, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.snaps)
}

func TestLambdaCollect(t *testing.T) {
	client := &fakeLambda{
		listFunctions: func(params *lambda.ListFunctionsInput) (*lambda.ListFunctionsOutput, error) {
			if params.Marker == nil {
				return &lambda.ListFunctionsOutput{
					Functions: []lambdatypes.FunctionConfiguration{{
						FunctionName: aws.String("ingest"),
						Runtime:      lambdatypes.RuntimeProvidedal2023,
						MemorySize:   aws.Int32(256),
						Timeout:      aws.Int32(30),
					}},
					NextMarker: aws.String("page-2"),
				}, nil
			}
			return &lambda.ListFunctionsOutput{
				Functions: []lambdatypes.FunctionConfiguration{{
					FunctionName: aws.String("report"),
				}},
			}, nil
		},
	}
	store := &memFunctionStore{}
	c := &LambdaCollector{client: client, store: store, accountID: "111122223333", region: "us-east-1", logger: zerolog.Nop()}

	count, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, store.snaps, 2)
	assert.Equal(t, "ingest", store.snaps[0].FunctionName)
	assert.Equal(t, 256, store.snaps[0].MemoryMB)
	assert.Equal(t, "report", store.snaps[1].FunctionName)
}

func TestLambdaCollectPartialPagesDiscarded(t *testing.T) {
	client := &fakeLambda{
		listFunctions: func(params *lambda.ListFunctionsInput) (*lambda.ListFunctionsOutput, error) {
			if params.Marker == nil {
				return &lambda.ListFunctionsOutput{
					Functions:  []lambdatypes.FunctionConfiguration{{FunctionName: aws.String("ingest")}},
					NextMarker: aws.String("page-2"),
				}, nil
			}
			return nil, errors.New("throttled")
		},
	}
	store := &memFunctionStore{}
	c := &LambdaCollector{client: client, store: store, accountID: "111122223333", region: "us-east-1", logger: zerolog.Nop()}

	count, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.snaps)
}
