package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Hand-rolled fakes for the narrow client interfaces. Each delegates to a
// function field so tests can script responses per call.

type fakeEC2 struct {
	describeInstances func(params *ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	describeVolumes   func(params *ec2.DescribeVolumesInput) (*ec2.DescribeVolumesOutput, error)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return f.describeInstances(params)
}

func (f *fakeEC2) DescribeVolumes(_ context.Context, params *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	return f.describeVolumes(params)
}

type fakeCloudWatch struct {
	getMetricStatistics func(params *cloudwatch.GetMetricStatisticsInput) (*cloudwatch.GetMetricStatisticsOutput, error)
}

func (f *fakeCloudWatch) GetMetricStatistics(_ context.Context, params *cloudwatch.GetMetricStatisticsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	return f.getMetricStatistics(params)
}

type fakeSTS struct {
	assumeRole func(params *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error)
}

func (f *fakeSTS) AssumeRole(_ context.Context, params *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	return f.assumeRole(params)
}

type fakeOrganizations struct {
	listAccounts func(params *organizations.ListAccountsInput) (*organizations.ListAccountsOutput, error)
}

func (f *fakeOrganizations) ListAccounts(_ context.Context, params *organizations.ListAccountsInput, _ ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error) {
	return f.listAccounts(params)
}

type fakeS3 struct {
	listBuckets         func(params *s3.ListBucketsInput) (*s3.ListBucketsOutput, error)
	getBucketLocation   func(params *s3.GetBucketLocationInput) (*s3.GetBucketLocationOutput, error)
	getBucketVersioning func(params *s3.GetBucketVersioningInput) (*s3.GetBucketVersioningOutput, error)
	getBucketTagging    func(params *s3.GetBucketTaggingInput) (*s3.GetBucketTaggingOutput, error)
}

func (f *fakeS3) ListBuckets(_ context.Context, params *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return f.listBuckets(params)
}

func (f *fakeS3) GetBucketLocation(_ context.Context, params *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	return f.getBucketLocation(params)
}

func (f *fakeS3) GetBucketVersioning(_ context.Context, params *s3.GetBucketVersioningInput, _ ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	return f.getBucketVersioning(params)
}

func (f *fakeS3) GetBucketTagging(_ context.Context, params *s3.GetBucketTaggingInput, _ ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error) {
	return f.getBucketTagging(params)
}

type fakeLambda struct {
	listFunctions func(params *lambda.ListFunctionsInput) (*lambda.ListFunctionsOutput, error)
}

func (f *fakeLambda) ListFunctions(_ context.Context, params *lambda.ListFunctionsInput, _ ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	return f.listFunctions(params)
}
