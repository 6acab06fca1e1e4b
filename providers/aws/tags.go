package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cloudherd/cloudherd/types"
)

// convertTags converts EC2 tag pairs to a plain map.
func convertTags(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// convertS3Tags converts S3 tag pairs to a plain map.
func convertS3Tags(tags []s3types.Tag) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// nameTag returns the Name tag or the Unknown sentinel.
func nameTag(tags map[string]string) string {
	if name, ok := tags["Name"]; ok && name != "" {
		return name
	}
	return types.UnknownName
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
