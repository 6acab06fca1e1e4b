package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssumeBuildsRoleArn(t *testing.T) {
	var captured *sts.AssumeRoleInput
	client := &fakeSTS{
		assumeRole: func(params *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			captured = params
			return &sts.AssumeRoleOutput{
				Credentials: &ststypes.Credentials{
					AccessKeyId:     aws.String("AKIA123"),
					SecretAccessKey: aws.String("secret"),
					SessionToken:    aws.String("token"),
				},
			}, nil
		},
	}

	b := NewCredentialBrokerWithClient(client, "eu-west-1", zerolog.Nop())
	cfg, err := b.Assume(context.Background(), "111122223333", "InventoryReader")
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "arn:aws:iam::111122223333:role/InventoryReader", aws.ToString(captured.RoleArn))
	assert.Equal(t, roleSessionName, aws.ToString(captured.RoleSessionName))

	assert.Equal(t, "eu-west-1", cfg.Region)
	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIA123", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "token", creds.SessionToken)
}

func TestAssumeFailureIsTyped(t *testing.T) {
	denied := errors.New("AccessDenied")
	client := &fakeSTS{
		assumeRole: func(*sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			return nil, denied
		},
	}

	b := NewCredentialBrokerWithClient(client, "eu-west-1", zerolog.Nop())
	_, err := b.Assume(context.Background(), "444455556666", "InventoryReader")
	require.Error(t, err)

	var arErr *AssumeRoleError
	require.ErrorAs(t, err, &arErr)
	assert.Equal(t, "444455556666", arErr.AccountID)
	assert.Equal(t, "InventoryReader", arErr.RoleName)
	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "444455556666")
}
