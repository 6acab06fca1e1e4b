package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

const roleSessionName = "cloudherd-collect"

// AssumeRoleError is the typed failure for a denied or unreachable role
// assumption. The runner uses it to skip the account without aborting the
// batch.
type AssumeRoleError struct {
	AccountID string
	RoleName  string
	Err       error
}

func (e *AssumeRoleError) Error() string {
	return fmt.Sprintf("failed to assume role %s in account %s: %v", e.RoleName, e.AccountID, e.Err)
}

func (e *AssumeRoleError) Unwrap() error {
	return e.Err
}

// CredentialBroker exchanges the base identity for scoped per-account
// sessions. It never retries; the caller decides whether to skip the
// account.
type CredentialBroker struct {
	client STSClient
	region string
	logger zerolog.Logger
}

// NewCredentialBroker builds a broker on the base config. Assumed sessions
// are bound to the given region.
func NewCredentialBroker(cfg aws.Config, region string, logger zerolog.Logger) *CredentialBroker {
	return &CredentialBroker{
		client: sts.NewFromConfig(cfg),
		region: region,
		logger: logger,
	}
}

// NewCredentialBrokerWithClient is NewCredentialBroker with an injected STS
// client, used by tests.
func NewCredentialBrokerWithClient(client STSClient, region string, logger zerolog.Logger) *CredentialBroker {
	return &CredentialBroker{client: client, region: region, logger: logger}
}

// Assume requests temporary credentials for the account/role pair and
// returns a config bound to them and to the broker's region.
func (b *CredentialBroker) Assume(ctx context.Context, accountID, roleName string) (aws.Config, error) {
	roleArn := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)

	out, err := b.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(roleSessionName),
	})
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("account_id", accountID).
			Str("role_name", roleName).
			Msg("failed to assume role")
		return aws.Config{}, &AssumeRoleError{AccountID: accountID, RoleName: roleName, Err: err}
	}

	creds := out.Credentials
	b.logger.Info().
		Str("account_id", accountID).
		Str("role_name", roleName).
		Msg("assumed role")

	return aws.Config{
		Region: b.region,
		Credentials: credentials.NewStaticCredentialsProvider(
			aws.ToString(creds.AccessKeyId),
			aws.ToString(creds.SecretAccessKey),
			aws.ToString(creds.SessionToken),
		),
	}, nil
}
