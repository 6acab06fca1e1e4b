package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// OrgLister retrieves the member accounts of the organization the base
// identity belongs to.
type OrgLister struct {
	client OrganizationsClient
	logger zerolog.Logger
}

// NewOrgLister builds a lister on the base config.
func NewOrgLister(cfg aws.Config, logger zerolog.Logger) *OrgLister {
	return &OrgLister{client: organizations.NewFromConfig(cfg), logger: logger}
}

// NewOrgListerWithClient is NewOrgLister with an injected client, used by tests.
func NewOrgListerWithClient(client OrganizationsClient, logger zerolog.Logger) *OrgLister {
	return &OrgLister{client: client, logger: logger}
}

// ListAccounts pages through the organization membership. The Organizations
// API carries no org-unit on the account record, so OrgUnit stays empty
// until a sighting provides one.
func (l *OrgLister) ListAccounts(ctx context.Context) ([]types.Account, error) {
	var accounts []types.Account

	paginator := organizations.NewListAccountsPaginator(l.client, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list organization accounts: %w", err)
		}
		for _, acc := range page.Accounts {
			accounts = append(accounts, types.Account{
				AccountID: aws.ToString(acc.Id),
				Name:      aws.ToString(acc.Name),
				Email:     aws.ToString(acc.Email),
			})
		}
	}

	l.logger.Info().Int("accounts", len(accounts)).Msg("retrieved organization accounts")
	return accounts, nil
}
