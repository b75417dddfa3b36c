package orgapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
)

type (
	// OrganizationsAPI is the subset of the AWS Organizations client this
	// tool depends on. *organizations.Client satisfies it; tests substitute
	// fakes.
	OrganizationsAPI interface {
		ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
		ListCreateAccountStatus(ctx context.Context, params *organizations.ListCreateAccountStatusInput, optFns ...func(*organizations.Options)) (*organizations.ListCreateAccountStatusOutput, error)
		ListHandshakesForOrganization(ctx context.Context, params *organizations.ListHandshakesForOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.ListHandshakesForOrganizationOutput, error)
		CreateAccount(ctx context.Context, params *organizations.CreateAccountInput, optFns ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error)
		DescribeCreateAccountStatus(ctx context.Context, params *organizations.DescribeCreateAccountStatusInput, optFns ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error)
		InviteAccountToOrganization(ctx context.Context, params *organizations.InviteAccountToOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.InviteAccountToOrganizationOutput, error)
	}

	// IdentityAPI is the subset of the IAM client used for account alias
	// management. Alias calls always run against a member account, so each
	// IdentityAPI carries credentials scoped to exactly one account.
	IdentityAPI interface {
		ListAccountAliases(ctx context.Context, params *iam.ListAccountAliasesInput, optFns ...func(*iam.Options)) (*iam.ListAccountAliasesOutput, error)
		CreateAccountAlias(ctx context.Context, params *iam.CreateAccountAliasInput, optFns ...func(*iam.Options)) (*iam.CreateAccountAliasOutput, error)
		DeleteAccountAlias(ctx context.Context, params *iam.DeleteAccountAliasInput, optFns ...func(*iam.Options)) (*iam.DeleteAccountAliasOutput, error)
	}

	// SessionFactory mints an account-scoped identity client, assuming the
	// organization access role into the target account.
	SessionFactory interface {
		IdentityClient(ctx context.Context, accountID string) (IdentityAPI, error)
	}
)
