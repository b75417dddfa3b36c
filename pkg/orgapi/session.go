package orgapi

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"
)

const roleSessionName = "orgwarden"

// RoleARN builds the ARN of an IAM role in the given account.
func RoleARN(accountID, role string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, role)
}

// AssumeRoleConfig derives a config whose credentials come from assuming
// the given role in the target account. The returned config is scoped to
// that single account; callers pass it explicitly rather than mutating any
// shared session state.
func AssumeRoleConfig(base aws.Config, accountID, role string) aws.Config {
	provider := stscreds.NewAssumeRoleProvider(
		sts.NewFromConfig(base),
		RoleARN(accountID, role),
		func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = roleSessionName
		},
	)
	cfg := base.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)
	return cfg
}

// RoleSessionFactory mints per-account IAM clients by assuming Role into
// the target account from the Base credentials.
type RoleSessionFactory struct {
	Base aws.Config
	Role string
}

func (f *RoleSessionFactory) IdentityClient(ctx context.Context, accountID string) (IdentityAPI, error) {
	cfg := AssumeRoleConfig(f.Base, accountID, f.Role)
	// Resolve eagerly so a failed assume-role surfaces here, attributed to
	// this account, instead of on the first alias call.
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, errors.Wrapf(err, "could not assume role %s in account %s", f.Role, accountID)
	}
	return iam.NewFromConfig(cfg), nil
}
