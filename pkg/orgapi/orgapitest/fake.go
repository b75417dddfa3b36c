// Package orgapitest provides hand-rolled fakes for the narrow AWS client
// interfaces, with canned paginated responses and call recording.
package orgapitest

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/pkg/errors"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
)

// Calls counts invocations per operation.
type Calls struct {
	ListAccounts    int
	ListCreations   int
	ListHandshakes  int
	CreateAccount   int
	DescribeStatus  int
	InviteAccount   int
	CreatedAccounts []string
	CreatedEmails   []string
	InvitedAccounts []string
}

// FakeOrg implements orgapi.OrganizationsAPI over canned response pages.
// List responses are served page by page via continuation tokens so tests
// exercise the pagination paths.
type FakeOrg struct {
	AccountsPages  [][]types.Account
	CreationPages  [][]types.CreateAccountStatus
	HandshakePages [][]types.Handshake

	// CreateState is the status returned for new CreateAccount calls.
	CreateState types.CreateAccountState
	// DescribeStates is consumed one state per DescribeCreateAccountStatus
	// call; the last entry repeats once the slice is exhausted.
	DescribeStates []types.CreateAccountState
	FailureReason  types.CreateAccountFailureReason

	Err error

	Calls Calls
}

func (f *FakeOrg) ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error) {
	f.Calls.ListAccounts++
	if f.Err != nil {
		return nil, f.Err
	}
	idx, err := pageIndex(params.NextToken)
	if err != nil {
		return nil, err
	}
	out := &organizations.ListAccountsOutput{NextToken: nextToken(idx, len(f.AccountsPages))}
	if idx < len(f.AccountsPages) {
		out.Accounts = f.AccountsPages[idx]
	}
	return out, nil
}

func (f *FakeOrg) ListCreateAccountStatus(ctx context.Context, params *organizations.ListCreateAccountStatusInput, optFns ...func(*organizations.Options)) (*organizations.ListCreateAccountStatusOutput, error) {
	f.Calls.ListCreations++
	if f.Err != nil {
		return nil, f.Err
	}
	idx, err := pageIndex(params.NextToken)
	if err != nil {
		return nil, err
	}
	out := &organizations.ListCreateAccountStatusOutput{NextToken: nextToken(idx, len(f.CreationPages))}
	if idx < len(f.CreationPages) {
		for _, c := range f.CreationPages[idx] {
			if matchesStates(c.State, params.States) {
				out.CreateAccountStatuses = append(out.CreateAccountStatuses, c)
			}
		}
	}
	return out, nil
}

func (f *FakeOrg) ListHandshakesForOrganization(ctx context.Context, params *organizations.ListHandshakesForOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.ListHandshakesForOrganizationOutput, error) {
	f.Calls.ListHandshakes++
	if f.Err != nil {
		return nil, f.Err
	}
	idx, err := pageIndex(params.NextToken)
	if err != nil {
		return nil, err
	}
	out := &organizations.ListHandshakesForOrganizationOutput{NextToken: nextToken(idx, len(f.HandshakePages))}
	if idx < len(f.HandshakePages) {
		out.Handshakes = f.HandshakePages[idx]
	}
	return out, nil
}

func (f *FakeOrg) CreateAccount(ctx context.Context, params *organizations.CreateAccountInput, optFns ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error) {
	f.Calls.CreateAccount++
	f.Calls.CreatedAccounts = append(f.Calls.CreatedAccounts, aws.ToString(params.AccountName))
	f.Calls.CreatedEmails = append(f.Calls.CreatedEmails, aws.ToString(params.Email))
	if f.Err != nil {
		return nil, f.Err
	}
	state := f.CreateState
	if state == "" {
		state = types.CreateAccountStateInProgress
	}
	return &organizations.CreateAccountOutput{
		CreateAccountStatus: &types.CreateAccountStatus{
			Id:          aws.String("car-" + aws.ToString(params.AccountName)),
			AccountName: params.AccountName,
			State:       state,
		},
	}, nil
}

func (f *FakeOrg) DescribeCreateAccountStatus(ctx context.Context, params *organizations.DescribeCreateAccountStatusInput, optFns ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error) {
	call := f.Calls.DescribeStatus
	f.Calls.DescribeStatus++
	if f.Err != nil {
		return nil, f.Err
	}
	state := types.CreateAccountStateSucceeded
	if n := len(f.DescribeStates); n > 0 {
		if call >= n {
			call = n - 1
		}
		state = f.DescribeStates[call]
	}
	return &organizations.DescribeCreateAccountStatusOutput{
		CreateAccountStatus: &types.CreateAccountStatus{
			Id:            params.CreateAccountRequestId,
			State:         state,
			FailureReason: f.FailureReason,
		},
	}, nil
}

func (f *FakeOrg) InviteAccountToOrganization(ctx context.Context, params *organizations.InviteAccountToOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.InviteAccountToOrganizationOutput, error) {
	f.Calls.InviteAccount++
	f.Calls.InvitedAccounts = append(f.Calls.InvitedAccounts, aws.ToString(params.Target.Id))
	if f.Err != nil {
		return nil, f.Err
	}
	return &organizations.InviteAccountToOrganizationOutput{
		Handshake: &types.Handshake{
			Id:    aws.String("h-" + aws.ToString(params.Target.Id)),
			State: types.HandshakeStateRequested,
		},
	}, nil
}

func pageIndex(token *string) (int, error) {
	if token == nil {
		return 0, nil
	}
	idx, err := strconv.Atoi(*token)
	if err != nil {
		return 0, errors.Wrapf(err, "bad continuation token %q", *token)
	}
	return idx, nil
}

func nextToken(idx, pages int) *string {
	if idx+1 >= pages {
		return nil
	}
	return aws.String(strconv.Itoa(idx + 1))
}

func matchesStates(state types.CreateAccountState, states []types.CreateAccountState) bool {
	if len(states) == 0 {
		return true
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// FakeIdentity implements orgapi.IdentityAPI for a single account.
type FakeIdentity struct {
	Aliases []string

	ListErr   error
	CreateErr error
	DeleteErr error

	ListCalls   int
	CreateCalls []string
	DeleteCalls []string
}

func (f *FakeIdentity) ListAccountAliases(ctx context.Context, params *iam.ListAccountAliasesInput, optFns ...func(*iam.Options)) (*iam.ListAccountAliasesOutput, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return &iam.ListAccountAliasesOutput{AccountAliases: f.Aliases}, nil
}

func (f *FakeIdentity) CreateAccountAlias(ctx context.Context, params *iam.CreateAccountAliasInput, optFns ...func(*iam.Options)) (*iam.CreateAccountAliasOutput, error) {
	f.CreateCalls = append(f.CreateCalls, aws.ToString(params.AccountAlias))
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &iam.CreateAccountAliasOutput{}, nil
}

func (f *FakeIdentity) DeleteAccountAlias(ctx context.Context, params *iam.DeleteAccountAliasInput, optFns ...func(*iam.Options)) (*iam.DeleteAccountAliasOutput, error) {
	f.DeleteCalls = append(f.DeleteCalls, aws.ToString(params.AccountAlias))
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	return &iam.DeleteAccountAliasOutput{}, nil
}

// FakeSessions hands out one FakeIdentity per account id.
type FakeSessions struct {
	Clients map[string]*FakeIdentity
	// Errs simulates assume-role failures for specific accounts.
	Errs map[string]error
}

func (f *FakeSessions) IdentityClient(ctx context.Context, accountID string) (orgapi.IdentityAPI, error) {
	if err, ok := f.Errs[accountID]; ok {
		return nil, err
	}
	client, ok := f.Clients[accountID]
	if !ok {
		return nil, errors.Errorf("no fake identity client for account %s", accountID)
	}
	return client, nil
}
