package orgapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/pkg/errors"
)

// Scanner enumerates remote organization state. Every listing follows
// continuation tokens until the remote side is exhausted; a truncated
// listing would silently corrupt the reconciliation diff. All methods are
// read-only.
type Scanner struct {
	Org OrganizationsAPI
}

// Accounts returns every account in the organization, in discovery order.
func (s *Scanner) Accounts(ctx context.Context) ([]DeployedAccount, error) {
	var accounts []DeployedAccount
	input := &organizations.ListAccountsInput{}
	for {
		out, err := s.Org.ListAccounts(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "could not list accounts")
		}
		for _, a := range out.Accounts {
			accounts = append(accounts, DeployedAccount{
				Id:     aws.ToString(a.Id),
				Name:   aws.ToString(a.Name),
				Email:  aws.ToString(a.Email),
				Status: AccountStatus(a.Status),
			})
		}
		if out.NextToken == nil {
			return accounts, nil
		}
		input.NextToken = out.NextToken
	}
}

// CreationRequests returns account-creation requests in the given states.
// With no states given, requests in all states are returned.
func (s *Scanner) CreationRequests(ctx context.Context, states ...CreationState) ([]CreationRequest, error) {
	input := &organizations.ListCreateAccountStatusInput{}
	for _, st := range states {
		input.States = append(input.States, types.CreateAccountState(st))
	}
	var requests []CreationRequest
	for {
		out, err := s.Org.ListCreateAccountStatus(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "could not list account creation requests")
		}
		for _, c := range out.CreateAccountStatuses {
			requests = append(requests, creationRequestFromStatus(&c))
		}
		if out.NextToken == nil {
			return requests, nil
		}
		input.NextToken = out.NextToken
	}
}

// Invitations returns every INVITE handshake for the organization.
func (s *Scanner) Invitations(ctx context.Context) ([]Invitation, error) {
	input := &organizations.ListHandshakesForOrganizationInput{
		Filter: &types.HandshakeFilter{ActionType: types.ActionTypeInviteAccountToOrganization},
	}
	var invites []Invitation
	for {
		out, err := s.Org.ListHandshakesForOrganization(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "could not list invitation handshakes")
		}
		for _, h := range out.Handshakes {
			invite := Invitation{
				Id:              aws.ToString(h.Id),
				TargetAccountID: handshakeAccountID(h),
				State:           InvitationState(h.State),
			}
			if h.ExpirationTimestamp != nil {
				invite.Expires = *h.ExpirationTimestamp
			}
			invites = append(invites, invite)
		}
		if out.NextToken == nil {
			return invites, nil
		}
		input.NextToken = out.NextToken
	}
}

// handshakeAccountID extracts the id of the ACCOUNT party from a handshake.
// Handshakes also carry ORGANIZATION and EMAIL parties, which identify the
// inviting side rather than the invitee.
func handshakeAccountID(h types.Handshake) string {
	for _, p := range h.Parties {
		if p.Type == types.HandshakePartyTypeAccount {
			return aws.ToString(p.Id)
		}
	}
	return ""
}

func creationRequestFromStatus(c *types.CreateAccountStatus) CreationRequest {
	return CreationRequest{
		Id:            aws.ToString(c.Id),
		AccountName:   aws.ToString(c.AccountName),
		State:         CreationState(c.State),
		FailureReason: string(c.FailureReason),
	}
}
