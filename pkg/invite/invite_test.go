package invite

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
	"github.com/orgwarden/orgwarden/pkg/orgapi/orgapitest"
)

func handshake(id, accountID string, state types.HandshakeState) types.Handshake {
	return types.Handshake{
		Id:    aws.String(id),
		State: state,
		Parties: []types.HandshakeParty{
			{Id: aws.String(accountID), Type: types.HandshakePartyTypeAccount},
		},
	}
}

func TestAccount_MalformedIdIsFatal(t *testing.T) {
	org := &orgapitest.FakeOrg{}
	m := &Manager{Org: org, Execute: true}

	for _, id := range []string{"", "12345", "not-an-id", "1234567890123"} {
		_, err := m.Account(context.Background(), id, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "id %q", id)
		assert.False(t, IsRefusal(err))
	}
	// a malformed id never reaches the remote API at all
	assert.Zero(t, org.Calls.InviteAccount)
	assert.Zero(t, org.Calls.ListHandshakes)
}

func TestAccount_RefusesExistingMember(t *testing.T) {
	org := &orgapitest.FakeOrg{}
	m := &Manager{Org: org, Execute: true}
	deployed := []orgapi.DeployedAccount{
		{Id: "555555555555", Name: "member", Status: orgapi.AccountActive},
	}

	_, err := m.Account(context.Background(), "555555555555", deployed)
	require.True(t, IsRefusal(err))
	assert.Contains(t, err.Error(), "already a member")
	assert.Zero(t, org.Calls.InviteAccount)
}

func TestAccount_RefusalLadderOverHandshakeState(t *testing.T) {
	tests := []struct {
		name       string
		state      types.HandshakeState
		wantRefuse bool
		wantReason string
	}{
		{name: "accepted", state: types.HandshakeStateAccepted, wantRefuse: true, wantReason: "already accepted"},
		{name: "requested", state: types.HandshakeStateRequested, wantRefuse: true, wantReason: "already pending"},
		{name: "open", state: types.HandshakeStateOpen, wantRefuse: true, wantReason: "already pending"},
		{name: "declined allows reinvite", state: types.HandshakeStateDeclined},
		{name: "expired allows reinvite", state: types.HandshakeStateExpired},
		{name: "canceled allows reinvite", state: types.HandshakeStateCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := &orgapitest.FakeOrg{
				HandshakePages: [][]types.Handshake{
					{handshake("h-1", "555555555555", tt.state)},
				},
			}
			m := &Manager{Org: org, Execute: true}

			id, err := m.Account(context.Background(), "555555555555", nil)
			if tt.wantRefuse {
				require.True(t, IsRefusal(err))
				assert.Contains(t, err.Error(), tt.wantReason)
				assert.Zero(t, org.Calls.InviteAccount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "h-555555555555", id)
			assert.Equal(t, []string{"555555555555"}, org.Calls.InvitedAccounts)
		})
	}
}

func TestAccount_HandshakesForOtherAccountsIgnored(t *testing.T) {
	org := &orgapitest.FakeOrg{
		HandshakePages: [][]types.Handshake{
			{handshake("h-1", "666666666666", types.HandshakeStateOpen)},
		},
	}
	m := &Manager{Org: org, Execute: true}

	id, err := m.Account(context.Background(), "555555555555", nil)
	require.NoError(t, err)
	assert.Equal(t, "h-555555555555", id)
}

func TestAccount_DryRunIssuesNoInvitation(t *testing.T) {
	org := &orgapitest.FakeOrg{}
	m := &Manager{Org: org, Execute: false}

	id, err := m.Account(context.Background(), "555555555555", nil)
	require.NoError(t, err)
	assert.Empty(t, id)
	// preconditions are still evaluated against live state in a dry run
	assert.NotZero(t, org.Calls.ListHandshakes)
	assert.Zero(t, org.Calls.InviteAccount)
}
