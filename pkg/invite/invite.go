// Package invite manages membership invitation handshakes. The remote API
// happily accepts duplicate invitations for the same account, which leads
// to confusing non-deterministic handshake outcomes, so every invitation
// is preceded by a precondition ladder over freshly scanned state.
package invite

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
)

var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// ValidationError marks a malformed input identifier. It is fatal: the CLI
// terminates with a non-zero status rather than continuing.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Refusal is returned when an invitation is blocked by a precondition
// conflict: the account is already a member, or a handshake already covers
// it. Refusals are terminal for the operation but not for the run; zero
// invitation calls are issued.
type Refusal struct {
	AccountID string
	Reason    string
}

func (r *Refusal) Error() string {
	return fmt.Sprintf("invitation for account %s refused: %s", r.AccountID, r.Reason)
}

// IsRefusal reports whether err is a precondition refusal rather than a
// remote failure.
func IsRefusal(err error) bool {
	var r *Refusal
	return errors.As(err, &r)
}

// Manager drives the invitation handshake for prospective member accounts.
// Invitation handling is sequential within a run; it mutates shared
// organization state.
type Manager struct {
	Org orgapi.OrganizationsAPI
	// Execute gates the invitation call itself; precondition checks always
	// run.
	Execute bool
}

// Account invites the given account to join the organization and returns
// the new handshake id. In dry-run mode the id is empty. Precondition
// order: structural id validity (fatal), existing membership, then any
// prior handshake in ACCEPTED, REQUESTED or OPEN state.
func (m *Manager) Account(ctx context.Context, accountID string, deployed []orgapi.DeployedAccount) (string, error) {
	log := zap.S()
	if !accountIDPattern.MatchString(accountID) {
		return "", &ValidationError{msg: fmt.Sprintf("%q is not a valid account id", accountID)}
	}
	if _, member := orgapi.FindById(deployed, accountID); member {
		return "", &Refusal{AccountID: accountID, Reason: "already a member of the organization"}
	}

	scanner := &orgapi.Scanner{Org: m.Org}
	invitations, err := scanner.Invitations(ctx)
	if err != nil {
		return "", err
	}
	for _, invite := range invitations {
		if invite.TargetAccountID != accountID {
			continue
		}
		log.Debugf("existing handshake %s for account %s in state %s", invite.Id, accountID, invite.State)
		if invite.State == orgapi.InviteAccepted {
			return "", &Refusal{AccountID: accountID, Reason: "a previous invitation was already accepted"}
		}
		if invite.State.Pending() {
			return "", &Refusal{AccountID: accountID, Reason: fmt.Sprintf("an invitation is already pending in state %s", invite.State)}
		}
	}

	log.Infof("inviting account %s to join the organization", accountID)
	if !m.Execute {
		return "", nil
	}
	out, err := m.Org.InviteAccountToOrganization(ctx, &organizations.InviteAccountToOrganizationInput{
		Target: &types.HandshakeParty{
			Id:   aws.String(accountID),
			Type: types.HandshakePartyTypeAccount,
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not invite account %s", accountID)
	}
	handshakeID := aws.ToString(out.Handshake.Id)
	log.Infof("account invitation handshake id: %s", handshakeID)
	return handshakeID, nil
}
