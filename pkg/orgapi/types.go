package orgapi

import "time"

// AccountStatus is the lifecycle status of a member account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// DeployedAccount is an account observed in the organization. It is
// re-fetched on every invocation; the remote API is the source of truth.
type DeployedAccount struct {
	Id     string
	Name   string
	Email  string
	Status AccountStatus
	// Alias is populated by a secondary per-account lookup and is empty
	// unless the caller asked for it.
	Alias string
}

// CreationState is the state of an asynchronous account-creation request.
type CreationState string

const (
	CreationInProgress CreationState = "IN_PROGRESS"
	CreationSucceeded  CreationState = "SUCCEEDED"
	CreationFailed     CreationState = "FAILED"
)

// CreationRequest tracks an in-flight CreateAccount call. Requests are
// ephemeral and only observable until the remote side reaches a terminal
// state and expires them.
type CreationRequest struct {
	Id            string
	AccountName   string
	State         CreationState
	FailureReason string
}

// InvitationState is the state of a membership handshake.
type InvitationState string

const (
	InviteRequested InvitationState = "REQUESTED"
	InviteOpen      InvitationState = "OPEN"
	InviteAccepted  InvitationState = "ACCEPTED"
	InviteCanceled  InvitationState = "CANCELED"
	InviteDeclined  InvitationState = "DECLINED"
	InviteExpired   InvitationState = "EXPIRED"
)

// Pending reports whether the invitation is still awaiting a response
// from the target account.
func (s InvitationState) Pending() bool {
	return s == InviteRequested || s == InviteOpen
}

// Invitation is a handshake inviting an existing account to join the
// organization. Its lifecycle is owned entirely by the remote API; this
// tool only observes and creates handshakes.
type Invitation struct {
	Id              string
	TargetAccountID string
	State           InvitationState
	Expires         time.Time
}

// AccountsByName indexes deployed accounts by their name, the natural key
// for matching spec entries to deployed state.
func AccountsByName(accounts []DeployedAccount) map[string]DeployedAccount {
	m := make(map[string]DeployedAccount, len(accounts))
	for _, a := range accounts {
		m[a.Name] = a
	}
	return m
}

// FindById returns the deployed account with the given id, if any.
func FindById(accounts []DeployedAccount, id string) (DeployedAccount, bool) {
	for _, a := range accounts {
		if a.Id == id {
			return a, true
		}
	}
	return DeployedAccount{}, false
}
