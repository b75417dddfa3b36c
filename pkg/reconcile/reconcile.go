// Package reconcile converges the set of member accounts toward the
// desired-state spec. Reconciliation is strictly sequential: account
// creation mutates organization-level state and must not race against
// itself within a run.
package reconcile

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
	"github.com/orgwarden/orgwarden/pkg/orgspec"
	"github.com/orgwarden/orgwarden/pkg/retry"
)

const (
	// DefaultPollAttempts and DefaultPollInterval bound the wait on an
	// asynchronous account creation. Exhausting the bound is not a failure;
	// the account is reported pending and the run moves on.
	DefaultPollAttempts = 5
	DefaultPollInterval = 5 * time.Second
)

// Reconciler diffs desired accounts against deployed state and drives
// creation of the missing ones.
type Reconciler struct {
	Org orgapi.OrganizationsAPI
	// Execute gates every mutating call. When false the reconciler only
	// logs the changes it would make.
	Execute      bool
	PollAttempts int
	PollInterval time.Duration
}

// Result summarizes one reconciliation run.
type Result struct {
	// Created holds names of accounts whose creation was confirmed.
	Created []string
	// Pending holds names whose creation was submitted (or found already
	// in flight) but not yet confirmed.
	Pending []string
	// Failed holds names whose creation request reached the FAILED state.
	Failed []string
	// Unmanaged holds deployed account names absent from the spec. They
	// are reported, never removed; account deletion is irreversible and
	// out of scope.
	Unmanaged []string
}

// Accounts reconciles the spec against the deployed account list, creating
// missing accounts in spec order. The first account found with an
// unresolved in-flight creation halts all further creation processing for
// the run: the in-flight request means observed state is mid-transition,
// and creating more accounts against a stale view risks duplicates.
func (r *Reconciler) Accounts(ctx context.Context, spec *orgspec.Spec, deployed []orgapi.DeployedAccount) (*Result, error) {
	log := zap.S()
	scanner := &orgapi.Scanner{Org: r.Org}
	byName := orgapi.AccountsByName(deployed)
	result := &Result{}

	for _, a := range spec.Accounts {
		if _, ok := byName[a.Name]; ok {
			continue
		}
		// Re-scan in-flight requests fresh for every candidate. A request
		// in SUCCEEDED that has not yet reached the account list is the
		// normal eventual-consistency lag after a recent run, not an error.
		inflight, err := scanner.CreationRequests(ctx, orgapi.CreationInProgress, orgapi.CreationSucceeded)
		if err != nil {
			return result, err
		}
		if pendingCreation(inflight, a.Name) {
			log.Warnf("account %s has an unfinished creation request and is not yet available; deferring remaining creations", a.Name)
			result.Pending = append(result.Pending, a.Name)
			break
		}

		email := spec.EmailFor(a)
		log.Infof("creating account %s", a.Name)
		log.Debugf("account %s email: %s", a.Name, email)
		if !r.Execute {
			continue
		}
		switch state, err := r.create(ctx, a.Name, email); {
		case err != nil:
			log.Errorw("account creation failed", "account", a.Name, zap.Error(err))
			result.Failed = append(result.Failed, a.Name)
		case state == orgapi.CreationSucceeded:
			result.Created = append(result.Created, a.Name)
		default:
			result.Pending = append(result.Pending, a.Name)
		}
	}

	result.Unmanaged = unmanaged(spec, deployed)
	return result, nil
}

// create submits one account creation and polls its status to a terminal
// state, up to the configured bound.
func (r *Reconciler) create(ctx context.Context, name, email string) (orgapi.CreationState, error) {
	log := zap.S()
	out, err := r.Org.CreateAccount(ctx, &organizations.CreateAccountInput{
		AccountName: aws.String(name),
		Email:       aws.String(email),
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not create account %s", name)
	}
	requestID := aws.ToString(out.CreateAccountStatus.Id)
	log.Infof("account %s creation request id: %s", name, requestID)

	opts := retry.Options{MaxAttempts: r.PollAttempts, Interval: r.PollInterval}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultPollAttempts
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultPollInterval
	}

	state, err := retry.Do(ctx, opts, func(ctx context.Context) (orgapi.CreationState, bool, error) {
		out, err := r.Org.DescribeCreateAccountStatus(ctx, &organizations.DescribeCreateAccountStatusInput{
			CreateAccountRequestId: aws.String(requestID),
		})
		if err != nil {
			return "", false, errors.Wrapf(err, "could not poll creation status for account %s", name)
		}
		status := out.CreateAccountStatus
		switch state := orgapi.CreationState(status.State); state {
		case orgapi.CreationInProgress:
			log.Infof("account creation in progress for %s", name)
			return state, false, nil
		case orgapi.CreationFailed:
			return state, true, errors.Errorf("account %s creation failed: %s", name, status.FailureReason)
		default:
			log.Infof("account %s creation succeeded", name)
			return state, true, nil
		}
	})
	if errors.Is(err, retry.ErrAttemptsExhausted) {
		log.Warnf("account %s creation still pending after %d checks; moving on", name, opts.MaxAttempts)
		return orgapi.CreationInProgress, nil
	}
	return state, err
}

func pendingCreation(requests []orgapi.CreationRequest, name string) bool {
	for _, req := range requests {
		if req.AccountName == name {
			return true
		}
	}
	return false
}

func unmanaged(spec *orgspec.Spec, deployed []orgapi.DeployedAccount) []string {
	var names []string
	for _, a := range deployed {
		if spec.Find(a.Name) == nil {
			names = append(names, a.Name)
		}
	}
	return names
}
