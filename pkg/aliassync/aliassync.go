// Package aliassync converges each member account's IAM sign-in alias to
// the spec. Accounts are disjoint, so the work fans out over a bounded
// worker pool; a failure in one account never blocks the others.
package aliassync

import (
	"context"
	"sync"

	"github.com/alitto/pond"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
	"github.com/orgwarden/orgwarden/pkg/orgspec"
)

const DefaultWorkers = 10

type Synchronizer struct {
	Sessions orgapi.SessionFactory
	// Execute gates the alias create/delete calls; without it the intended
	// changes are only logged.
	Execute bool
	Workers int
}

// Sync converges the alias of every ACTIVE account in the list. The
// returned error aggregates per-account failures; a non-nil error still
// means every account was attempted.
func (s *Synchronizer) Sync(ctx context.Context, accounts []orgapi.DeployedAccount, spec *orgspec.Spec) error {
	pool := pond.New(s.workers(), len(accounts))

	var (
		mu       sync.Mutex
		errs     error
		failures = atomic.NewInt32(0)
	)
	for _, account := range accounts {
		account := account
		if account.Status != orgapi.AccountActive {
			continue
		}
		pool.Submit(func() {
			if err := s.syncOne(ctx, account, spec.AliasFor(account.Name)); err != nil {
				zap.S().Errorw("alias sync failed", "account", account.Name, zap.Error(err))
				failures.Inc()
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		})
	}
	pool.StopAndWait()
	if n := failures.Load(); n > 0 {
		zap.S().Errorf("alias sync failed for %d of %d accounts", n, len(accounts))
	}
	return errs
}

// syncOne applies the fetch-compare-correct cycle for a single account.
// Replacing a differing alias is delete-then-create; AWS has no atomic
// swap, so a failure in between leaves the account alias-less until the
// next run.
func (s *Synchronizer) syncOne(ctx context.Context, account orgapi.DeployedAccount, proposed string) error {
	log := zap.S()
	client, err := s.Sessions.IdentityClient(ctx, account.Id)
	if err != nil {
		return err
	}
	current, err := listAlias(ctx, client)
	if err != nil {
		return errors.Wrapf(err, "could not list aliases for account %s", account.Name)
	}
	log.Debugf("account %s current alias: %q", account.Name, current)

	switch {
	case current == proposed:
		return nil
	case current == "":
		log.Infof("setting account alias to %s for account %s", proposed, account.Name)
		if !s.Execute {
			return nil
		}
		return createAlias(ctx, client, account, proposed)
	default:
		log.Infof("resetting account alias for account %s to %s; previous alias was %s",
			account.Name, proposed, current)
		if !s.Execute {
			return nil
		}
		_, err = client.DeleteAccountAlias(ctx, &iam.DeleteAccountAliasInput{
			AccountAlias: aws.String(current),
		})
		if err != nil && !isNoSuchEntity(err) {
			return errors.Wrapf(err, "could not delete alias %s for account %s", current, account.Name)
		}
		return createAlias(ctx, client, account, proposed)
	}
}

// Aliases fetches the current alias of each ACTIVE account over the worker
// pool, keyed by account id. Accounts whose session or listing fails are
// logged and left out of the map.
func (s *Synchronizer) Aliases(ctx context.Context, accounts []orgapi.DeployedAccount) map[string]string {
	pool := pond.New(s.workers(), len(accounts))

	var mu sync.Mutex
	aliases := make(map[string]string)
	for _, account := range accounts {
		account := account
		if account.Status != orgapi.AccountActive {
			continue
		}
		pool.Submit(func() {
			client, err := s.Sessions.IdentityClient(ctx, account.Id)
			if err != nil {
				zap.S().Errorw("alias lookup failed", "account", account.Name, zap.Error(err))
				return
			}
			alias, err := listAlias(ctx, client)
			if err != nil {
				zap.S().Errorw("alias lookup failed", "account", account.Name, zap.Error(err))
				return
			}
			mu.Lock()
			aliases[account.Id] = alias
			mu.Unlock()
		})
	}
	pool.StopAndWait()
	return aliases
}

func (s *Synchronizer) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return DefaultWorkers
}

// listAlias returns the account's alias, or "" when none is set. IAM
// permits at most one alias per account.
func listAlias(ctx context.Context, client orgapi.IdentityAPI) (string, error) {
	out, err := client.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		return "", err
	}
	if len(out.AccountAliases) == 0 {
		return "", nil
	}
	return out.AccountAliases[0], nil
}

// isNoSuchEntity reports whether an IAM call failed because the entity was
// already gone, e.g. the alias vanished between the list and the delete.
func isNoSuchEntity(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity"
}

func createAlias(ctx context.Context, client orgapi.IdentityAPI, account orgapi.DeployedAccount, alias string) error {
	_, err := client.CreateAccountAlias(ctx, &iam.CreateAccountAliasInput{
		AccountAlias: aws.String(alias),
	})
	return errors.Wrapf(err, "could not create alias %s for account %s", alias, account.Name)
}
