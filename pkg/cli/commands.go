package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/aliassync"
	"github.com/orgwarden/orgwarden/pkg/invite"
	"github.com/orgwarden/orgwarden/pkg/orgapi"
	"github.com/orgwarden/orgwarden/pkg/reconcile"
	"github.com/orgwarden/orgwarden/pkg/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Display organization status report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx)
			if err != nil {
				return err
			}
			accounts, err := s.scanner.Accounts(ctx)
			if err != nil {
				return err
			}
			sync := &aliassync.Synchronizer{Sessions: s.sessions}
			aliases := sync.Aliases(ctx, accounts)
			for i := range accounts {
				accounts[i].Alias = aliases[accounts[i].Id]
			}
			invites, err := s.scanner.Invitations(ctx)
			if err != nil {
				return err
			}

			r := &report.Renderer{Out: os.Stdout}
			r.Accounts(accounts, orgapi.AccountActive)
			r.Accounts(accounts, orgapi.AccountSuspended)
			r.Invitations(invites)
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create new accounts in the Org per specification",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := zap.S()
			s, err := newSession(ctx)
			if err != nil {
				return err
			}
			spec, err := s.loadSpec()
			if err != nil {
				return err
			}
			accounts, err := s.scanner.Accounts(ctx)
			if err != nil {
				return err
			}

			reconciler := &reconcile.Reconciler{Org: s.org, Execute: commonCfg.exec}
			result, err := reconciler.Accounts(ctx, spec, accounts)
			if err != nil {
				return err
			}
			if len(result.Unmanaged) > 0 {
				log.Warnf("unmanaged accounts in Org: %s", strings.Join(result.Unmanaged, ", "))
			}
			if !commonCfg.exec {
				log.Info("dry run complete; rerun with --exec to apply changes")
			}
			return nil
		},
	}
}

func newAliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias",
		Short: "Set the account alias for each account in the Org per specification",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx)
			if err != nil {
				return err
			}
			spec, err := s.loadSpec()
			if err != nil {
				return err
			}
			accounts, err := s.scanner.Accounts(ctx)
			if err != nil {
				return err
			}

			sync := &aliassync.Synchronizer{
				Sessions: s.sessions,
				Execute:  commonCfg.exec,
				Workers:  aliassync.DefaultWorkers,
			}
			// Per-account failures are already logged with their account;
			// the run itself still succeeds.
			_ = sync.Sync(ctx, accounts, spec)
			if !commonCfg.exec {
				zap.S().Info("dry run complete; rerun with --exec to apply changes")
			}
			return nil
		},
	}
}

func newInviteCmd() *cobra.Command {
	var invitedAccountID string
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite another account to join the Org as a member account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := zap.S()
			s, err := newSession(ctx)
			if err != nil {
				return err
			}
			accounts, err := s.scanner.Accounts(ctx)
			if err != nil {
				return err
			}

			manager := &invite.Manager{Org: s.org, Execute: commonCfg.exec}
			handshakeID, err := manager.Account(ctx, invitedAccountID, accounts)
			switch {
			case invite.IsRefusal(err):
				// Precondition conflict, not a failure of the run.
				log.Errorf("%v", err)
				return nil
			case err != nil:
				return err
			}
			if !commonCfg.exec {
				log.Info("dry run complete; rerun with --exec to send the invitation")
			} else {
				log.Infof("invitation handshake %s created", handshakeID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&invitedAccountID, "invited-account-id", "", "Id of the account being invited to join the Org")
	_ = cmd.MarkFlagRequired("invited-account-id")
	return cmd
}
