// Package cli wires the orgwarden command tree. Every mutating mode is a
// dry run by default; --exec gates all calls that change remote state.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/logging"
)

type Main struct {
	Version string
}

var commonCfg struct {
	verbose         bool
	jsonLog         bool
	color           string
	configFile      string
	specFile        string
	masterAccountID string
	authAccountID   string
	orgAccessRole   string
	exec            bool
}

func (m Main) Main() {
	root := &cobra.Command{
		Use:           "orgwarden",
		Short:         "Manage AWS Organizations accounts from a declarative spec",
		Version:       m.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	setupRoot(root)

	root.AddCommand(
		newReportCmd(),
		newCreateCmd(),
		newAliasCmd(),
		newInviteCmd(),
	)

	if err := root.Execute(); err != nil {
		zap.S().Errorf("%v", err)
		os.Exit(1)
	}
}

func setupRoot(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.BoolVarP(&commonCfg.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.color, "color", "auto", "Colorize output (auto, always, never)")
	flags.StringVarP(&commonCfg.configFile, "config", "f", "", "Tool config file in yaml format")
	flags.StringVar(&commonCfg.specFile, "spec-file", "", "Account specification file")
	flags.StringVar(&commonCfg.masterAccountID, "master-account-id", "", "AWS account id of the Org master account")
	flags.StringVar(&commonCfg.authAccountID, "auth-account-id", "", "AWS account id of the authentication account")
	flags.StringVar(&commonCfg.orgAccessRole, "org-access-role", "", "IAM role for traversing accounts in the Org")
	flags.BoolVar(&commonCfg.exec, "exec", false, "Execute proposed changes; without it changes are only reported")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logOpts := logging.LogOpts{
			Verbose: commonCfg.verbose,
			Color:   commonCfg.color,
		}
		if commonCfg.jsonLog {
			logOpts.Encoding = "json"
		}
		zap.ReplaceGlobals(logOpts.NewLogger())
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck
	}
}
