package cli

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/orgwarden/orgwarden/pkg/config"
	"github.com/orgwarden/orgwarden/pkg/orgapi"
	"github.com/orgwarden/orgwarden/pkg/orgspec"
)

// session carries the resolved configuration and the authenticated clients
// a command needs. It is built fresh for each invocation; no credential
// state is shared globally.
type session struct {
	cfg      config.Config
	scanner  *orgapi.Scanner
	org      orgapi.OrganizationsAPI
	sessions *orgapi.RoleSessionFactory
}

func newSession(ctx context.Context) (*session, error) {
	fileCfg, err := config.Load(commonCfg.configFile)
	if err != nil {
		return nil, err
	}
	cfg := fileCfg.Merge(config.Config{
		MasterAccountID: commonCfg.masterAccountID,
		AuthAccountID:   commonCfg.authAccountID,
		OrgAccessRole:   commonCfg.orgAccessRole,
		SpecFile:        commonCfg.specFile,
	})

	base, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not load AWS credentials")
	}

	// Organizations calls run in the master account. When a master account
	// and access role are configured, assume the role there; otherwise the
	// ambient credentials are used directly.
	orgCfg := base
	if cfg.MasterAccountID != "" && cfg.OrgAccessRole != "" {
		zap.S().Debugf("assuming role %s in master account %s", cfg.OrgAccessRole, cfg.MasterAccountID)
		orgCfg = orgapi.AssumeRoleConfig(base, cfg.MasterAccountID, cfg.OrgAccessRole)
	}
	org := organizations.NewFromConfig(orgCfg)

	return &session{
		cfg:     cfg,
		org:     org,
		scanner: &orgapi.Scanner{Org: org},
		sessions: &orgapi.RoleSessionFactory{
			Base: base,
			Role: cfg.OrgAccessRole,
		},
	}, nil
}

func (s *session) loadSpec() (*orgspec.Spec, error) {
	if s.cfg.SpecFile == "" {
		return nil, errors.New("no account spec file configured; set --spec-file or spec_file in the config file")
	}
	return orgspec.Load(s.cfg.SpecFile)
}
