// Package config loads the tool configuration file. Flags override file
// values; the file only supplies defaults for settings that rarely change
// between invocations.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// MasterAccountID is the organization's management account, the account
	// the org access role is assumed into for all Organizations API calls.
	MasterAccountID string `yaml:"master_account_id"`
	// AuthAccountID is the account holding the principals that assume the
	// org access role.
	AuthAccountID string `yaml:"auth_account_id"`
	// OrgAccessRole is the IAM role assumed for traversing accounts.
	OrgAccessRole string `yaml:"org_access_role"`
	// SpecFile locates the account specification document.
	SpecFile string `yaml:"spec_file"`
}

const defaultFileName = ".orgwarden.yaml"

// Load reads the config file at path, or the default location in the
// user's home directory when path is empty. A missing default file yields
// an empty config; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(home, defaultFileName)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}
	return cfg, nil
}

// Merge overlays non-empty flag values onto the file config and returns
// the effective configuration.
func (c *Config) Merge(flags Config) Config {
	merged := *c
	if flags.MasterAccountID != "" {
		merged.MasterAccountID = flags.MasterAccountID
	}
	if flags.AuthAccountID != "" {
		merged.AuthAccountID = flags.AuthAccountID
	}
	if flags.OrgAccessRole != "" {
		merged.OrgAccessRole = flags.OrgAccessRole
	}
	if flags.SpecFile != "" {
		merged.SpecFile = flags.SpecFile
	}
	return merged
}
