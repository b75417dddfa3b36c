package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgwarden.yaml")
	content := `
master_account_id: "111111111111"
org_access_role: OrgAdminRole
spec_file: /etc/orgwarden/spec.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "111111111111", cfg.MasterAccountID)
	assert.Equal(t, "OrgAdminRole", cfg.OrgAccessRole)
	assert.Equal(t, "/etc/orgwarden/spec.yaml", cfg.SpecFile)
	assert.Empty(t, cfg.AuthAccountID)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("master_account_id: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse config file")
}

func TestConfig_Merge(t *testing.T) {
	file := &Config{
		MasterAccountID: "111111111111",
		OrgAccessRole:   "OrgAdminRole",
		SpecFile:        "/etc/orgwarden/spec.yaml",
	}

	merged := file.Merge(Config{
		MasterAccountID: "222222222222",
		AuthAccountID:   "333333333333",
	})
	// flags win where set, file values survive elsewhere
	assert.Equal(t, "222222222222", merged.MasterAccountID)
	assert.Equal(t, "333333333333", merged.AuthAccountID)
	assert.Equal(t, "OrgAdminRole", merged.OrgAccessRole)
	assert.Equal(t, "/etc/orgwarden/spec.yaml", merged.SpecFile)
	// the file config itself is not mutated
	assert.Equal(t, "111111111111", file.MasterAccountID)
}
