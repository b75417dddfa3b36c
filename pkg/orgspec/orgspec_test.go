package orgspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "valid spec",
			content: `
default_domain: example.com
accounts:
  - Name: prod
  - Name: staging
    Email: staging-root@corp.example.com
    Alias: corp-staging
`,
		},
		{
			name:    "no accounts",
			content: `default_domain: example.com`,
			wantErr: "no accounts",
		},
		{
			name: "missing name",
			content: `
default_domain: example.com
accounts:
  - Email: x@example.com
`,
			wantErr: "no Name",
		},
		{
			name: "duplicate name",
			content: `
default_domain: example.com
accounts:
  - Name: prod
  - Name: prod
`,
			wantErr: "duplicate account Name",
		},
		{
			name: "no email and no default domain",
			content: `
accounts:
  - Name: prod
`,
			wantErr: "no default_domain",
		},
		{
			name:    "malformed yaml",
			content: `accounts: [`,
			wantErr: "could not parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse([]byte(tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, spec)
		})
	}
}

func TestSpec_EmailFor(t *testing.T) {
	spec := &Spec{
		DefaultDomain: "example.com",
		Accounts: []AccountSpec{
			{Name: "prod"},
			{Name: "staging", Email: "staging-root@corp.example.com"},
		},
	}
	assert.Equal(t, "prod@example.com", spec.EmailFor(spec.Accounts[0]))
	assert.Equal(t, "staging-root@corp.example.com", spec.EmailFor(spec.Accounts[1]))
}

func TestSpec_AliasFor(t *testing.T) {
	spec := &Spec{
		DefaultDomain: "example.com",
		Accounts: []AccountSpec{
			{Name: "Prod"},
			{Name: "Staging", Alias: "corp-staging"},
		},
	}
	assert.Equal(t, "prod", spec.AliasFor("Prod"))
	assert.Equal(t, "corp-staging", spec.AliasFor("Staging"))
	// accounts outside the spec still get the lowercase default
	assert.Equal(t, "legacy", spec.AliasFor("Legacy"))
}

func TestSpec_Find(t *testing.T) {
	spec := &Spec{
		DefaultDomain: "example.com",
		Accounts:      []AccountSpec{{Name: "prod"}},
	}
	require.NotNil(t, spec.Find("prod"))
	assert.Nil(t, spec.Find("absent"))
}
