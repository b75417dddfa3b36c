package orgspec

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Spec is the desired state of the organization's member accounts.
	Spec struct {
		// DefaultDomain supplies the domain part of an account's root email
		// when the account entry does not set one explicitly.
		DefaultDomain string        `yaml:"default_domain"`
		Accounts      []AccountSpec `yaml:"accounts"`
	}

	// AccountSpec describes a single managed account. Name is the natural
	// key used to match spec entries against deployed accounts.
	AccountSpec struct {
		Name  string `yaml:"Name"`
		Email string `yaml:"Email,omitempty"`
		Alias string `yaml:"Alias,omitempty"`
	}
)

// Load reads and validates an account specification file.
func Load(path string) (*Spec, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read account spec %s", path)
	}
	return Parse(f)
}

// Parse unmarshals and validates spec document contents.
func Parse(content []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(content, spec); err != nil {
		return nil, errors.Wrap(err, "could not parse account spec")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *Spec) Validate() error {
	if len(s.Accounts) == 0 {
		return errors.New("account spec contains no accounts")
	}
	seen := make(map[string]struct{}, len(s.Accounts))
	for i, a := range s.Accounts {
		if a.Name == "" {
			return errors.Errorf("account entry %d has no Name", i)
		}
		if _, dup := seen[a.Name]; dup {
			return errors.Errorf("duplicate account Name %q", a.Name)
		}
		seen[a.Name] = struct{}{}
		if a.Email == "" && s.DefaultDomain == "" {
			return errors.Errorf("account %q has no Email and no default_domain is set", a.Name)
		}
	}
	return nil
}

// Find returns the entry for the given account name, or nil when the
// account is not managed by this spec.
func (s *Spec) Find(name string) *AccountSpec {
	for i := range s.Accounts {
		if s.Accounts[i].Name == name {
			return &s.Accounts[i]
		}
	}
	return nil
}

// EmailFor resolves the root email for an account entry, deriving
// Name@default_domain when no explicit Email is given.
func (s *Spec) EmailFor(a AccountSpec) string {
	if a.Email != "" {
		return a.Email
	}
	return a.Name + "@" + s.DefaultDomain
}

// AliasFor resolves the IAM alias for an account name: the spec entry's
// Alias if set, otherwise the lowercased account name.
func (s *Spec) AliasFor(name string) string {
	if a := s.Find(name); a != nil && a.Alias != "" {
		return a.Alias
	}
	return strings.ToLower(name)
}
