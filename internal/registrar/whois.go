package registrar

import (
	"context"
	"strings"
)

// Whois serves resolved WHOIS views keyed by domain name. Lookups are
// public: WHOIS data carries no credential and needs no requester.
type Whois struct {
	domains  DomainStore
	users    UserStore
	settings *Settings
}

func NewWhois(domains DomainStore, users UserStore, settings *Settings) *Whois {
	return &Whois{domains: domains, users: users, settings: settings}
}

// Lookup resolves one domain by name. A missing domain is a
// NotFoundError; callers render the negative WHOIS response from it.
func (s *Whois) Lookup(ctx context.Context, name string) (*ResolvedWhois, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, &ValidationError{Entity: "whois", Field: "domain", Reason: "domain name required"}
	}

	d, err := s.domains.DomainByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &NotFoundError{Entity: "domain", Name: name}
	}

	owner, err := s.users.UserByID(ctx, d.OwnerID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	resolved := Resolve(d, owner, cfg)
	return &resolved, nil
}
