package registrar

import (
	"context"
	"testing"
)

func TestWhoisLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	whois := NewWhois(f.store, f.store, f.settings)

	if _, err := whois.Lookup(ctx, "home.lan"); !IsNotFound(err) {
		t.Errorf("unregistered name: got %v, want NotFoundError", err)
	}
	if _, err := whois.Lookup(ctx, "  "); !IsValidation(err) {
		t.Errorf("blank query: got %v, want ValidationError", err)
	}

	if _, err := f.registry.Create(ctx, f.user, "home.lan", 0); err != nil {
		t.Fatalf("create: %v", err)
	}

	w, err := whois.Lookup(ctx, "HOME.LAN")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if w.DomainName != "home.lan" {
		t.Errorf("name: got %q", w.DomainName)
	}
	// alice has a profile email, so the registrant block inherits it.
	if w.Registrant.Email != "alice@lan.home" {
		t.Errorf("inherited email: got %q", w.Registrant.Email)
	}
	if w.RegistrarName != DefaultRegistrarConfig().RegistrarName {
		t.Errorf("registrar fields missing: %+v", w)
	}
}
