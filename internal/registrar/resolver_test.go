package registrar

import (
	"strings"
	"testing"
	"time"

	"lanreg/internal/model"
)

func testConfig() *model.RegistrarConfig {
	return &model.RegistrarConfig{
		RegistrarName:     "Test Registrar",
		RegistrarURL:      "https://registrar.lan",
		RegistrarEmail:    "registrar@lan",
		RegistrarIANAID:   "9999",
		AbuseContactEmail: "abuse@registrar.lan",
		WhoisServer:       "whois.lan",
		NameServer1:       "ns1.lan",
		NameServer2:       "ns2.lan",
		DefaultTTL:        3600,
		DefaultExpiryDays: 365,
	}
}

func TestResolveOverridePrecedence(t *testing.T) {
	owner := &model.User{ID: 7, Contact: model.Contact{Email: "b@y.lan", Name: "Owner Person"}}
	d := &model.Domain{
		ID:         1,
		Name:       "home.lan",
		OwnerID:    7,
		Registrant: model.Contact{Email: "a@x.lan"},
	}

	w := Resolve(d, owner, testConfig())
	if w.Registrant.Email != "a@x.lan" {
		t.Errorf("override email: got %q, want a@x.lan", w.Registrant.Email)
	}
	if w.Registrant.Name != "Owner Person" {
		t.Errorf("fallback name: got %q, want owner's name", w.Registrant.Name)
	}

	d.Registrant.Email = ""
	w = Resolve(d, owner, testConfig())
	if w.Registrant.Email != "b@y.lan" {
		t.Errorf("fallback email: got %q, want b@y.lan", w.Registrant.Email)
	}

	owner.Contact.Email = ""
	w = Resolve(d, owner, testConfig())
	if w.Registrant.Email != NotSet {
		t.Errorf("empty email: got %q, want %q", w.Registrant.Email, NotSet)
	}
}

func TestResolveAdminTechFallBackToRegistrant(t *testing.T) {
	owner := &model.User{ID: 7, Contact: model.Contact{Phone: "+1.555"}}
	d := &model.Domain{
		ID:         1,
		Name:       "home.lan",
		OwnerID:    7,
		Registrant: model.Contact{Name: "Reg Name"},
		Admin:      model.Contact{Email: "admin@home.lan"},
	}

	w := Resolve(d, owner, testConfig())
	if w.Admin.Name != "Reg Name" {
		t.Errorf("admin name should fall back to registrant, got %q", w.Admin.Name)
	}
	if w.Admin.Email != "admin@home.lan" {
		t.Errorf("admin email override lost, got %q", w.Admin.Email)
	}
	if w.Admin.Phone != "+1.555" {
		t.Errorf("admin phone should chain through registrant to owner, got %q", w.Admin.Phone)
	}
	if w.Tech.Name != "Reg Name" {
		t.Errorf("tech name should fall back to registrant, got %q", w.Tech.Name)
	}
}

func TestResolveExpiryFallback(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	d := &model.Domain{ID: 1, Name: "home.lan", CreatedAt: created}

	w := Resolve(d, nil, testConfig())
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !w.ExpiresAt.Equal(want) {
		t.Errorf("expiry fallback: got %v, want %v", w.ExpiresAt, want)
	}

	d.ExpiresAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w = Resolve(d, nil, testConfig())
	if !w.ExpiresAt.Equal(d.ExpiresAt) {
		t.Errorf("persisted expiry must be used verbatim, got %v", w.ExpiresAt)
	}

	// Pre-epoch garbage falls back too.
	d.ExpiresAt = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	w = Resolve(d, nil, testConfig())
	if !w.ExpiresAt.Equal(want) {
		t.Errorf("pre-1970 expiry: got %v, want fallback %v", w.ExpiresAt, want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	owner := &model.User{ID: 7, Contact: model.Contact{Email: "o@lan", Name: "O"}}
	d := &model.Domain{
		ID:         3,
		Name:       "Mixed.Case.LAN",
		OwnerID:    7,
		Status:     model.DomainActive,
		CreatedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Registrant: model.Contact{Org: "Home Lab"},
	}

	a := Resolve(d, owner, testConfig())
	b := Resolve(d, owner, testConfig())
	if a != b {
		t.Fatalf("resolve is not deterministic: %+v vs %+v", a, b)
	}

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if FormatText(a, now) != FormatText(b, now) {
		t.Fatal("formatted output differs for identical inputs")
	}
}

func TestResolveCopiesRegistrarFields(t *testing.T) {
	cfg := testConfig()
	d := &model.Domain{ID: 1, Name: "home.lan"}
	w := Resolve(d, nil, cfg)

	if w.RegistrarName != cfg.RegistrarName || w.WhoisServer != cfg.WhoisServer ||
		w.NameServer1 != cfg.NameServer1 || w.NameServer2 != cfg.NameServer2 ||
		w.RegistrarIANAID != cfg.RegistrarIANAID {
		t.Errorf("registrar fields not copied verbatim: %+v", w)
	}
}

func TestFormatText(t *testing.T) {
	d := &model.Domain{
		ID:        4,
		Name:      "home.lan",
		Status:    model.DomainActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	owner := &model.User{Contact: model.Contact{Name: "Home Admin"}}
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	text := FormatText(Resolve(d, owner, testConfig()), now)
	for _, want := range []string{
		"Domain Name: HOME.LAN",
		"Registrar: Test Registrar",
		"Registrant Name: Home Admin",
		"Registry Expiry Date: 2025-01-01T00:00:00Z",
		"Name Server: ns1.lan",
		"Domain Status: active https://icann.org/epp#active",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestFormatNotFound(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := FormatNotFound("nosuch.lan", now)
	if !strings.Contains(out, `No match for domain "nosuch.lan"`) {
		t.Errorf("unexpected not-found body: %s", out)
	}
}
