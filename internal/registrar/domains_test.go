package registrar

import (
	"context"
	"sync"
	"testing"
	"time"

	"lanreg/internal/model"
)

type fixture struct {
	store    *memStore
	registry *Registry
	records  *RecordSet
	accounts *Accounts
	settings *Settings
	admin    Requester
	user     Requester
	other    Requester
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	adminU := store.addUser("root", model.RoleAdmin, model.Contact{Email: "root@lan.home"})
	userU := store.addUser("alice", model.RoleUser, model.Contact{Email: "alice@lan.home", Name: "Alice"})
	otherU := store.addUser("bob", model.RoleUser, model.Contact{})
	return &fixture{
		store:    store,
		registry: NewRegistry(store, store, store),
		records:  NewRecordSet(store, store, store),
		accounts: NewAccounts(store),
		settings: NewSettings(store),
		admin:    Requester{UserID: adminU.ID, Role: adminU.Role},
		user:     Requester{UserID: userU.ID, Role: userU.Role},
		other:    Requester{UserID: otherU.ID, Role: otherU.Role},
	}
}

func TestCreateDomain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.registry.Create(ctx, f.user, "Home.LAN", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Name != "home.lan" {
		t.Errorf("name not normalized: %q", d.Name)
	}
	if d.OwnerID != f.user.UserID {
		t.Errorf("owner: got %d, want requester", d.OwnerID)
	}
	if d.Status != model.DomainActive {
		t.Errorf("status: got %q, want active", d.Status)
	}
	if d.ExpiresAt.IsZero() {
		t.Error("expiry must be persisted at creation")
	}
	wantExpiry := d.CreatedAt.AddDate(0, 0, 365)
	if !d.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiry: got %v, want %v", d.ExpiresAt, wantExpiry)
	}

	all, err := f.registry.List(ctx, f.admin)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].Name != "home.lan" || all[0].OwnerID != f.user.UserID {
		t.Errorf("admin listing missing new domain: %+v", all)
	}
}

func TestCreateDomainUsesConfiguredExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg := DefaultRegistrarConfig()
	cfg.DefaultExpiryDays = 30
	if _, err := f.settings.Update(ctx, f.admin, *cfg); err != nil {
		t.Fatalf("settings update: %v", err)
	}

	d, err := f.registry.Create(ctx, f.user, "short.lan", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := d.CreatedAt.AddDate(0, 0, 30); !d.ExpiresAt.Equal(want) {
		t.Errorf("expiry: got %v, want %v", d.ExpiresAt, want)
	}
}

func TestCreateDomainValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"", "nodots", "-x.lan"} {
		if _, err := f.registry.Create(ctx, f.user, name, 0); !IsValidation(err) {
			t.Errorf("Create(%q): got %v, want ValidationError", name, err)
		}
	}
}

func TestCreateDomainConflictCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.registry.Create(ctx, f.user, "home.lan", 0); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.registry.Create(ctx, f.other, "HOME.lan", 0); !IsConflict(err) {
		t.Errorf("duplicate create: got %v, want ConflictError", err)
	}
}

func TestCreateDomainForOther(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.registry.Create(ctx, f.user, "steal.lan", f.other.UserID); !IsForbidden(err) {
		t.Errorf("non-admin creating for another owner: got %v, want ForbiddenError", err)
	}

	d, err := f.registry.Create(ctx, f.admin, "granted.lan", f.user.UserID)
	if err != nil {
		t.Fatalf("admin create for user: %v", err)
	}
	if d.OwnerID != f.user.UserID {
		t.Errorf("owner: got %d, want %d", d.OwnerID, f.user.UserID)
	}

	if _, err := f.registry.Create(ctx, f.admin, "ghost.lan", 999); !IsNotFound(err) {
		t.Errorf("unknown owner: got %v, want NotFoundError", err)
	}
}

func TestConcurrentDuplicateCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	requesters := []Requester{f.user, f.other}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.registry.Create(ctx, requesters[i], "dup.lan", 0)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case IsConflict(err):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly one of each", ok, conflict)
	}
}

func TestListDomainsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustCreate := func(req Requester, name string) {
		t.Helper()
		if _, err := f.registry.Create(ctx, req, name, 0); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		time.Sleep(time.Millisecond)
	}
	mustCreate(f.user, "a.lan")
	mustCreate(f.other, "b.lan")
	mustCreate(f.user, "c.lan")

	mine, err := f.registry.List(ctx, f.user)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, d := range mine {
		if d.OwnerID != f.user.UserID {
			t.Errorf("listing leaked foreign domain %q (owner %d)", d.Name, d.OwnerID)
		}
	}
	if len(mine) != 2 || mine[0].Name != "a.lan" || mine[1].Name != "c.lan" {
		t.Errorf("ordering or scope wrong: %+v", mine)
	}

	all, err := f.registry.List(ctx, f.admin)
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(all) != 3 || all[0].Name != "a.lan" || all[2].Name != "c.lan" {
		t.Errorf("admin listing not creation-ordered: %+v", all)
	}
}

func TestDeleteDomainCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.registry.Create(ctx, f.user, "home.lan", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, content := range []string{"10.0.0.1", "10.0.0.2"} {
		if _, err := f.records.Add(ctx, f.user, d.ID, model.DNSRecord{Name: "@", Type: "A", Content: content}); err != nil {
			t.Fatalf("add record: %v", err)
		}
	}

	if err := f.registry.Delete(ctx, f.other, d.ID); !IsForbidden(err) {
		t.Errorf("foreign delete: got %v, want ForbiddenError", err)
	}
	if err := f.registry.Delete(ctx, f.user, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.records.List(ctx, f.admin, d.ID); !IsNotFound(err) {
		t.Errorf("records of deleted domain: got %v, want NotFoundError", err)
	}
	if err := f.registry.Delete(ctx, f.user, d.ID); !IsNotFound(err) {
		t.Errorf("double delete: got %v, want NotFoundError", err)
	}
}

func TestUpdateRegistrantPartialPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.registry.Create(ctx, f.user, "home.lan", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "custom@home.lan"
	updated, err := f.registry.UpdateRegistrant(ctx, f.user, d.ID, RegistrantPatch{
		Registrant: ContactPatch{Email: &email},
	})
	if err != nil {
		t.Fatalf("UpdateRegistrant: %v", err)
	}
	if updated.Registrant.Email != email {
		t.Errorf("email: got %q", updated.Registrant.Email)
	}
	if updated.Name != "home.lan" || updated.OwnerID != d.OwnerID {
		t.Error("name/owner must be immutable through the registrant path")
	}

	// Unmentioned fields stay, empty string clears back to inherit.
	name := "Lab"
	updated, err = f.registry.UpdateRegistrant(ctx, f.user, d.ID, RegistrantPatch{
		Registrant: ContactPatch{Name: &name},
	})
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}
	if updated.Registrant.Email != email || updated.Registrant.Name != "Lab" {
		t.Errorf("partial patch clobbered fields: %+v", updated.Registrant)
	}

	empty := ""
	updated, err = f.registry.UpdateRegistrant(ctx, f.user, d.ID, RegistrantPatch{
		Registrant: ContactPatch{Email: &empty},
	})
	if err != nil {
		t.Fatalf("clear patch: %v", err)
	}
	if updated.Registrant.Email != "" {
		t.Errorf("clearing override failed: %q", updated.Registrant.Email)
	}

	if _, err := f.registry.UpdateRegistrant(ctx, f.other, d.ID, RegistrantPatch{}); !IsForbidden(err) {
		t.Errorf("foreign update: got %v, want ForbiddenError", err)
	}

	bad := "not-an-email"
	if _, err := f.registry.UpdateRegistrant(ctx, f.user, d.ID, RegistrantPatch{
		Registrant: ContactPatch{Email: &bad},
	}); !IsValidation(err) {
		t.Errorf("bad email: got %v, want ValidationError", err)
	}
}
