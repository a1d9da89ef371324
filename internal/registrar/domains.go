package registrar

import (
	"context"
	"strings"
	"time"

	"lanreg/internal/model"
)

// fallbackExpiryDays applies when no registrar configuration has been
// saved yet.
const fallbackExpiryDays = 365

// Registry owns domain lifecycle: registration, listing, deletion and
// registrant override updates.
type Registry struct {
	domains  DomainStore
	users    UserStore
	settings SettingsStore
	gate     Gate
	now      func() time.Time
}

func NewRegistry(domains DomainStore, users UserStore, settings SettingsStore) *Registry {
	return &Registry{domains: domains, users: users, settings: settings, now: time.Now}
}

// Create registers a domain. The owner defaults to the requester; only
// admins may register on behalf of another user. The expiry is
// persisted here, at creation time, from the configured default.
func (s *Registry) Create(ctx context.Context, req Requester, name string, ownerID int64) (*model.Domain, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := ValidateDomainName(name); err != nil {
		return nil, err
	}

	if ownerID == 0 {
		ownerID = req.UserID
	}
	if ownerID != req.UserID {
		if err := s.gate.AdminOnly(req).Err(); err != nil {
			return nil, err
		}
	}

	owner, err := s.users.UserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &NotFoundError{Entity: "user", ID: ownerID}
	}

	if existing, err := s.domains.DomainByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &ConflictError{Entity: "domain", Field: "name", Value: name}
	}

	expiryDays := fallbackExpiryDays
	if cfg, err := s.settings.RegistrarConfig(ctx); err != nil {
		return nil, err
	} else if cfg != nil && cfg.DefaultExpiryDays > 0 {
		expiryDays = cfg.DefaultExpiryDays
	}

	now := s.now().UTC()
	d := &model.Domain{
		Name:      name,
		OwnerID:   ownerID,
		Status:    model.DomainActive,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.AddDate(0, 0, expiryDays),
	}
	// The pre-check above races with concurrent creates; the store's
	// unique index decides the winner and reports ConflictError here.
	if err := s.domains.CreateDomain(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one domain, visible to its owner and to admins.
func (s *Registry) Get(ctx context.Context, req Requester, id int64) (*model.Domain, error) {
	d, err := s.domains.DomainByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &NotFoundError{Entity: "domain", ID: id}
	}
	if err := s.gate.DomainAccess(req, d.OwnerID).Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns every domain for admins and only owned domains
// otherwise, ordered by creation time ascending.
func (s *Registry) List(ctx context.Context, req Requester) ([]model.Domain, error) {
	if req.IsAdmin() {
		return s.domains.Domains(ctx)
	}
	return s.domains.DomainsByOwner(ctx, req.UserID)
}

// Delete removes a domain and cascades to all of its records.
func (s *Registry) Delete(ctx context.Context, req Requester, id int64) error {
	d, err := s.domains.DomainByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return &NotFoundError{Entity: "domain", ID: id}
	}
	if err := s.gate.DomainAccess(req, d.OwnerID).Err(); err != nil {
		return err
	}
	return s.domains.DeleteDomain(ctx, id)
}

// ContactPatch is a partial update of one contact block. Nil fields are
// left unchanged; empty strings clear the override so the field
// inherits again.
type ContactPatch struct {
	Name    *string `json:"name"`
	Org     *string `json:"org"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Country *string `json:"country"`
}

type RegistrantPatch struct {
	Registrant ContactPatch `json:"registrant"`
	Admin      ContactPatch `json:"admin"`
	Tech       ContactPatch `json:"tech"`
}

// UpdateRegistrant applies a partial update to the override blocks.
// The domain's name and owner are immutable through this path.
func (s *Registry) UpdateRegistrant(ctx context.Context, req Requester, id int64, patch RegistrantPatch) (*model.Domain, error) {
	d, err := s.domains.DomainByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &NotFoundError{Entity: "domain", ID: id}
	}
	if err := s.gate.DomainAccess(req, d.OwnerID).Err(); err != nil {
		return nil, err
	}

	applyContactPatch(&d.Registrant, patch.Registrant)
	applyContactPatch(&d.Admin, patch.Admin)
	applyContactPatch(&d.Tech, patch.Tech)

	for _, block := range []struct {
		entity string
		c      model.Contact
	}{
		{"registrant", d.Registrant},
		{"admin_contact", d.Admin},
		{"tech_contact", d.Tech},
	} {
		if err := ValidateContact(block.entity, block.c); err != nil {
			return nil, err
		}
	}

	d.UpdatedAt = s.now().UTC()
	if err := s.domains.UpdateDomainContacts(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func applyContactPatch(c *model.Contact, p ContactPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Name, p.Name)
	set(&c.Org, p.Org)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.Zip, p.Zip)
	set(&c.Country, p.Country)
}
