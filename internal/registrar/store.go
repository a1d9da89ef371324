package registrar

import (
	"context"

	"lanreg/internal/model"
)

// The store interfaces are the persistence collaborator boundary. The
// postgres implementation lives in internal/database; tests use an
// in-memory fake. Lookups return (nil, nil) when the row is absent, and
// CreateDomain / CreateUser return a ConflictError on a uniqueness
// violation. Any other failure is an infrastructure error and passes
// through unchanged.
type DomainStore interface {
	CreateDomain(ctx context.Context, d *model.Domain) error
	DomainByID(ctx context.Context, id int64) (*model.Domain, error)
	DomainByName(ctx context.Context, name string) (*model.Domain, error)
	Domains(ctx context.Context) ([]model.Domain, error)
	DomainsByOwner(ctx context.Context, ownerID int64) ([]model.Domain, error)
	UpdateDomainContacts(ctx context.Context, d *model.Domain) error
	// DeleteDomain removes the domain and all of its records atomically.
	DeleteDomain(ctx context.Context, id int64) error
}

type RecordStore interface {
	CreateRecord(ctx context.Context, rec *model.DNSRecord) error
	RecordByID(ctx context.Context, id int64) (*model.DNSRecord, error)
	// RecordsByDomain returns records in insertion order.
	RecordsByDomain(ctx context.Context, domainID int64) ([]model.DNSRecord, error)
	UpdateRecord(ctx context.Context, rec *model.DNSRecord) error
	DeleteRecord(ctx context.Context, id int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	CountAdmins(ctx context.Context) (int, error)
}

type SettingsStore interface {
	// RegistrarConfig returns (nil, nil) when no row has been saved yet.
	RegistrarConfig(ctx context.Context) (*model.RegistrarConfig, error)
	SaveRegistrarConfig(ctx context.Context, cfg *model.RegistrarConfig) error
}
