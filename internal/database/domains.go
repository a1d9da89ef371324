package database

import (
	"context"
	"database/sql"

	"lanreg/internal/model"
	"lanreg/internal/registrar"
)

const domainCols = `id, name, owner_id, status, created_at, updated_at, expires_at,
	registrant_name, registrant_org, registrant_email, registrant_phone, registrant_address,
	registrant_city, registrant_state, registrant_zip, registrant_country,
	admin_name, admin_org, admin_email, admin_phone, admin_address,
	admin_city, admin_state, admin_zip, admin_country,
	tech_name, tech_org, tech_email, tech_phone, tech_address,
	tech_city, tech_state, tech_zip, tech_country`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDomain(row rowScanner) (*model.Domain, error) {
	var d model.Domain
	var expires sql.NullTime
	err := row.Scan(
		&d.ID, &d.Name, &d.OwnerID, &d.Status, &d.CreatedAt, &d.UpdatedAt, &expires,
		&d.Registrant.Name, &d.Registrant.Org, &d.Registrant.Email, &d.Registrant.Phone, &d.Registrant.Address,
		&d.Registrant.City, &d.Registrant.State, &d.Registrant.Zip, &d.Registrant.Country,
		&d.Admin.Name, &d.Admin.Org, &d.Admin.Email, &d.Admin.Phone, &d.Admin.Address,
		&d.Admin.City, &d.Admin.State, &d.Admin.Zip, &d.Admin.Country,
		&d.Tech.Name, &d.Tech.Org, &d.Tech.Email, &d.Tech.Phone, &d.Tech.Address,
		&d.Tech.City, &d.Tech.State, &d.Tech.Zip, &d.Tech.Country,
	)
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		d.ExpiresAt = expires.Time
	}
	return &d, nil
}

func (db *DB) CreateDomain(ctx context.Context, d *model.Domain) error {
	var expires sql.NullTime
	if !d.ExpiresAt.IsZero() {
		expires = sql.NullTime{Time: d.ExpiresAt, Valid: true}
	}
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO domains (name, owner_id, status, created_at, updated_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		d.Name, d.OwnerID, d.Status, d.CreatedAt, d.UpdatedAt, expires,
	).Scan(&d.ID)
	if isUniqueViolation(err) {
		return &registrar.ConflictError{Entity: "domain", Field: "name", Value: d.Name}
	}
	return err
}

func (db *DB) DomainByID(ctx context.Context, id int64) (*model.Domain, error) {
	d, err := scanDomain(db.conn.QueryRowContext(ctx,
		"SELECT "+domainCols+" FROM domains WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (db *DB) DomainByName(ctx context.Context, name string) (*model.Domain, error) {
	d, err := scanDomain(db.conn.QueryRowContext(ctx,
		"SELECT "+domainCols+" FROM domains WHERE lower(name) = lower($1)", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (db *DB) Domains(ctx context.Context) ([]model.Domain, error) {
	return db.queryDomains(ctx, "SELECT "+domainCols+" FROM domains ORDER BY created_at, id")
}

func (db *DB) DomainsByOwner(ctx context.Context, ownerID int64) ([]model.Domain, error) {
	return db.queryDomains(ctx,
		"SELECT "+domainCols+" FROM domains WHERE owner_id = $1 ORDER BY created_at, id", ownerID)
}

func (db *DB) queryDomains(ctx context.Context, query string, args ...any) ([]model.Domain, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []model.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, *d)
	}
	return domains, rows.Err()
}

func (db *DB) UpdateDomainContacts(ctx context.Context, d *model.Domain) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE domains SET
			registrant_name = $1, registrant_org = $2, registrant_email = $3,
			registrant_phone = $4, registrant_address = $5, registrant_city = $6,
			registrant_state = $7, registrant_zip = $8, registrant_country = $9,
			admin_name = $10, admin_org = $11, admin_email = $12,
			admin_phone = $13, admin_address = $14, admin_city = $15,
			admin_state = $16, admin_zip = $17, admin_country = $18,
			tech_name = $19, tech_org = $20, tech_email = $21,
			tech_phone = $22, tech_address = $23, tech_city = $24,
			tech_state = $25, tech_zip = $26, tech_country = $27,
			updated_at = $28
		 WHERE id = $29`,
		d.Registrant.Name, d.Registrant.Org, d.Registrant.Email,
		d.Registrant.Phone, d.Registrant.Address, d.Registrant.City,
		d.Registrant.State, d.Registrant.Zip, d.Registrant.Country,
		d.Admin.Name, d.Admin.Org, d.Admin.Email,
		d.Admin.Phone, d.Admin.Address, d.Admin.City,
		d.Admin.State, d.Admin.Zip, d.Admin.Country,
		d.Tech.Name, d.Tech.Org, d.Tech.Email,
		d.Tech.Phone, d.Tech.Address, d.Tech.City,
		d.Tech.State, d.Tech.Zip, d.Tech.Country,
		d.UpdatedAt, d.ID,
	)
	return err
}

// DeleteDomain relies on the records foreign key's ON DELETE CASCADE,
// so the domain and its records disappear in one atomic statement.
func (db *DB) DeleteDomain(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM domains WHERE id = $1", id)
	return err
}
