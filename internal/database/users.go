package database

import (
	"context"
	"database/sql"

	"lanreg/internal/model"
	"lanreg/internal/registrar"
)

const userCols = `id, username, pass_hash, role, auth_source, created_at, updated_at,
	contact_name, contact_org, contact_email, contact_phone, contact_address,
	contact_city, contact_state, contact_zip, contact_country`

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PassHash, &u.Role, &u.AuthSource, &u.CreatedAt, &u.UpdatedAt,
		&u.Contact.Name, &u.Contact.Org, &u.Contact.Email, &u.Contact.Phone, &u.Contact.Address,
		&u.Contact.City, &u.Contact.State, &u.Contact.Zip, &u.Contact.Country,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, pass_hash, role, auth_source, created_at, updated_at,
			contact_name, contact_org, contact_email, contact_phone, contact_address,
			contact_city, contact_state, contact_zip, contact_country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		u.Username, u.PassHash, u.Role, u.AuthSource, u.CreatedAt, u.UpdatedAt,
		u.Contact.Name, u.Contact.Org, u.Contact.Email, u.Contact.Phone, u.Contact.Address,
		u.Contact.City, u.Contact.State, u.Contact.Zip, u.Contact.Country,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return &registrar.ConflictError{Entity: "user", Field: "username", Value: u.Username}
	}
	return err
}

func (db *DB) UserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (db *DB) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username = $1", username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (db *DB) Users(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, u *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET pass_hash = $1, role = $2, updated_at = $3,
			contact_name = $4, contact_org = $5, contact_email = $6,
			contact_phone = $7, contact_address = $8, contact_city = $9,
			contact_state = $10, contact_zip = $11, contact_country = $12
		 WHERE id = $13`,
		u.PassHash, u.Role, u.UpdatedAt,
		u.Contact.Name, u.Contact.Org, u.Contact.Email,
		u.Contact.Phone, u.Contact.Address, u.Contact.City,
		u.Contact.State, u.Contact.Zip, u.Contact.Country,
		u.ID,
	)
	return err
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

func (db *DB) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = $1", model.RoleAdmin).Scan(&n)
	return n, err
}

// CreateLDAPUser provisions or refreshes a directory-backed account on
// successful LDAP login.
func (db *DB) CreateLDAPUser(ctx context.Context, username, role string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, pass_hash, role, auth_source)
		 VALUES ($1, '', $2, 'ldap')
		 ON CONFLICT(username) DO UPDATE SET
		   role = $2, auth_source = 'ldap', updated_at = NOW()`,
		username, role,
	)
	return err
}
