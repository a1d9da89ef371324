package database

import (
	"context"
	"database/sql"

	"lanreg/internal/model"
)

// The registrar_config table holds at most one row, keyed id = 1.

func (db *DB) RegistrarConfig(ctx context.Context) (*model.RegistrarConfig, error) {
	var cfg model.RegistrarConfig
	err := db.conn.QueryRowContext(ctx,
		`SELECT registrar_name, registrar_url, registrar_email, registrar_phone,
		        registrar_iana_id, abuse_contact_email, abuse_contact_phone,
		        whois_server, nameserver1, nameserver2, default_ttl, default_expiry_days
		 FROM registrar_config WHERE id = 1`,
	).Scan(&cfg.RegistrarName, &cfg.RegistrarURL, &cfg.RegistrarEmail, &cfg.RegistrarPhone,
		&cfg.RegistrarIANAID, &cfg.AbuseContactEmail, &cfg.AbuseContactPhone,
		&cfg.WhoisServer, &cfg.NameServer1, &cfg.NameServer2, &cfg.DefaultTTL, &cfg.DefaultExpiryDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (db *DB) SaveRegistrarConfig(ctx context.Context, cfg *model.RegistrarConfig) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO registrar_config (id, registrar_name, registrar_url, registrar_email,
		        registrar_phone, registrar_iana_id, abuse_contact_email, abuse_contact_phone,
		        whois_server, nameserver1, nameserver2, default_ttl, default_expiry_days)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		        registrar_name = $1, registrar_url = $2, registrar_email = $3,
		        registrar_phone = $4, registrar_iana_id = $5, abuse_contact_email = $6,
		        abuse_contact_phone = $7, whois_server = $8, nameserver1 = $9,
		        nameserver2 = $10, default_ttl = $11, default_expiry_days = $12`,
		cfg.RegistrarName, cfg.RegistrarURL, cfg.RegistrarEmail, cfg.RegistrarPhone,
		cfg.RegistrarIANAID, cfg.AbuseContactEmail, cfg.AbuseContactPhone,
		cfg.WhoisServer, cfg.NameServer1, cfg.NameServer2, cfg.DefaultTTL, cfg.DefaultExpiryDays)
	return err
}
