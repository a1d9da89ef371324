package database

import (
	"context"
	"database/sql"

	"lanreg/internal/model"
)

const recordCols = "id, domain_id, name, type, content, ttl, priority, disabled, created_at"

func scanRecord(row rowScanner) (*model.DNSRecord, error) {
	var r model.DNSRecord
	err := row.Scan(&r.ID, &r.DomainID, &r.Name, &r.Type, &r.Content,
		&r.TTL, &r.Priority, &r.Disabled, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) CreateRecord(ctx context.Context, rec *model.DNSRecord) error {
	return db.conn.QueryRowContext(ctx,
		`INSERT INTO records (domain_id, name, type, content, ttl, priority, disabled, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		rec.DomainID, rec.Name, rec.Type, rec.Content, rec.TTL, rec.Priority, rec.Disabled, rec.CreatedAt,
	).Scan(&rec.ID)
}

func (db *DB) RecordByID(ctx context.Context, id int64) (*model.DNSRecord, error) {
	r, err := scanRecord(db.conn.QueryRowContext(ctx,
		"SELECT "+recordCols+" FROM records WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (db *DB) RecordsByDomain(ctx context.Context, domainID int64) ([]model.DNSRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+recordCols+" FROM records WHERE domain_id = $1 ORDER BY id", domainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.DNSRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (db *DB) UpdateRecord(ctx context.Context, rec *model.DNSRecord) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE records SET name = $1, type = $2, content = $3, ttl = $4, priority = $5, disabled = $6
		 WHERE id = $7`,
		rec.Name, rec.Type, rec.Content, rec.TTL, rec.Priority, rec.Disabled, rec.ID,
	)
	return err
}

func (db *DB) DeleteRecord(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM records WHERE id = $1", id)
	return err
}
