package database

import (
	"context"
	"time"

	"lanreg/internal/model"
)

func (db *DB) LogAudit(ctx context.Context, e *model.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO audit_log (username, action, domain_id, domain_name, record_name,
		        record_type, detail, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.Username, e.Action, e.DomainID, e.DomainName, e.RecordName,
		e.RecordType, e.Detail, e.IPAddress, e.CreatedAt)
	return err
}

// ListAuditLog returns a page of entries, newest first, plus the total
// row count for pagination.
func (db *DB) ListAuditLog(ctx context.Context, limit, offset int) ([]model.AuditEntry, int, error) {
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, action, domain_id, domain_name, record_name,
		        record_type, detail, ip_address, created_at
		 FROM audit_log ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.DomainID, &e.DomainName,
			&e.RecordName, &e.RecordType, &e.Detail, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
