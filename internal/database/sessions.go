package database

import (
	"context"
	"database/sql"

	"lanreg/internal/model"
)

func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (token, csrf_token, username, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.Token, s.CSRFToken, s.Username, s.CreatedAt, s.ExpiresAt)
	return err
}

func (db *DB) SessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := db.conn.QueryRowContext(ctx,
		`SELECT token, csrf_token, username, created_at, expires_at FROM sessions WHERE token = $1`,
		token).Scan(&s.Token, &s.CSRFToken, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (db *DB) DeleteExpiredSessions(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	return err
}
