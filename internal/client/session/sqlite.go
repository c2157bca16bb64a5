package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/infokelas/kelascli/internal/dbx"
)

// SQLiteTier is the durable tier: a tiny key-value table in a sqlite file
// under the user's config directory, so the session survives restarts.
type SQLiteTier struct {
	db *sql.DB
}

func NewSQLiteTier(db *sql.DB) *SQLiteTier {
	return &SQLiteTier{db: db}
}

func (t *SQLiteTier) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := t.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

// Put upserts all entries in a single transaction so the token and the user
// snapshot can never be observed half-written.
func (t *SQLiteTier) Put(ctx context.Context, entries map[string][]byte) error {
	return dbx.WithTx(ctx, t.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, key, value)
			if err != nil {
				return fmt.Errorf("failed to set session[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (t *SQLiteTier) Clear(ctx context.Context) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
