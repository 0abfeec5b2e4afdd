package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Repository is the sqlite-backed durable store. It holds exactly one
// credential slot so a restart does not force re-login.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS credentials (
  slot INTEGER PRIMARY KEY CHECK (slot = 1),
  access_token TEXT NOT NULL,
  saved_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) CheckWritable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS write_probe (k INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DROP TABLE write_probe`); err != nil {
		return fmt.Errorf("write probe cleanup: %w", err)
	}
	return nil
}

// LoadCredential returns the stored token, or "" when the slot is empty.
func (r *Repository) LoadCredential(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT access_token FROM credentials WHERE slot = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return token, nil
}

// SaveCredential replaces the slot wholesale.
func (r *Repository) SaveCredential(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO credentials (slot, access_token, saved_at)
VALUES (1, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
  access_token=excluded.access_token,
  saved_at=excluded.saved_at
`, token, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (r *Repository) ClearCredential(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE slot = 1`)
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
