package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresSlot persists slot payloads in the storefront_state table.
type PostgresSlot struct {
	db *sql.DB
}

func NewPostgresSlot(db *sql.DB) *PostgresSlot {
	return &PostgresSlot{db: db}
}

func (p *PostgresSlot) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT payload FROM storefront_state WHERE name = $1`

	var payload []byte
	err := p.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select state %s: %w", name, err)
	}
	return payload, nil
}

func (p *PostgresSlot) Save(ctx context.Context, name string, data []byte) error {
	const query = `
INSERT INTO storefront_state (name, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = NOW()
`
	if _, err := p.db.ExecContext(ctx, query, name, data); err != nil {
		return fmt.Errorf("upsert state %s: %w", name, err)
	}
	return nil
}
