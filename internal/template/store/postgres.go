package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// Postgres keeps one row per slot in template_slots.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS template_slots (
		slot       TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Migrate creates the slots table if it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("creating template_slots: %w", err)
	}

	return nil
}

func (p *Postgres) Get(ctx context.Context, slot string) ([]byte, error) {
	var data []byte

	err := p.db.QueryRowContext(ctx, `SELECT data FROM template_slots WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, template.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("querying slot %s: %w", slot, err)
	}

	return data, nil
}

func (p *Postgres) Set(ctx context.Context, slot string, data []byte) error {
	query := `
		INSERT INTO template_slots (slot, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := p.db.ExecContext(ctx, query, slot, data); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}

	return nil
}
