package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

func NewConnection(ctx context.Context, connectStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	slog.Info("Database connection established")
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	id          UUID PRIMARY KEY,
	prompt      TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	output_path TEXT NOT NULL,
	slide_count INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS deck_slides (
	deck_id      UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
	slide_number INTEGER NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL,
	PRIMARY KEY (deck_id, slide_number)
);

CREATE TABLE IF NOT EXISTS ai_usage (
	id                SERIAL PRIMARY KEY,
	deck_id           UUID REFERENCES decks(id) ON DELETE CASCADE,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL DEFAULT '',
	prompt_tokens     INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens      INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the history tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
