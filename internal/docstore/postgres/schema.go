package postgres

import (
	"context"
	"fmt"
)

// schema creates the single JSONB table every collection lives in, plus
// expression indexes for the equality predicates the application issues.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`,
	`CREATE INDEX IF NOT EXISTS documents_status_idx ON documents (collection, (data->>'status'))`,
	`CREATE INDEX IF NOT EXISTS documents_transporter_idx ON documents (collection, (data->>'transporter_id'))`,
	`CREATE INDEX IF NOT EXISTS documents_user_idx ON documents (collection, (data->>'user_id'))`,
	`CREATE INDEX IF NOT EXISTS documents_phone_idx ON documents (collection, (data->>'phone'))`,
}

// EnsureSchema creates the documents table and its indexes if missing.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
