// Package postgres implements the document store on a PostgreSQL JSONB table.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"livestock/internal/docstore"
)

// Store is a PostgreSQL implementation of docstore.Store.
type Store struct {
	q Querier
}

// NewStore creates a new PostgreSQL document store.
func NewStore(db *sql.DB) *Store {
	return &Store{q: db}
}

// Get decodes the document into out.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := s.q.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return docstore.ErrNotFound
		}
		return err
	}

	return json.Unmarshal(data, out)
}

// Create stores doc under id.
func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING
	`

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	result, err := s.q.ExecContext(ctx, query, collection, id, string(data))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return docstore.ErrAlreadyExists
	}

	return nil
}

// Update merges fields into the top level of the document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any, conds ...docstore.Condition) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query, args := buildUpdate(collection, id, data, conds)

	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	if len(conds) == 0 {
		return docstore.ErrNotFound
	}

	// Tell a missing document apart from a failed condition.
	var exists bool
	err = s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`,
		collection, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return docstore.ErrNotFound
	}
	return docstore.ErrConflict
}

// Query decodes every document whose field equals value into out.
func (s *Store) Query(ctx context.Context, collection, field string, value any, out any) error {
	query := `SELECT data FROM documents WHERE collection = $1 AND data->>($2::text) = $3`

	rows, err := s.q.QueryContext(ctx, query, collection, field, docstore.ValueString(value))
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return err
		}
		docs = append(docs, data)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return decodeList(docs, out)
}

// buildUpdate renders the merge statement and its arguments.
func buildUpdate(collection, id string, data []byte, conds []docstore.Condition) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`)

	args := []any{collection, id, string(data)}
	for _, cond := range conds {
		args = append(args, cond.Field, cond.Equals)
		fmt.Fprintf(&sb, ` AND data->>($%d::text) = $%d`, len(args)-1, len(args))
	}

	return sb.String(), args
}

// decodeList joins raw JSON objects into one array and decodes it.
func decodeList(docs [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(docs, []byte{','}))
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
