// Package docstore is the boundary to the external document database.
//
// Documents are addressed by collection and id. Values passed to Create and
// read back through Get and Query are plain structs carrying both `json` and
// `dynamodbav` tags with identical names, so every backend can encode them
// with its native codec.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Collection names.
const (
	CollectionJobs          = "jobs"
	CollectionUsers         = "users"
	CollectionNotifications = "notifications"
	CollectionEarnings      = "earnings"
	CollectionCredentials   = "credentials"
)

// Collections lists every collection the application uses.
var Collections = []string{
	CollectionJobs,
	CollectionUsers,
	CollectionNotifications,
	CollectionEarnings,
	CollectionCredentials,
}

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("document already exists")

	// ErrConflict is returned by Update when a condition no longer holds.
	ErrConflict = errors.New("document condition failed")
)

// Condition guards an update: the stored top-level field must currently
// equal Equals.
type Condition struct {
	Field  string
	Equals string
}

// FieldEquals builds a Condition.
func FieldEquals(field, value string) Condition {
	return Condition{Field: field, Equals: value}
}

// Store is the set of operations the application consumes from the
// document database.
type Store interface {
	// Get decodes the document into out. Returns ErrNotFound if missing.
	Get(ctx context.Context, collection, id string, out any) error

	// Create stores doc under id. Returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, collection, id string, doc any) error

	// Update merges fields into the top level of the document.
	// Returns ErrNotFound if missing and ErrConflict if a condition fails.
	Update(ctx context.Context, collection, id string, fields map[string]any, conds ...Condition) error

	// Query decodes every document whose field equals value into out,
	// which must be a pointer to a slice. Order is unspecified.
	Query(ctx context.Context, collection, field string, value any, out any) error
}

// ValueString renders a query or condition value the way backends compare
// it against stored scalars.
func ValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
