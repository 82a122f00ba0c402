// Package document implements the repository interfaces on top of a
// docstore.Store, so every storage backend shares one mapping.
package document

import (
	"errors"
	"time"

	"livestock/internal/docstore"
	"livestock/internal/repository"
)

// translate maps docstore errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return repository.ErrNotFound
	case errors.Is(err, docstore.ErrAlreadyExists):
		return repository.ErrAlreadyExists
	case errors.Is(err, docstore.ErrConflict):
		return repository.ErrConflict
	default:
		return err
	}
}

// Timestamps are stored as RFC3339 strings; the empty string means unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
