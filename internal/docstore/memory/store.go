// Package memory is an in-process docstore backend used for local runs and
// tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"livestock/internal/docstore"
)

type collection struct {
	docs  map[string]map[string]any
	order []string
}

// Store keeps documents as decoded JSON objects.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.collections[name] = c
	}
	return c
}

// Get decodes the document into out.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return docstore.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	return transcode(doc, out)
}

// Create stores doc under id.
func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	var decoded map[string]any
	if err := transcode(doc, &decoded); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	if _, exists := c.docs[id]; exists {
		return docstore.ErrAlreadyExists
	}
	c.docs[id] = decoded
	c.order = append(c.order, id)
	return nil
}

// Update merges fields into the top level of the document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any, conds ...docstore.Condition) error {
	var decoded map[string]any
	if err := transcode(fields, &decoded); err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return docstore.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	for _, cond := range conds {
		if docstore.ValueString(doc[cond.Field]) != cond.Equals {
			return docstore.ErrConflict
		}
	}
	for k, v := range decoded {
		doc[k] = v
	}
	return nil
}

// Query decodes every document whose field equals value into out.
func (s *Store) Query(ctx context.Context, collection, field string, value any, out any) error {
	want := docstore.ValueString(value)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]map[string]any, 0)
	if c, ok := s.collections[collection]; ok {
		for _, id := range c.order {
			doc := c.docs[id]
			if v, present := doc[field]; present && docstore.ValueString(v) == want {
				matches = append(matches, doc)
			}
		}
	}

	// The matches share maps with the stored documents, so they are encoded
	// before the lock is released.
	return transcode(matches, out)
}

// Count returns the number of documents in a collection.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[collection]; ok {
		return len(c.docs)
	}
	return 0
}

func transcode(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

var _ docstore.Store = (*Store)(nil)
