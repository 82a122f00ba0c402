package docstore

import (
	"context"
	"log"
)

// ChangePublisher announces that a collection changed.
type ChangePublisher interface {
	Publish(ctx context.Context, collection string) error
}

// Notifying wraps a Store and publishes a change after every successful write.
type Notifying struct {
	Store
	publisher ChangePublisher
}

// NewNotifying creates a Store decorator that feeds live subscriptions.
func NewNotifying(store Store, publisher ChangePublisher) *Notifying {
	return &Notifying{Store: store, publisher: publisher}
}

// Create stores doc and announces the change.
func (n *Notifying) Create(ctx context.Context, collection, id string, doc any) error {
	if err := n.Store.Create(ctx, collection, id, doc); err != nil {
		return err
	}
	n.publish(ctx, collection)
	return nil
}

// Update merges fields and announces the change.
func (n *Notifying) Update(ctx context.Context, collection, id string, fields map[string]any, conds ...Condition) error {
	if err := n.Store.Update(ctx, collection, id, fields, conds...); err != nil {
		return err
	}
	n.publish(ctx, collection)
	return nil
}

func (n *Notifying) publish(ctx context.Context, collection string) {
	if n.publisher == nil {
		return
	}
	// The write already succeeded; subscribers catch up on the next change.
	if err := n.publisher.Publish(ctx, collection); err != nil {
		log.Printf("[DOCSTORE] change publish failed: collection=%s err=%v", collection, err)
	}
}

var _ Store = (*Notifying)(nil)
