package document

import (
	"context"

	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/repository"
)

type notificationItem struct {
	ID        string `json:"id" dynamodbav:"id"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Title     string `json:"title" dynamodbav:"title"`
	Message   string `json:"message" dynamodbav:"message"`
	Type      string `json:"type" dynamodbav:"type"`
	Read      bool   `json:"read" dynamodbav:"read"`
	JobID     string `json:"job_id,omitempty" dynamodbav:"job_id,omitempty"`
	CreatedAt string `json:"created_at" dynamodbav:"created_at"`
}

func (it *notificationItem) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        it.ID,
		UserID:    it.UserID,
		Title:     it.Title,
		Message:   it.Message,
		Type:      domain.NotificationType(it.Type),
		Read:      it.Read,
		JobID:     it.JobID,
		CreatedAt: parseTime(it.CreatedAt),
	}
}

// NotificationRepository is a docstore implementation of repository.NotificationRepository.
type NotificationRepository struct {
	store docstore.Store
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(store docstore.Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	it := &notificationItem{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		JobID:     n.JobID,
		CreatedAt: formatTime(n.CreatedAt),
	}
	return translate(r.store.Create(ctx, docstore.CollectionNotifications, n.ID, it))
}

// GetByID retrieves a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var it notificationItem
	if err := r.store.Get(ctx, docstore.CollectionNotifications, id, &it); err != nil {
		return nil, translate(err)
	}
	return it.toDomain(), nil
}

// ListByUser retrieves all notifications addressed to a user.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	var items []notificationItem
	if err := r.store.Query(ctx, docstore.CollectionNotifications, "user_id", userID, &items); err != nil {
		return nil, translate(err)
	}

	out := make([]*domain.Notification, 0, len(items))
	for i := range items {
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

// MarkRead sets the read flag.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return translate(r.store.Update(ctx, docstore.CollectionNotifications, id, map[string]any{"read": true}))
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
