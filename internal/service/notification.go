package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"livestock/internal/changefeed"
	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/push"
	"livestock/internal/redis"
	"livestock/internal/repository"
)

// PushSender hands a push message to the delivery transport.
type PushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

// NotificationService stores notifications and relays them to devices.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	profileCache     redis.ProfileCacheInterface
	pusher           PushSender
	feed             changefeed.Feed
}

// NewNotificationService creates a new NotificationService.
// profileCache and pusher may be nil.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	profileCache redis.ProfileCacheInterface,
	pusher PushSender,
	feed changefeed.Feed,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		profileCache:     profileCache,
		pusher:           pusher,
		feed:             feed,
	}
}

// NotifyRequest contains the parameters for sending a notification.
type NotifyRequest struct {
	UserID  string
	Title   string
	Message string
	Type    domain.NotificationType // Optional: empty means system
	JobID   string                  // Optional
}

// Notify persists a notification and then pushes it to the recipient's
// devices. The stored record is the delivery; the push is best-effort and
// its failure is only logged. Every call stores a new record.
func (s *NotificationService) Notify(ctx context.Context, req NotifyRequest) (*domain.Notification, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrInvalidNotification
	}

	notificationType := req.Type
	if notificationType == "" {
		notificationType = domain.NotificationSystem
	}
	if !notificationType.Valid() {
		return nil, ErrInvalidNotificationType
	}

	notification := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      notificationType,
		Read:      false,
		JobID:     req.JobID,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.UserID, notification.Title, notification.Message)

	s.push(ctx, notification)

	return notification, nil
}

// push relays a stored notification to the recipient's devices.
func (s *NotificationService) push(ctx context.Context, notification *domain.Notification) {
	if s.pusher == nil {
		return
	}

	profile, err := s.recipient(ctx, notification.UserID)
	if err != nil {
		log.Printf("[NOTIFICATION] recipient lookup failed: user=%s err=%v", notification.UserID, err)
		return
	}
	if profile == nil || !profile.NotificationsEnabled || len(profile.PushTokens) == 0 {
		return
	}

	msg := push.Message{
		UserID:         notification.UserID,
		NotificationID: notification.ID,
		Title:          notification.Title,
		Body:           notification.Message,
		Type:           string(notification.Type),
		JobID:          notification.JobID,
		Tokens:         profile.PushTokens,
	}
	if err := s.pusher.Send(ctx, msg); err != nil {
		log.Printf("[NOTIFICATION] push failed: user=%s notification=%s err=%v",
			notification.UserID, notification.ID, err)
	}
}

// recipient returns the push-relevant view of a profile, using the cache
// when available. Returns nil if the user has no profile.
func (s *NotificationService) recipient(ctx context.Context, userID string) (*redis.CachedProfile, error) {
	if s.profileCache != nil {
		cached, err := s.profileCache.GetProfile(ctx, userID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	profile := &redis.CachedProfile{
		ID:                   user.ID,
		Name:                 user.Name,
		NotificationsEnabled: user.Settings.Notifications,
	}
	for token, ok := range user.PushTokens {
		if ok {
			profile.PushTokens = append(profile.PushTokens, token)
		}
	}
	sort.Strings(profile.PushTokens)

	if s.profileCache != nil {
		_ = s.profileCache.SetProfile(ctx, profile)
	}
	return profile, nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount returns how many of a user's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	return countUnread(notifications), nil
}

func countUnread(notifications []*domain.Notification) int {
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return unread
}

// MarkReadRequest contains the parameters for marking a notification read.
type MarkReadRequest struct {
	NotificationID string
	UserID         string // Optional: when set, must own the notification
}

// MarkRead sets a notification's read flag. Marking an already read
// notification succeeds without writing.
func (s *NotificationService) MarkRead(ctx context.Context, req MarkReadRequest) error {
	if req.NotificationID == "" {
		return ErrInvalidNotificationID
	}

	notification, err := s.notificationRepo.GetByID(ctx, req.NotificationID)
	if err != nil {
		return err
	}

	if req.UserID != "" && notification.UserID != req.UserID {
		return ErrNotificationNotOwned
	}

	if notification.Read {
		return nil
	}
	return s.notificationRepo.MarkRead(ctx, req.NotificationID)
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many were changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	notifications, err := s.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.notificationRepo.MarkRead(ctx, n.ID); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// NotificationSnapshot is one delivery of a notification subscription.
type NotificationSnapshot struct {
	Notifications []*domain.Notification
	UnreadCount   int
}

// SubscribeNotifications streams a user's notifications, newest first,
// re-delivering the full list after every change.
func (s *NotificationService) SubscribeNotifications(ctx context.Context, userID string) (*changefeed.Subscription[NotificationSnapshot], error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return changefeed.Watch(ctx, s.feed, docstore.CollectionNotifications,
		func(ctx context.Context) (NotificationSnapshot, error) {
			notifications, err := s.ListNotifications(ctx, userID)
			if err != nil {
				return NotificationSnapshot{}, err
			}
			return NotificationSnapshot{
				Notifications: notifications,
				UnreadCount:   countUnread(notifications),
			}, nil
		})
}
