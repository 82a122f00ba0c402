package domain

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationNewJob    NotificationType = "new-job"
	NotificationJobUpdate NotificationType = "job-update"
	NotificationPayment   NotificationType = "payment"
	NotificationSystem    NotificationType = "system"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationNewJob, NotificationJobUpdate, NotificationPayment, NotificationSystem:
		return true
	}
	return false
}

// Notification is a message stored for a user.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	JobID     string
	CreatedAt time.Time
}
