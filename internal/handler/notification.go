package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestock/internal/domain"
	"livestock/internal/middleware"
	"livestock/internal/service"
)

// NotificationHandler handles HTTP requests for the caller's notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse is the HTTP representation of a notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	JobID     string `json:"job_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		JobID:     n.JobID,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

// NotificationListResponse is a user's notifications with their unread count.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

func toNotificationList(notifications []*domain.Notification, unread int) NotificationListResponse {
	response := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		response.Notifications = append(response.Notifications, toNotificationResponse(n))
	}
	return response
}

// List handles GET /v1/notifications
//
// @Summary  List the caller's notifications, newest first
// @Tags     notifications
// @Produce  json
// @Security Bearer
// @Success  200 {object} NotificationListResponse
// @Router   /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	respondJSON(c, http.StatusOK, toNotificationList(notifications, unread))
}

// UnreadCount handles GET /v1/notifications/unread-count
//
// @Summary  Count the caller's unread notifications
// @Tags     notifications
// @Produce  json
// @Security Bearer
// @Success  200 {object} map[string]int
// @Router   /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead handles POST /v1/notifications/:id/read
//
// @Summary  Mark a notification read
// @Tags     notifications
// @Security Bearer
// @Param    id path string true "Notification ID"
// @Success  204
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notificationService.MarkRead(c.Request.Context(), service.MarkReadRequest{
		NotificationID: c.Param("id"),
		UserID:         middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all
//
// @Summary  Mark all of the caller's notifications read
// @Tags     notifications
// @Produce  json
// @Security Bearer
// @Success  200 {object} map[string]int
// @Router   /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	marked, err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"marked": marked})
}
