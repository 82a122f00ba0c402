package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"livestock/internal/changefeed"
	"livestock/internal/domain"
	"livestock/internal/middleware"
	"livestock/internal/service"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second
)

// newUpgrader accepts handshakes without an Origin header (non-browser
// clients) or from an origin on the CORS allow-list.
func newUpgrader(origins *middleware.OriginPolicy) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origins.Allows(origin)
		},
	}
}

// StreamHandler serves live snapshot streams over WebSocket.
type StreamHandler struct {
	jobService          *service.JobService
	notificationService *service.NotificationService
	upgrader            *websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler. allowOrigins uses the
// CORS_ALLOW_ORIGINS format.
func NewStreamHandler(jobService *service.JobService, notificationService *service.NotificationService, allowOrigins string) *StreamHandler {
	return &StreamHandler{
		jobService:          jobService,
		notificationService: notificationService,
		upgrader:            newUpgrader(middleware.ParseOrigins(allowOrigins)),
	}
}

// StreamMessage is one frame sent to a stream client.
type StreamMessage struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// PendingJobs handles GET /v1/streams/jobs
//
// @Summary  Stream pending jobs
// @Tags     streams
// @Security Bearer
// @Success  101
// @Router   /streams/jobs [get]
func (h *StreamHandler) PendingJobs(c *gin.Context) {
	serveStream(c, h.upgrader, "jobs", h.jobService.SubscribePendingJobs, func(jobs []*domain.Job) any {
		return toJobResponses(jobs)
	})
}

// Job handles GET /v1/streams/jobs/:id
//
// @Summary  Stream one job
// @Tags     streams
// @Security Bearer
// @Param    id path string true "Job ID"
// @Success  101
// @Failure  404 {object} ErrorResponse
// @Router   /streams/jobs/{id} [get]
func (h *StreamHandler) Job(c *gin.Context) {
	jobID := c.Param("id")
	subscribe := func(ctx context.Context) (*changefeed.Subscription[*domain.Job], error) {
		return h.jobService.SubscribeJob(ctx, jobID)
	}
	serveStream(c, h.upgrader, "job", subscribe, func(job *domain.Job) any {
		return toJobResponse(job)
	})
}

// Notifications handles GET /v1/streams/notifications
//
// @Summary  Stream the caller's notifications
// @Tags     streams
// @Security Bearer
// @Success  101
// @Router   /streams/notifications [get]
func (h *StreamHandler) Notifications(c *gin.Context) {
	userID := middleware.UserID(c)
	subscribe := func(ctx context.Context) (*changefeed.Subscription[service.NotificationSnapshot], error) {
		return h.notificationService.SubscribeNotifications(ctx, userID)
	}
	serveStream(c, h.upgrader, "notifications", subscribe, func(s service.NotificationSnapshot) any {
		return toNotificationList(s.Notifications, s.UnreadCount)
	})
}

// serveStream subscribes before upgrading so subscription errors still get
// a regular HTTP response, then forwards snapshots until either side stops.
func serveStream[S any](
	c *gin.Context,
	upgrader *websocket.Upgrader,
	messageType string,
	subscribe func(ctx context.Context) (*changefeed.Subscription[S], error),
	convert func(S) any,
) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	sub, err := subscribe(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[STREAM] upgrade failed: type=%s err=%v", messageType, err)
		return
	}
	defer conn.Close()

	log.Printf("[STREAM] Opened: type=%s user=%s", messageType, middleware.UserID(c))

	go readUntilClosed(conn, cancel)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[STREAM] Closed: type=%s user=%s", messageType, middleware.UserID(c))
			return
		case snapshot, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(streamWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(StreamMessage{
				Type:      messageType,
				Payload:   convert(snapshot),
				Timestamp: formatTime(time.Now()),
			}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

// readUntilClosed drains client frames so pongs and close frames are
// processed, and cancels the stream once the client goes away.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[STREAM] read error: %v", err)
			}
			return
		}
	}
}
