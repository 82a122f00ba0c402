package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "livestock/docs"
	"livestock/internal/handler"
	"livestock/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler         *handler.AuthHandler
	JobHandler          *handler.JobHandler
	NotificationHandler *handler.NotificationHandler
	EarningsHandler     *handler.EarningsHandler
	ProfileHandler      *handler.ProfileHandler
	AssistHandler       *handler.AssistHandler
	StreamHandler       *handler.StreamHandler
	Authenticator       middleware.Authenticator
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	AllowOrigins        string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.AllowOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes.
	v1 := router.Group("/v1")

	// Public auth routes.
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", deps.AuthHandler.SignUp)
		auth.POST("/signin", deps.AuthHandler.SignIn)
		auth.POST("/phone/start", deps.AuthHandler.StartPhone)
		auth.POST("/phone/confirm", deps.AuthHandler.ConfirmPhone)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Authenticator))
	protected.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		protected.POST("/auth/signout", deps.AuthHandler.SignOut)
		protected.GET("/me", deps.AuthHandler.Me)

		// Job routes.
		jobs := protected.Group("/jobs")
		{
			jobs.GET("", deps.JobHandler.ListPending)
			jobs.POST("", deps.JobHandler.CreateJob)
			jobs.GET("/history", deps.JobHandler.History)
			jobs.GET("/:id", deps.JobHandler.GetJob)
			jobs.POST("/:id/accept", deps.JobHandler.AcceptJob)
			jobs.POST("/:id/status", deps.JobHandler.UpdateStatus)
			jobs.GET("/:id/route", deps.JobHandler.Route)
		}

		// Notification routes.
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.List)
			notifications.GET("/unread-count", deps.NotificationHandler.UnreadCount)
			notifications.POST("/read-all", deps.NotificationHandler.MarkAllRead)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkRead)
		}

		// Earnings routes.
		earnings := protected.Group("/earnings")
		{
			earnings.GET("", deps.EarningsHandler.List)
			earnings.GET("/summary", deps.EarningsHandler.Summary)
		}

		// Profile routes.
		profile := protected.Group("/profile")
		{
			profile.GET("", deps.ProfileHandler.Get)
			profile.PUT("", deps.ProfileHandler.Update)
			profile.PUT("/settings", deps.ProfileHandler.UpdateSettings)
			profile.PUT("/online", deps.ProfileHandler.SetOnline)
			profile.POST("/push-tokens", deps.ProfileHandler.RegisterPushToken)
		}

		protected.POST("/assist/chat", deps.AssistHandler.Chat)

		// Live snapshot streams.
		streams := protected.Group("/streams")
		{
			streams.GET("/jobs", deps.StreamHandler.PendingJobs)
			streams.GET("/jobs/:id", deps.StreamHandler.Job)
			streams.GET("/notifications", deps.StreamHandler.Notifications)
		}
	}

	return router
}
