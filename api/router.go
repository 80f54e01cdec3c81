package api

import (
	"chat-feed/auth"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	// WriteRPS and WriteBurst bound the writes of each user, unlimited when WriteRPS is zero.
	WriteRPS   float64
	WriteBurst int
}

// NewRouter mounts the public routes, /metrics and the authenticated /api/v1 group.
func NewRouter(log *slog.Logger, config RouterConfig, issuer *auth.TokenIssuer, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if config.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{})))
	}
	// Images are referenced from <img> tags, which cannot send a bearer token.
	r.GET("/attachments/:storageID", h.ServeAttachment)

	v1 := r.Group("/api/v1", auth.Authenticate(issuer), auth.RateLimit(config.WriteRPS, config.WriteBurst))
	{
		v1.POST("/workspaces", h.CreateWorkspace)
		v1.POST("/workspaces/:workspaceID/join", h.JoinWorkspace)
		v1.POST("/workspaces/:workspaceID/join-code", h.NewJoinCode)
		v1.POST("/workspaces/:workspaceID/channels", h.CreateChannel)
		v1.POST("/workspaces/:workspaceID/conversations", h.GetOrCreateConversation)

		v1.GET("/workspaces/:workspaceID/messages", h.GetMessages)
		v1.GET("/workspaces/:workspaceID/timeline", h.GetTimeline)
		v1.GET("/workspaces/:workspaceID/live", h.WatchFeed)
		v1.GET("/workspaces/:workspaceID/live/ws", h.WatchFeedSocket)
		v1.GET("/workspaces/:workspaceID/search", h.Search)
		v1.POST("/workspaces/:workspaceID/messages", h.CreateMessage)

		v1.GET("/messages/:messageID", h.GetMessage)
		v1.PATCH("/messages/:messageID", h.UpdateMessage)
		v1.DELETE("/messages/:messageID", h.DeleteMessage)
		v1.POST("/messages/:messageID/reactions", h.ToggleReaction)

		v1.POST("/attachments", h.UploadAttachment)
	}
	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
