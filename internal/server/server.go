package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crimson-sun/triage/internal/output"
	"github.com/crimson-sun/triage/internal/provider"
	"github.com/crimson-sun/triage/internal/store"
)

// Version is reported by /health and /system/status.
const Version = "1.0.0"

// Server exposes the triage engine over HTTP and WebSocket.
type Server struct {
	engine   *gin.Engine
	chain    *provider.Chain
	store    *store.Store
	maxLines int
	alert    output.Output // optional; receives every verdict
}

// New creates the HTTP server. alert may be nil.
func New(chain *provider.Chain, st *store.Store, maxLines int, alert output.Output) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine:   engine,
		chain:    chain,
		store:    st,
		maxLines: maxLines,
		alert:    alert,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/system/status", s.handleSystemStatus)

	s.engine.POST("/analyze-logs", s.handleAnalyzeLogs)
	s.engine.POST("/logs/analyze", s.handleLogsAnalyze)
	s.engine.POST("/clean-logs", s.handleCleanLogs)

	s.engine.GET("/logs/recent", s.handleLogsRecent)
	s.engine.GET("/logs/search", s.handleLogsSearch)

	s.engine.GET("/ws/analyze", s.handleWebSocket)
}

// Handler returns the underlying HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// requestLogger tags each request with an ID and logs it through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		slog.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
