package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/router"
	"go.uber.org/zap"
)

// Server serves the routing API.
type Server struct {
	router *router.Router
	logger *zap.Logger
	server *http.Server

	// The router holds one shared model handle; one request at a time.
	mu sync.Mutex
}

// New creates the HTTP server on the given port.
func New(r *router.Router, port int, logger *zap.Logger) *Server {
	s := &Server{
		router: r,
		logger: logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/healthz", s.handleHealthz)
	engine.POST("/api/route", s.handleRoute)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("stopping http server")
	return s.server.Shutdown(ctx)
}

// RouteRequest is the routing API request body. Query is shorthand for a
// single user message; Messages wins when both are present.
type RouteRequest struct {
	Query    string           `json:"query"`
	Messages []domain.Message `json:"messages"`
	Tools    []domain.Tool    `json:"tools"`
}

// RouteResponse is the routing API response body.
type RouteResponse struct {
	RequestID     string                `json:"request_id"`
	FunctionCalls []domain.FunctionCall `json:"function_calls"`
	NumCalls      int                   `json:"num_calls"`
	TotalTimeMs   float64               `json:"total_time_ms"`
	WallTimeMs    float64               `json:"wall_time_ms"`
	Source        string                `json:"source"`
	Confidence    float64               `json:"confidence"`
}

func (s *Server) handleRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	messages := req.Messages
	if len(messages) == 0 {
		query := strings.TrimSpace(req.Query)
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty query"})
			return
		}
		messages = []domain.Message{{Role: domain.RoleUser, Content: query}}
	}

	tools := req.Tools
	if len(tools) == 0 {
		tools = domain.DemoTools()
	}

	requestID := c.GetString(requestIDKey)

	start := time.Now()
	s.mu.Lock()
	result := s.router.Route(c.Request.Context(), messages, tools)
	s.mu.Unlock()
	wallMs := float64(time.Since(start)) / float64(time.Millisecond)

	c.JSON(http.StatusOK, RouteResponse{
		RequestID:     requestID,
		FunctionCalls: result.FunctionCalls,
		NumCalls:      len(result.FunctionCalls),
		TotalTimeMs:   result.TotalTimeMs,
		WallTimeMs:    wallMs,
		Source:        result.Source,
		Confidence:    result.Confidence,
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const requestIDKey = "request_id"

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
