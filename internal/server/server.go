// Package server is the HTTP dispatcher: routing, auth, CORS and the error
// envelope around the translation core.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepstars/modelgate/internal/backend"
	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/logger"
	"github.com/sleepstars/modelgate/internal/models"
	"github.com/sleepstars/modelgate/internal/stream"
)

// Server holds the gin engine and the translation core collaborators.
type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	runner   backend.Runner
	emulator *stream.Emulator
	logger   *logger.Logger
}

// New assembles the dispatcher around the given backend runner.
func New(cfg *config.Config, runner backend.Runner) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		runner:   runner,
		emulator: stream.NewEmulator(cfg.Stream.SliceWidth, time.Duration(cfg.Stream.PacingMs)*time.Millisecond),
		logger:   logger.GetLogger().WithComponent("server"),
	}

	s.engine.Use(s.recoveryMiddleware())
	s.engine.Use(s.requestLogMiddleware())
	s.engine.Use(s.corsMiddleware())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/", s.authMiddleware())
	api.POST("/v1/chat/completions", s.handleChatCompletions)
	api.POST("/v1/responses", s.handleResponses)
	api.GET("/v1/models", s.handleModels)
	// Legacy alias, identical to /v1/chat/completions.
	api.POST("/api/ai", s.handleChatCompletions)

	s.engine.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, models.ErrTypeInvalidRequest, "not found")
	})

	return s
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts serving on the configured listen address.
func (s *Server) Run() error {
	s.logger.Info("Listening on %s", s.cfg.Listen)
	return s.engine.Run(s.cfg.Listen)
}

// writeError renders the JSON error envelope shared by every failure path.
func writeError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Message: message,
			Type:    errType,
		},
	})
}
