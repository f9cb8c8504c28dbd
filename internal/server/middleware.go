package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepstars/modelgate/internal/models"
)

// recoveryMiddleware converts any panic during request handling into the
// standard 500 envelope instead of gin's default plain-text response.
func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Panic while handling %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				if !c.Writer.Written() {
					writeError(c, http.StatusInternalServerError, models.ErrTypeInternal, fmt.Sprintf("%v", r))
				} else {
					c.Abort()
				}
			}
		}()
		c.Next()
	}
}

// requestLogMiddleware logs method, path, status and latency per request.
func (s *Server) requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware attaches permissive CORS headers to every response and
// short-circuits preflight requests.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authMiddleware checks the bearer credential against the configured key.
// An empty configured key disables authentication. Both "Bearer <key>" and
// the bare key are accepted.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.APIKey == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token != s.cfg.APIKey {
			writeError(c, http.StatusUnauthorized, models.ErrTypeAuthentication, "invalid or missing API key")
			return
		}
		c.Next()
	}
}
