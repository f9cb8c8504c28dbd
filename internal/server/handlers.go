package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/sleepstars/modelgate/internal/backend"
	"github.com/sleepstars/modelgate/internal/models"
	"github.com/sleepstars/modelgate/internal/prompt"
	"github.com/sleepstars/modelgate/internal/registry"
	"github.com/sleepstars/modelgate/internal/stream"
	"github.com/sleepstars/modelgate/internal/synthesizer"
)

// handleChatCompletions serves POST /v1/chat/completions and the legacy
// POST /api/ai alias.
func (s *Server) handleChatCompletions(c *gin.Context) {
	var req models.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, models.ErrTypeInvalidRequest, err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(c, http.StatusBadRequest, models.ErrTypeInvalidRequest, "messages is required")
		return
	}

	result, err := s.runner.Run(c.Request.Context(), registry.Resolve(req.Model), prompt.FromMessages(req.Messages), backend.Options{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		s.logger.WithError(err).Error("Backend call failed")
		writeError(c, http.StatusInternalServerError, models.ErrTypeInternal, err.Error())
		return
	}

	if !req.Stream {
		c.JSON(http.StatusOK, synthesizer.NewCompletion(req.Model, result.Text, usageOrZero(result.Usage)))
		return
	}

	w, err := stream.NewHTTPWriter(c.Writer)
	if err != nil {
		writeError(c, http.StatusInternalServerError, models.ErrTypeInternal, err.Error())
		return
	}
	s.streamHeaders(c)
	// Replay failures mean the client went away; nothing left to report.
	_ = s.emulator.PlayCompletion(c.Request.Context(), w, req.Model, result.Text)
}

// handleResponses serves POST /v1/responses.
func (s *Server) handleResponses(c *gin.Context) {
	var req models.ResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, models.ErrTypeInvalidRequest, err.Error())
		return
	}
	if emptyInput(req.Input) {
		writeError(c, http.StatusBadRequest, models.ErrTypeInvalidRequest, "input is required")
		return
	}

	result, err := s.runner.Run(c.Request.Context(), registry.Resolve(req.Model), prompt.FromInput(req.Input, req.Instructions), backend.Options{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		s.logger.WithError(err).Error("Backend call failed")
		writeError(c, http.StatusInternalServerError, models.ErrTypeInternal, err.Error())
		return
	}

	if !req.Stream {
		c.JSON(http.StatusOK, synthesizer.NewResponse(req.Model, result.Text, usageOrZero(result.Usage)))
		return
	}

	w, err := stream.NewHTTPWriter(c.Writer)
	if err != nil {
		writeError(c, http.StatusInternalServerError, models.ErrTypeInternal, err.Error())
		return
	}
	s.streamHeaders(c)
	_ = s.emulator.PlayResponse(c.Request.Context(), w, req.Model, result.Text, result.Usage)
}

// handleModels serves GET /v1/models.
func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, models.ModelList{
		Object: "list",
		Data:   registry.List(),
	})
}

// streamHeaders commits the SSE headers before the first frame.
func (s *Server) streamHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
}

// emptyInput reports whether the polymorphic input field is absent, an empty
// string or an empty array.
func emptyInput(input []byte) bool {
	parsed := gjson.ParseBytes(input)
	switch {
	case parsed.Type == gjson.String:
		return parsed.String() == ""
	case parsed.IsArray():
		return len(parsed.Array()) == 0
	default:
		return true
	}
}

func usageOrZero(u *models.Usage) models.Usage {
	if u == nil {
		return models.Usage{}
	}
	return *u
}
