// Package synthesizer builds the completed response documents for both API
// flavors from a single backend result.
package synthesizer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sleepstars/modelgate/internal/models"
)

// CompletionID returns a fresh chat-completion identifier (chatcmpl-<uuid>).
func CompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// ResponseID returns a fresh responses identifier (resp_<32 hex chars>).
func ResponseID() string {
	return "resp_" + hexID()
}

// MessageID returns a fresh output message identifier (msg_<32 hex chars>).
func MessageID() string {
	return "msg_" + hexID()
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NormalizeUsage fills the total from its two components. Missing counters
// stay zero, so the invariant total = prompt + completion always holds.
func NormalizeUsage(u models.Usage) models.Usage {
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return u
}

// NewCompletion builds a chat.completion document around the backend text.
func NewCompletion(model, text string, usage models.Usage) *models.ChatCompletionResponse {
	return &models.ChatCompletionResponse{
		ID:      CompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []models.ChatCompletionChoice{
			{
				Index: 0,
				Message: models.ChatMessage{
					Role:    "assistant",
					Content: text,
				},
				FinishReason: "stop",
			},
		},
		Usage: NormalizeUsage(usage),
	}
}

// NewResponse builds a completed Responses API document around the backend text.
func NewResponse(model, text string, usage models.Usage) *models.Response {
	usage = NormalizeUsage(usage)
	resp := NewResponseShell(ResponseID(), model, time.Now().Unix(), "completed")
	resp.Output = []models.OutputItem{
		{
			ID:     MessageID(),
			Type:   "message",
			Status: "completed",
			Role:   "assistant",
			Content: []models.ContentPart{
				{Type: "output_text", Text: text},
			},
		},
	}
	resp.Usage = &models.ResponseUsage{
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
		TotalTokens:  usage.TotalTokens,
	}
	return resp
}

// NewResponseShell builds a Responses API document with every optional field
// at its documented default, no output and null usage. The stream emulator
// reuses it for response.created and response.completed.
func NewResponseShell(id, model string, createdAt int64, status string) *models.Response {
	return &models.Response{
		ID:          id,
		Object:      "response",
		CreatedAt:   createdAt,
		Status:      status,
		Model:       model,
		Output:      []models.OutputItem{},
		Temperature: 1.0,
		TopP:        1.0,
		ToolChoice:  "auto",
		Tools:       []any{},
		Store:       true,
		Reasoning:   models.Reasoning{Effort: "medium"},
		Truncation:  "disabled",
		Usage:       nil,
	}
}
