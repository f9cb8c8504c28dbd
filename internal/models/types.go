package models

import "encoding/json"

// ChatMessage represents a message in a chat completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest represents an incoming chat completion request
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ResponsesRequest represents an incoming Responses API request.
// Input is kept raw because it is either a bare string or an array of
// input items; the prompt compiler owns that distinction.
type ResponsesRequest struct {
	Model           string          `json:"model"`
	Input           json.RawMessage `json:"input,omitempty"`
	Instructions    string          `json:"instructions,omitempty"`
	Stream          bool            `json:"stream,omitempty"`
	Temperature     float32         `json:"temperature,omitempty"`
	MaxOutputTokens int             `json:"max_output_tokens,omitempty"`
}

// Usage carries token accounting for a single backend call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseUsage is the Responses API rendering of the same counters.
type ResponseUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ChatCompletionChoice represents a completion choice
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse represents the response from the chat completion API
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   Usage                  `json:"usage"`
}

// ChatCompletionChunkDelta is the incremental payload inside a streamed chunk.
type ChatCompletionChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatCompletionChunkChoice represents a choice in a streamed chunk.
type ChatCompletionChunkChoice struct {
	Index        int                      `json:"index"`
	Delta        ChatCompletionChunkDelta `json:"delta"`
	FinishReason *string                  `json:"finish_reason"`
}

// ChatCompletionChunk is one chat.completion.chunk stream event.
type ChatCompletionChunk struct {
	ID      string                      `json:"id"`
	Object  string                      `json:"object"`
	Created int64                       `json:"created"`
	Model   string                      `json:"model"`
	Choices []ChatCompletionChunkChoice `json:"choices"`
}

// ContentPart is one element of an output message's content array.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutputItem is one element of a Response's output array.
type OutputItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Status  string        `json:"status,omitempty"`
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// Reasoning mirrors the reasoning block of a Responses API response shell.
type Reasoning struct {
	Effort string `json:"effort"`
}

// Response represents a Responses API response document. The same shape is
// reused as the in_progress shell of response.created and as the final
// document of response.completed, so Usage stays a pointer (null until done).
type Response struct {
	ID          string         `json:"id"`
	Object      string         `json:"object"`
	CreatedAt   int64          `json:"created_at"`
	Status      string         `json:"status"`
	Model       string         `json:"model"`
	Output      []OutputItem   `json:"output"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p"`
	ToolChoice  string         `json:"tool_choice"`
	Tools       []any          `json:"tools"`
	Store       bool           `json:"store"`
	Reasoning   Reasoning      `json:"reasoning"`
	Truncation  string         `json:"truncation"`
	Usage       *ResponseUsage `json:"usage"`
}

// Responses API stream events. Each event is discriminated by Type and
// carries the positional metadata a client needs to patch its local copy
// of the document.

// ResponseEvent wraps the full response shell (response.created,
// response.completed).
type ResponseEvent struct {
	Type     string    `json:"type"`
	Response *Response `json:"response"`
}

// OutputItemEvent announces or closes an output item
// (response.output_item.added, response.output_item.done).
type OutputItemEvent struct {
	Type        string     `json:"type"`
	OutputIndex int        `json:"output_index"`
	Item        OutputItem `json:"item"`
}

// ContentPartEvent announces or closes a content part
// (response.content_part.added, response.content_part.done).
type ContentPartEvent struct {
	Type         string      `json:"type"`
	ItemID       string      `json:"item_id"`
	OutputIndex  int         `json:"output_index"`
	ContentIndex int         `json:"content_index"`
	Part         ContentPart `json:"part"`
}

// OutputTextDeltaEvent carries one incremental text slice
// (response.output_text.delta).
type OutputTextDeltaEvent struct {
	Type         string `json:"type"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

// OutputTextDoneEvent carries the full accumulated text
// (response.output_text.done).
type OutputTextDoneEvent struct {
	Type         string `json:"type"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

// ModelInfo is one entry of the GET /v1/models listing.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the GET /v1/models response body.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// ErrorDetail is the inner error object of the API error envelope.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse is the JSON error envelope returned on every failure path.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Error types used in the envelope.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeAuthentication = "authentication_error"
	ErrTypeInternal       = "internal_error"
)
