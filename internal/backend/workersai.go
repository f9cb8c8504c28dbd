package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/logger"
	"github.com/sleepstars/modelgate/internal/models"
)

// WorkersAIRunner speaks the raw prompt-in/text-out backend contract:
// POST {prompt, temperature?, max_tokens?} to <api_base>/<model>.
type WorkersAIRunner struct {
	cfg    config.BackendConfig
	client *http.Client
	logger *logger.Logger
}

// NewWorkersAIRunner creates a runner for a Workers-AI-style backend.
func NewWorkersAIRunner(cfg config.BackendConfig) *WorkersAIRunner {
	return &WorkersAIRunner{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger.GetLogger().WithComponent("workersai_runner"),
	}
}

type workersAIRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

func (r *WorkersAIRunner) Run(ctx context.Context, model, prompt string, opts Options) (*Result, error) {
	body, err := json.Marshal(workersAIRequest{
		Prompt:      prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(r.cfg.APIBase, "/") + "/" + model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	r.logger.Debug("Calling backend model %s with %d prompt bytes", model, len(prompt))
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseResult(raw), nil
}

// parseResult extracts the generated text and optional usage. The backend
// uses "response" and "text" interchangeably; "response" wins, missing both
// yields the empty string.
func parseResult(raw []byte) *Result {
	root := gjson.ParseBytes(raw)

	text := root.Get("response")
	if !text.Exists() {
		text = root.Get("text")
	}

	result := &Result{Text: text.String()}
	if usage := root.Get("usage"); usage.Exists() {
		result.Usage = &models.Usage{
			PromptTokens:     int(usage.Get("prompt_tokens").Int()),
			CompletionTokens: int(usage.Get("completion_tokens").Int()),
		}
	}
	return result
}
