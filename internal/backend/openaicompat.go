package backend

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/logger"
	"github.com/sleepstars/modelgate/internal/models"
)

// OpenAICompatRunner targets upstreams that only speak the chat-completions
// protocol. The compiled prompt goes out as a single user message.
type OpenAICompatRunner struct {
	client *openai.Client
	logger *logger.Logger
}

// NewOpenAICompatRunner creates a runner for an OpenAI-compatible backend.
func NewOpenAICompatRunner(cfg config.BackendConfig) *OpenAICompatRunner {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientConfig.BaseURL = cfg.APIBase
		if !strings.HasPrefix(clientConfig.BaseURL, "http://") && !strings.HasPrefix(clientConfig.BaseURL, "https://") {
			clientConfig.BaseURL = "http://" + clientConfig.BaseURL
		}
	}

	return &OpenAICompatRunner{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger.GetLogger().WithComponent("openai_runner"),
	}
}

func (r *OpenAICompatRunner) Run(ctx context.Context, model, prompt string, opts Options) (*Result, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	r.logger.Debug("Calling backend model %s with %d prompt bytes", model, len(prompt))
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &Result{
		Text: resp.Choices[0].Message.Content,
		Usage: &models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
