// Package backend invokes the inference backend: compiled prompt in,
// generated text plus optional token usage out. One call per request.
package backend

import (
	"context"
	"fmt"

	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/models"
)

// Options carries the caller-tunable generation parameters.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Result is the backend's answer. Usage is nil when the backend reported no
// token accounting.
type Result struct {
	Text  string
	Usage *models.Usage
}

// Runner is the single-call backend contract.
type Runner interface {
	Run(ctx context.Context, model, prompt string, opts Options) (*Result, error)
}

// New builds the runner selected by the backend config.
func New(cfg config.BackendConfig) (Runner, error) {
	switch cfg.Kind {
	case config.BackendWorkersAI:
		return NewWorkersAIRunner(cfg), nil
	case config.BackendOpenAI:
		return NewOpenAICompatRunner(cfg), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}
