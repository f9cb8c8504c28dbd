package mocks

import (
	"context"

	"github.com/sleepstars/modelgate/internal/backend"
)

// MockRunner implements backend.Runner for testing
type MockRunner struct {
	RunFunc func(ctx context.Context, model, prompt string, opts backend.Options) (*backend.Result, error)
}

func (m *MockRunner) Run(ctx context.Context, model, prompt string, opts backend.Options) (*backend.Result, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, model, prompt, opts)
	}
	return &backend.Result{}, nil
}
