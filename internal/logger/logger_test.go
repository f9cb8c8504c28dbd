package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogger(t *testing.T) {
	log := GetLogger()
	assert.NotNil(t, log)

	// Singleton: repeated calls return the same instance.
	assert.Same(t, log, GetLogger())
}

func TestWithComponent(t *testing.T) {
	base := GetLogger()
	scoped := base.WithComponent("stream_emulator")

	assert.NotNil(t, scoped)
	assert.NotSame(t, base, scoped)

	// Logging through the scoped logger must not panic.
	scoped.Debug("delta %d of %d", 1, 3)
	scoped.Info("stream finished")
}

func TestWithError(t *testing.T) {
	log := GetLogger().WithError(errors.New("backend unavailable"))
	assert.NotNil(t, log)
	log.Error("request failed")
}

func TestInitLoggerUnknownLevel(t *testing.T) {
	// InitLogger is once-only; exercising it with a bad level must not panic
	// regardless of whether this test runs first.
	InitLogger("not-a-level", "test")
	GetLogger().Info("still alive")
}
