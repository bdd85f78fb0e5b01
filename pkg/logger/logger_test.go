package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := context.WithValue(context.Background(), PipeKey, "tasks")
	ctx = context.WithValue(ctx, RequestIDKey, "req-1")
	WithContext(ctx).Info("reading")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "tasks", fields["pipe"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestGet_DefaultsWhenUnset(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Get())
}
