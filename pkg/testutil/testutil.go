// Package testutil provides testing utilities for pipes
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// FactoryCall holds the arguments an adapter factory was invoked with
type FactoryCall struct {
	Type     string
	Name     string
	RecordID string
	Settings pipe.Settings
}

// StubPipe is the pipe produced by a RecordingRegistry
type StubPipe struct {
	pipe.Base
	Settings pipe.Settings
}

// RecordingRegistry is a private adapter registry whose factories build
// StubPipes and remember every call
type RecordingRegistry struct {
	*registry.Registry

	mu    sync.Mutex
	calls []FactoryCall
}

// NewRecordingRegistry registers a recording factory for each type
func NewRecordingRegistry(types ...string) *RecordingRegistry {
	r := &RecordingRegistry{Registry: registry.NewRegistry()}
	for _, typ := range types {
		r.Register(typ, r.Factory(typ))
	}
	return r
}

// Factory returns a recording factory for typ
func (r *RecordingRegistry) Factory(typ string) registry.Factory {
	return func(name, recordID string, settings pipe.Settings) (pipe.Pipe, error) {
		r.mu.Lock()
		r.calls = append(r.calls, FactoryCall{Type: typ, Name: name, RecordID: recordID, Settings: settings})
		r.mu.Unlock()
		return &StubPipe{Base: pipe.NewBase(name, typ, recordID), Settings: settings}, nil
	}
}

// Calls returns the factory calls so far, in order
func (r *RecordingRegistry) Calls() []FactoryCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FactoryCall, len(r.calls))
	copy(out, r.calls)
	return out
}
