// Package registry holds the open set of adapter factories that pipelines use
// to construct pipes.
//
// Adapters register themselves from an init function in their own package, so
// a program selects its adapters by importing them:
//
//	import (
//	    _ "github.com/ajitpratap0/pipes/pkg/adapter/memory"
//	    _ "github.com/ajitpratap0/pipes/pkg/adapter/rest"
//	)
//
// Registration must happen before a pipeline references the type. The
// default registry is process-wide, shared by every pipeline, and meant to
// be populated at startup and read afterwards.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/logger"
	"github.com/ajitpratap0/pipes/pkg/metrics"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"go.uber.org/zap"
)

// Factory creates a pipe instance. It receives the pipe name, the record
// identifier field and the adapter settings exactly as configured.
type Factory func(name, recordID string, settings pipe.Settings) (pipe.Pipe, error)

// Registry manages adapter registration and instantiation
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new, empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "adapter_registry")),
	}
}

// Register inserts or overwrites the factory for an adapter type. The
// factory is not inspected; a nil factory only fails when a pipe of that
// type is created.
func (r *Registry) Register(typeName string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		r.logger.Info("adapter factory replaced", zap.String("type", typeName))
	} else {
		r.logger.Debug("adapter registered", zap.String("type", typeName))
	}

	r.factories[typeName] = factory
	metrics.AdaptersRegistered.WithLabelValues(typeName).Inc()
}

// Lookup returns the factory for an adapter type. Absence is reported
// through the boolean and is not an error by itself.
func (r *Registry) Lookup(typeName string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, exists := r.factories[typeName]
	return factory, exists
}

// Create looks up typeName and invokes its factory
func (r *Registry) Create(typeName, name, recordID string, settings pipe.Settings) (pipe.Pipe, error) {
	factory, exists := r.Lookup(typeName)
	if !exists {
		metrics.AdapterLookupMisses.WithLabelValues(typeName).Inc()
		return nil, errors.Newf(errors.ErrorTypeNotFound, "adapter %q not registered", typeName).
			WithDetail("type", typeName).
			WithDetail("pipe", name)
	}
	if factory == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "adapter %q has no factory", typeName).
			WithDetail("type", typeName).
			WithDetail("pipe", name)
	}

	p, err := factory(name, recordID, settings)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create %s pipe %q", typeName, name)).
			WithDetail("type", typeName).
			WithDetail("pipe", name)
	}
	if p == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "adapter %q returned no pipe", typeName).
			WithDetail("type", typeName).
			WithDetail("pipe", name)
	}

	return p, nil
}

// Has checks if an adapter type is registered
func (r *Registry) Has(typeName string) bool {
	_, exists := r.Lookup(typeName)
	return exists
}

// List returns the registered adapter types, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Clear removes all registered adapters (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]Factory)
}

// Global registry functions

// Register registers an adapter factory in the global registry
func Register(typeName string, factory Factory) {
	globalRegistry.Register(typeName, factory)
}

// Lookup returns a factory from the global registry
func Lookup(typeName string) (Factory, bool) {
	return globalRegistry.Lookup(typeName)
}

// Create creates a pipe from the global registry
func Create(typeName, name, recordID string, settings pipe.Settings) (pipe.Pipe, error) {
	return globalRegistry.Create(typeName, name, recordID, settings)
}

// Has checks if a type is registered in the global registry
func Has(typeName string) bool {
	return globalRegistry.Has(typeName)
}

// List returns registered types from the global registry
func List() []string {
	return globalRegistry.List()
}

// Default returns the global registry instance.
// This is the registry pipelines use unless given another one.
func Default() *Registry {
	return globalRegistry
}
