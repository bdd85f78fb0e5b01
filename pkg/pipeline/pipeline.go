package pipeline

import (
	"sort"

	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
	"github.com/ajitpratap0/pipes/pkg/config"
	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/logger"
	"github.com/ajitpratap0/pipes/pkg/metrics"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Pipeline is a named collection of pipes. Adding a pipe under an existing
// name replaces the previous one.
//
// A Pipeline is not safe for concurrent mutation.
type Pipeline struct {
	pipes    map[string]pipe.Pipe
	registry *registry.Registry
	logger   *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRegistry makes the pipeline resolve adapters from r instead of the
// default registry
func WithRegistry(r *registry.Registry) Option {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithLogger sets the logger used by the pipeline
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a pipeline and adds spec to it. The pipeline is returned even
// when some pipes failed to build; the error lists every failure.
func New(spec Spec, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		pipes:    make(map[string]pipe.Pipe),
		registry: registry.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}
	p.logger = p.logger.With(zap.String("component", "pipeline"))

	return p, p.Add(spec)
}

// Add builds and stores the pipes described by spec.
//
// A list is applied element by element. Elements that fail do not stop the
// rest; their errors are combined (see multierr.Errors) and every element
// that succeeded stays in the pipeline.
func (p *Pipeline) Add(spec Spec) error {
	switch spec.kind {
	case KindName:
		if spec.name == "" {
			return nil
		}
		return p.addConfig(config.PipeConfig{Name: spec.name})
	case KindConfig:
		return p.addConfig(spec.config)
	case KindList:
		var errs error
		for i, item := range spec.items {
			if err := p.Add(item); err != nil {
				errs = multierr.Append(errs, withIndex(err, i))
			}
		}
		return errs
	default:
		return nil
	}
}

// MustAdd is like Add but panics on error. It returns the pipeline so calls
// can be chained.
func (p *Pipeline) MustAdd(spec Spec) *Pipeline {
	if err := p.Add(spec); err != nil {
		panic(err)
	}
	return p
}

func (p *Pipeline) addConfig(cfg config.PipeConfig) error {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		metrics.AddErrors.WithLabelValues(string(errors.ErrorTypeValidation)).Inc()
		p.logger.Warn("pipe rejected", zap.String("type", cfg.Type), zap.Error(err))
		return err
	}

	created, err := p.registry.Create(cfg.Type, cfg.Name, cfg.RecordID, cfg.Settings)
	if err != nil {
		reason := errors.ErrorTypeConfig
		if errors.IsType(err, errors.ErrorTypeNotFound) {
			reason = errors.ErrorTypeNotFound
		}
		metrics.AddErrors.WithLabelValues(string(reason)).Inc()
		p.logger.Warn("failed to create pipe",
			zap.String("pipe", cfg.Name),
			zap.String("type", cfg.Type),
			zap.Error(err))
		return err
	}

	if _, exists := p.pipes[cfg.Name]; exists {
		p.logger.Debug("pipe replaced", zap.String("pipe", cfg.Name), zap.String("type", cfg.Type))
	}
	p.pipes[cfg.Name] = created
	metrics.PipesAdded.WithLabelValues(cfg.Type).Inc()
	p.logger.Debug("pipe added",
		zap.String("pipe", cfg.Name),
		zap.String("type", cfg.Type),
		zap.String("record_id", cfg.RecordID))

	return nil
}

// Remove deletes the pipes spec refers to. Names that are not present are
// ignored, so removing twice is the same as removing once.
func (p *Pipeline) Remove(spec Spec) *Pipeline {
	for _, name := range spec.PipeNames() {
		if _, exists := p.pipes[name]; !exists {
			continue
		}
		delete(p.pipes, name)
		metrics.PipesRemoved.Inc()
		p.logger.Debug("pipe removed", zap.String("pipe", name))
	}
	return p
}

// Get returns the pipe stored under name
func (p *Pipeline) Get(name string) (pipe.Pipe, bool) {
	pp, ok := p.pipes[name]
	return pp, ok
}

// Names returns the pipe names, sorted
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.pipes))
	for name := range p.pipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of pipes
func (p *Pipeline) Len() int {
	return len(p.pipes)
}

// Pipes returns a copy of the pipe map
func (p *Pipeline) Pipes() map[string]pipe.Pipe {
	out := make(map[string]pipe.Pipe, len(p.pipes))
	for k, v := range p.pipes {
		out[k] = v
	}
	return out
}

// withIndex records the list position of a failed element unless a nested
// list already did
func withIndex(err error, i int) error {
	if e, ok := err.(*errors.Error); ok {
		if _, set := e.Details["index"]; !set {
			e.WithDetail("index", i)
		}
	}
	return err
}
