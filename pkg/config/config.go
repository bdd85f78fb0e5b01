// Package config provides the configuration types for pipes and pipelines.
// A PipeConfig describes one pipe; a PipelineConfig describes a whole
// pipeline as loaded from a YAML or JSON definition file.
//
// Example usage:
//
//	cfg := config.NewPipeConfig("tasks")
//	cfg.Settings["baseURL"] = "https://api.example.com/"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/pipe"
)

const (
	// DefaultType is the adapter type used when a pipe does not name one
	DefaultType = "rest"
	// DefaultRecordID is the identifier field used when a pipe does not name one
	DefaultRecordID = "id"
)

// PipeConfig describes a single pipe
type PipeConfig struct {
	// Name is the unique key of the pipe within its pipeline
	Name string `yaml:"name" json:"name"`
	// Type selects the adapter (e.g., "rest", "memory")
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// RecordID names the field that identifies records managed by the pipe
	RecordID string `yaml:"recordId,omitempty" json:"recordId,omitempty"`
	// Settings are adapter-specific and passed through untouched
	Settings pipe.Settings `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// NewPipeConfig creates a PipeConfig with every default applied
func NewPipeConfig(name string) PipeConfig {
	return PipeConfig{Name: name}.WithDefaults()
}

// WithDefaults returns a copy with the default type, record identifier and
// an empty settings map filled in where unset. Settings are shared, not
// copied.
func (c PipeConfig) WithDefaults() PipeConfig {
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.RecordID == "" {
		c.RecordID = DefaultRecordID
	}
	if c.Settings == nil {
		c.Settings = pipe.Settings{}
	}
	return c
}

// Validate checks required fields
func (c PipeConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "pipe name is required").
			WithDetail("type", c.Type)
	}
	return nil
}

// PipelineConfig is the on-disk description of a pipeline
type PipelineConfig struct {
	// Name identifies the pipeline in logs
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	// LogFormat selects json or console log output
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"`
	// Pipes lists the pipes in insertion order
	Pipes []PipeEntry `yaml:"pipes" json:"pipes"`
}
