package config

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// PipeEntry is one element of a pipeline definition. It is either a bare
// pipe name or a full PipeConfig object; exactly one of Name and Config is
// meaningful.
type PipeEntry struct {
	Name   string
	Config *PipeConfig
}

// NameEntry creates an entry holding only a pipe name
func NameEntry(name string) PipeEntry {
	return PipeEntry{Name: name}
}

// ConfigEntry creates an entry holding a full configuration
func ConfigEntry(cfg PipeConfig) PipeEntry {
	return PipeEntry{Config: &cfg}
}

// PipeName returns the name the entry refers to
func (e PipeEntry) PipeName() string {
	if e.Config != nil {
		return e.Config.Name
	}
	return e.Name
}

// UnmarshalYAML accepts either a scalar name or a mapping
func (e *PipeEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Config = nil
		return node.Decode(&e.Name)
	case yaml.MappingNode:
		var cfg PipeConfig
		if err := node.Decode(&cfg); err != nil {
			return err
		}
		e.Name = ""
		e.Config = &cfg
		return nil
	default:
		return fmt.Errorf("line %d: pipe entry must be a name or an object", node.Line)
	}
}

// MarshalYAML writes names as scalars and configurations as mappings
func (e PipeEntry) MarshalYAML() (interface{}, error) {
	if e.Config != nil {
		return e.Config, nil
	}
	return e.Name, nil
}

// UnmarshalJSON accepts either a string name or an object
func (e *PipeEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		e.Config = nil
		return gojson.Unmarshal(data, &e.Name)
	}

	var cfg PipeConfig
	if err := gojson.Unmarshal(data, &cfg); err != nil {
		return err
	}
	e.Name = ""
	e.Config = &cfg
	return nil
}

// MarshalJSON writes names as strings and configurations as objects
func (e PipeEntry) MarshalJSON() ([]byte, error) {
	if e.Config != nil {
		return gojson.Marshal(e.Config)
	}
	return gojson.Marshal(e.Name)
}
