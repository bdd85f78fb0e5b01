package pipeline

import (
	"github.com/ajitpratap0/pipes/pkg/config"
)

// Kind tells which input shape a Spec holds
type Kind int

const (
	// KindNone is the empty spec; Add and Remove do nothing with it
	KindNone Kind = iota
	// KindName is a bare pipe name using every default
	KindName
	// KindConfig is a full pipe configuration
	KindConfig
	// KindList is an ordered sequence of specs
	KindList
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindName:
		return "name"
	case KindConfig:
		return "config"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Spec describes which pipes to add to or remove from a pipeline. The zero
// value is the empty spec.
type Spec struct {
	kind   Kind
	name   string
	config config.PipeConfig
	items  []Spec
}

// None returns the empty spec
func None() Spec {
	return Spec{}
}

// Name refers to a single pipe by name. When added, the pipe gets the
// default adapter, record identifier and empty settings.
func Name(name string) Spec {
	return Spec{kind: KindName, name: name}
}

// Config describes a single pipe by its full configuration
func Config(cfg config.PipeConfig) Spec {
	return Spec{kind: KindConfig, config: cfg}
}

// List combines specs. They are applied in order.
func List(items ...Spec) Spec {
	return Spec{kind: KindList, items: items}
}

// Names is shorthand for a list of Name specs
func Names(names ...string) Spec {
	items := make([]Spec, len(names))
	for i, n := range names {
		items[i] = Name(n)
	}
	return List(items...)
}

// FromConfig turns a pipeline definition into a list spec
func FromConfig(pc *config.PipelineConfig) Spec {
	if pc == nil {
		return None()
	}

	items := make([]Spec, 0, len(pc.Pipes))
	for _, entry := range pc.Pipes {
		if entry.Config != nil {
			items = append(items, Config(*entry.Config))
		} else {
			items = append(items, Name(entry.Name))
		}
	}
	return List(items...)
}

// Kind returns the input shape
func (s Spec) Kind() Kind {
	return s.kind
}

// IsEmpty reports whether applying s can have no effect: the empty
// spec, an empty name or an empty list.
func (s Spec) IsEmpty() bool {
	switch s.kind {
	case KindName:
		return s.name == ""
	case KindConfig:
		return false
	case KindList:
		return len(s.items) == 0
	default:
		return true
	}
}

// PipeNames returns the names s refers to, in order
func (s Spec) PipeNames() []string {
	switch s.kind {
	case KindName:
		if s.name == "" {
			return nil
		}
		return []string{s.name}
	case KindConfig:
		return []string{s.config.Name}
	case KindList:
		var names []string
		for _, item := range s.items {
			names = append(names, item.PipeNames()...)
		}
		return names
	default:
		return nil
	}
}
