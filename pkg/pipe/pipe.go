// Package pipe defines the contract between a pipeline and the adapters that
// build its pipes.
//
// A pipe is a client-side handle for a persistence endpoint. The pipeline
// never calls anything on a pipe besides its identity accessors; the data
// operations below are optional capabilities an adapter may implement.
package pipe

import (
	"context"
)

// Pipe is an opaque pipe instance produced by an adapter factory
type Pipe interface {
	// Name is the key the pipe is stored under in a pipeline
	Name() string
	// Type is the adapter type that constructed the pipe
	Type() string
	// RecordID names the field used as unique identifier within records
	RecordID() string
}

// Record is a single record managed by a pipe
type Record map[string]interface{}

// ID returns the record's identifier under the given field
func (r Record) ID(recordID string) (interface{}, bool) {
	v, ok := r[recordID]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

// ReadOptions narrows a read
type ReadOptions struct {
	// ID reads a single record when set
	ID string
	// Query is appended to the resource as query parameters
	Query map[string]string
}

// Reader is implemented by pipes that can read records
type Reader interface {
	Read(ctx context.Context, opts ReadOptions) ([]Record, error)
}

// Saver is implemented by pipes that can create or update records
type Saver interface {
	Save(ctx context.Context, record Record) (Record, error)
}

// Remover is implemented by pipes that can delete records
type Remover interface {
	Remove(ctx context.Context, id string) error
}

// Base carries the identity every pipe needs. Adapters embed it.
type Base struct {
	name     string
	typ      string
	recordID string
}

// NewBase creates the identity part of a pipe
func NewBase(name, typ, recordID string) Base {
	return Base{name: name, typ: typ, recordID: recordID}
}

// Name returns the pipe name
func (b Base) Name() string { return b.name }

// Type returns the adapter type
func (b Base) Type() string { return b.typ }

// RecordID returns the record identifier field
func (b Base) RecordID() string { return b.recordID }
