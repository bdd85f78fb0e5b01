// Package memory provides an in-process pipe adapter registered as "memory".
// Records live in a map keyed by the value of the pipe's record identifier.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/metrics"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"github.com/google/uuid"
)

// Type is the adapter type name
const Type = "memory"

// Pipe keeps records in memory
type Pipe struct {
	pipe.Base

	mu      sync.RWMutex
	records map[string]pipe.Record
	order   []string
}

// New creates a memory pipe. The "data" setting seeds it with records.
func New(name, recordID string, settings pipe.Settings) (pipe.Pipe, error) {
	p := &Pipe{
		Base:    pipe.NewBase(name, Type, recordID),
		records: make(map[string]pipe.Record),
	}

	for i, rec := range settings.Records("data") {
		if _, err := p.save(rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("invalid seed record %d", i))
		}
	}

	return p, nil
}

// Read returns every record in insertion order, or the one matching opts.ID.
// Query filters keep records whose field equals the given value.
func (p *Pipe) Read(ctx context.Context, opts pipe.ReadOptions) ([]pipe.Record, error) {
	timer := metrics.NewTimer("read")
	out, err := p.read(ctx, opts)
	metrics.ObservePipeRequest(Type, p.Name(), timer.Name(), timer.Stop(), err)
	return out, err
}

func (p *Pipe) read(ctx context.Context, opts pipe.ReadOptions) ([]pipe.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTimeout, "read cancelled")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if opts.ID != "" {
		rec, ok := p.records[opts.ID]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "record %s not found", opts.ID).
				WithDetail("pipe", p.Name())
		}
		return []pipe.Record{copyRecord(rec)}, nil
	}

	out := make([]pipe.Record, 0, len(p.order))
	for _, id := range p.order {
		rec := p.records[id]
		if matches(rec, opts.Query) {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

// Save stores a record, assigning a UUID when it has no identifier
func (p *Pipe) Save(ctx context.Context, record pipe.Record) (pipe.Record, error) {
	timer := metrics.NewTimer("save")
	var (
		out pipe.Record
		err error
	)
	if err = ctx.Err(); err != nil {
		err = errors.Wrap(err, errors.ErrorTypeTimeout, "save cancelled")
	} else {
		p.mu.Lock()
		out, err = p.save(record)
		p.mu.Unlock()
	}
	metrics.ObservePipeRequest(Type, p.Name(), timer.Name(), timer.Stop(), err)
	return out, err
}

// save must be called with the lock held (or before the pipe is shared)
func (p *Pipe) save(record pipe.Record) (pipe.Record, error) {
	if record == nil {
		return nil, errors.New(errors.ErrorTypeData, "record is nil")
	}

	rec := copyRecord(record)
	id, ok := rec.ID(p.RecordID())
	if !ok {
		id = uuid.NewString()
		rec[p.RecordID()] = id
	}

	key := fmt.Sprint(id)
	if _, exists := p.records[key]; !exists {
		p.order = append(p.order, key)
	}
	p.records[key] = rec
	return copyRecord(rec), nil
}

// Remove deletes a record. Removing an unknown id is not an error.
func (p *Pipe) Remove(ctx context.Context, id string) error {
	timer := metrics.NewTimer("remove")
	err := ctx.Err()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeTimeout, "remove cancelled")
	} else {
		p.mu.Lock()
		if _, exists := p.records[id]; exists {
			delete(p.records, id)
			for i, key := range p.order {
				if key == id {
					p.order = append(p.order[:i], p.order[i+1:]...)
					break
				}
			}
		}
		p.mu.Unlock()
	}
	metrics.ObservePipeRequest(Type, p.Name(), timer.Name(), timer.Stop(), err)
	return err
}

// Len returns the number of stored records
func (p *Pipe) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// IDs returns the stored identifiers, sorted
func (p *Pipe) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.records))
	for id := range p.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func matches(rec pipe.Record, query map[string]string) bool {
	for k, v := range query {
		if fmt.Sprint(rec[k]) != v {
			return false
		}
	}
	return true
}

func copyRecord(r pipe.Record) pipe.Record {
	out := make(pipe.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
