// Package pipeline provides the Pipeline, a named collection of pipes built
// by adapters looked up in an adapter registry.
//
// # Overview
//
// A pipe is a client-side handle for a persistence endpoint, typically a
// REST resource. The pipeline does no I/O of its own: it turns add and
// remove requests into entries of its pipe map and asks the registry to
// construct each pipe.
//
// # Input Shapes
//
// Add and Remove take a Spec, which is one of four shapes:
//
//  1. None(): nothing happens.
//  2. Name("tasks"): a pipe named "tasks" using the "rest" adapter, record
//     identifier "id" and empty settings.
//  3. List(...): each element applied in order. Names(...) builds a list
//     of names.
//  4. Config(config.PipeConfig{...}): Type defaults to "rest", RecordID to
//     "id" and Settings to an empty map. Name is required.
//
// # Usage
//
//	import _ "github.com/ajitpratap0/pipes/pkg/adapter/rest"
//
//	p, err := pipeline.New(pipeline.Names("tasks", "projects"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.MustAdd(pipeline.Config(config.PipeConfig{
//	    Name:     "tags",
//	    Type:     "memory",
//	    RecordID: "uuid",
//	}))
//
//	tasks, _ := p.Get("tasks")
//	records, err := tasks.(pipe.Reader).Read(ctx, pipe.ReadOptions{})
//
// # Errors
//
// A pipe fails to build when its configuration has no name (validation
// error), when its type is not registered (not-found error) or when the
// adapter factory returns an error (config error). Within a list, failed
// elements do not stop later ones; Add returns all failures combined and
// keeps the pipes that were built. Each failure carries the list position
// under the "index" detail.
package pipeline
