// Package pipes assembles named persistence endpoints ("pipes") into a
// pipeline from a flexible description of which pipes to build.
//
// A Spec is either nothing, a pipe name, a single pipe
// configuration or a list mixing the two:
//
//	p, err := pipeline.New(pipeline.List(
//		pipeline.Name("tasks"),
//		pipeline.Config(config.PipeConfig{Name: "tags", Type: "memory", RecordID: "key"}),
//	))
//
// A bare name becomes a pipe of the default "rest" adapter whose record
// identifier field is "id". Adapters register a factory under their type
// name in the adapter registry, usually from an init function, so a binary
// selects the adapters it supports with blank imports:
//
//	import (
//		_ "github.com/ajitpratap0/pipes/pkg/adapter/memory"
//		_ "github.com/ajitpratap0/pipes/pkg/adapter/rest"
//	)
//
// # Packages
//
//   - pkg/pipeline: the Spec union and the Pipeline collection
//   - pkg/adapter/registry: the type name to factory registry and catalog
//   - pkg/adapter/rest: HTTP JSON resource pipes, the default adapter
//   - pkg/adapter/memory: in-process pipes for tests and fixtures
//   - pkg/config: pipe and pipeline definitions loaded from YAML or JSON
//   - pkg/pipe: the Pipe interface, records, settings and capabilities
//   - pkg/clients: the HTTP client with rate limiting and a circuit breaker
//   - pkg/errors, pkg/logger, pkg/metrics, pkg/observability: ambient support
//
// The pipes command (cmd/pipes) lists adapters, validates definition files
// and reads from a pipe.
package pipes
