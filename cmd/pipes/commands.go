package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
	"github.com/ajitpratap0/pipes/pkg/config"
	"github.com/ajitpratap0/pipes/pkg/errors"
	jsonpool "github.com/ajitpratap0/pipes/pkg/json"
	"github.com/ajitpratap0/pipes/pkg/logger"
	"github.com/ajitpratap0/pipes/pkg/observability"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"github.com/ajitpratap0/pipes/pkg/pipeline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List registered adapter types",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tVERSION\tCAPABILITIES\tDESCRIPTION")
			for _, typeName := range registry.List() {
				info, err := registry.GetAdapterInfo(typeName)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\t-\t-\n", typeName)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", typeName, info.Version,
					strings.Join(info.Capabilities, ","), info.Description)
			}
			_ = w.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Build a pipeline from a definition file and list its pipes",
		Long: `Build a pipeline from a YAML or JSON definition file and print every pipe
that was constructed. Every entry is tried; all failures are reported and
the command exits non-zero if any entry failed.

Example:
  pipes validate -c pipeline.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline(configFile)
			if p != nil {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tTYPE\tRECORD ID")
				for _, name := range p.Names() {
					pp, _ := p.Get(name)
					fmt.Fprintf(w, "%s\t%s\t%s\n", name, pp.Type(), pp.RecordID())
				}
				_ = w.Flush()
			}
			if err != nil {
				for _, e := range multierr.Errors(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", e)
				}
				return fmt.Errorf("%d pipe(s) failed", len(multierr.Errors(err)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to pipeline definition file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newReadCmd() *cobra.Command {
	var (
		configFile string
		pipeName   string
		id         string
		query      map[string]string
		timeout    time.Duration
		trace      bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read records from one pipe of a pipeline",
		Long: `Build the pipeline described by a definition file and read from one of its
pipes. Records are printed as a JSON array, or one object per line with
--format lines.

Example:
  pipes read -c pipeline.yaml -p tasks --id 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trace {
				tc := observability.DefaultTracingConfig()
				tc.ServiceVersion = version
				tc.Writer = cmd.ErrOrStderr()
				shutdown, err := observability.InitTracing(tc)
				if err != nil {
					return err
				}
				defer func() { _ = shutdown(context.Background()) }()
			}

			p, err := buildPipeline(configFile)
			if p == nil {
				return err
			}
			if err != nil {
				logger.Warn("some pipes failed to build", zap.Error(err))
			}

			target, ok := p.Get(pipeName)
			if !ok {
				return errors.Newf(errors.ErrorTypeNotFound, "pipe %q not in pipeline", pipeName)
			}
			reader, ok := target.(pipe.Reader)
			if !ok {
				return errors.Newf(errors.ErrorTypeCapability, "pipe %q (%s) cannot read", pipeName, target.Type())
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctx = context.WithValue(ctx, logger.PipeKey, pipeName)
			ctx = context.WithValue(ctx, logger.RequestIDKey, uuid.NewString())

			records, err := reader.Read(ctx, pipe.ReadOptions{ID: id, Query: query})
			if err != nil {
				return err
			}

			return jsonpool.WriteRecords(cmd.OutOrStdout(), records, format)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to pipeline definition file (required)")
	cmd.Flags().StringVarP(&pipeName, "pipe", "p", "", "Name of the pipe to read from (required)")
	cmd.Flags().StringVar(&id, "id", "", "Read a single record by identifier")
	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "Query parameters (key=value)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Read timeout")
	cmd.Flags().StringVar(&format, "format", jsonpool.FormatArray, "Output format (array, lines)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print OpenTelemetry spans to stderr")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("pipe")
	return cmd
}

// buildPipeline loads a definition file, configures logging from it and
// builds the pipeline. The pipeline is nil only when the file itself could
// not be loaded.
func buildPipeline(path string) (*pipeline.Pipeline, error) {
	cfg, err := config.LoadPipeline(path)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogFormat}); err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if cfg.Name != "" {
		log = log.With(zap.String("pipeline", cfg.Name))
	}

	return pipeline.New(pipeline.FromConfig(cfg), pipeline.WithLogger(log))
}
