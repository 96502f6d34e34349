package annet

import (
	"context"
	"log/slog"

	"github.com/dverna/annet/pkg/adapters/converter"
	"github.com/dverna/annet/pkg/adapters/fetch"
	"github.com/dverna/annet/pkg/domain"
	"github.com/dverna/annet/pkg/loader"
	"github.com/dverna/annet/pkg/model"
)

// Model is the descriptor of a loaded automata-network model.
type Model = model.Model

// InitialState is the validated initial-state assignment of a model.
type InitialState = domain.InitialState

// Value is a local-state assignment value.
type Value = domain.Value

// Option configures a Load call.
type Option func(*config)

type config struct {
	format     string
	simplify   bool
	outputDir  string
	logger     *slog.Logger
	exporter   model.Exporter
	converter  *converter.Runner
	fetcher    *fetch.Fetcher
	extractors map[string]loader.StateExtractor
}

// WithFormat overrides extension-based format sniffing.
func WithFormat(format string) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithSimplify toggles the post-conversion simplification pass (default
// on).
func WithSimplify(simplify bool) Option {
	return func(c *config) {
		c.simplify = simplify
	}
}

// WithOutputDir sets the directory for downloads and generated files.
func WithOutputDir(dir string) Option {
	return func(c *config) {
		c.outputDir = dir
	}
}

// WithLogger sets a structured logger for the whole pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExporter injects a custom metadata collaborator.
func WithExporter(e model.Exporter) Option {
	return func(c *config) {
		c.exporter = e
	}
}

// WithConverter injects a custom conversion collaborator.
func WithConverter(r *converter.Runner) Option {
	return func(c *config) {
		c.converter = r
	}
}

// WithFetcher injects a custom remote-source collaborator.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(c *config) {
		c.fetcher = f
	}
}

// WithStateExtractor installs a named-state extractor for a foreign
// format.
func WithStateExtractor(format string, fn loader.StateExtractor) Option {
	return func(c *config) {
		if c.extractors == nil {
			c.extractors = make(map[string]loader.StateExtractor)
		}
		c.extractors[format] = fn
	}
}

// Load loads a model from a local path or URL. The format is guessed from
// the file extension unless WithFormat declares it; foreign formats are
// converted to the native one and simplified unless WithSimplify(false).
// Remote sources are downloaded before processing.
func Load(ctx context.Context, path string, opts ...Option) (*Model, error) {
	cfg := config{simplify: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lopts []loader.Option
	if cfg.logger != nil {
		lopts = append(lopts, loader.WithLogger(cfg.logger))
	}
	if cfg.outputDir != "" {
		lopts = append(lopts, loader.WithOutputDir(cfg.outputDir))
	}
	if cfg.exporter != nil {
		lopts = append(lopts, loader.WithExporter(cfg.exporter))
	}
	if cfg.converter != nil {
		lopts = append(lopts, loader.WithConverter(cfg.converter))
	}
	if cfg.fetcher != nil {
		lopts = append(lopts, loader.WithFetcher(cfg.fetcher))
	}

	l := loader.New(lopts...)
	for format, fn := range cfg.extractors {
		l.RegisterExtractor(format, fn)
	}

	var dopts []loader.LoadOption
	if cfg.format != "" {
		dopts = append(dopts, loader.WithFormat(cfg.format))
	}
	dopts = append(dopts, loader.WithSimplify(cfg.simplify))

	return l.Load(ctx, path, dopts...)
}

// SupportedFormats lists the model formats Load accepts.
func SupportedFormats() []string {
	return loader.SupportedFormats()
}
