// Package loader resolves a model source (local path or URL, declared or
// sniffed format) into a built model descriptor, converting foreign formats
// to the native one on the way.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dverna/annet/internal/logging"
	"github.com/dverna/annet/internal/metrics"
	"github.com/dverna/annet/pkg/adapters/converter"
	"github.com/dverna/annet/pkg/adapters/fetch"
	"github.com/dverna/annet/pkg/domain"
	"github.com/dverna/annet/pkg/model"
)

// FormatNative is the toolchain's own automata-network format, requiring no
// conversion.
const FormatNative = "an"

// ext2format maps file extensions to model formats.
var ext2format = map[string]string{
	"an":            "an",
	"bn":            "boolfunctions",
	"booleannet":    "booleannet",
	"boolfunctions": "boolfunctions",
	"boolsim":       "boolsim",
	"sbml":          "sbml",
}

// foreignFormats are the formats requiring conversion to native.
var foreignFormats = map[string]bool{
	"boolfunctions": true,
	"boolsim":       true,
	"booleannet":    true,
	"sbml":          true,
}

// SupportedFormats lists the formats the loader accepts, sorted.
func SupportedFormats() []string {
	seen := make(map[string]bool)
	var formats []string
	for _, f := range ext2format {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	sort.Strings(formats)
	return formats
}

// Extensions returns the extension table as (extension, format) pairs,
// sorted by extension.
func Extensions() [][2]string {
	exts := make([]string, 0, len(ext2format))
	for e := range ext2format {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	out := make([][2]string, len(exts))
	for i, e := range exts {
		out[i] = [2]string{e, ext2format[e]}
	}
	return out
}

// ResolveFormat determines the model format of a path. A declared format
// wins; otherwise the substring after the last dot, lowercased, is looked
// up in the extension table.
func ResolveFormat(path, declared string) (string, error) {
	if declared != "" {
		return declared, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	format, ok := ext2format[ext]
	if !ok {
		return "", &domain.UnsupportedFormatError{Format: ext}
	}
	return format, nil
}

// StateExtractor recovers named initial states embedded in a foreign-format
// source, keyed by state name. Extraction logic is format specific and
// external to the loader; extractors are registered per format.
type StateExtractor func(inputPath string) (map[string]map[string]any, error)

// Loader drives the load state machine: resolve format, fetch remote
// sources, then dispatch to the native path or the conversion pipeline.
type Loader struct {
	exporter   model.Exporter
	converter  *converter.Runner
	fetcher    *fetch.Fetcher
	extractors map[string]StateExtractor
	outputDir  string
	logger     *slog.Logger
}

// Option configures the loader.
type Option func(*Loader)

// WithExporter injects the metadata collaborator passed to built models.
func WithExporter(e model.Exporter) Option {
	return func(l *Loader) {
		l.exporter = e
	}
}

// WithConverter injects the conversion collaborator.
func WithConverter(c *converter.Runner) Option {
	return func(l *Loader) {
		l.converter = c
	}
}

// WithFetcher injects the remote-source collaborator.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithOutputDir sets the directory for downloads and generated native
// files (default "gen"). The directory is created on first use.
func WithOutputDir(dir string) Option {
	return func(l *Loader) {
		l.outputDir = dir
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		extractors: make(map[string]StateExtractor),
		outputDir:  "gen",
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.converter == nil {
		l.converter = converter.NewRunner(converter.WithLogger(l.logger))
	}
	if l.fetcher == nil {
		l.fetcher = fetch.New(fetch.WithLogger(l.logger))
	}
	return l
}

// RegisterExtractor installs a named-state extractor for a foreign format.
func (l *Loader) RegisterExtractor(format string, fn StateExtractor) {
	l.extractors[format] = fn
}

// LoadOption configures one load call.
type LoadOption func(*loadConfig)

type loadConfig struct {
	format   string
	simplify bool
}

// WithFormat overrides extension sniffing for this load.
func WithFormat(format string) LoadOption {
	return func(c *loadConfig) {
		c.format = format
	}
}

// WithSimplify toggles the post-conversion simplification pass (default
// on).
func WithSimplify(simplify bool) LoadOption {
	return func(c *loadConfig) {
		c.simplify = simplify
	}
}

// Load resolves, fetches and dispatches a model source, returning the built
// descriptor. Remote sources (URI with a network location) are downloaded
// first; local sources must exist before any external tool runs.
func (l *Loader) Load(ctx context.Context, path string, opts ...LoadOption) (*model.Model, error) {
	cfg := loadConfig{simplify: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	format, err := ResolveFormat(path, cfg.format)
	if err != nil {
		return nil, err
	}

	local := path
	if fetch.IsRemote(path) {
		dir, err := l.ensureOutputDir()
		if err != nil {
			return nil, err
		}
		local, err = l.fetcher.Fetch(ctx, path, dir)
		if err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(local); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingFile, local)
	}

	var m *model.Model
	switch {
	case format == FormatNative:
		l.logger.Debug("source file is in native format", "path", local)
		m, err = model.FromFile(ctx, local, l.modelOptions()...)
	case foreignFormats[format]:
		l.logger.Debug("source file requires conversion", "format", format, "path", local)
		m, err = l.convert(ctx, format, local, cfg.simplify)
	default:
		return nil, &domain.UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, err
	}

	metrics.ModelsLoaded.WithLabelValues(format).Inc()
	return m, nil
}

func (l *Loader) modelOptions() []model.Option {
	opts := []model.Option{model.WithLogger(l.logger)}
	if l.exporter != nil {
		opts = append(opts, model.WithExporter(l.exporter))
	}
	return opts
}

func (l *Loader) ensureOutputDir() (string, error) {
	if err := os.MkdirAll(l.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return l.outputDir, nil
}

// newOutputFile creates a fresh native-format output path in the output
// directory, named after the source basename.
func (l *Loader) newOutputFile(sourcePath string) (string, error) {
	dir, err := l.ensureOutputDir()
	if err != nil {
		return "", err
	}
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if len(name) > 15 {
		name = name[len(name)-15:]
	}
	f, err := os.CreateTemp(dir, "pint*"+name+".an")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
