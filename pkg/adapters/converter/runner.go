// Package converter invokes the external tools that turn a foreign-format
// model into the native automata-network format, and the in-place
// simplification pass over the result.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dverna/annet/internal/logging"
	"github.com/dverna/annet/pkg/domain"
)

// Runner drives the conversion and simplification tools. Conversions are
// deterministic and non-transient: a failure is fatal and never retried.
type Runner struct {
	convert  ToolConfig
	simplify ToolConfig
	logger   *slog.Logger
}

// Option configures the runner.
type Option func(*Runner)

// WithConvertTool rebinds the converter executable.
func WithConvertTool(command string, args ...string) Option {
	return func(r *Runner) {
		r.convert = ToolConfig{Name: ToolConvert, Command: command, Args: args}
	}
}

// WithSimplifyTool rebinds the simplifier executable.
func WithSimplifyTool(command string, args ...string) Option {
	return func(r *Runner) {
		r.simplify = ToolConfig{Name: ToolSimplify, Command: command, Args: args}
	}
}

// WithTools applies bindings from a loaded tool registry; names absent from
// the registry keep their built-in binding.
func WithTools(tools map[string]ToolConfig) Option {
	return func(r *Runner) {
		if t, ok := tools[ToolConvert]; ok {
			r.convert = t
		}
		if t, ok := tools[ToolSimplify]; ok {
			r.simplify = t
		}
	}
}

// WithLogger sets a structured logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a converter runner with the standard tool bindings.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		convert:  ToolConfig{Name: ToolConvert, Command: "GINsim", Args: []string{"-lqm"}},
		simplify: ToolConfig{Name: ToolSimplify, Command: "pint-export", Args: []string{"--simplify"}},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Convert produces anPath, in the native format, from the foreign-format
// file at inputPath.
func (r *Runner) Convert(ctx context.Context, format, inputPath, anPath string) error {
	args := append(append([]string(nil), r.convert.Args...),
		"-if", format, inputPath, "-of", "an", anPath)
	r.logger.Debug("converting model", "format", format, "input", inputPath, "output", anPath)
	if err := r.run(ctx, r.convert.Command, args); err != nil {
		return &domain.ConversionError{Format: format, Err: err}
	}
	return nil
}

// Simplify canonicalizes the native-format file in place.
func (r *Runner) Simplify(ctx context.Context, anPath string) error {
	args := append(append([]string(nil), r.simplify.Args...),
		"-i", anPath, "-o", anPath)
	r.logger.Debug("simplifying model", "path", anPath)
	if err := r.run(ctx, r.simplify.Command, args); err != nil {
		return &domain.ConversionError{Format: "an", Err: err}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, command string, args []string) error {
	cmd := exec.CommandContext(ctx, command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("%s %s: %v", command, strings.Join(args, " "), err)
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
