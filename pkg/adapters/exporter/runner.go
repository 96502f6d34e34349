// Package exporter invokes the external model-query tool that turns a
// native-format model into its structured metadata document.
package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dverna/annet/internal/logging"
)

// Invocation accumulates the arguments and standard input of one exporter
// run. Sources contribute to it through the single Contribute hook.
type Invocation struct {
	Args  []string
	Stdin []byte
}

// Source contributes source-specific invocation parameters: a file-backed
// source adds an input-path flag, a buffer-backed one feeds stdin, and a
// model adds its custom initial context when it has one.
type Source interface {
	Contribute(inv *Invocation)
}

// Runner executes the exporter tool and decodes its JSON output. The
// default command asks for the notebook-JSON listing of the model.
type Runner struct {
	command string
	args    []string
	logger  *slog.Logger
}

// Option configures the runner.
type Option func(*Runner)

// WithCommand rebinds the exporter executable and its base arguments.
func WithCommand(command string, args ...string) Option {
	return func(r *Runner) {
		r.command = command
		r.args = args
	}
}

// WithLogger sets a structured logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates an exporter runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		command: "pint-export",
		args:    []string{"-l", "nbjson"},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Export runs the exporter against the source and returns the raw metadata
// document. A non-zero exit surfaces as a *ProcessError carrying the exit
// code and captured stderr.
func (r *Runner) Export(ctx context.Context, src Source) (map[string]any, error) {
	inv := &Invocation{Args: append([]string(nil), r.args...)}
	src.Contribute(inv)

	cmd := exec.CommandContext(ctx, r.command, inv.Args...)
	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running exporter", "command", r.command, "args", inv.Args)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return nil, &ProcessError{
			Command:  r.command + " " + strings.Join(inv.Args, " "),
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode exporter output: %w", err)
	}
	return raw, nil
}

// ProcessError reports a failed exporter invocation.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("exporter %q exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }
