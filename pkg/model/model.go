// Package model holds the descriptor of a loaded automata-network model:
// its metadata projections, its primary initial state, and the named
// alternate states registered during import.
package model

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dverna/annet/internal/logging"
	"github.com/dverna/annet/pkg/adapters/exporter"
	"github.com/dverna/annet/pkg/domain"
)

// Exporter is the collaborator that turns a model source into its metadata
// document. Satisfied by *exporter.Runner.
type Exporter interface {
	Export(ctx context.Context, src exporter.Source) (map[string]any, error)
}

// SourceBinding ties a model to its concrete source. The single Contribute
// hook adds source-specific invocation parameters; Bytes returns the native
// text of the source.
type SourceBinding interface {
	exporter.Source
	Bytes() ([]byte, error)
}

// FileBinding is a source stored in a local native-format file.
type FileBinding struct {
	Path string
}

func (b FileBinding) Contribute(inv *exporter.Invocation) {
	inv.Args = append(inv.Args, "-i", b.Path)
}

func (b FileBinding) Bytes() ([]byte, error) {
	return os.ReadFile(b.Path)
}

// BufferBinding is a source held in memory, fed to the collaborator on
// standard input.
type BufferBinding struct {
	Data []byte
}

func (b BufferBinding) Contribute(inv *exporter.Invocation) {
	inv.Stdin = b.Data
}

func (b BufferBinding) Bytes() ([]byte, error) {
	return b.Data, nil
}

// Model is the descriptor of a loaded automata-network model. It owns the
// primary InitialState and the named alternates, and projects the metadata
// document through read-only accessors.
type Model struct {
	binding SourceBinding
	runner  Exporter
	logger  *slog.Logger

	meta    *domain.Metadata
	initial *domain.InitialState
	named   map[string]*domain.InitialState
}

// Option configures a Model before its first load.
type Option func(*Model)

// WithExporter injects the metadata collaborator. Defaults to the standard
// exporter runner.
func WithExporter(e Exporter) Option {
	return func(m *Model) {
		m.runner = e
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New builds a model descriptor over the given source binding and performs
// the initial load.
func New(ctx context.Context, binding SourceBinding, opts ...Option) (*Model, error) {
	m := &Model{
		binding: binding,
		logger:  logging.NewNop(),
		named:   make(map[string]*domain.InitialState),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = exporter.NewRunner()
	}
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFile builds a model descriptor from a local native-format file.
func FromFile(ctx context.Context, path string, opts ...Option) (*Model, error) {
	return New(ctx, FileBinding{Path: path}, opts...)
}

// FromBytes builds a model descriptor from an in-memory native-format
// source text.
func FromBytes(ctx context.Context, data []byte, opts ...Option) (*Model, error) {
	return New(ctx, BufferBinding{Data: data}, opts...)
}

// Load (re-)acquires the metadata document from the collaborator and
// rebuilds the primary initial state from it. Typical usage calls it once,
// through New; calling it again rebuilds from fresh metadata.
func (m *Model) Load(ctx context.Context) error {
	m.initial = nil
	raw, err := m.runner.Export(ctx, m)
	if err != nil {
		return err
	}
	meta, err := domain.DecodeMetadata(raw)
	if err != nil {
		return err
	}
	m.meta = meta
	m.initial = domain.NewInitialState(meta)
	m.logger.Debug("model loaded",
		"automata", len(meta.Automata),
		"transitions", len(meta.LocalTransitions))
	return nil
}

// Contribute implements exporter.Source: the binding adds its input
// parameters, and when the primary initial state diverges from the default,
// the serialized overrides ride along as the custom initial context.
func (m *Model) Contribute(inv *exporter.Invocation) {
	m.binding.Contribute(inv)
	if m.initial != nil && m.initial.IsCustom() {
		inv.Args = append(inv.Args, "--initial-context", m.initial.Serialize())
	}
}

// Automata returns the automaton names in model order.
func (m *Model) Automata() []string {
	return append([]string(nil), m.meta.Automata...)
}

// LocalStates returns the integer local states of each automaton.
func (m *Model) LocalStates() map[string][]int {
	out := make(map[string][]int, len(m.meta.LocalStates))
	for a, states := range m.meta.LocalStates {
		out[a] = append([]int(nil), states...)
	}
	return out
}

// NamedLocalStates returns the per-automaton named state aliases.
func (m *Model) NamedLocalStates() map[string][]string {
	out := make(map[string][]string, len(m.meta.NamedLocalStates))
	for a, names := range m.meta.NamedLocalStates {
		out[a] = append([]string(nil), names...)
	}
	return out
}

// Features returns the feature table of the model.
func (m *Model) Features() []string {
	return append([]string(nil), m.meta.Features...)
}

// LocalTransitions returns the local transitions of the model.
func (m *Model) LocalTransitions() []domain.Transition {
	return append([]domain.Transition(nil), m.meta.LocalTransitions...)
}

// InitialState returns the primary initial state. Mutations through Set,
// Delete and Reset are picked up by the next collaborator invocation.
func (m *Model) InitialState() *domain.InitialState {
	return m.initial
}

// SetInitialState replaces the primary initial state with one derived from
// the same model.
func (m *Model) SetInitialState(s *domain.InitialState) error {
	if !m.initial.SharesModel(s) {
		return fmt.Errorf("initial state belongs to a different model")
	}
	m.initial = s
	return nil
}

// Register stores a named alternate initial state built from the given
// assignment. The assignment is validated against the model's domains and
// folded into the named state's own default vector, so the named state
// carries no overrides and stays immutable afterwards.
func (m *Model) Register(name string, assignment map[string]any) error {
	probe := m.initial.Copy()
	if err := probe.Update(assignment); err != nil {
		return fmt.Errorf("named state %q: %w", name, err)
	}
	values := make(map[string]domain.Value, len(assignment))
	for a := range assignment {
		v, err := probe.Get(a)
		if err != nil {
			return fmt.Errorf("named state %q: %w", name, err)
		}
		values[a] = v
	}
	m.named[name] = domain.NamedState(m.initial, values)
	return nil
}

// NamedState returns a copy of a registered alternate initial state; the
// stored original stays untouched by whatever the caller does with it.
func (m *Model) NamedState(name string) (*domain.InitialState, bool) {
	s, ok := m.named[name]
	if !ok {
		return nil, false
	}
	return s.Copy(), true
}

// NamedStateNames lists the registered alternate states, sorted.
func (m *Model) NamedStateNames() []string {
	names := make([]string, 0, len(m.named))
	for name := range m.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Having returns a shallow copy of the model with a copied primary initial
// state updated with the given changes.
func (m *Model) Having(changes map[string]any) (*Model, error) {
	s, err := m.initial.Having(changes)
	if err != nil {
		return nil, err
	}
	cp := *m
	cp.initial = s
	return &cp, nil
}

// HavingNamed returns a shallow copy of the model whose primary initial
// state is the registered alternate of that name.
func (m *Model) HavingNamed(name string) (*Model, error) {
	s, ok := m.named[name]
	if !ok {
		return nil, fmt.Errorf("no named state %q", name)
	}
	cp := *m
	cp.initial = s.Copy()
	return &cp, nil
}

// Source returns the native-format text of the model source.
func (m *Model) Source() (string, error) {
	data, err := m.binding.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to read model source: %w", err)
	}
	return string(data), nil
}
