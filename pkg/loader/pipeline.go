package loader

import (
	"context"
	"fmt"

	"github.com/dverna/annet/internal/metrics"
	"github.com/dverna/annet/pkg/model"
)

// convert runs the conversion pipeline for a foreign-format source:
// convert to native, optionally simplify in place, build the descriptor,
// then register any named states recovered from the foreign input.
func (l *Loader) convert(ctx context.Context, format, inputPath string, simplify bool) (*model.Model, error) {
	anPath, err := l.newOutputFile(inputPath)
	if err != nil {
		return nil, err
	}

	if err := l.converter.Convert(ctx, format, inputPath, anPath); err != nil {
		return nil, err
	}
	metrics.Conversions.Inc()

	if simplify {
		l.logger.Debug("simplifying model", "path", anPath)
		if err := l.converter.Simplify(ctx, anPath); err != nil {
			return nil, err
		}
		metrics.Simplifications.Inc()
	}

	m, err := model.FromFile(ctx, anPath, l.modelOptions()...)
	if err != nil {
		return nil, err
	}

	if extract, ok := l.extractors[format]; ok {
		states, err := extract(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to extract named states: %w", err)
		}
		for name, assignment := range states {
			if err := m.Register(name, assignment); err != nil {
				return nil, err
			}
		}
		if len(states) > 0 {
			l.logger.Info("registered named states", "count", len(states))
		}
	}

	return m, nil
}
