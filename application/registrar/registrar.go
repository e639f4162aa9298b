package registrar

import (
	"context"

	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/ports"
	"github.com/zendwasm/zendini/internal/logger"
	"go.uber.org/zap"
)

// Registrar registers ini entry lists with one engine.
type Registrar struct {
	runtime ports.ForeignRuntime
	log     *zap.Logger
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithLogger sets the logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registrar) {
		r.log = l
	}
}

// New creates a registrar for the given engine.
func New(runtime ports.ForeignRuntime, opts ...Option) *Registrar {
	r := &Registrar{runtime: runtime}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Logger()
	}
	return r
}

// Register materializes entries and registers them under moduleNumber. The
// returned handoff is already spent and only describes where the array lives.
func (r *Registrar) Register(ctx context.Context, moduleNumber int32, entries ...entities.IniEntryDef) (*Handoff, error) {
	return r.RegisterList(ctx, moduleNumber, NewEntryList(entries...))
}

// RegisterList is Register for a prepared list. The list is consumed.
func (r *Registrar) RegisterList(ctx context.Context, moduleNumber int32, list *EntryList) (*Handoff, error) {
	entryCount := list.Len()

	h, err := list.Materialize(ctx, r.runtime)
	if err != nil {
		r.log.Error("failed to materialize ini entries",
			zap.Int32("module_number", moduleNumber),
			zap.Int("entries", entryCount),
			zap.Error(err))
		return nil, err
	}
	r.log.Debug("materialized ini entries",
		zap.Int32("module_number", moduleNumber),
		zap.Uint32("addr", h.Addr()),
		zap.Int("records", h.Count()),
		zap.Int("bytes", h.Size()))

	if err := Register(ctx, h, r.runtime, moduleNumber); err != nil {
		r.log.Error("engine rejected ini entries",
			zap.Int32("module_number", moduleNumber),
			zap.Uint32("addr", h.Addr()),
			zap.Error(err))
		return h, err
	}

	r.log.Info("registered ini entries",
		zap.Int32("module_number", moduleNumber),
		zap.Int("entries", entryCount))
	return h, nil
}
