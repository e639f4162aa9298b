package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/zendwasm/zendini/application/classes"
	"github.com/zendwasm/zendini/application/manifest"
	"github.com/zendwasm/zendini/application/registrar"
	"github.com/zendwasm/zendini/domain/entities"
	infrawazero "github.com/zendwasm/zendini/infrastructure/wazero"
	"github.com/zendwasm/zendini/internal/logger"
	"go.uber.org/zap"
)

// Engine manages the wazero runtime hosting a Zend engine.
type Engine struct {
	runtime wazero.Runtime
	cfg     engineConfig
}

// NewEngine creates a runtime with WASI and any configured host modules.
func NewEngine(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Logger()
	}

	rt := wazero.NewRuntime(ctx)
	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
		}
	}
	for _, hm := range cfg.hostModules {
		if err := hm(ctx, rt); err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("failed to instantiate host module: %w", err)
		}
	}

	return &Engine{runtime: rt, cfg: cfg}, nil
}

// Close releases the runtime and every instance loaded into it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Instance is an instantiated engine ready for ini registration.
type Instance struct {
	module    api.Module
	adapter   *infrawazero.Runtime
	registrar *registrar.Registrar
	classes   *classes.Accessor
	log       *zap.Logger
}

// Load instantiates an engine binary. The engine's "_initialize" export is
// called when present; "_start" is never run.
func (e *Engine) Load(ctx context.Context, wasmBytes []byte) (*Instance, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile engine: %w", err)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(e.cfg.moduleName).WithStartFunctions())
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate engine: %w", err)
	}

	if initFn := mod.ExportedFunction("_initialize"); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	adapter, err := infrawazero.NewRuntime(mod, e.cfg.adapterOpts...)
	if err != nil {
		mod.Close(ctx)
		return nil, err
	}

	e.cfg.log.Debug("engine loaded", zap.String("module", mod.Name()))
	return &Instance{
		module:    mod,
		adapter:   adapter,
		registrar: registrar.New(adapter, registrar.WithLogger(e.cfg.log)),
		classes:   classes.NewAccessor(adapter),
		log:       e.cfg.log,
	}, nil
}

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module {
	return i.module
}

// Classes returns the well-known class accessor.
func (i *Instance) Classes() *classes.Accessor {
	return i.classes
}

// RegisterIni registers entries under moduleNumber.
func (i *Instance) RegisterIni(ctx context.Context, moduleNumber int32, entries ...entities.IniEntryDef) (*registrar.Handoff, error) {
	return i.registrar.Register(ctx, moduleNumber, entries...)
}

// RegisterManifest converts and registers every entry of m under m.ModuleNumber.
func (i *Instance) RegisterManifest(ctx context.Context, m *entities.Manifest) (*registrar.Handoff, error) {
	defs, err := manifest.Entries(m, m.Module)
	if err != nil {
		return nil, err
	}
	i.log.Debug("registering manifest",
		zap.String("module", m.Module),
		zap.Int32("module_number", m.ModuleNumber),
		zap.Int("entries", len(defs)))
	return i.registrar.Register(ctx, m.ModuleNumber, defs...)
}

// Close closes the engine module.
func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}
