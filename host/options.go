package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	infrawazero "github.com/zendwasm/zendini/infrastructure/wazero"
	"go.uber.org/zap"
)

// HostModuleFunc instantiates an import module the engine needs, such as the
// emscripten "env" shims, before the engine itself is instantiated.
type HostModuleFunc func(ctx context.Context, rt wazero.Runtime) error

type engineConfig struct {
	moduleName  string
	wasi        bool
	hostModules []HostModuleFunc
	adapterOpts []infrawazero.AdapterOption
	log         *zap.Logger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		moduleName: "zend",
		wasi:       true,
	}
}

// Option defines a functional option for configuring the Engine.
type Option func(*engineConfig)

// WithModuleName sets the wazero module name of the engine (default "zend").
func WithModuleName(name string) Option {
	return func(c *engineConfig) {
		c.moduleName = name
	}
}

// WithHostModule adds an import module instantiated before the engine.
func WithHostModule(fn HostModuleFunc) Option {
	return func(c *engineConfig) {
		c.hostModules = append(c.hostModules, fn)
	}
}

// WithAdapterOptions configures the export names and limits of the engine adapter.
func WithAdapterOptions(opts ...infrawazero.AdapterOption) Option {
	return func(c *engineConfig) {
		c.adapterOpts = append(c.adapterOpts, opts...)
	}
}

// WithoutWASI skips instantiating wasi_snapshot_preview1.
func WithoutWASI() Option {
	return func(c *engineConfig) {
		c.wasi = false
	}
}

// WithLogger sets the logger used by the engine and its registrars.
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) {
		c.log = l
	}
}
