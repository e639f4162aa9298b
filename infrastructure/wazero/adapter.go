package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/internal/logger"
	"go.uber.org/zap"
)

// DefaultMaxAllocation bounds a single allocation request to the engine.
const DefaultMaxAllocation = 16 << 20

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// MallocExport is the allocator export (default: "malloc").
	MallocExport string

	// RegisterExport is the ini registration export (default: "zend_register_ini_entries").
	RegisterExport string

	// MaxAllocation rejects larger allocation requests before calling the engine.
	MaxAllocation uint32
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithMallocExport sets the allocator export name.
func WithMallocExport(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.MallocExport = name
	}
}

// WithRegisterExport sets the registration export name.
func WithRegisterExport(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.RegisterExport = name
	}
}

// WithMaxAllocation sets the largest allocation forwarded to the engine.
func WithMaxAllocation(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxAllocation = size
	}
}

// defaultAdapterConfig returns the default adapter configuration.
func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		MallocExport:   "malloc",
		RegisterExport: "zend_register_ini_entries",
		MaxAllocation:  DefaultMaxAllocation,
	}
}

// Runtime implements ports.ForeignRuntime and ports.ClassTable over a wazero module.
type Runtime struct {
	mod      api.Module
	malloc   api.Function
	register api.Function
	cfg      AdapterConfig
}

// NewRuntime binds the adapter to an instantiated engine module.
func NewRuntime(mod api.Module, opts ...AdapterOption) (*Runtime, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if mod.Memory() == nil {
		return nil, fmt.Errorf("engine module %q does not export memory", mod.Name())
	}
	malloc := mod.ExportedFunction(cfg.MallocExport)
	if malloc == nil {
		return nil, fmt.Errorf("engine module %q does not export %q", mod.Name(), cfg.MallocExport)
	}
	register := mod.ExportedFunction(cfg.RegisterExport)
	if register == nil {
		return nil, fmt.Errorf("engine module %q does not export %q", mod.Name(), cfg.RegisterExport)
	}

	return &Runtime{mod: mod, malloc: malloc, register: register, cfg: cfg}, nil
}

// PointerSize implements ports.ForeignMemory. wazero only runs wasm32.
func (r *Runtime) PointerSize() int {
	return 4
}

// Allocate implements ports.ForeignMemory by calling the engine allocator.
func (r *Runtime) Allocate(ctx context.Context, size uint32) (uint32, error) {
	if size > r.cfg.MaxAllocation {
		return 0, &errors.AllocationError{
			Err:  fmt.Errorf("request exceeds limit of %d bytes", r.cfg.MaxAllocation),
			Size: size,
		}
	}

	results, err := r.malloc.Call(ctx, uint64(size))
	if err != nil {
		logger.Logger().Error("wazero: engine allocator trapped", zap.Uint32("size", size), zap.Error(err))
		return 0, &errors.AllocationError{Err: err, Size: size}
	}
	if len(results) == 0 {
		return 0, &errors.AllocationError{Err: fmt.Errorf("%s returned no results", r.cfg.MallocExport), Size: size}
	}

	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit
	if ptr == 0 {
		return 0, &errors.AllocationError{Size: size}
	}
	if uint64(ptr)+uint64(size) > uint64(r.mod.Memory().Size()) {
		return 0, &errors.AllocationError{
			Err:  fmt.Errorf("%s returned 0x%x past the end of memory", r.cfg.MallocExport, ptr),
			Size: size,
		}
	}
	return ptr, nil
}

// Write implements ports.ForeignMemory.
func (r *Runtime) Write(_ context.Context, addr uint32, data []byte) error {
	if !r.mod.Memory().Write(addr, data) {
		return fmt.Errorf("failed to write %d bytes to engine memory at 0x%x", len(data), addr)
	}
	return nil
}

// RegisterIniEntries implements ports.IniRegistry. A non-zero zend_result is
// a failure; a trap is reported with the wazero error.
func (r *Runtime) RegisterIniEntries(ctx context.Context, addr uint32, moduleNumber int32) error {
	results, err := r.register.Call(ctx, uint64(addr), api.EncodeI32(moduleNumber))
	if err != nil {
		return &errors.RegistrationError{Err: err, Addr: addr, ModuleNumber: moduleNumber}
	}
	if len(results) == 0 {
		return nil
	}
	if status := api.DecodeI32(results[0]); status != 0 {
		return &errors.RegistrationError{Addr: addr, ModuleNumber: moduleNumber, Status: status}
	}
	return nil
}

// LookupClassEntry implements ports.ClassTable. The exported global holds the
// address of a zend_class_entry* variable; the variable holds the entry.
func (r *Runtime) LookupClassEntry(_ context.Context, symbol string) (uint32, bool, error) {
	g := r.mod.ExportedGlobal(symbol)
	if g == nil {
		return 0, false, nil
	}

	addr := uint32(g.Get()) //nolint:gosec // G115: i32 global
	ptr, ok := r.mod.Memory().ReadUint32Le(addr)
	if !ok {
		return 0, false, fmt.Errorf("symbol %s points outside engine memory (0x%x)", symbol, addr)
	}
	return ptr, true, nil
}
