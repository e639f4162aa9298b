package ports

import "context"

// ForeignMemory is the engine's address space as seen by the registrar.
type ForeignMemory interface {
	// PointerSize is the width of an engine pointer in bytes (4 for wasm32).
	PointerSize() int

	// Allocate reserves size bytes with the engine's own allocator. Memory
	// returned here can be released only by the engine.
	Allocate(ctx context.Context, size uint32) (uint32, error)

	// Write copies data into engine memory at addr.
	Write(ctx context.Context, addr uint32, data []byte) error
}

// IniRegistry is the engine's ini registration primitive.
type IniRegistry interface {
	// RegisterIniEntries passes a terminated zend_ini_entry_def array to the
	// engine for the given module. The engine owns the array afterwards,
	// whether or not the call succeeds.
	RegisterIniEntries(ctx context.Context, addr uint32, moduleNumber int32) error
}

// ForeignRuntime combines the memory and registration ports.
type ForeignRuntime interface {
	ForeignMemory
	IniRegistry
}

// ClassTable resolves engine data symbols that hold class entry pointers.
type ClassTable interface {
	// LookupClassEntry returns the class entry pointer stored in the named
	// symbol. ok is false when the engine does not export the symbol.
	LookupClassEntry(ctx context.Context, symbol string) (ptr uint32, ok bool, err error)
}
