// Package zinitest provides test doubles for the engine side of ini registration.
//
// Runtime is a pure Go engine: a byte-slice heap with a bump allocator and a
// registration call that decodes the array exactly as the engine would.
// GuestModule and Env build a real wasm guest for wazero-backed tests.
package zinitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/internal/abi"
)

// heapBase is the first address handed out; lower addresses stay unused so
// that 0 is never a valid allocation.
const heapBase = 16

// Runtime is an in-memory engine implementing ports.ForeignRuntime.
type Runtime struct {
	mu sync.Mutex

	pointerSize int
	heap        []byte
	next        uint32
	allocs      int
	allocLimit  int
	status      int32
	strict      bool
	calls       []RegisterCall
	namespace   map[string]RegisteredEntry
	owned       [][2]uint32
	ownedWrites int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithPointerSize sets the engine pointer width (default 4).
func WithPointerSize(n int) Option {
	return func(r *Runtime) {
		r.pointerSize = n
	}
}

// WithAllocationLimit makes every allocation after the first n return null.
func WithAllocationLimit(n int) Option {
	return func(r *Runtime) {
		r.allocLimit = n
	}
}

// WithRegisterStatus sets the status returned by the registration call.
// Any non-zero status is a failure.
func WithRegisterStatus(status int32) Option {
	return func(r *Runtime) {
		r.status = status
	}
}

// WithStrictNamespace rejects a whole batch when any name is already
// registered or repeats within the batch, as zend_register_ini_entries does.
func WithStrictNamespace() Option {
	return func(r *Runtime) {
		r.strict = true
	}
}

// NewRuntime creates an empty engine.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		pointerSize: 4,
		next:        heapBase,
		allocLimit:  -1,
		namespace:   make(map[string]RegisteredEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PointerSize implements ports.ForeignMemory.
func (r *Runtime) PointerSize() int {
	return r.pointerSize
}

// Allocate implements ports.ForeignMemory with 8-byte aligned bump allocation.
func (r *Runtime) Allocate(_ context.Context, size uint32) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.allocLimit >= 0 && r.allocs >= r.allocLimit {
		return 0, nil
	}
	r.allocs++

	addr := r.next
	r.next = (addr + size + 7) &^ 7
	if int(r.next) > len(r.heap) {
		grown := make([]byte, r.next)
		copy(grown, r.heap)
		r.heap = grown
	}
	return addr, nil
}

// Write implements ports.ForeignMemory.
func (r *Runtime) Write(_ context.Context, addr uint32, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	end := uint64(addr) + uint64(len(data))
	if addr < heapBase || end > uint64(len(r.heap)) {
		return fmt.Errorf("write of %d bytes at 0x%x is out of bounds", len(data), addr)
	}
	for _, span := range r.owned {
		if uint64(addr) < uint64(span[1]) && end > uint64(span[0]) {
			r.ownedWrites++
		}
	}
	copy(r.heap[addr:], data)
	return nil
}

// RegisterIniEntries implements ports.IniRegistry.
func (r *Runtime) RegisterIniEntries(_ context.Context, addr uint32, moduleNumber int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	layout, err := abi.ForPointerSize(r.pointerSize)
	if err != nil {
		return err
	}
	call, err := decodeArray(r.read, layout, addr, moduleNumber)
	r.owned = append(r.owned, [2]uint32{addr, addr + uint32(call.Records*layout.Size)}) //nolint:gosec // G115: bounded by maxRecords
	r.calls = append(r.calls, call)
	if err != nil {
		return &errors.RegistrationError{Err: err, Addr: addr, ModuleNumber: moduleNumber}
	}
	if r.status != 0 {
		return &errors.RegistrationError{Addr: addr, ModuleNumber: moduleNumber, Status: r.status}
	}

	if r.strict {
		seen := make(map[string]bool, len(call.Entries))
		for _, e := range call.Entries {
			if _, dup := r.namespace[e.Name]; dup || seen[e.Name] {
				return &errors.RegistrationError{Addr: addr, ModuleNumber: moduleNumber, Status: -1}
			}
			seen[e.Name] = true
		}
	}
	for _, e := range call.Entries {
		if _, dup := r.namespace[e.Name]; !dup {
			r.namespace[e.Name] = e
		}
	}
	return nil
}

func (r *Runtime) read(addr, n uint32) ([]byte, bool) {
	end := uint64(addr) + uint64(n)
	if end > uint64(len(r.heap)) {
		return nil, false
	}
	return r.heap[addr:end], true
}

// Read returns a copy of n bytes of engine memory at addr.
func (r *Runtime) Read(addr, n uint32) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.read(addr, n)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// Calls returns every registration call in order.
func (r *Runtime) Calls() []RegisterCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RegisterCall(nil), r.calls...)
}

// Lookup returns a registered entry by name.
func (r *Runtime) Lookup(name string) (RegisteredEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.namespace[name]
	return e, ok
}

// Allocations is the number of successful allocations.
func (r *Runtime) Allocations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allocs
}

// OwnedWrites counts writes that touched an array after it was registered.
func (r *Runtime) OwnedWrites() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownedWrites
}
