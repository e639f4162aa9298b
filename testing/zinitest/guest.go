package zinitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/zendwasm/zendini/internal/abi"
)

// Symbol is an exported i32 global holding the address of an engine data symbol.
type Symbol struct {
	Name string
	Addr uint32
}

// Segment is an active data segment.
type Segment struct {
	Offset uint32
	Bytes  []byte
}

// GuestOptions describes a stand-in engine binary.
type GuestOptions struct {
	// MemoryPages is the initial memory size in 64KiB pages (default 4).
	MemoryPages uint32
	Symbols     []Symbol
	Data        []Segment
}

// EnvModule is the import module name served by Env.
const EnvModule = "env"

// GuestModule encodes a wasm binary that exports "memory", re-exports the
// env.malloc and env.zend_register_ini_entries imports, and exports each
// symbol as an immutable i32 global.
func GuestModule(opts GuestOptions) []byte {
	pages := opts.MemoryPages
	if pages == 0 {
		pages = 4
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// type 0: (i32) -> i32, type 1: (i32, i32) -> i32
	out = appendSection(out, 1, []byte{
		0x02,
		0x60, 0x01, 0x7f, 0x01, 0x7f,
		0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	})

	var imports []byte
	imports = appendULEB(imports, 2)
	imports = appendName(imports, EnvModule)
	imports = appendName(imports, "malloc")
	imports = append(imports, 0x00, 0x00)
	imports = appendName(imports, EnvModule)
	imports = appendName(imports, "zend_register_ini_entries")
	imports = append(imports, 0x00, 0x01)
	out = appendSection(out, 2, imports)

	var memory []byte
	memory = appendULEB(memory, 1)
	memory = append(memory, 0x00)
	memory = appendULEB(memory, pages)
	out = appendSection(out, 5, memory)

	if len(opts.Symbols) > 0 {
		var globals []byte
		globals = appendULEB(globals, uint32(len(opts.Symbols))) //nolint:gosec // G115: test fixture size
		for _, s := range opts.Symbols {
			globals = append(globals, 0x7f, 0x00, 0x41)
			globals = appendSLEB(globals, int64(int32(s.Addr))) //nolint:gosec // G115: i32.const takes the raw bits
			globals = append(globals, 0x0b)
		}
		out = appendSection(out, 6, globals)
	}

	var exports []byte
	exports = appendULEB(exports, uint32(3+len(opts.Symbols))) //nolint:gosec // G115: test fixture size
	exports = appendName(exports, "memory")
	exports = append(exports, 0x02, 0x00)
	exports = appendName(exports, "malloc")
	exports = append(exports, 0x00, 0x00)
	exports = appendName(exports, "zend_register_ini_entries")
	exports = append(exports, 0x00, 0x01)
	for i, s := range opts.Symbols {
		exports = appendName(exports, s.Name)
		exports = append(exports, 0x03)
		exports = appendULEB(exports, uint32(i)) //nolint:gosec // G115: test fixture size
	}
	out = appendSection(out, 7, exports)

	if len(opts.Data) > 0 {
		var data []byte
		data = appendULEB(data, uint32(len(opts.Data))) //nolint:gosec // G115: test fixture size
		for _, seg := range opts.Data {
			data = append(data, 0x00, 0x41)
			data = appendSLEB(data, int64(int32(seg.Offset))) //nolint:gosec // G115: i32.const takes the raw bits
			data = append(data, 0x0b)
			data = appendULEB(data, uint32(len(seg.Bytes))) //nolint:gosec // G115: test fixture size
			data = append(data, seg.Bytes...)
		}
		out = appendSection(out, 11, data)
	}
	return out
}

func appendSection(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = appendULEB(out, uint32(len(payload))) //nolint:gosec // G115: test fixture size
	return append(out, payload...)
}

func appendName(out []byte, s string) []byte {
	out = appendULEB(out, uint32(len(s))) //nolint:gosec // G115: test fixture size
	return append(out, s...)
}

func appendULEB(out []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func appendSLEB(out []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if done {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// Env serves the guest's env imports from Go: a bump allocator over the
// guest memory and a registration call that decodes the array.
type Env struct {
	mu     sync.Mutex
	mem    api.Memory
	next   uint32
	limit  int
	allocs int
	status int32
	calls  []RegisterCall
}

// NewEnv creates an Env whose heap starts at heapStart. status is returned
// by every registration call.
func NewEnv(heapStart uint32, status int32) *Env {
	return &Env{next: heapStart, status: status, limit: -1}
}

// LimitAllocations makes every allocation after the first n return null.
func (e *Env) LimitAllocations(n int) {
	e.mu.Lock()
	e.limit = n
	e.mu.Unlock()
}

// Instantiate registers the env host module with rt. Call Bind once the
// guest is instantiated.
func (e *Env) Instantiate(ctx context.Context, rt wazero.Runtime) error {
	_, err := rt.NewHostModuleBuilder(EnvModule).
		NewFunctionBuilder().
		WithFunc(e.malloc).
		Export("malloc").
		NewFunctionBuilder().
		WithFunc(e.register).
		Export("zend_register_ini_entries").
		Instantiate(ctx)
	return err
}

// Bind points the env at the guest memory.
func (e *Env) Bind(mod api.Module) {
	e.mu.Lock()
	e.mem = mod.Memory()
	e.mu.Unlock()
}

// Calls returns every registration call in order.
func (e *Env) Calls() []RegisterCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RegisterCall(nil), e.calls...)
}

func (e *Env) malloc(_ context.Context, size uint32) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mem == nil || (e.limit >= 0 && e.allocs >= e.limit) {
		return 0
	}
	addr := e.next
	end := (addr + size + 7) &^ 7
	if end > e.mem.Size() {
		return 0
	}
	e.allocs++
	e.next = end
	return addr
}

func (e *Env) register(_ context.Context, addr uint32, moduleNumber int32) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mem == nil {
		return -1
	}
	call, err := decodeArray(e.mem.Read, abi.Wasm32, addr, moduleNumber)
	e.calls = append(e.calls, call)
	if err != nil {
		panic(fmt.Sprintf("zend_register_ini_entries: %v", err))
	}
	return e.status
}
