package zinitest

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/internal/abi"
)

// writeArray lays out one record named name plus a terminator at a fresh address.
func writeArray(t *testing.T, r *Runtime, name, value string, modifiable uint8) uint32 {
	t.Helper()
	ctx := context.Background()

	nameAddr, err := r.Allocate(ctx, uint32(len(name)+1))
	require.NoError(t, err)
	require.NoError(t, r.Write(ctx, nameAddr, append([]byte(name), 0)))
	valueAddr, err := r.Allocate(ctx, uint32(len(value)+1))
	require.NoError(t, err)
	require.NoError(t, r.Write(ctx, valueAddr, append([]byte(value), 0)))

	block := make([]byte, abi.Wasm32.BlockSize(2))
	require.NoError(t, abi.Wasm32.Encode(block, abi.Record{
		Name:        uint64(nameAddr),
		Value:       uint64(valueAddr),
		NameLength:  uint16(len(name)),
		ValueLength: uint32(len(value)),
		Modifiable:  modifiable,
	}))
	addr, err := r.Allocate(ctx, uint32(len(block)))
	require.NoError(t, err)
	require.NoError(t, r.Write(ctx, addr, block))
	return addr
}

func TestRuntime_Allocate(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(WithAllocationLimit(2))

	a, err := r.Allocate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(heapBase), a)
	b, err := r.Allocate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(heapBase+8), b)

	c, err := r.Allocate(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, c)
	assert.Equal(t, 2, r.Allocations())
}

func TestRuntime_WriteBounds(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime()

	assert.Error(t, r.Write(ctx, 0, []byte{1}))
	addr, err := r.Allocate(ctx, 4)
	require.NoError(t, err)
	assert.Error(t, r.Write(ctx, addr, make([]byte, 64)))
	require.NoError(t, r.Write(ctx, addr, []byte{1, 2, 3, 4}))

	got, ok := r.Read(addr, 4)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestRuntime_RegisterIniEntries(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime()
	addr := writeArray(t, r, "log_level", "1", 2)

	require.NoError(t, r.RegisterIniEntries(ctx, addr, 7))
	e, ok := r.Lookup("log_level")
	require.True(t, ok)
	assert.Equal(t, RegisteredEntry{Name: "log_level", Value: "1", Permission: entities.PermPerDir, ModuleNumber: 7}, e)

	// Any later write into the registered array is counted.
	require.NoError(t, r.Write(ctx, addr, []byte{0}))
	assert.Equal(t, 1, r.OwnedWrites())
}

func TestRuntime_RegisterIniEntries_BadArray(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime()

	addr, err := r.Allocate(ctx, uint32(abi.Wasm32.Size))
	require.NoError(t, err)
	block := make([]byte, abi.Wasm32.Size)
	require.NoError(t, abi.Wasm32.Encode(block, abi.Record{Name: 0x10, NameLength: 100}))
	require.NoError(t, r.Write(ctx, addr, block))

	err = r.RegisterIniEntries(ctx, addr, 1)
	var re *errors.RegistrationError
	require.True(t, stdErrors.As(err, &re))
	assert.Error(t, re.Err)
}

func TestRuntime_Strict(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(WithStrictNamespace())

	require.NoError(t, r.RegisterIniEntries(ctx, writeArray(t, r, "a", "1", 7), 1))
	err := r.RegisterIniEntries(ctx, writeArray(t, r, "a", "2", 7), 2)
	var re *errors.RegistrationError
	require.True(t, stdErrors.As(err, &re))
	assert.Equal(t, int32(-1), re.Status)

	e, _ := r.Lookup("a")
	assert.Equal(t, "1", e.Value)
	assert.Len(t, r.Calls(), 2)
}

func TestReadCString(t *testing.T) {
	mem := []byte("abc\x00a\x00c\x00xyz")
	read := func(addr, n uint32) ([]byte, bool) {
		if uint64(addr)+uint64(n) > uint64(len(mem)) {
			return nil, false
		}
		return mem[addr : addr+n], true
	}

	s, err := readCString(read, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	_, err = readCString(read, 4, 3)
	assert.ErrorContains(t, err, "embedded NUL")

	_, err = readCString(read, 0, 2)
	assert.ErrorContains(t, err, "not NUL terminated")

	_, err = readCString(read, 8, 3)
	assert.ErrorContains(t, err, "out of bounds")
}

func TestGuestModule_Instantiates(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	env := NewEnv(256, 0)
	require.NoError(t, env.Instantiate(ctx, rt))

	mod, err := rt.Instantiate(ctx, GuestModule(GuestOptions{
		MemoryPages: 1,
		Symbols:     []Symbol{{Name: "zend_ce_exception", Addr: 32}},
		Data:        []Segment{{Offset: 32, Bytes: []byte{0x00, 0x20, 0x00, 0x00}}},
	}))
	require.NoError(t, err)
	env.Bind(mod)

	assert.Equal(t, uint32(65536), mod.Memory().Size())
	g := mod.ExportedGlobal("zend_ce_exception")
	require.NotNil(t, g)
	assert.Equal(t, uint64(32), g.Get())
	v, ok := mod.Memory().ReadUint32Le(32)
	require.True(t, ok)
	assert.Equal(t, uint32(0x2000), v)

	results, err := mod.ExportedFunction("malloc").Call(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), results[0])

	results, err = mod.ExportedFunction("zend_register_ini_entries").Call(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), results[0])
	require.Len(t, env.Calls(), 1)
	assert.Equal(t, 1, env.Calls()[0].Records)
}

func TestAppendLEB(t *testing.T) {
	assert.Equal(t, []byte{0xe5, 0x8e, 0x26}, appendULEB(nil, 624485))
	assert.Equal(t, []byte{0x7f}, appendSLEB(nil, -1))
	assert.Equal(t, []byte{0xc0, 0xbb, 0x78}, appendSLEB(nil, -123456))
	assert.Equal(t, []byte{0x80, 0x01}, appendSLEB(nil, 128))
}
