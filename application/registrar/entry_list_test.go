package registrar

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/internal/abi"
	"github.com/zendwasm/zendini/testing/zinitest"
)

func readRecords(t *testing.T, rt *zinitest.Runtime, h *Handoff) []abi.Record {
	t.Helper()
	raw, ok := rt.Read(h.Addr(), uint32(h.Size()))
	require.True(t, ok)

	records := make([]abi.Record, 0, h.Count())
	for i := 0; i < h.Count(); i++ {
		rec, err := abi.Wasm32.Decode(raw[i*abi.Wasm32.Size:])
		require.NoError(t, err)
		records = append(records, rec)
	}
	return records
}

func TestEntryList_Materialize(t *testing.T) {
	ctx := context.Background()
	rt := zinitest.NewRuntime()

	list := NewEntryList(mustEntry(t, "a", "one", entities.PermUser))
	require.NoError(t, list.Append(mustEntry(t, "bb", "", entities.PermAll)))
	assert.Equal(t, 2, list.Len())

	h, err := list.Materialize(ctx, rt)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Count())
	assert.False(t, h.Registered())

	records := readRecords(t, rt, h)
	assert.Equal(t, uint16(1), records[0].NameLength)
	assert.Equal(t, uint32(3), records[0].ValueLength)
	assert.Equal(t, uint8(1), records[0].Modifiable)
	assert.Equal(t, uint16(2), records[1].NameLength)
	assert.Equal(t, uint32(0), records[1].ValueLength)
	assert.NotZero(t, records[1].Value, "an empty value still gets a C string")
	assert.True(t, records[2].IsEnd())

	name, ok := rt.Read(uint32(records[0].Name), 2)
	require.True(t, ok)
	assert.Equal(t, []byte{'a', 0}, name)
	value, ok := rt.Read(uint32(records[1].Value), 1)
	require.True(t, ok)
	assert.Equal(t, []byte{0}, value)

	assert.Empty(t, rt.Calls(), "materializing does not register")
}

func TestEntryList_CallerTerminatorKept(t *testing.T) {
	rt := zinitest.NewRuntime()
	list := NewEntryList(
		mustEntry(t, "a", "1", entities.PermAll),
		entities.EndIniEntryDef(),
	)

	h, err := list.Materialize(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Count(), "a caller terminator is not deduplicated")

	records := readRecords(t, rt, h)
	assert.False(t, records[0].IsEnd())
	assert.True(t, records[1].IsEnd())
	assert.True(t, records[2].IsEnd())

	require.NoError(t, Register(context.Background(), h, rt, 1))
	call := rt.Calls()[0]
	assert.Equal(t, 2, call.Records, "the engine stops at the first terminator")
	assert.Len(t, call.Entries, 1)
}

func TestEntryList_Consumed(t *testing.T) {
	ctx := context.Background()
	rt := zinitest.NewRuntime()
	list := NewEntryList(mustEntry(t, "a", "1", entities.PermAll))

	_, err := list.Materialize(ctx, rt)
	require.NoError(t, err)

	_, err = list.Materialize(ctx, rt)
	assert.ErrorIs(t, err, errors.ErrListConsumed)
	assert.ErrorIs(t, list.Append(mustEntry(t, "b", "2", entities.PermAll)), errors.ErrListConsumed)
	assert.Equal(t, 0, list.Len())
}

func TestEntryList_ConsumedOnFailure(t *testing.T) {
	ctx := context.Background()
	list := NewEntryList(mustEntry(t, "a", "1", entities.PermAll))

	_, err := list.Materialize(ctx, zinitest.NewRuntime(zinitest.WithAllocationLimit(0)))
	var ae *errors.AllocationError
	require.True(t, stdErrors.As(err, &ae))
	assert.Equal(t, uint32(2), ae.Size)

	_, err = list.Materialize(ctx, zinitest.NewRuntime())
	assert.ErrorIs(t, err, errors.ErrListConsumed)
}

func TestEntryList_UnsupportedPointerSize(t *testing.T) {
	list := NewEntryList()
	_, err := list.Materialize(context.Background(), zinitest.NewRuntime(zinitest.WithPointerSize(2)))
	assert.Error(t, err)
}

func TestRegister_Handoff(t *testing.T) {
	ctx := context.Background()
	rt := zinitest.NewRuntime()

	h, err := NewEntryList(mustEntry(t, "a", "1", entities.PermAll)).Materialize(ctx, rt)
	require.NoError(t, err)
	assert.Contains(t, h.String(), "2 records")

	require.NoError(t, Register(ctx, h, rt, 9))
	assert.True(t, h.Registered())

	assert.ErrorIs(t, Register(ctx, h, rt, 9), errors.ErrHandoffSpent)
	assert.Len(t, rt.Calls(), 1)
	assert.Equal(t, int32(9), rt.Calls()[0].ModuleNumber)

	assert.Error(t, Register(ctx, nil, rt, 9))
}

type failingRegistry struct{ err error }

func (f failingRegistry) RegisterIniEntries(context.Context, uint32, int32) error { return f.err }

func TestRegister_WrapsForeignError(t *testing.T) {
	ctx := context.Background()
	rt := zinitest.NewRuntime()
	h, err := NewEntryList().Materialize(ctx, rt)
	require.NoError(t, err)

	cause := stdErrors.New("trap")
	err = Register(ctx, h, failingRegistry{err: cause}, 5)

	var re *errors.RegistrationError
	require.True(t, stdErrors.As(err, &re))
	assert.Equal(t, h.Addr(), re.Addr)
	assert.Equal(t, int32(5), re.ModuleNumber)
	assert.ErrorIs(t, err, cause)
	assert.True(t, h.Registered(), "a failed call still spends the handoff")
}
