package registrar

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/domain/ports"
	"github.com/zendwasm/zendini/internal/abi"
)

// EntryList is an ordered collection of ini entries awaiting materialization.
type EntryList struct {
	entries  []entities.IniEntryDef
	consumed bool
}

// NewEntryList creates a list holding entries in the given order.
func NewEntryList(entries ...entities.IniEntryDef) *EntryList {
	return &EntryList{entries: append([]entities.IniEntryDef(nil), entries...)}
}

// Append adds entries at the end of the list.
func (l *EntryList) Append(entries ...entities.IniEntryDef) error {
	if l.consumed {
		return errors.ErrListConsumed
	}
	l.entries = append(l.entries, entries...)
	return nil
}

// Len is the number of caller entries, not counting the terminator that
// Materialize adds.
func (l *EntryList) Len() int {
	return len(l.entries)
}

// Materialize copies the list into one contiguous zend_ini_entry_def array
// in engine memory, followed by exactly one terminator. Terminators already
// present in the list are copied as ordinary records.
//
// The list is consumed even when Materialize fails: memory obtained from the
// engine allocator before the failure belongs to the engine heap and is not
// reclaimed. Allocation failures are reported as *errors.AllocationError and
// must not be retried.
func (l *EntryList) Materialize(ctx context.Context, mem ports.ForeignMemory) (*Handoff, error) {
	if l.consumed {
		return nil, errors.ErrListConsumed
	}
	l.consumed = true
	entries := l.entries
	l.entries = nil

	layout, err := abi.ForPointerSize(mem.PointerSize())
	if err != nil {
		return nil, err
	}

	records := make([]abi.Record, 0, len(entries)+1)
	for _, e := range entries {
		rec, err := materializeEntry(ctx, mem, e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	records = append(records, abi.Record{})

	block := make([]byte, layout.BlockSize(len(records)))
	for i, rec := range records {
		if err := layout.Encode(block[i*layout.Size:], rec); err != nil {
			return nil, err
		}
	}

	addr, err := allocate(ctx, mem, uint32(len(block))) //nolint:gosec // G115: bounded by entry count
	if err != nil {
		return nil, err
	}
	if err := mem.Write(ctx, addr, block); err != nil {
		return nil, fmt.Errorf("failed to write ini entry array: %w", err)
	}

	return &Handoff{addr: addr, count: len(records), layout: layout}, nil
}

func materializeEntry(ctx context.Context, mem ports.ForeignMemory, e entities.IniEntryDef) (abi.Record, error) {
	if e.IsEnd() {
		return abi.Record{}, nil
	}

	name, err := writeCString(ctx, mem, e.Name())
	if err != nil {
		return abi.Record{}, err
	}
	value, err := writeCString(ctx, mem, e.Value())
	if err != nil {
		return abi.Record{}, err
	}

	return abi.Record{
		Name:        uint64(name),
		Value:       uint64(value),
		ValueLength: uint32(e.ValueLength()),
		NameLength:  e.NameLength(),
		Modifiable:  e.Modifiable(),
	}, nil
}

// writeCString copies s plus a NUL terminator into engine memory.
func writeCString(ctx context.Context, mem ports.ForeignMemory, s []byte) (uint32, error) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)

	addr, err := allocate(ctx, mem, uint32(len(buf))) //nolint:gosec // G115: len(s) <= MaxIniStringLength
	if err != nil {
		return 0, err
	}
	if err := mem.Write(ctx, addr, buf); err != nil {
		return 0, fmt.Errorf("failed to write ini string: %w", err)
	}
	return addr, nil
}

func allocate(ctx context.Context, mem ports.ForeignMemory, size uint32) (uint32, error) {
	addr, err := mem.Allocate(ctx, size)
	if err != nil {
		var ae *errors.AllocationError
		if stdErrors.As(err, &ae) {
			return 0, err
		}
		return 0, &errors.AllocationError{Err: err, Size: size}
	}
	if addr == 0 {
		return 0, &errors.AllocationError{Size: size}
	}
	return addr, nil
}
