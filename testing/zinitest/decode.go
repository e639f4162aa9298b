package zinitest

import (
	"bytes"
	"fmt"

	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/internal/abi"
)

// RegisteredEntry is an entry as the engine sees it after decoding the array.
type RegisteredEntry struct {
	Name         string
	Value        string
	Permission   entities.Permission
	ModuleNumber int32
}

// RegisterCall records one call of the registration primitive.
type RegisterCall struct {
	Addr         uint32
	ModuleNumber int32
	Records      int // records read, terminator included
	Entries      []RegisteredEntry
	CallbacksSet bool // true if any record carried a non-null callback slot
}

type readFunc func(addr, n uint32) ([]byte, bool)

// maxRecords bounds the walk over an unterminated array.
const maxRecords = 1 << 16

// decodeArray walks a terminated zend_ini_entry_def array the way the engine does.
func decodeArray(read readFunc, layout abi.Layout, addr uint32, moduleNumber int32) (RegisterCall, error) {
	call := RegisterCall{Addr: addr, ModuleNumber: moduleNumber}
	size := uint32(layout.Size) //nolint:gosec // G115: record size is tiny

	for i := uint32(0); i < maxRecords; i++ {
		raw, ok := read(addr+i*size, size)
		if !ok {
			return call, fmt.Errorf("record %d at 0x%x is out of bounds", i, addr+i*size)
		}
		rec, err := layout.Decode(raw)
		if err != nil {
			return call, err
		}
		call.Records++
		if !layout.CallbacksNull(raw) {
			call.CallbacksSet = true
		}
		if rec.Name == 0 {
			return call, nil
		}

		name, err := readCString(read, rec.Name, uint32(rec.NameLength))
		if err != nil {
			return call, fmt.Errorf("record %d name: %w", i, err)
		}
		value := ""
		if rec.Value != 0 {
			value, err = readCString(read, rec.Value, rec.ValueLength)
			if err != nil {
				return call, fmt.Errorf("record %d value: %w", i, err)
			}
		}
		call.Entries = append(call.Entries, RegisteredEntry{
			Name:         name,
			Value:        value,
			Permission:   entities.Permission(rec.Modifiable),
			ModuleNumber: moduleNumber,
		})
	}
	return call, fmt.Errorf("no terminator within %d records", maxRecords)
}

// readCString reads length bytes at addr and checks the trailing NUL.
func readCString(read readFunc, addr uint64, length uint32) (string, error) {
	raw, ok := read(uint32(addr), length+1) //nolint:gosec // G115: engine addresses are 32-bit
	if !ok {
		return "", fmt.Errorf("string at 0x%x is out of bounds", addr)
	}
	if raw[length] != 0 {
		return "", fmt.Errorf("string at 0x%x is not NUL terminated at length %d", addr, length)
	}
	if bytes.IndexByte(raw[:length], 0) >= 0 {
		return "", fmt.Errorf("string at 0x%x has embedded NUL", addr)
	}
	return string(raw[:length]), nil
}
