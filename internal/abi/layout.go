// Package abi describes the binary layout of zend_ini_entry_def records as the
// engine expects them in its linear memory.
//
// The C definition is:
//
//	typedef struct _zend_ini_entry_def {
//		const char *name;
//		ZEND_INI_MH((*on_modify));
//		void *mh_arg1;
//		void *mh_arg2;
//		void *mh_arg3;
//		const char *value;
//		void (*displayer)(zend_ini_entry *ini_entry, int type);
//		uint32_t value_length;
//		uint16_t name_length;
//		uint8_t modifiable;
//	} zend_ini_entry_def;
package abi

import (
	"encoding/binary"
	"fmt"
)

// Layout holds field offsets of zend_ini_entry_def for one pointer width.
type Layout struct {
	PointerSize int

	NameOffset        int
	OnModifyOffset    int
	MhArg1Offset      int
	MhArg2Offset      int
	MhArg3Offset      int
	ValueOffset       int
	DisplayerOffset   int
	ValueLengthOffset int
	NameLengthOffset  int
	ModifiableOffset  int

	Size  int
	Align int
}

// Predefined layouts.
var (
	// Wasm32 is the layout inside a 32-bit WebAssembly engine build.
	Wasm32 = MustLayout(4)

	// LP64 is the layout on 64-bit native hosts.
	LP64 = MustLayout(8)
)

// NewLayout computes the C layout for the given pointer width (4 or 8).
func NewLayout(pointerSize int) (Layout, error) {
	if pointerSize != 4 && pointerSize != 8 {
		return Layout{}, fmt.Errorf("abi: unsupported pointer size %d", pointerSize)
	}

	l := Layout{PointerSize: pointerSize}
	ptrFields := []*int{
		&l.NameOffset, &l.OnModifyOffset, &l.MhArg1Offset, &l.MhArg2Offset,
		&l.MhArg3Offset, &l.ValueOffset, &l.DisplayerOffset,
	}
	off := 0
	for _, f := range ptrFields {
		*f = off
		off += pointerSize
	}

	off = alignUp(off, 4)
	l.ValueLengthOffset = off
	off += 4
	l.NameLengthOffset = off
	off += 2
	l.ModifiableOffset = off
	off++

	l.Align = max(pointerSize, 4)
	l.Size = alignUp(off, l.Align)
	return l, nil
}

// MustLayout is NewLayout that panics on error.
func MustLayout(pointerSize int) Layout {
	l, err := NewLayout(pointerSize)
	if err != nil {
		panic(err)
	}
	return l
}

// ForPointerSize returns the predefined layout for a pointer width.
func ForPointerSize(pointerSize int) (Layout, error) {
	switch pointerSize {
	case 4:
		return Wasm32, nil
	case 8:
		return LP64, nil
	}
	return Layout{}, fmt.Errorf("abi: unsupported pointer size %d", pointerSize)
}

// Record is a zend_ini_entry_def with engine addresses resolved. The callback
// slots are not represented and always encode as null.
type Record struct {
	Name        uint64
	Value       uint64
	ValueLength uint32
	NameLength  uint16
	Modifiable  uint8
}

// IsEnd reports whether r is the all-zero terminator.
func (r Record) IsEnd() bool {
	return r == Record{}
}

// BlockSize is the size in bytes of an array of count records.
func (l Layout) BlockSize(count int) int {
	return count * l.Size
}

// Encode writes r into dst[:l.Size] in little-endian order, zeroing padding
// and the callback slots.
func (l Layout) Encode(dst []byte, r Record) error {
	if len(dst) < l.Size {
		return fmt.Errorf("abi: record buffer is %d bytes, need %d", len(dst), l.Size)
	}
	if l.PointerSize == 4 && (r.Name > 0xFFFFFFFF || r.Value > 0xFFFFFFFF) {
		return fmt.Errorf("abi: address does not fit a 32-bit pointer")
	}

	rec := dst[:l.Size]
	clear(rec)
	l.putPtr(rec[l.NameOffset:], r.Name)
	l.putPtr(rec[l.ValueOffset:], r.Value)
	binary.LittleEndian.PutUint32(rec[l.ValueLengthOffset:], r.ValueLength)
	binary.LittleEndian.PutUint16(rec[l.NameLengthOffset:], r.NameLength)
	rec[l.ModifiableOffset] = r.Modifiable
	return nil
}

// Decode reads a record from src. Callback slots are ignored.
func (l Layout) Decode(src []byte) (Record, error) {
	if len(src) < l.Size {
		return Record{}, fmt.Errorf("abi: record buffer is %d bytes, need %d", len(src), l.Size)
	}
	return Record{
		Name:        l.ptr(src[l.NameOffset:]),
		Value:       l.ptr(src[l.ValueOffset:]),
		ValueLength: binary.LittleEndian.Uint32(src[l.ValueLengthOffset:]),
		NameLength:  binary.LittleEndian.Uint16(src[l.NameLengthOffset:]),
		Modifiable:  src[l.ModifiableOffset],
	}, nil
}

// CallbacksNull reports whether every callback slot of the encoded record is null.
func (l Layout) CallbacksNull(src []byte) bool {
	for _, off := range []int{l.OnModifyOffset, l.MhArg1Offset, l.MhArg2Offset, l.MhArg3Offset, l.DisplayerOffset} {
		if l.ptr(src[off:]) != 0 {
			return false
		}
	}
	return true
}

func (l Layout) putPtr(b []byte, v uint64) {
	if l.PointerSize == 4 {
		binary.LittleEndian.PutUint32(b, uint32(v)) //nolint:gosec // G115: range checked in Encode
		return
	}
	binary.LittleEndian.PutUint64(b, v)
}

func (l Layout) ptr(b []byte) uint64 {
	if l.PointerSize == 4 {
		return uint64(binary.LittleEndian.Uint32(b))
	}
	return binary.LittleEndian.Uint64(b)
}

func alignUp(n, a int) int {
	return (n + a - 1) / a * a
}
