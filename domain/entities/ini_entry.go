package entities

import (
	"bytes"
	"math"

	"github.com/zendwasm/zendini/domain/errors"
)

// MaxIniStringLength is the longest name or default value an entry may carry.
// The engine stores name_length in a uint16.
const MaxIniStringLength = math.MaxUint16

// IniEntryDef is one ini declaration: a name, its default value and the scopes
// in which it may be modified. The callback slots of the engine record
// (on_modify, mh_arg1..3, displayer) are always null and have no Go field.
//
// The zero value is the list terminator.
type IniEntryDef struct {
	name       []byte
	value      []byte
	modifiable uint8
}

// NewIniEntryDef validates and copies name and defaultValue into a new entry.
// The caller's buffers may be reused as soon as it returns.
func NewIniEntryDef(name, defaultValue []byte, perm Permission) (IniEntryDef, error) {
	if err := checkIniString("name", name); err != nil {
		return IniEntryDef{}, err
	}
	if err := checkIniString("value", defaultValue); err != nil {
		return IniEntryDef{}, err
	}
	modifiable, err := encodePermission(perm)
	if err != nil {
		return IniEntryDef{}, err
	}

	return IniEntryDef{
		name:       bytes.Clone(nonNil(name)),
		value:      bytes.Clone(nonNil(defaultValue)),
		modifiable: modifiable,
	}, nil
}

// NewIniEntryDefString is NewIniEntryDef for string input.
func NewIniEntryDefString(name, defaultValue string, perm Permission) (IniEntryDef, error) {
	return NewIniEntryDef([]byte(name), []byte(defaultValue), perm)
}

// EndIniEntryDef returns the all-zero record that ends an entry list.
func EndIniEntryDef() IniEntryDef {
	return IniEntryDef{}
}

// Name returns a copy of the entry name.
func (d IniEntryDef) Name() []byte { return bytes.Clone(d.name) }

// Value returns a copy of the default value.
func (d IniEntryDef) Value() []byte { return bytes.Clone(d.value) }

// NameLength is the byte length stored in the name_length field.
func (d IniEntryDef) NameLength() uint16 { return uint16(len(d.name)) } //nolint:gosec // G115: bounded by NewIniEntryDef

// ValueLength is the byte length stored in the value_length field.
func (d IniEntryDef) ValueLength() uint16 { return uint16(len(d.value)) } //nolint:gosec // G115: bounded by NewIniEntryDef

// Modifiable is the encoded permission byte.
func (d IniEntryDef) Modifiable() uint8 { return d.modifiable }

// Permission decodes the modifiable byte.
func (d IniEntryDef) Permission() Permission { return Permission(d.modifiable) }

// IsEnd reports whether d is a terminator record.
func (d IniEntryDef) IsEnd() bool {
	return d.name == nil && d.value == nil && d.modifiable == 0
}

func (d IniEntryDef) String() string {
	if d.IsEnd() {
		return "<end>"
	}
	return string(d.name) + "=" + string(d.value) + " (" + d.Permission().String() + ")"
}

func checkIniString(field string, s []byte) error {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		return &errors.EncodingError{Field: field, Offset: i}
	}
	if len(s) > MaxIniStringLength {
		return &errors.LengthOverflowError{Field: field, Length: len(s), Max: MaxIniStringLength}
	}
	return nil
}

// encodePermission is the checked conversion to the uint8 modifiable field.
func encodePermission(p Permission) (uint8, error) {
	if !p.Valid() || p.Bits() > math.MaxUint8 {
		return 0, &errors.PermissionEncodingError{Bits: p.Bits()}
	}
	return uint8(p), nil
}

// nonNil keeps an empty but present string distinct from the terminator's null pointer.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
