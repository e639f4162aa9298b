package entities

import "fmt"

// ClassEntryPtr is the address of a zend_class_entry in engine memory.
type ClassEntryPtr uint32

// IsNull reports whether the pointer is null (zero).
func (p ClassEntryPtr) IsNull() bool { return p == 0 }

func (p ClassEntryPtr) String() string { return fmt.Sprintf("ClassEntryPtr(0x%x)", uint32(p)) }
