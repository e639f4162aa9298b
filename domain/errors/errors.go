// Package errors provides domain-specific error types for INI registration.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// Sentinel errors for single-owner violations.
var (
	// ErrListConsumed is returned when an entry list is materialized twice.
	ErrListConsumed = stdErrors.New("entry list already materialized")

	// ErrHandoffSpent is returned when a handoff is passed to the registration call twice.
	ErrHandoffSpent = stdErrors.New("handoff already registered")
)

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var e *ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// EncodingError reports a string that cannot be passed to the engine as a
// NUL-free narrow C string.
type EncodingError struct {
	Field  string // "name" or "value"
	Offset int    // index of the first NUL byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("ini entry %s contains NUL byte at offset %d", e.Field, e.Offset)
}

// ToErrorDetail implements DetailedError.
func (e *EncodingError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "validation", Code: "encoding"}
}

// LengthOverflowError reports a string whose byte length does not fit the
// 16-bit length field of the engine record.
type LengthOverflowError struct {
	Field  string
	Length int
	Max    int
}

func (e *LengthOverflowError) Error() string {
	return fmt.Sprintf("ini entry %s is %d bytes, limit is %d", e.Field, e.Length, e.Max)
}

// ToErrorDetail implements DetailedError.
func (e *LengthOverflowError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "validation", Code: "length_overflow"}
}

// PermissionEncodingError reports permission bits that cannot be stored in the
// engine's modifiable field.
type PermissionEncodingError struct {
	Bits uint32
}

func (e *PermissionEncodingError) Error() string {
	return fmt.Sprintf("permission bits 0x%x cannot be encoded as ini modifiable flags", e.Bits)
}

// ToErrorDetail implements DetailedError.
func (e *PermissionEncodingError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "validation", Code: "permission"}
}

// AllocationError reports a failed allocation in engine memory. It is not retryable.
type AllocationError struct {
	Err  error
	Size uint32
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine allocation of %d bytes failed: %v", e.Size, e.Err)
	}
	return fmt.Sprintf("engine allocation of %d bytes failed", e.Size)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *AllocationError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "internal", Code: "allocation"}
}

// RegistrationError reports that the engine rejected an ini entry block that was
// already handed off to it. The block is owned by the engine regardless.
type RegistrationError struct {
	Err          error
	Addr         uint32
	ModuleNumber int32
	Status       int32 // engine status code, 0 when the call trapped
}

func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ini registration for module %d (entries at 0x%x) failed: %v", e.ModuleNumber, e.Addr, e.Err)
	}
	return fmt.Sprintf("ini registration for module %d (entries at 0x%x) failed with status %d", e.ModuleNumber, e.Addr, e.Status)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *RegistrationError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{
		Message: e.Error(),
		Type:    "registration",
		Code:    fmt.Sprintf("status_%d", e.Status),
		Details: map[string]any{"module_number": e.ModuleNumber, "addr": e.Addr},
	}
}

// ClassNotFoundError reports a well-known class entry missing from the engine.
type ClassNotFoundError struct {
	Name   string
	Symbol string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class entry %s (%s) is not available", e.Name, e.Symbol)
}

// ToErrorDetail implements DetailedError.
func (e *ClassNotFoundError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "internal", Code: e.Symbol, IsNotFound: true}
}

// EntryError ties a construction failure to the manifest entry that caused it.
type EntryError struct {
	Err   error
	Name  string
	Index int
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ManifestError aggregates every invalid entry of a manifest.
type ManifestError struct {
	Source  string
	Entries []*EntryError
}

func (e *ManifestError) Error() string {
	msgs := make([]string, 0, len(e.Entries))
	for _, ee := range e.Entries {
		msgs = append(msgs, ee.Error())
	}
	if e.Source != "" {
		return fmt.Sprintf("manifest %s has %d invalid entries: %s", e.Source, len(e.Entries), strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("manifest has %d invalid entries: %s", len(e.Entries), strings.Join(msgs, "; "))
}

// Unwrap exposes the underlying entry errors to errors.Is and errors.As.
func (e *ManifestError) Unwrap() []error {
	errs := make([]error, 0, len(e.Entries))
	for _, ee := range e.Entries {
		errs = append(errs, ee)
	}
	return errs
}

// ToErrorDetail implements DetailedError.
func (e *ManifestError) ToErrorDetail() *ErrorDetail {
	return &ErrorDetail{Message: e.Error(), Type: "config", Code: "manifest"}
}
