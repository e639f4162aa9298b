package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode string
	}{
		{"encoding", &EncodingError{Field: "name", Offset: 2}, "validation", "encoding"},
		{"length", &LengthOverflowError{Field: "value", Length: 70000, Max: 65535}, "validation", "length_overflow"},
		{"permission", &PermissionEncodingError{Bits: 8}, "validation", "permission"},
		{"allocation", &AllocationError{Size: 36}, "internal", "allocation"},
		{"registration", &RegistrationError{Addr: 0x100, ModuleNumber: 7, Status: -1}, "registration", "status_-1"},
		{"class", &ClassNotFoundError{Name: "Exception", Symbol: "zend_ce_exception"}, "internal", "zend_ce_exception"},
		{"manifest", &ManifestError{Source: "ini.yaml"}, "config", "manifest"},
		{"wrapped", fmt.Errorf("outer: %w", &PermissionEncodingError{Bits: 8}), "validation", "permission"},
		{"plain", stdErrors.New("boom"), "internal", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ToErrorDetail(tt.err)
			require.NotNil(t, d)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, tt.wantCode, d.Code)
			assert.NotEmpty(t, d.Message)
		})
	}

	assert.Nil(t, ToErrorDetail(nil))
}

func TestToErrorDetail_ClassNotFound(t *testing.T) {
	d := ToErrorDetail(&ClassNotFoundError{Name: "Stringable", Symbol: "zend_ce_stringable"})
	assert.True(t, d.IsNotFound)
}

func TestErrorDetail_Error(t *testing.T) {
	d := &ErrorDetail{Message: "bad", Type: "validation", Code: "encoding"}
	assert.Equal(t, "validation: bad [encoding]", d.Error())

	d = &ErrorDetail{Message: "bad", Type: "internal"}
	assert.Equal(t, "bad", d.Error())

	var nilDetail *ErrorDetail
	assert.Equal(t, "", nilDetail.Error())
}

func TestRegistrationError(t *testing.T) {
	trap := stdErrors.New("wasm error: unreachable")
	err := &RegistrationError{Err: trap, Addr: 0x40, ModuleNumber: 3}
	assert.ErrorIs(t, err, trap)
	assert.Contains(t, err.Error(), "module 3")
	assert.Contains(t, err.Error(), "0x40")

	status := &RegistrationError{Addr: 0x40, ModuleNumber: 3, Status: -1}
	assert.Contains(t, status.Error(), "status -1")
	assert.Equal(t, int32(3), status.ToErrorDetail().Details["module_number"])
}

func TestAllocationError(t *testing.T) {
	cause := stdErrors.New("out of memory")
	err := &AllocationError{Err: cause, Size: 64}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "64 bytes")

	assert.Equal(t, "engine allocation of 8 bytes failed", (&AllocationError{Size: 8}).Error())
}

func TestManifestError(t *testing.T) {
	perm := &PermissionEncodingError{Bits: 8}
	enc := &EncodingError{Field: "name", Offset: 1}
	err := &ManifestError{
		Source: "ini.toml",
		Entries: []*EntryError{
			{Err: perm, Name: "a", Index: 0},
			{Err: enc, Name: "b\x00", Index: 2},
		},
	}

	assert.Contains(t, err.Error(), "ini.toml has 2 invalid entries")
	assert.Contains(t, err.Error(), `entry 2 ("b\x00")`)

	var pe *PermissionEncodingError
	require.True(t, stdErrors.As(err, &pe))
	assert.Equal(t, uint32(8), pe.Bits)

	var ee *EncodingError
	require.True(t, stdErrors.As(err, &ee))
	assert.Equal(t, 1, ee.Offset)

	var entry *EntryError
	require.True(t, stdErrors.As(err, &entry))
	assert.Equal(t, "a", entry.Name)
}

func TestSentinels(t *testing.T) {
	assert.ErrorIs(t, fmt.Errorf("materialize: %w", ErrListConsumed), ErrListConsumed)
	assert.NotErrorIs(t, ErrListConsumed, ErrHandoffSpent)
}
