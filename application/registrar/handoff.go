package registrar

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/domain/ports"
	"github.com/zendwasm/zendini/internal/abi"
)

// Handoff is the engine address of a materialized entry array. It does not
// own the array and offers no way to free it. Handoffs are not meant to be
// copied; pass the pointer.
type Handoff struct {
	addr   uint32
	count  int
	layout abi.Layout
	spent  bool
}

// Addr is the engine address of the first record.
func (h *Handoff) Addr() uint32 { return h.addr }

// Count is the number of records, terminator included.
func (h *Handoff) Count() int { return h.count }

// Size is the array size in bytes.
func (h *Handoff) Size() int { return h.layout.BlockSize(h.count) }

// Registered reports whether the handoff was passed to the engine.
func (h *Handoff) Registered() bool { return h.spent }

func (h *Handoff) String() string {
	return fmt.Sprintf("Handoff(0x%x, %d records)", h.addr, h.count)
}

// Register passes the array to the engine's registration call, exactly once.
// On failure the engine still owns the array; Register never touches it again.
func Register(ctx context.Context, h *Handoff, reg ports.IniRegistry, moduleNumber int32) error {
	if h == nil {
		return fmt.Errorf("nil handoff")
	}
	if h.spent {
		return errors.ErrHandoffSpent
	}
	h.spent = true

	err := reg.RegisterIniEntries(ctx, h.addr, moduleNumber)
	if err == nil {
		return nil
	}

	var re *errors.RegistrationError
	if stdErrors.As(err, &re) {
		return err
	}
	return &errors.RegistrationError{Err: err, Addr: h.addr, ModuleNumber: moduleNumber}
}
