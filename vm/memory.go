package vm

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is the sentinel wrapped by every out-of-bounds access
// diagnostic, so callers can test with errors.Is regardless of the
// specific address/length/region values involved.
var ErrOutOfBounds = errors.New("out-of-bounds memory access")

// Region describes one of the three byte ranges the memory guard may
// permit an access into: the metadata buffer, the packet/data memory, or
// the per-execution stack.
type Region struct {
	Name string
	Base uint64
	Len  uint64
}

// contains reports whether the access [addr, addr+length) lies wholly
// within r, using unsigned 64-bit arithmetic with no wraparound
// tolerance: if addr+length overflows, the access is rejected.
func (r Region) contains(addr, length uint64) bool {
	end := addr + length
	if end < addr {
		return false // overflow
	}
	return r.Base <= addr && end <= r.Base+r.Len
}

// Regions is the complete set of permitted memory regions for one
// execution: the caller's metadata buffer, the caller's packet memory,
// and the interpreter-owned stack.
type Regions struct {
	Mbuff Region
	Mem   Region
	Stack Region
}

// all returns the three regions in the fixed diagnostic order used by
// OutOfBoundsError.
func (rs Regions) all() [3]Region {
	return [3]Region{rs.Mbuff, rs.Mem, rs.Stack}
}

// OutOfBoundsError is returned by CheckAccess when no region admits the
// requested access. It carries everything needed to diagnose the
// failure: the instruction that attempted it, the address and length,
// and a snapshot of all three region descriptors.
type OutOfBoundsError struct {
	InsnPtr int
	Addr    uint64
	Length  uint64
	Regions [3]Region
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"%v at insn %d: address %#x length %d not within mbuff[%#x,+%d) mem[%#x,+%d) stack[%#x,+%d)",
		ErrOutOfBounds, e.InsnPtr, e.Addr, e.Length,
		e.Regions[0].Base, e.Regions[0].Len,
		e.Regions[1].Base, e.Regions[1].Len,
		e.Regions[2].Base, e.Regions[2].Len,
	)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// CheckAccess is the memory guard: it accepts the access [addr, addr+length)
// iff at least one of the three regions wholly contains it. It does not
// distinguish load from store; both go through this same check.
func (rs Regions) CheckAccess(insnPtr int, addr, length uint64) error {
	regions := rs.all()
	for _, r := range regions {
		if r.contains(addr, length) {
			return nil
		}
	}
	return &OutOfBoundsError{
		InsnPtr: insnPtr,
		Addr:    addr,
		Length:  length,
		Regions: regions,
	}
}
