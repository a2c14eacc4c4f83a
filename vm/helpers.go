package vm

import (
	"fmt"
	"io"
	"math"
)

// Helper is the fixed signature every registered helper function must
// satisfy: five 64-bit arguments (bound from r1..r5 at call time), one
// 64-bit return value (stored into r0).
type Helper func(r1, r2, r3, r4, r5 uint64) uint64

// HelperTable maps a 32-bit key, carried in a CALL instruction's
// immediate field, to a Helper. It is mutable across runs and is looked
// up on every CALL — not resolved at verification time, since entries
// may change between verify and run.
type HelperTable map[uint32]Helper

// RegisterHelper inserts or replaces the helper bound to key.
func (t HelperTable) RegisterHelper(key uint32, fn Helper) {
	t[key] = fn
}

// Call looks up key and, if present, invokes it with (r1,r2,r3,r4,r5)
// read from regFile and stores the result into r0. If key is absent,
// it's a fatal run-time fault.
func (t HelperTable) Call(insnPtr int, opcode uint8, key uint32, regFile *RegFile) error {
	fn, ok := t[key]
	if !ok {
		return fault(insnPtr, opcode, ErrUnknownHelper, "key %d", key)
	}
	result := fn(
		regFile.ReadReg(1),
		regFile.ReadReg(2),
		regFile.ReadReg(3),
		regFile.ReadReg(4),
		regFile.ReadReg(5),
	)
	regFile.WriteReg(0, result)
	return nil
}

// Default helper keys, matching the worked examples carried over from
// the original implementation's own doc comments.
const (
	HelperSqrti = uint32(1) // integer square root of r1
	HelperTrace = uint32(2) // formats r1..r5 to an injectable writer
)

// DefaultHelpers returns a starting helper table with the two worked
// examples registered: an integer square root helper (key 1) and a
// trace/print helper (key 2) that writes to w instead of hard-coding
// stdout, so tests can assert on its output. The core dispatch mechanism
// itself remains helper-catalogue-agnostic; callers are free to build an
// empty HelperTable{} and register only what their embedding needs.
func DefaultHelpers(w io.Writer) HelperTable {
	table := HelperTable{}
	table.RegisterHelper(HelperSqrti, sqrti)
	table.RegisterHelper(HelperTrace, traceHelper(w))
	return table
}

// sqrti returns the integer square root of r1, truncating toward zero,
// ignoring the remaining arguments.
func sqrti(r1, _, _, _, _ uint64) uint64 {
	return uint64(math.Sqrt(float64(r1)))
}

// traceHelper returns a Helper that writes its five arguments to w as a
// single formatted line, returning 0. Useful for tests that want to
// observe guest-side tracing without a real syscall boundary.
func traceHelper(w io.Writer) Helper {
	return func(r1, r2, r3, r4, r5 uint64) uint64 {
		fmt.Fprintf(w, "trace: %d %d %d %d %d\n", r1, r2, r3, r4, r5)
		return 0
	}
}
