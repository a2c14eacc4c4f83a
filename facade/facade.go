// Package facade implements the four thin embedding adapters described by
// the interpreter's external contract: Mbuff, FixedMbuff, Raw, and
// NoData. Each differs only in how it marshals the metadata buffer and
// packet memory before dispatching into the shared interpreter; none of
// them add interpreter semantics of their own.
package facade

// Executor is the subset of *vm.VM every façade dispatches to. Narrowing
// to an interface keeps the façades testable against a fake without
// pulling in the whole interpreter.
type Executor interface {
	Execute(packet, mbuff []byte) (uint64, error)
}

// Mbuff passes the caller's mbuff and packet straight through to the
// interpreter, unmodified.
type Mbuff struct {
	VM Executor
}

// NewMbuff wraps vm for direct mbuff/packet pass-through.
func NewMbuff(v Executor) *Mbuff { return &Mbuff{VM: v} }

// Execute runs the program with packet and mbuff exactly as given.
func (f *Mbuff) Execute(packet, mbuff []byte) (uint64, error) {
	return f.VM.Execute(packet, mbuff)
}
