package facade

// NoData always calls the interpreter with both regions empty: NoData is
// a Raw façade whose packet argument is also discarded, mirroring the
// original's EbpfVmNoData, which delegates to EbpfVmRaw with an
// always-empty packet (itself already an always-empty-mbuff EbpfVmMbuff).
type NoData struct {
	inner *Raw
}

// NewNoData wraps vm for execution with no packet and no metadata buffer
// at all — useful for programs that only touch registers and the stack.
func NewNoData(v Executor) *NoData { return &NoData{inner: NewRaw(v)} }

// Execute runs the program with empty mbuff and empty packet.
func (f *NoData) Execute() (uint64, error) {
	return f.inner.Execute(nil)
}
