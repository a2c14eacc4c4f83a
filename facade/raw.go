package facade

// Raw always calls the interpreter with an empty mbuff: Raw is an Mbuff
// façade whose mbuff argument is discarded, mirroring the original
// implementation's own composition (EbpfVmRaw delegates to EbpfVmMbuff
// with an always-empty mbuff) rather than reimplementing pass-through
// logic a second time.
type Raw struct {
	inner *Mbuff
}

// NewRaw wraps vm for packet-only execution with no metadata buffer.
func NewRaw(v Executor) *Raw { return &Raw{inner: NewMbuff(v)} }

// Execute runs the program against packet with an empty mbuff.
func (f *Raw) Execute(packet []byte) (uint64, error) {
	return f.inner.Execute(packet, nil)
}
