package facade

import "github.com/sarchlab/ebpfvm/vm"

// FixedMbuff owns a small internal metadata buffer and writes the
// packet's base and end pointers into it at caller-configured offsets
// before every execution, instead of asking the caller to build an
// mbuff by hand. This is the composition the original implementation's
// constructor documents: a buffer sized max(dataOffset, dataEndOffset)+8,
// with both pointer fields written as 64-bit host-endian values.
type FixedMbuff struct {
	inner         *Mbuff
	buf           []byte
	dataOffset    int
	dataEndOffset int
}

// NewFixedMbuff builds a FixedMbuff façade around v, sizing its internal
// buffer from the two configured pointer offsets.
func NewFixedMbuff(v Executor, dataOffset, dataEndOffset int) *FixedMbuff {
	size := dataOffset
	if dataEndOffset > size {
		size = dataEndOffset
	}
	size += 8

	return &FixedMbuff{
		inner:         NewMbuff(v),
		buf:           make([]byte, size),
		dataOffset:    dataOffset,
		dataEndOffset: dataEndOffset,
	}
}

// Execute writes packet.base and packet.base+len into the internal
// buffer at the configured offsets, then runs the program with that
// buffer as mbuff.
func (f *FixedMbuff) Execute(packet []byte) (uint64, error) {
	base := vm.PacketBase()
	end := base + uint64(len(packet))

	putUint64(f.buf[f.dataOffset:], base)
	putUint64(f.buf[f.dataEndOffset:], end)

	return f.inner.Execute(packet, f.buf)
}

// putUint64 writes v into dst in host-native byte order, using the same
// explicit byte-composition idiom as the rest of this module's memory
// code rather than assuming a particular encoding/binary order.
func putUint64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> uint(i*8))
	}
}
