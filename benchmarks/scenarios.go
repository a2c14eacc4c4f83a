// Package benchmarks packages the worked scenarios this engine is
// validated against as reusable fixtures, so the same byte-exact
// programs back this package's own specs, the spec-check CLI, and the
// throughput microbenchmark. The vm package's scenario specs keep their
// own copies of these programs.
package benchmarks

import "github.com/sarchlab/ebpfvm/vm"

// Scenario is one named, self-contained conformance case: a program plus
// the inputs to run it with and the r0 it must produce (or, for fault
// cases, that a fault is expected instead).
type Scenario struct {
	Name    string
	Program []byte
	Packet  []byte
	Mbuff   []byte
	Helpers vm.HelperTable

	// WantR0 is the expected return value for scenarios that complete
	// normally. WantErr, when true, means the scenario is expected to
	// fault rather than return a value.
	WantR0  uint64
	WantErr bool
}

// Scenarios is the fixed set of conformance cases this engine is built
// against.
func Scenarios() []Scenario {
	mem := []byte{0xAA, 0xBB, 0x11, 0x22, 0xCC, 0xDD}
	mbuff := make([]byte, 16)
	memBase := vm.PacketBase()
	for i := 0; i < 8; i++ {
		mbuff[8+i] = byte(memBase >> uint(i*8))
	}

	return []Scenario{
		{
			Name: "be16 byte-swaps the low 16 bits",
			Program: []byte{
				0xB7, 0x00, 0x00, 0x00, 0x11, 0x22, 0x00, 0x00,
				0xDC, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			WantR0: 0x1122,
		},
		{
			Name: "loads a pointer from the mbuff, then loads through it",
			Program: []byte{
				0x79, 0x11, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x69, 0x10, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			Packet: mem,
			Mbuff:  mbuff,
			WantR0: 0x2211,
		},
		{
			Name: "traps on division by zero",
			Program: []byte{
				0xB7, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x3C, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			WantErr: true,
		},
		{
			Name: "traps on an out-of-bounds stack write",
			Program: []byte{
				0x62, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			WantErr: true,
		},
		{
			Name: "dispatches a helper call (integer square root)",
			Program: []byte{
				0xB7, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00,
				0xB7, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xB7, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xB7, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xB7, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x85, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			Helpers: vm.DefaultHelpers(nil),
			WantR0:  0x100,
		},
		{
			Name: "loads a 64-bit wide immediate across two slots",
			Program: []byte{
				0x18, 0x00, 0x00, 0x00, 0xEF, 0xBE, 0xAD, 0xDE,
				0x00, 0x00, 0x00, 0x00, 0x0D, 0xF0, 0xAD, 0xBA,
				0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			WantR0: 0xBAADF00DDEADBEEF,
		},
	}
}
