package facade_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebpfvm/facade"
	"github.com/sarchlab/ebpfvm/vm"
)

// exitWithR1 is a tiny program: MOV64 r0, r1 then EXIT, used to observe
// what each façade seeded into r1.
var exitWithR1 = []byte{
	0xBF, 0x10, 0, 0, 0, 0, 0, 0, // MOV64 r0, r1 (opcode 0xBF = ALU64 MOV, X-source; dst=r0, src=r1)
	0x95, 0, 0, 0, 0, 0, 0, 0,
}

var _ = Describe("Mbuff", func() {
	It("passes mbuff and packet straight through", func() {
		v, err := vm.NewVM(exitWithR1)
		Expect(err).NotTo(HaveOccurred())
		f := facade.NewMbuff(v)

		r0, err := f.Execute([]byte{1, 2, 3}, []byte{4, 5, 6, 7})
		Expect(err).NotTo(HaveOccurred())
		Expect(r0).To(Equal(vm.MbuffRegionBase()))
	})
})

var _ = Describe("Raw", func() {
	It("calls with an empty mbuff, seeding r1 from packet", func() {
		v, err := vm.NewVM(exitWithR1)
		Expect(err).NotTo(HaveOccurred())
		f := facade.NewRaw(v)

		r0, err := f.Execute([]byte{1, 2, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(r0).To(Equal(vm.PacketBase()))
	})
})

var _ = Describe("NoData", func() {
	It("calls with empty mbuff and empty packet, seeding r1 to zero", func() {
		v, err := vm.NewVM(exitWithR1)
		Expect(err).NotTo(HaveOccurred())
		f := facade.NewNoData(v)

		r0, err := f.Execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(r0).To(Equal(uint64(0)))
	})
})

var _ = Describe("FixedMbuff", func() {
	It("writes packet base/end pointers into its internal buffer before each call", func() {
		// Program: load the data pointer back out of the mbuff at offset 8
		// into r0, to confirm FixedMbuff wrote it there.
		program := []byte{
			0x79, 0x11, 0x08, 0, 0, 0, 0, 0, // LDXDW r1, [r1+8]
			0xBF, 0x10, 0, 0, 0, 0, 0, 0, // MOV64 r0, r1
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		v, err := vm.NewVM(program)
		Expect(err).NotTo(HaveOccurred())

		f := facade.NewFixedMbuff(v, 8, 16)
		r0, err := f.Execute([]byte{1, 2, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(r0).To(Equal(vm.PacketBase()))
	})
})
