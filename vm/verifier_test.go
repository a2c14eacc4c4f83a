package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebpfvm/vm"
)

func exitOnly() []byte {
	return []byte{0x95, 0, 0, 0, 0, 0, 0, 0}
}

var _ = Describe("Verify", func() {
	It("accepts a minimal single-EXIT program", func() {
		Expect(vm.Verify(exitOnly())).To(Succeed())
	})

	It("rejects an empty program", func() {
		Expect(vm.Verify(nil)).To(MatchError(vm.ErrVerification))
	})

	It("rejects a length that is not a multiple of 8", func() {
		Expect(vm.Verify(make([]byte, 9))).To(MatchError(vm.ErrVerification))
	})

	It("rejects a program whose last instruction is not EXIT", func() {
		program := []byte{0xB7, 0, 0, 0, 0, 0, 0, 0} // MOV64, not EXIT
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("rejects a branch target outside the program", func() {
		program := []byte{
			0x05, 0, 0xFF, 0x7F, 0, 0, 0, 0, // JA +0x7FFF (far out of range)
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("rejects a register index >= 11", func() {
		program := []byte{
			0xB7, 0x0B, 0, 0, 0, 0, 0, 0, // MOV64 r11, #0 (invalid dst)
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("rejects a write to r10", func() {
		program := []byte{
			0xB7, 0x0A, 0, 0, 0, 0, 0, 0, // MOV64 r10, #0
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("permits r10 as a read-only base register", func() {
		program := []byte{
			0x79, 0xA1, 0, 0, 0, 0, 0, 0, // LDXDW r1, [r10+0]: dst=1, src=10
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(Succeed())
	})

	It("rejects LD_DW_IMM as the last instruction", func() {
		program := []byte{
			0x18, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("rejects DIV by an immediate zero", func() {
		program := []byte{
			0x34, 0x00, 0, 0, 0, 0, 0, 0, // DIV32 r0, #0
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})

	It("permits DIV by a register that might be zero at run time", func() {
		program := []byte{
			0x3C, 0x10, 0, 0, 0, 0, 0, 0, // DIV32 r0 /= r1 (register src)
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(Succeed())
	})

	It("rejects an unrecognized opcode", func() {
		program := []byte{
			0xFF, 0, 0, 0, 0, 0, 0, 0,
			0x95, 0, 0, 0, 0, 0, 0, 0,
		}
		Expect(vm.Verify(program)).To(MatchError(vm.ErrVerification))
	})
})
