package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebpfvm/insts"
	"github.com/sarchlab/ebpfvm/vm"
)

var _ = Describe("ALU", func() {
	var (
		regFile *vm.RegFile
		alu     *vm.ALU
	)

	BeforeEach(func() {
		regFile = &vm.RegFile{}
		alu = vm.NewALU(regFile)
	})

	It("zero-extends a 32-bit result into the full 64-bit register", func() {
		regFile.WriteReg(0, 0xFFFFFFFF00000000)
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU) | insts.OpADD, Dst: 0}

		Expect(alu.Exec(0, inst, 1, false)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(1)))
	})

	It("wraps 64-bit addition on overflow", func() {
		regFile.WriteReg(0, ^uint64(0))
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpADD, Dst: 0}

		Expect(alu.Exec(0, inst, 1, true)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(0)))
	})

	It("masks a 64-bit shift count to 6 bits", func() {
		regFile.WriteReg(0, 1)
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpLSH, Dst: 0}

		// shift count 64 masks to 0: result unchanged
		Expect(alu.Exec(0, inst, 64, true)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(1)))
	})

	It("masks a 32-bit shift count to 5 bits", func() {
		regFile.WriteReg(0, 1)
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU) | insts.OpLSH, Dst: 0}

		Expect(alu.Exec(0, inst, 32, false)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(1)))
	})

	It("performs arithmetic-shift-right using two's complement semantics", func() {
		regFile.WriteReg(0, uint64(int64(-8)))
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpARSH, Dst: 0}

		Expect(alu.Exec(0, inst, 1, true)).To(Succeed())
		Expect(int64(regFile.ReadReg(0))).To(Equal(int64(-4)))
	})

	It("computes unsigned division and modulus at 64-bit width", func() {
		regFile.WriteReg(0, 17)
		divInst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpDIV, Dst: 0}
		Expect(alu.Exec(0, divInst, 5, true)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(3)))

		regFile.WriteReg(0, 17)
		modInst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpMOD, Dst: 0}
		Expect(alu.Exec(0, modInst, 5, true)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(2)))
	})

	It("faults on division by zero at 64-bit width", func() {
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpDIV, Dst: 0}
		err := alu.Exec(0, inst, 0, true)
		Expect(err).To(MatchError(vm.ErrDivisionByZero))
	})

	It("negates using two's complement, zero-extended at 32-bit width", func() {
		regFile.WriteReg(0, 5)
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU) | insts.OpNEG, Dst: 0}
		Expect(alu.Exec(0, inst, 0, false)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint64(0xFFFFFFFB)))
	})

	It("faults on an unsupported endian-conversion width", func() {
		regFile.WriteReg(0, 0x1234)
		inst := insts.Instruction{Opcode: uint8(insts.ClassALU64) | insts.OpEND, Dst: 0, Imm: 24}
		err := alu.Exec(0, inst, 0, true)
		Expect(err).To(MatchError(vm.ErrUnsupportedWidth))
	})
})
