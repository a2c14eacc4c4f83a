package insts_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebpfvm/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Decode", func() {
		It("should decode MOV64 r1, #0x11223344", func() {
			// B7 01 00 00 44 33 22 11
			program := []byte{0xB7, 0x01, 0x00, 0x00, 0x44, 0x33, 0x22, 0x11}
			inst := decoder.Decode(program, 0)

			Expect(inst.Opcode).To(Equal(uint8(0xB7)))
			Expect(inst.Dst).To(Equal(uint8(1)))
			Expect(inst.Src).To(Equal(uint8(0)))
			Expect(inst.Offset).To(Equal(int16(0)))
			Expect(inst.Imm).To(Equal(int32(0x11223344)))
		})

		It("should decode the dst/src nibble pair independently", func() {
			// opcode=0x0F, dst=0xA, src=0x5
			program := []byte{0x0F, 0x5A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
			inst := decoder.Decode(program, 0)

			Expect(inst.Dst).To(Equal(uint8(0xA)))
			Expect(inst.Src).To(Equal(uint8(0x5)))
		})

		It("should sign-extend a negative offset", func() {
			// offset = -1 encoded as 0xFFFF
			program := []byte{0x05, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}
			inst := decoder.Decode(program, 0)

			Expect(inst.Offset).To(Equal(int16(-1)))
		})

		It("should decode slot index 1 at byte offset 8", func() {
			program := make([]byte, 16)
			program[8] = 0x95 // EXIT
			inst := decoder.Decode(program, 1)

			Expect(inst.Opcode).To(Equal(uint8(0x95)))
			Expect(inst.IsExit()).To(BeTrue())
		})

		It("should recognize LD_DW_IMM", func() {
			program := []byte{0x18, 0x00, 0x00, 0x00, 0xEF, 0xBE, 0xAD, 0xDE}
			inst := decoder.Decode(program, 0)

			Expect(inst.IsWideLoad()).To(BeTrue())
		})
	})

	Describe("Encode", func() {
		It("round-trips an arbitrary instruction", func() {
			original := insts.Instruction{
				Opcode: 0x6D,
				Dst:    7,
				Src:    3,
				Offset: -1000,
				Imm:    -123456,
			}

			buf := insts.EncodeSlot(original)
			decoded := decoder.Decode(buf, 0)

			if diff := cmp.Diff(original, decoded); diff != "" {
				Fail("round-trip mismatch (-want +got):\n" + diff)
			}
		})

		It("re-encodes the decoded MOV64 instruction to its original bytes", func() {
			program := []byte{0xB7, 0x01, 0x00, 0x00, 0x44, 0x33, 0x22, 0x11}
			decoded := decoder.Decode(program, 0)
			reencoded := insts.EncodeSlot(decoded)

			Expect(reencoded).To(Equal(program))
		})
	})

	Describe("opcode field helpers", func() {
		It("extracts class, size and mode from a memory opcode", func() {
			// LDX | DW | MEM = 0x79
			opcode := uint8(insts.ClassLDX) | insts.ModeMEM | insts.SizeDW

			Expect(insts.OpcodeClass(opcode)).To(Equal(insts.ClassLDX))
			Expect(insts.Size(opcode)).To(Equal(insts.SizeDW))
			Expect(insts.Mode(opcode)).To(Equal(insts.ModeMEM))
			Expect(insts.SizeBytes(insts.Size(opcode))).To(Equal(8))
		})

		It("identifies register vs immediate ALU64 source", func() {
			immOpcode := uint8(insts.ClassALU64) | insts.OpADD
			regOpcode := uint8(insts.ClassALU64) | insts.OpADD | insts.SrcBit

			Expect(insts.IsRegisterSrc(immOpcode)).To(BeFalse())
			Expect(insts.IsRegisterSrc(regOpcode)).To(BeTrue())
		})
	})
})
