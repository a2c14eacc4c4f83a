package insts

// InstructionSize is the fixed width of one eBPF instruction slot, in bytes.
const InstructionSize = 8

// Class is the low 3 bits of the opcode byte, selecting the instruction
// category.
type Class uint8

// Opcode classes, per the kernel's include/uapi/linux/bpf.h.
const (
	ClassLD    Class = 0x00
	ClassLDX   Class = 0x01
	ClassST    Class = 0x02
	ClassSTX   Class = 0x03
	ClassALU   Class = 0x04
	ClassJMP   Class = 0x05
	ClassALU64 Class = 0x07
)

const classMask = 0x07

// Memory-class width and mode bits (bits 3-4 and 5-7 of the opcode byte).
const (
	SizeW  uint8 = 0x00
	SizeH  uint8 = 0x08
	SizeB  uint8 = 0x10
	SizeDW uint8 = 0x18

	sizeMask = 0x18

	ModeIMM  uint8 = 0x00
	ModeABS  uint8 = 0x20
	ModeIND  uint8 = 0x40
	ModeMEM  uint8 = 0x60
	ModeXADD uint8 = 0xC0

	modeMask = 0xE0
)

// ALU/ALU64 operation codes (bits 4-7 of the opcode byte).
const (
	OpADD  uint8 = 0x00
	OpSUB  uint8 = 0x10
	OpMUL  uint8 = 0x20
	OpDIV  uint8 = 0x30
	OpOR   uint8 = 0x40
	OpAND  uint8 = 0x50
	OpLSH  uint8 = 0x60
	OpRSH  uint8 = 0x70
	OpNEG  uint8 = 0x80
	OpMOD  uint8 = 0x90
	OpXOR  uint8 = 0xA0
	OpMOV  uint8 = 0xB0
	OpARSH uint8 = 0xC0
	OpEND  uint8 = 0xD0

	aluOpMask = 0xF0

	// SrcBit distinguishes immediate (K, bit clear) from register (X, bit set)
	// operands for ALU/ALU64/JMP instructions.
	SrcBit uint8 = 0x08
)

// JMP-class operation codes (bits 4-7 of the opcode byte).
const (
	OpJA       uint8 = 0x00
	OpJEQ      uint8 = 0x10
	OpJGT      uint8 = 0x20
	OpJGE      uint8 = 0x30
	OpJSET     uint8 = 0x40
	OpJNE      uint8 = 0x50
	OpJSGT     uint8 = 0x60
	OpJSGE     uint8 = 0x70
	OpCALL     uint8 = 0x80
	OpEXIT     uint8 = 0x90
	OpTAILCALL uint8 = 0xC0
)

// Full opcode bytes referenced directly elsewhere in the interpreter.
const (
	OpcodeLDDWIMM uint8 = uint8(ClassLD) | ModeIMM | SizeDW // 0x18
	OpcodeEXIT    uint8 = uint8(ClassJMP) | OpEXIT          // 0x95
)

// Class returns the opcode class (low 3 bits) of a raw opcode byte.
func OpcodeClass(opcode uint8) Class {
	return Class(opcode & classMask)
}

// IsMemoryClass reports whether a class is one of LD/LDX/ST/STX.
func (c Class) IsMemoryClass() bool {
	switch c {
	case ClassLD, ClassLDX, ClassST, ClassSTX:
		return true
	default:
		return false
	}
}

// Size extracts the memory-class width bits from a raw opcode byte.
func Size(opcode uint8) uint8 { return opcode & sizeMask }

// Mode extracts the memory-class mode bits from a raw opcode byte.
func Mode(opcode uint8) uint8 { return opcode & modeMask }

// ALUOp extracts the ALU/ALU64 operation bits from a raw opcode byte.
func ALUOp(opcode uint8) uint8 { return opcode & aluOpMask }

// JMPOp extracts the JMP operation bits from a raw opcode byte.
// JMP uses the same high-nibble layout as ALU.
func JMPOp(opcode uint8) uint8 { return opcode & aluOpMask }

// IsRegisterSrc reports whether the X (register-source) bit is set.
func IsRegisterSrc(opcode uint8) bool { return opcode&SrcBit != 0 }

// SizeBytes converts a memory-class width selector into a byte count.
func SizeBytes(size uint8) int {
	switch size {
	case SizeB:
		return 1
	case SizeH:
		return 2
	case SizeW:
		return 4
	case SizeDW:
		return 8
	default:
		return 0
	}
}
