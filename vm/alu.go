package vm

import (
	"math/bits"

	"github.com/sarchlab/ebpfvm/insts"
)

// ALU implements the ALU/ALU64 arithmetic, logic, shift, and
// endian-conversion operations, operating on a shared register file.
type ALU struct {
	regFile *RegFile
}

// NewALU creates an ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Exec applies one ALU/ALU64 instruction. operand is the already-resolved
// right-hand side: either the sign-extended immediate (K) or the value of
// the source register (X), which the caller has already selected before
// calling Exec. is64 selects the 64-bit (ALU64) width; false selects the
// 32-bit (ALU) width, whose results always zero-extend into the full
// register per the width rule.
func (a *ALU) Exec(insnPtr int, inst insts.Instruction, operand uint64, is64 bool) error {
	dst := inst.Dst
	op := insts.ALUOp(inst.Opcode)

	if is64 {
		return a.exec64(insnPtr, inst, dst, op, operand)
	}
	return a.exec32(insnPtr, inst, dst, op, operand)
}

func (a *ALU) exec64(insnPtr int, inst insts.Instruction, dst uint8, op uint8, operand uint64) error {
	x := a.regFile.ReadReg(dst)

	switch op {
	case insts.OpADD:
		a.regFile.WriteReg(dst, x+operand)
	case insts.OpSUB:
		a.regFile.WriteReg(dst, x-operand)
	case insts.OpMUL:
		a.regFile.WriteReg(dst, x*operand)
	case insts.OpDIV:
		if operand == 0 {
			return fault(insnPtr, inst.Opcode, ErrDivisionByZero, "ALU64 DIV by zero")
		}
		a.regFile.WriteReg(dst, x/operand)
	case insts.OpMOD:
		if operand == 0 {
			return fault(insnPtr, inst.Opcode, ErrDivisionByZero, "ALU64 MOD by zero")
		}
		a.regFile.WriteReg(dst, x%operand)
	case insts.OpOR:
		a.regFile.WriteReg(dst, x|operand)
	case insts.OpAND:
		a.regFile.WriteReg(dst, x&operand)
	case insts.OpLSH:
		a.regFile.WriteReg(dst, x<<(operand&0x3F))
	case insts.OpRSH:
		a.regFile.WriteReg(dst, x>>(operand&0x3F))
	case insts.OpNEG:
		a.regFile.WriteReg(dst, uint64(-int64(x)))
	case insts.OpXOR:
		a.regFile.WriteReg(dst, x^operand)
	case insts.OpMOV:
		a.regFile.WriteReg(dst, operand)
	case insts.OpARSH:
		a.regFile.WriteReg(dst, uint64(int64(x)>>(operand&0x3F)))
	case insts.OpEND:
		return a.endianConvert(insnPtr, inst, dst, x)
	default:
		return fault(insnPtr, inst.Opcode, ErrUnknownOpcode, "unrecognized ALU64 op %#x", op)
	}
	return nil
}

func (a *ALU) exec32(insnPtr int, inst insts.Instruction, dst uint8, op uint8, operand uint64) error {
	x := a.regFile.ReadReg32(dst)
	k := uint32(operand)

	switch op {
	case insts.OpADD:
		a.regFile.WriteReg32(dst, x+k)
	case insts.OpSUB:
		a.regFile.WriteReg32(dst, x-k)
	case insts.OpMUL:
		a.regFile.WriteReg32(dst, x*k)
	case insts.OpDIV:
		if k == 0 {
			return fault(insnPtr, inst.Opcode, ErrDivisionByZero, "ALU32 DIV by zero")
		}
		a.regFile.WriteReg32(dst, x/k)
	case insts.OpMOD:
		if k == 0 {
			return fault(insnPtr, inst.Opcode, ErrDivisionByZero, "ALU32 MOD by zero")
		}
		a.regFile.WriteReg32(dst, x%k)
	case insts.OpOR:
		a.regFile.WriteReg32(dst, x|k)
	case insts.OpAND:
		a.regFile.WriteReg32(dst, x&k)
	case insts.OpLSH:
		a.regFile.WriteReg32(dst, x<<(k&0x1F))
	case insts.OpRSH:
		a.regFile.WriteReg32(dst, x>>(k&0x1F))
	case insts.OpNEG:
		a.regFile.WriteReg32(dst, uint32(-int32(x)))
	case insts.OpXOR:
		a.regFile.WriteReg32(dst, x^k)
	case insts.OpMOV:
		a.regFile.WriteReg32(dst, k)
	case insts.OpARSH:
		a.regFile.WriteReg32(dst, uint32(int32(x)>>(k&0x1F)))
	case insts.OpEND:
		return a.endianConvert(insnPtr, inst, dst, a.regFile.ReadReg(dst))
	default:
		return fault(insnPtr, inst.Opcode, ErrUnknownOpcode, "unrecognized ALU op %#x", op)
	}
	return nil
}

// endianConvert implements the LE/BE opcodes. inst.Imm names the
// low-order width to convert (16, 32, or 64); any other value is a fatal
// "unsupported width" fault. The destination is truncated to that width,
// converted relative to host-native order, and written back
// zero-extended.
func (a *ALU) endianConvert(insnPtr int, inst insts.Instruction, dst uint8, value uint64) error {
	width := inst.Imm
	isBE := insts.IsRegisterSrc(inst.Opcode) // BE sets the X bit, LE clears it
	swap := isBE == isLittleEndianHost

	var result uint64
	switch width {
	case 16:
		v := uint16(value)
		if swap {
			v = bits.ReverseBytes16(v)
		}
		result = uint64(v)
	case 32:
		v := uint32(value)
		if swap {
			v = bits.ReverseBytes32(v)
		}
		result = uint64(v)
	case 64:
		v := value
		if swap {
			v = bits.ReverseBytes64(v)
		}
		result = v
	default:
		return fault(insnPtr, inst.Opcode, ErrUnsupportedWidth, "endian conversion width %d not in {16,32,64}", width)
	}

	a.regFile.WriteReg(dst, result)
	return nil
}
