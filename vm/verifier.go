package vm

import (
	"errors"
	"fmt"

	"github.com/sarchlab/ebpfvm/insts"
)

// ErrVerification is the sentinel wrapped by every verifier rejection.
var ErrVerification = errors.New("program rejected by verifier")

// VerifyError names the specific rule a program violated and the
// instruction index at which the violation was found, where applicable.
type VerifyError struct {
	Rule    string
	InsnPtr int
	Detail  string
}

func (e *VerifyError) Error() string {
	if e.InsnPtr >= 0 {
		return fmt.Sprintf("%v: %s at insn %d: %s", ErrVerification, e.Rule, e.InsnPtr, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", ErrVerification, e.Rule, e.Detail)
}

func (e *VerifyError) Unwrap() error { return ErrVerification }

func reject(rule string, insnPtr int, detail string, args ...interface{}) error {
	return &VerifyError{Rule: rule, InsnPtr: insnPtr, Detail: fmt.Sprintf(detail, args...)}
}

// Verify runs the single structural pass over program required before it
// may be loaded or substituted into a VM. It rejects the program if any
// of the eight static rules is violated; it does not model register
// values, memory aliasing, or helper availability — those remain dynamic
// checks performed by the interpreter itself.
func Verify(program []byte) error {
	if len(program) == 0 || len(program)%insts.InstructionSize != 0 {
		return reject("program-length", -1, "length %d is not a positive multiple of %d", len(program), insts.InstructionSize)
	}

	n := len(program) / insts.InstructionSize
	d := insts.NewDecoder()

	last := d.Decode(program, n-1)
	if last.Opcode != insts.OpcodeEXIT {
		return reject("final-instruction", n-1, "last instruction must be EXIT (0x95), got opcode %#x", last.Opcode)
	}

	for i := 0; i < n; i++ {
		inst := d.Decode(program, i)

		if err := verifyRegisters(inst, i); err != nil {
			return err
		}

		if inst.IsWideLoad() {
			if i == n-1 {
				return reject("wide-load-position", i, "LD_DW_IMM cannot be the last instruction")
			}
			i++ // consume the second slot; it carries only immediate bits
			continue
		}

		class := inst.Class()
		switch class {
		case insts.ClassJMP:
			if err := verifyJump(inst, i, n); err != nil {
				return err
			}
		case insts.ClassALU, insts.ClassALU64:
			op := insts.ALUOp(inst.Opcode)
			if (op == insts.OpDIV || op == insts.OpMOD) && !insts.IsRegisterSrc(inst.Opcode) && inst.Imm == 0 {
				return reject("division-by-immediate-zero", i, "DIV/MOD by immediate 0")
			}
		case insts.ClassLD, insts.ClassLDX, insts.ClassST, insts.ClassSTX:
			// width/mode legality is enforced dynamically by the
			// interpreter (unimplemented modes fault at run time per
			// the documented policy); nothing further to check here.
		default:
			return reject("unrecognized-opcode", i, "opcode %#x does not belong to a known class", inst.Opcode)
		}

		if !isRecognizedOpcode(inst) {
			return reject("unrecognized-opcode", i, "opcode %#x is not in the recognized set", inst.Opcode)
		}
	}

	return nil
}

// verifyRegisters enforces rules 4 and 5: every register index must be in
// 0..10, and r10 may never be the destination of a write.
func verifyRegisters(inst insts.Instruction, idx int) error {
	if inst.Dst >= NumRegisters || inst.Src >= NumRegisters {
		return reject("register-range", idx, "register index out of range 0..%d (dst=%d src=%d)", NumRegisters-1, inst.Dst, inst.Src)
	}

	class := inst.Class()
	// ALU/ALU64 and LDX write their dst register, as does LD's only
	// dst-writing form, the wide immediate load. JMP never writes dst
	// directly: CALL's result lands in r0 regardless of the dst field.
	writesDst := class == insts.ClassALU || class == insts.ClassALU64 || class == insts.ClassLDX || inst.IsWideLoad()

	if writesDst && inst.Dst == StackReg {
		return reject("r10-write", idx, "r10 is read-only and may not be a write destination")
	}
	return nil
}

// verifyJump enforces rule 3: every branch target must land within the
// program.
func verifyJump(inst insts.Instruction, idx, n int) error {
	op := insts.JMPOp(inst.Opcode)
	switch op {
	case insts.OpCALL, insts.OpEXIT, insts.OpTAILCALL:
		return nil // no branch target to check
	default:
		target := idx + 1 + int(inst.Offset)
		if target < 0 || target >= n {
			return reject("branch-target", idx, "target %d out of range [0, %d)", target, n)
		}
		return nil
	}
}

// isRecognizedOpcode reports whether inst's opcode belongs to the
// enumerated set in the external contract (rule 7). Unimplemented-but-
// recognized opcodes (LD_ABS/IND, XADD, TAIL_CALL) are accepted here and
// rejected dynamically at run time instead, per the documented policy.
func isRecognizedOpcode(inst insts.Instruction) bool {
	switch inst.Class() {
	case insts.ClassLD, insts.ClassLDX, insts.ClassST, insts.ClassSTX:
		switch insts.Mode(inst.Opcode) {
		case insts.ModeIMM, insts.ModeABS, insts.ModeIND, insts.ModeMEM, insts.ModeXADD:
			return true
		default:
			return false
		}
	case insts.ClassALU, insts.ClassALU64:
		switch insts.ALUOp(inst.Opcode) {
		case insts.OpADD, insts.OpSUB, insts.OpMUL, insts.OpDIV, insts.OpOR, insts.OpAND,
			insts.OpLSH, insts.OpRSH, insts.OpNEG, insts.OpMOD, insts.OpXOR, insts.OpMOV,
			insts.OpARSH, insts.OpEND:
			return true
		default:
			return false
		}
	case insts.ClassJMP:
		switch insts.JMPOp(inst.Opcode) {
		case insts.OpJA, insts.OpJEQ, insts.OpJGT, insts.OpJGE, insts.OpJSET, insts.OpJNE,
			insts.OpJSGT, insts.OpJSGE, insts.OpCALL, insts.OpEXIT, insts.OpTAILCALL:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
