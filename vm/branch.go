package vm

import "github.com/sarchlab/ebpfvm/insts"

// BranchUnit evaluates JMP-class conditions. It holds no mutable state of
// its own; the instruction pointer it helps advance lives in the VM's
// main loop, since insn_ptr (not a register) is what a taken branch
// updates.
type BranchUnit struct{}

// NewBranchUnit creates a BranchUnit.
func NewBranchUnit() *BranchUnit { return &BranchUnit{} }

// Taken evaluates whether a conditional JMP instruction's condition holds,
// given the destination register's value and the already-resolved
// right-hand operand (sign-extended immediate for K, register value for
// X). The signed variants (JSGT, JSGE) compare both operands as i64.
// JSET tests (dst & operand) != 0. JA is unconditional.
func (b *BranchUnit) Taken(op uint8, dstVal, operand uint64) bool {
	switch op {
	case insts.OpJA:
		return true
	case insts.OpJEQ:
		return dstVal == operand
	case insts.OpJNE:
		return dstVal != operand
	case insts.OpJGT:
		return dstVal > operand
	case insts.OpJGE:
		return dstVal >= operand
	case insts.OpJSET:
		return dstVal&operand != 0
	case insts.OpJSGT:
		return int64(dstVal) > int64(operand)
	case insts.OpJSGE:
		return int64(dstVal) >= int64(operand)
	default:
		return false
	}
}

// Target computes the instruction index a taken branch lands on: the
// already-incremented insn_ptr (the slot after the branch instruction)
// plus the signed offset.
func (b *BranchUnit) Target(insnPtrAfterBranch int, offset int16) int {
	return insnPtrAfterBranch + int(offset)
}
