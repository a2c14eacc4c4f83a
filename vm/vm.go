package vm

import (
	"github.com/sarchlab/ebpfvm/insts"
)

// VM is the eBPF interpreter: an immutable (once running) program plus a
// mutable helper table, shared across concurrent executions per the
// concurrency model — callers must not mutate the program or helper
// table while an execution is in flight.
type VM struct {
	program []byte
	helpers HelperTable
	decoder *insts.Decoder
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithHelperTable seeds the VM's helper table instead of starting from an
// empty one.
func WithHelperTable(t HelperTable) Option {
	return func(v *VM) { v.helpers = t }
}

// NewVM verifies program and, if accepted, constructs a VM around it.
func NewVM(program []byte, opts ...Option) (*VM, error) {
	if err := Verify(program); err != nil {
		return nil, err
	}
	v := &VM{
		program: program,
		helpers: HelperTable{},
		decoder: insts.NewDecoder(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// SetProgram re-verifies newProgram and, only on success, replaces the
// currently loaded program. If verification fails the previously loaded
// program remains in effect and the error is returned.
func (v *VM) SetProgram(newProgram []byte) error {
	if err := Verify(newProgram); err != nil {
		return err
	}
	v.program = newProgram
	return nil
}

// RegisterHelper inserts or replaces a helper in this VM's helper table.
func (v *VM) RegisterHelper(key uint32, fn Helper) {
	v.helpers.RegisterHelper(key, fn)
}

// Program returns the currently loaded program bytes.
func (v *VM) Program() []byte { return v.program }

// execution holds the per-call mutable state: registers, memory, and the
// execution units wired to them. A fresh execution is built for every
// Execute call so that concurrent executions of the same VM never share
// mutable state beyond the program bytes and helper table.
type execution struct {
	regFile *RegFile
	memory  *Memory
	regions Regions
	alu     *ALU
	lsu     *LoadStoreUnit
	branch  *BranchUnit
	insnPtr int
}

func (v *VM) newExecution(packet, mbuff []byte) *execution {
	memory := NewMemory(mbuff, packet)
	regions := memory.Regions()
	regFile := &RegFile{}
	regFile.Reset()
	regFile.WriteReg(StackReg, memory.StackTop())
	regFile.WriteReg(1, memory.EntryPointer())

	return &execution{
		regFile: regFile,
		memory:  memory,
		regions: regions,
		alu:     NewALU(regFile),
		lsu:     NewLoadStoreUnit(regFile, memory, regions),
		branch:  NewBranchUnit(),
	}
}

// Execute runs the loaded program to completion against the given packet
// and metadata buffer, returning the final value of r0. Either slice may
// be nil or empty. A fatal run-time fault aborts the run and is returned
// as an error; there is no partial or recoverable failure.
func (v *VM) Execute(packet, mbuff []byte) (uint64, error) {
	exec := v.newExecution(packet, mbuff)
	n := len(v.program) / insts.InstructionSize

	for exec.insnPtr < n {
		idx := exec.insnPtr
		inst := v.decoder.Decode(v.program, idx)
		exec.insnPtr++

		if inst.IsWideLoad() {
			next := v.decoder.Decode(v.program, exec.insnPtr)
			exec.insnPtr++
			value := uint64(uint32(inst.Imm)) | uint64(uint32(next.Imm))<<32
			exec.regFile.WriteReg(inst.Dst, value)
			continue
		}

		if inst.IsExit() {
			return exec.regFile.ReadReg(0), nil
		}

		done, result, err := v.dispatch(exec, idx, inst)
		if err != nil {
			return 0, err
		}
		if done {
			return result, nil
		}
	}

	// Falling off the end without EXIT: the verifier should prevent
	// this, but the documented fallback is to return 0.
	return 0, nil
}

// dispatch executes one non-wide-load, non-EXIT instruction. It reports
// done=true with result set when the instruction itself ends execution
// (not currently reachable outside EXIT, but kept for symmetry with a
// future TAIL_CALL implementation).
func (v *VM) dispatch(exec *execution, idx int, inst insts.Instruction) (done bool, result uint64, err error) {
	class := inst.Class()

	switch class {
	case insts.ClassALU, insts.ClassALU64:
		operand := v.resolveOperand(exec, inst)
		err = exec.alu.Exec(idx, inst, operand, class == insts.ClassALU64)

	case insts.ClassLD:
		err = v.dispatchLD(exec, idx, inst)

	case insts.ClassLDX:
		if insts.Mode(inst.Opcode) != insts.ModeMEM {
			err = fault(idx, inst.Opcode, ErrUnimplementedOpcode, "unsupported LDX mode")
			break
		}
		width := insts.SizeBytes(insts.Size(inst.Opcode))
		err = exec.lsu.Load(idx, inst, width)

	case insts.ClassST:
		err = v.dispatchST(exec, idx, inst)

	case insts.ClassSTX:
		err = v.dispatchSTX(exec, idx, inst)

	case insts.ClassJMP:
		err = v.dispatchJMP(exec, idx, inst)

	default:
		err = fault(idx, inst.Opcode, ErrUnknownOpcode, "unrecognized class")
	}

	return false, 0, err
}

func (v *VM) dispatchLD(exec *execution, idx int, inst insts.Instruction) error {
	switch insts.Mode(inst.Opcode) {
	case insts.ModeABS, insts.ModeIND:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "LD_ABS/LD_IND are not implemented")
	default:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "unsupported LD mode")
	}
}

func (v *VM) dispatchST(exec *execution, idx int, inst insts.Instruction) error {
	switch insts.Mode(inst.Opcode) {
	case insts.ModeMEM:
		width := insts.SizeBytes(insts.Size(inst.Opcode))
		return exec.lsu.StoreImmediate(idx, inst, width)
	case insts.ModeXADD:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "ST_*_XADD is not implemented")
	default:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "unsupported ST mode")
	}
}

func (v *VM) dispatchSTX(exec *execution, idx int, inst insts.Instruction) error {
	switch insts.Mode(inst.Opcode) {
	case insts.ModeMEM:
		width := insts.SizeBytes(insts.Size(inst.Opcode))
		return exec.lsu.Store(idx, inst, width)
	case insts.ModeXADD:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "ST_*_XADD is not implemented")
	default:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "unsupported STX mode")
	}
}

func (v *VM) dispatchJMP(exec *execution, idx int, inst insts.Instruction) error {
	op := insts.JMPOp(inst.Opcode)

	switch op {
	case insts.OpCALL:
		return v.helpers.Call(idx, inst.Opcode, uint32(inst.Imm), exec.regFile)
	case insts.OpTAILCALL:
		return fault(idx, inst.Opcode, ErrUnimplementedOpcode, "TAIL_CALL is not implemented")
	default:
		operand := v.resolveOperand(exec, inst)
		dstVal := exec.regFile.ReadReg(inst.Dst)
		if exec.branch.Taken(op, dstVal, operand) {
			exec.insnPtr = exec.branch.Target(exec.insnPtr, inst.Offset)
		}
		return nil
	}
}

// resolveOperand returns the right-hand operand for an ALU/ALU64/JMP
// instruction: the sign-extended immediate for K-source instructions, or
// the source register's value for X-source instructions.
func (v *VM) resolveOperand(exec *execution, inst insts.Instruction) uint64 {
	if insts.IsRegisterSrc(inst.Opcode) {
		return exec.regFile.ReadReg(inst.Src)
	}
	return uint64(int64(inst.Imm))
}
