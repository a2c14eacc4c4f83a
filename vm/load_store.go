package vm

import "github.com/sarchlab/ebpfvm/insts"

// LoadStoreUnit implements the LD/LDX/ST/STX memory-class instructions,
// routing every access through the memory guard before touching the
// backing store.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
	regions Regions
}

// NewLoadStoreUnit creates a LoadStoreUnit connected to the given
// register file, backing memory, and the region set the guard checks
// against.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory, regions Regions) *LoadStoreUnit {
	return &LoadStoreUnit{regFile: regFile, memory: memory, regions: regions}
}

// Load executes an LDX instruction: reads width bytes from
// reg[src] + sign_extend(offset) and writes the zero-extended result into
// dst.
func (l *LoadStoreUnit) Load(insnPtr int, inst insts.Instruction, width int) error {
	addr := l.regFile.ReadReg(inst.Src) + uint64(inst.Offset)
	if err := l.regions.CheckAccess(insnPtr, addr, uint64(width)); err != nil {
		return err
	}
	value, err := l.memory.Read(addr, width)
	if err != nil {
		return fault(insnPtr, inst.Opcode, err, "load at %#x", addr)
	}
	l.regFile.WriteReg(inst.Dst, value)
	return nil
}

// Store executes an STX instruction: writes the low width bytes of
// reg[src] to reg[dst] + sign_extend(offset).
func (l *LoadStoreUnit) Store(insnPtr int, inst insts.Instruction, width int) error {
	addr := l.regFile.ReadReg(inst.Dst) + uint64(inst.Offset)
	if err := l.regions.CheckAccess(insnPtr, addr, uint64(width)); err != nil {
		return err
	}
	value := l.regFile.ReadReg(inst.Src)
	if err := l.memory.Write(addr, width, value); err != nil {
		return fault(insnPtr, inst.Opcode, err, "store at %#x", addr)
	}
	return nil
}

// StoreImmediate executes an ST instruction: writes the instruction's
// immediate, zero-extended/truncated to width, to reg[dst] + sign_extend(offset).
func (l *LoadStoreUnit) StoreImmediate(insnPtr int, inst insts.Instruction, width int) error {
	addr := l.regFile.ReadReg(inst.Dst) + uint64(inst.Offset)
	if err := l.regions.CheckAccess(insnPtr, addr, uint64(width)); err != nil {
		return err
	}
	if err := l.memory.Write(addr, width, uint64(uint32(inst.Imm))); err != nil {
		return fault(insnPtr, inst.Opcode, err, "store-immediate at %#x", addr)
	}
	return nil
}

// LoadStoreUnit has no LD IMM method: the only LD IMM form in this
// instruction set is the wide LD_DW_IMM, which the main loop handles
// directly because it spans two slots.
