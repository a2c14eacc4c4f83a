// Package insts provides eBPF instruction definitions and decoding.
//
// This package implements decoding of the 64-bit eBPF instruction encoding
// into a structured representation, and its inverse. It supports:
//   - Memory class: LD, LDX, ST, STX at widths B/H/W/DW
//   - ALU / ALU64: arithmetic, logic, shift, endian-conversion ops
//   - JMP: conditional and unconditional branches, CALL, EXIT
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(program, 0) // decode slot 0
//	fmt.Printf("Op: %#x, Dst: %d, Src: %d\n", inst.Opcode, inst.Dst, inst.Src)
package insts
