// Package loader turns an on-disk object into eBPF program bytes and an
// initial data region, the way clang/llvm's BPF backend packages a
// compiled program: instruction bytes in a named ELF section (by
// convention "classifier", "socket", or similarly named for the program
// type; callers name the section they expect), with any accompanying
// read-only data in ".rodata".
package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
)

// DefaultSection is the ELF section name this loader looks for when the
// caller doesn't specify one, matching the conventional default output
// section clang emits for an unannotated BPF program.
const DefaultSection = "classifier"

// Program is a loaded eBPF object ready to hand to a VM: the instruction
// bytes themselves, plus any packaged read-only data to use as the
// initial packet region.
type Program struct {
	// Instructions is the raw 8-byte-aligned instruction stream.
	Instructions []byte
	// RoData is the contents of a ".rodata" section, if present; nil
	// otherwise. Callers that want it as the initial packet memory can
	// pass it straight to a façade's Execute.
	RoData []byte
}

// Load reads path and extracts the named section's bytes as the program.
// If path is not a well-formed ELF file, Load falls back to treating the
// entire file as a raw instruction stream — the same bare wire format
// §6 of the external contract describes, with no header or checksum.
func Load(path, section string) (*Program, error) {
	if section == "" {
		section = DefaultSection
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}

	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		// Not an ELF object: treat the whole file as raw program bytes.
		return &Program{Instructions: raw}, nil
	}
	defer func() { _ = f.Close() }()

	sec := f.Section(section)
	if sec == nil {
		return nil, fmt.Errorf("loader: section %q not found in %s", section, path)
	}
	instructions, err := sec.Data()
	if err != nil {
		return nil, fmt.Errorf("loader: reading section %q: %w", section, err)
	}

	prog := &Program{Instructions: instructions}
	if ro := f.Section(".rodata"); ro != nil {
		data, err := ro.Data()
		if err != nil {
			return nil, fmt.Errorf("loader: reading .rodata: %w", err)
		}
		prog.RoData = data
	}

	return prog, nil
}
