// Package main provides the entry point for ebpfrun.
// ebpfrun loads an eBPF program and executes it once against optional
// packet and mbuff inputs, printing the resulting r0 or any fault.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/ebpfvm/facade"
	"github.com/sarchlab/ebpfvm/loader"
	"github.com/sarchlab/ebpfvm/vm"
)

var (
	section = flag.String("section", "", "ELF section to load the program from (defaults to \"classifier\")")
	packet  = flag.String("packet", "", "path to a file whose contents become the packet memory region")
	verbose = flag.Bool("v", false, "verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: ebpfrun [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, *section)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Instructions: %d bytes\n", len(prog.Instructions))
	}

	var packetData []byte
	if *packet != "" {
		packetData, err = os.ReadFile(*packet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading packet file: %v\n", err)
			os.Exit(1)
		}
	} else {
		packetData = prog.RoData
	}

	os.Exit(run(prog, packetData))
}

func run(prog *loader.Program, packet []byte) int {
	v, err := vm.NewVM(prog.Instructions, vm.WithHelperTable(vm.DefaultHelpers(os.Stdout)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying program: %v\n", err)
		return 1
	}

	f := facade.NewRaw(v)
	r0, err := f.Execute(packet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Execution fault: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("r0 = %d (0x%x)\n", r0, r0)
	} else {
		fmt.Println(r0)
	}

	return 0
}
