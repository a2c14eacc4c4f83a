// Package main provides a profiling wrapper around the interpreter to
// identify performance bottlenecks under sustained, repeated execution.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/ebpfvm/loader"
	"github.com/sarchlab/ebpfvm/vm"
)

var (
	section    = flag.String("section", "", "ELF section to load the program from (defaults to \"classifier\")")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	repeat     = flag.Int("repeat", 1000000, "number of times to execute the program")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, *section)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Instructions: %d bytes\n", len(prog.Instructions))

	v, err := vm.NewVM(prog.Instructions, vm.WithHelperTable(vm.DefaultHelpers(os.Stdout)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying program: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	var runs int
	for ; runs < *repeat; runs++ {
		if _, err := v.Execute(prog.RoData, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Execution fault after %d runs: %v\n", runs, err)
			break
		}
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Executions: %d\n", runs)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if runs > 0 {
		fmt.Printf("Executions/second: %.0f\n", float64(runs)/elapsed.Seconds())
	}
}
