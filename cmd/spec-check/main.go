// Package main provides a CLI tool to check conformance against the
// engine's worked scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/ebpfvm/benchmarks"
	"github.com/sarchlab/ebpfvm/vm"
)

func main() {
	scenarios := benchmarks.Scenarios()

	var passed, failed []string

	for _, s := range scenarios {
		if runScenario(s) {
			passed = append(passed, s.Name)
		} else {
			failed = append(failed, s.Name)
		}
	}

	fmt.Printf("%d\n", len(passed))

	if len(passed) > 0 {
		fmt.Fprintf(os.Stderr, "\nPassed (%d):\n", len(passed))
		for _, name := range passed {
			fmt.Fprintf(os.Stderr, "  ok  %s\n", name)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "\nFailed (%d):\n", len(failed))
		for _, name := range failed {
			fmt.Fprintf(os.Stderr, "  FAIL %s\n", name)
		}
		os.Exit(1)
	}
}

func runScenario(s benchmarks.Scenario) bool {
	var opts []vm.Option
	if s.Helpers != nil {
		opts = append(opts, vm.WithHelperTable(s.Helpers))
	}

	v, err := vm.NewVM(s.Program, opts...)
	if err != nil {
		return s.WantErr
	}

	r0, err := v.Execute(s.Packet, s.Mbuff)
	if s.WantErr {
		return err != nil
	}
	return err == nil && r0 == s.WantR0
}
