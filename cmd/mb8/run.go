package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oseyan/mb8/internal/bus"
	"github.com/oseyan/mb8/internal/cpu"
	"github.com/oseyan/mb8/internal/device"
	"github.com/oseyan/mb8/internal/isa"
)

// maxStepsPerRun bounds a headless `mb8 run` invocation so a runaway
// program (an infinite loop with no halt) cannot hang the CLI forever;
// the windowed front-end's own per-frame budget is out of scope (spec
// §1), but a CLI driver still needs some bound.
const maxStepsPerRun = 10_000_000

var diskPath string

// runCmd loads a ROM image and an optional disk image, runs the VM to
// completion (or the step bound) and dumps the TTY screen contents.
var runCmd = &cobra.Command{
	Use:   "run `path/to/rom.bin`",
	Short: "run a ROM image on the mb8 virtual machine",
	Args:  cobra.MinimumNArgs(1),
	Run:   runROM,
}

func init() {
	runCmd.Flags().StringVar(&diskPath, "disk", "", "path to a disk image to attach")
}

func runROM(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Println("The run command takes one argument: a `path/to/rom.bin`")
		os.Exit(1)
	}

	romBytes, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(errors.Wrapf(err, "reading ROM image %q", args[0]))
		os.Exit(1)
	}
	if len(romBytes) > isa.ROMSize {
		fmt.Println(errors.Errorf("ROM image %q is %d bytes, exceeds the %d-byte ROM window", args[0], len(romBytes), isa.ROMSize))
		os.Exit(1)
	}

	b := bus.New()
	b.ROM.Load(romBytes)

	if diskPath != "" {
		imgBytes, err := os.ReadFile(diskPath)
		if err != nil {
			fmt.Println(errors.Wrapf(err, "reading disk image %q", diskPath))
			os.Exit(1)
		}
		b.FD.LoadImage(imgBytes)
	}

	vm := cpu.New(b)
	vm.Sys = hostSys

	n := vm.Run(maxStepsPerRun)

	if vm.Halted {
		fmt.Fprintf(os.Stderr, "halted after %d instructions: %s\n", n, vm.HaltMsg)
	} else {
		fmt.Fprintf(os.Stderr, "stopped after %d instructions (step budget exhausted)\n", n)
	}

	printScreen(b)
}

// hostSys services the Sys instruction's host-delegated sub-opcodes (spec
// §4.4); SysPutc writes straight to stdout, SysYield is a no-op in this
// headless batch driver.
func hostSys(op isa.SysOp, src uint8) {
	switch op {
	case isa.SysPutc:
		fmt.Print(string(rune(src)))
	case isa.SysYield:
		// nothing to yield to in a headless batch run
	}
}

func printScreen(b *bus.Bus) {
	if b.GPU.Mode() != device.ModeTTY {
		return
	}
	cells := b.GPU.Cells()
	for _, row := range cells {
		for _, ch := range row {
			if ch == 0 {
				fmt.Print(" ")
			} else {
				fmt.Print(string(rune(ch)))
			}
		}
		fmt.Println()
	}
}
