package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oseyan/mb8/internal/compiler"
)

// compileCmd reads a source file and writes its assembly text (spec §1:
// "source text in, assembly text out"), or reports diagnostics and exits
// non-zero.
var compileCmd = &cobra.Command{
	Use:   "compile `path/to/source`",
	Short: "compile mb8 source to assembly text",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCompile,
}

var compileOut string

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "write assembly to this file instead of stdout")
}

func runCompile(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Println("The compile command takes one argument: a `path/to/source`")
		os.Exit(1)
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(errors.Wrapf(err, "reading source %q", args[0]))
		os.Exit(1)
	}

	res := compiler.Compile(src)
	if !res.OK() {
		compiler.Render(os.Stderr, res.Diags)
		os.Exit(1)
	}

	if compileOut == "" {
		fmt.Print(res.Assembly)
		return
	}
	if err := os.WriteFile(compileOut, []byte(res.Assembly), 0o644); err != nil {
		fmt.Println(errors.Wrapf(err, "writing assembly %q", compileOut))
		os.Exit(1)
	}
}
