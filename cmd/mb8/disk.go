package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oseyan/mb8/internal/diskimage"
)

// diskCmd packs one or more host files into an mb8 disk image (spec §6,
// SPEC_FULL.md §12): the out-of-scope "makeshift disk-image builder" the
// spec names as an external collaborator, implemented here since its
// on-disk layout is part of the fixed format the VM's disk device reads.
var diskCmd = &cobra.Command{
	Use:   "disk `path/to/out.img` `file...`",
	Short: "pack host files into an mb8 disk image",
	Args:  cobra.MinimumNArgs(2),
	Run:   runDisk,
}

func runDisk(cmd *cobra.Command, args []string) {
	outPath := args[0]
	files := args[1:]

	b := diskimage.NewBuilder()
	for _, path := range files {
		contents, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(errors.Wrapf(err, "reading %q", path))
			os.Exit(1)
		}
		if err := b.AddFile(baseName(path), contents); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	img := b.Build()
	if err := os.WriteFile(outPath, img, 0o644); err != nil {
		fmt.Println(errors.Wrapf(err, "writing disk image %q", outPath))
		os.Exit(1)
	}
}

// baseName strips any directory components, keeping only the file name
// the directory entry should carry.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
