// Package diskimage builds the host-side 64 KiB disk image format the mb8
// VM's disk device consumes (spec §6, SPEC_FULL.md §12). The VM itself
// only ever sees block reads/writes through internal/device.Disk; this
// package is the out-of-scope-but-format-fixed host tool that packs files
// into that layout, grounded on original_source/crates/cli/src/filesystem.rs.
package diskimage

import (
	"github.com/pkg/errors"

	"github.com/oseyan/mb8/internal/isa"
)

const (
	// DirEntrySize is the fixed size of one directory entry, per spec §6:
	// {status:u8, start_block:u8, size_blocks:u8, name[0..8]:ascii-zero-padded}.
	DirEntrySize = 16
	nameFieldLen = 8

	statusFree uint8 = 0x00
	statusUsed uint8 = 0x01

	// directoryBlocks reserves the first blocks of the image for the
	// directory; one entry occupies 16 bytes, a sector is 256 bytes, so
	// one sector holds 16 entries. A single directory sector caps a disk
	// image at 16 files, which is plenty for this platform's programs.
	directoryBlocks = 1
	maxEntries      = isa.SectorSize / DirEntrySize
)

// Entry describes one packed file within the image.
type Entry struct {
	StartBlock uint8
	SizeBlocks uint8
	Name       string
}

// Builder accumulates files and lays them out into a disk image.
type Builder struct {
	entries   []Entry
	nextBlock uint8
	data      map[string][]byte
	order     []string
}

func NewBuilder() *Builder {
	return &Builder{
		nextBlock: directoryBlocks,
		data:      make(map[string][]byte),
	}
}

// AddFile stages a host file's bytes under name (zero-padded to 8 ASCII
// bytes in the directory). It reports an error if the name is too long,
// the directory is full, or the file does not fit in the image.
func (b *Builder) AddFile(name string, contents []byte) error {
	if len(name) > nameFieldLen {
		return errors.Errorf("diskimage: file name %q exceeds %d characters", name, nameFieldLen)
	}
	if len(b.entries) >= maxEntries {
		return errors.Errorf("diskimage: directory full (max %d entries)", maxEntries)
	}

	sizeBlocks := (len(contents) + isa.SectorSize - 1) / isa.SectorSize
	if sizeBlocks == 0 {
		sizeBlocks = 1
	}
	used := directoryBlocks
	for _, e := range b.entries {
		used += int(e.SizeBlocks)
	}
	if used+sizeBlocks > isa.DiskImageSize/isa.SectorSize {
		return errors.Errorf("diskimage: file %q does not fit in the image", name)
	}

	b.entries = append(b.entries, Entry{
		StartBlock: b.nextBlock,
		SizeBlocks: uint8(sizeBlocks),
		Name:       name,
	})
	b.data[name] = contents
	b.order = append(b.order, name)
	b.nextBlock += uint8(sizeBlocks)
	return nil
}

// Build assembles the full 64 KiB image: the directory sector followed by
// each file's bytes at its assigned block range.
func (b *Builder) Build() []byte {
	img := make([]byte, isa.DiskImageSize)

	for i, e := range b.entries {
		off := i * DirEntrySize
		img[off] = statusUsed
		img[off+1] = e.StartBlock
		img[off+2] = e.SizeBlocks
		copy(img[off+3:off+3+nameFieldLen], paddedName(e.Name))
	}
	for i := len(b.entries); i < maxEntries; i++ {
		img[i*DirEntrySize] = statusFree
	}

	for i, e := range b.entries {
		name := b.order[i]
		start := int(e.StartBlock) * isa.SectorSize
		copy(img[start:start+len(b.data[name])], b.data[name])
	}

	return img
}

func paddedName(name string) []byte {
	out := make([]byte, nameFieldLen)
	copy(out, name)
	return out
}
