package diskimage

import (
	"bytes"
	"testing"

	"github.com/oseyan/mb8/internal/isa"
)

func TestBuilderPacksFilesSequentially(t *testing.T) {
	b := NewBuilder()
	if err := b.AddFile("hello", bytes.Repeat([]byte{0x41}, 10)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := b.AddFile("world", bytes.Repeat([]byte{0x42}, isa.SectorSize+1)); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	img := b.Build()
	if len(img) != isa.DiskImageSize {
		t.Fatalf("image size: got %d, want %d", len(img), isa.DiskImageSize)
	}

	// Directory entry 0: "hello", starting at block 1 (block 0 is the
	// directory), occupying 1 block.
	if img[0] != 0x01 {
		t.Fatalf("expected entry 0 status=used, got %02X", img[0])
	}
	if img[1] != 1 {
		t.Fatalf("expected entry 0 start block 1, got %d", img[1])
	}
	if img[2] != 1 {
		t.Fatalf("expected entry 0 size 1 block, got %d", img[2])
	}
	if string(bytes.TrimRight(img[3:11], "\x00")) != "hello" {
		t.Fatalf("expected entry 0 name %q, got %q", "hello", img[3:11])
	}

	// Directory entry 1: "world", starting at block 2, occupying 2 blocks
	// (SectorSize+1 bytes needs 2 sectors).
	if img[16+1] != 2 {
		t.Fatalf("expected entry 1 start block 2, got %d", img[16+1])
	}
	if img[16+2] != 2 {
		t.Fatalf("expected entry 1 size 2 blocks, got %d", img[16+2])
	}

	// File contents land at their assigned block offsets.
	if img[isa.SectorSize] != 0x41 {
		t.Fatalf("expected 'hello' contents at block 1, got %02X", img[isa.SectorSize])
	}
	if img[2*isa.SectorSize] != 0x42 {
		t.Fatalf("expected 'world' contents at block 2, got %02X", img[2*isa.SectorSize])
	}
}

func TestBuilderRejectsNameTooLong(t *testing.T) {
	b := NewBuilder()
	if err := b.AddFile("waytoolongname", []byte{0x01}); err == nil {
		t.Fatalf("expected an error for a name exceeding 8 characters")
	}
}

func TestBuilderRejectsFileTooLargeForImage(t *testing.T) {
	b := NewBuilder()
	huge := make([]byte, isa.DiskImageSize)
	if err := b.AddFile("big", huge); err == nil {
		t.Fatalf("expected an error for a file that does not fit in the image")
	}
}

func TestBuilderRejectsDirectoryOverflow(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < isa.SectorSize/DirEntrySize; i++ {
		name := string(rune('a' + i%26))
		if err := b.AddFile(name, []byte{0x01}); err != nil {
			t.Fatalf("AddFile %d: %v", i, err)
		}
	}
	if err := b.AddFile("overflow", []byte{0x01}); err == nil {
		t.Fatalf("expected an error once the directory is full")
	}
}
