package device

import (
	"testing"

	"github.com/oseyan/mb8/internal/isa"
)

func TestDiskWriteThenReadRoundTrip(t *testing.T) {
	d := NewDisk()
	for i := 0; i < isa.SectorSize; i++ {
		d.WriteByte(diskRegBufferStart+uint16(i), byte(i*3))
	}
	d.WriteByte(diskRegBlock, 5)
	d.WriteByte(diskRegCmd, isa.DiskCmdWrite)
	if d.CmdError() {
		t.Fatalf("valid write command should not fault")
	}

	// Overwrite the buffer, then read the sector back.
	for i := 0; i < isa.SectorSize; i++ {
		d.WriteByte(diskRegBufferStart+uint16(i), 0)
	}
	d.WriteByte(diskRegCmd, isa.DiskCmdRead)

	for i := 0; i < isa.SectorSize; i++ {
		v, ok := d.ReadByte(diskRegBufferStart + uint16(i))
		if !ok || v != byte(i*3) {
			t.Fatalf("byte %d: got (%02X,%v), want (%02X,true)", i, v, ok, byte(i*3))
		}
	}
}

func TestDiskCmdRegisterReadFails(t *testing.T) {
	d := NewDisk()
	if _, ok := d.ReadByte(diskRegCmd); ok {
		t.Fatalf("CMD register should be write-only")
	}
}

func TestDiskUndefinedCommandFaults(t *testing.T) {
	d := NewDisk()
	d.WriteByte(diskRegCmd, 0x7F)
	if !d.CmdError() {
		t.Fatalf("expected a fault for an undefined command value")
	}
}

func TestDiskLoadImage(t *testing.T) {
	d := NewDisk()
	img := make([]byte, isa.SectorSize)
	img[0] = 0xAB
	d.LoadImage(img)
	if d.Image()[0] != 0xAB {
		t.Fatalf("LoadImage did not take effect")
	}
}
