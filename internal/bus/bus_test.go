package bus

import (
	"testing"

	"github.com/oseyan/mb8/internal/isa"
)

func TestRAMReadWriteRoundTrip(t *testing.T) {
	b := New()
	b.WriteByte(0x1234, 0x42)
	v, ok := b.ReadByte(0x1234)
	if !ok || v != 0x42 {
		t.Fatalf("RAM round trip: got (%02X,%v), want (42,true)", v, ok)
	}
}

func TestROMWritesDuringExecutionAreDropped(t *testing.T) {
	b := New()
	b.ROM.Load([]byte{0x11})
	b.WriteByte(isa.ROMStart, 0x99)
	v, ok := b.ReadByte(isa.ROMStart)
	if !ok || v != 0x11 {
		t.Fatalf("ROM write during execution should be dropped: got (%02X,%v)", v, ok)
	}
}

func TestUnmappedAddressReadFails(t *testing.T) {
	if _, ok := b().ReadByte(isa.ReservedStart); ok {
		t.Fatalf("expected read from reserved window to fail")
	}
}

func b() *Bus { return New() }

func TestDiskCmdRegisterIsWriteOnly(t *testing.T) {
	b := New()
	if _, ok := b.ReadByte(isa.RegDiskCmd); ok {
		t.Fatalf("disk CMD register should not be readable")
	}
}

func TestDiskCmdFaultOnUndefinedCommand(t *testing.T) {
	b := New()
	b.WriteByte(isa.RegDiskCmd, 0xFF)
	if !b.DiskCmdFault() {
		t.Fatalf("expected a fault after writing an undefined disk command")
	}
	b.WriteByte(isa.RegDiskCmd, isa.DiskCmdNop)
	if b.DiskCmdFault() {
		t.Fatalf("a valid command should clear the fault flag")
	}
}

func TestDiskSectorRoundTrip(t *testing.T) {
	b := New()
	for i := 0; i < isa.SectorSize; i++ {
		b.WriteByte(isa.RegDiskBufferStart+uint16(i), byte(i))
	}
	b.WriteByte(isa.RegDiskBlock, 3)
	b.WriteByte(isa.RegDiskCmd, isa.DiskCmdWrite)

	// Clear the buffer, then read the sector back.
	for i := 0; i < isa.SectorSize; i++ {
		b.WriteByte(isa.RegDiskBufferStart+uint16(i), 0)
	}
	b.WriteByte(isa.RegDiskCmd, isa.DiskCmdRead)

	for i := 0; i < isa.SectorSize; i++ {
		v, _ := b.ReadByte(isa.RegDiskBufferStart + uint16(i))
		if v != byte(i) {
			t.Fatalf("sector byte %d: got %02X, want %02X", i, v, byte(i))
		}
	}
}

func TestGPUTTYModeOff(t *testing.T) {
	b := New()
	b.WriteByte(isa.RegTTYMode, 'A')
	if b.GPU.Cells()[0][0] != 0 {
		t.Fatalf("TTY write while GPU mode is off should be dropped")
	}
}

func TestGPUTTYWritesAdvanceCursor(t *testing.T) {
	b := New()
	b.WriteByte(isa.RegGPUMode, isa.GPUModeTTY)
	b.WriteByte(isa.RegTTYMode, 'A')
	b.WriteByte(isa.RegTTYMode, 'B')
	cells := b.GPU.Cells()
	if cells[0][0] != 'A' || cells[0][1] != 'B' {
		t.Fatalf("expected 'A','B' at row 0 cols 0,1, got %q,%q", cells[0][0], cells[0][1])
	}
}

func TestKeyboardFIFO(t *testing.T) {
	b := New()
	b.KBD.KeyPressed('x')
	b.KBD.KeyPressed('y')
	v1, _ := b.ReadByte(isa.RegKBDData)
	v2, _ := b.ReadByte(isa.RegKBDData)
	if v1 != 'x' || v2 != 'y' {
		t.Fatalf("keyboard FIFO order: got %q,%q want x,y", v1, v2)
	}
	v3, _ := b.ReadByte(isa.RegKBDData)
	if v3 != 0 {
		t.Fatalf("reading an empty keyboard queue should return 0, got %q", v3)
	}
}

func TestRNGDeterministic(t *testing.T) {
	b1 := New()
	b2 := New()
	var seq1, seq2 []byte
	for i := 0; i < 8; i++ {
		v, _ := b1.ReadByte(isa.RegRNGData)
		seq1 = append(seq1, v)
	}
	for i := 0; i < 8; i++ {
		v, _ := b2.ReadByte(isa.RegRNGData)
		seq2 = append(seq2, v)
	}
	for i := range seq1 {
		if seq1[i] != seq2[i] {
			t.Fatalf("RNG sequence byte %d diverged: %02X vs %02X", i, seq1[i], seq2[i])
		}
	}
}
