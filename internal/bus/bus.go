// Package bus routes a 16-bit global address to the device that owns it,
// per the fixed memory map in internal/isa. It is the single owner of the
// RAM/ROM backing stores and the device set (spec §3.1, §4.2).
package bus

import (
	"github.com/oseyan/mb8/internal/device"
	"github.com/oseyan/mb8/internal/isa"
)

// Bus wires concrete devices behind a single address space, matching the
// "dynamic dispatch over heterogeneous devices" design note: a fixed
// record of concrete devices, not an open object hierarchy. Adding a
// device means extending this struct and the Read/Write switches.
type Bus struct {
	RAM *device.RAM
	ROM *device.ROM

	GPU *device.GPU
	KBD *device.Keyboard
	RNG *device.RNG
	FD  *device.Disk
}

func New() *Bus {
	return &Bus{
		RAM: device.NewRAM(),
		ROM: device.NewROM(),
		GPU: device.NewGPU(),
		KBD: device.NewKeyboard(),
		RNG: device.NewRNG(),
		FD:  device.NewDisk(),
	}
}

// ReadByte returns the byte at the given global address, or ok=false if
// the address falls outside every defined window or the owning device
// rejects the read (e.g. the disk's write-only CMD register). Either case
// is a fatal decode error for the executor (spec §4.2).
func (b *Bus) ReadByte(addr uint16) (val uint8, ok bool) {
	switch {
	case addr <= isa.RAMEnd:
		return b.RAM.ReadByte(addr)
	case addr >= isa.ROMStart && addr <= isa.ROMEnd:
		return b.ROM.ReadByte(addr - isa.ROMStart)
	case addr == isa.RegGPUMode || addr == isa.RegTTYMode:
		return b.GPU.ReadByte(addr - isa.DeviceStart)
	case addr == isa.RegKBDStatus || addr == isa.RegKBDData:
		return b.KBD.ReadByte(addr - isa.RegKBDStatus)
	case addr == isa.RegRNGData:
		return b.RNG.ReadByte(addr - isa.RegRNGData)
	case addr >= isa.RegDiskBlock && addr <= isa.RegDiskBufferEnd:
		return b.FD.ReadByte(addr - isa.RegDiskBlock)
	default:
		return 0, false
	}
}

// WriteByte writes a byte to the given global address. Writes to
// addresses outside any window, or outside RAM/devices/ROM (ROM accepts
// writes only via the host loader, not the bus), are silently dropped
// except where noted; WriteByte never itself reports failure because the
// spec only treats *reads* and disk command errors as fatal — callers
// that need to observe a disk command failure should consult
// (*device.Disk).CmdError via b.FD after the write.
func (b *Bus) WriteByte(addr uint16, val uint8) {
	switch {
	case addr <= isa.RAMEnd:
		b.RAM.WriteByte(addr, val)
	case addr >= isa.ROMStart && addr <= isa.ROMEnd:
		b.ROM.WriteByte(addr-isa.ROMStart, val)
	case addr == isa.RegGPUMode || addr == isa.RegTTYMode:
		b.GPU.WriteByte(addr-isa.DeviceStart, val)
	case addr == isa.RegKBDStatus || addr == isa.RegKBDData:
		b.KBD.WriteByte(addr-isa.RegKBDStatus, val)
	case addr == isa.RegRNGData:
		b.RNG.WriteByte(addr-isa.RegRNGData, val)
	case addr >= isa.RegDiskBlock && addr <= isa.RegDiskBufferEnd:
		b.FD.WriteByte(addr-isa.RegDiskBlock, val)
	}
}

// DiskCmdFault reports whether the most recent write to the disk CMD
// register used an undefined command value.
func (b *Bus) DiskCmdFault() bool {
	return b.FD.CmdError()
}

// IsDiskCmdWrite reports whether addr is the disk's CMD register, so the
// executor can check DiskCmdFault immediately after a store there.
func IsDiskCmdWrite(addr uint16) bool {
	return addr == isa.RegDiskCmd
}
