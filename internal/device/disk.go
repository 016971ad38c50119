package device

import "github.com/oseyan/mb8/internal/isa"

// Disk-local register offsets, relative to the disk device's window base.
const (
	diskRegBlock       = 0x00
	diskRegCmd         = 0x01
	diskRegBufferStart = 0x02
	diskRegBufferEnd   = diskRegBufferStart + isa.SectorSize - 1
)

// Disk owns a 64 KiB image and a 256-byte sector buffer. CMD is
// write-only and edge-triggered: writing Read copies the selected sector
// into BUFFER, writing Write copies BUFFER into the selected sector,
// writing Nop does nothing. Reads from CMD are undefined and reported as
// a failed read so the bus can halt the VM (spec §3.3, §4.2).
type Disk struct {
	img          [isa.DiskImageSize]byte
	buffer       [isa.SectorSize]byte
	block        uint8
	lastCmdError bool
}

func NewDisk() *Disk {
	return &Disk{}
}

// LoadImage replaces the backing image wholesale, e.g. from a host disk
// image file. Extra bytes are ignored; a short image is zero-padded.
func (d *Disk) LoadImage(img []byte) {
	n := copy(d.img[:], img)
	for i := n; i < len(d.img); i++ {
		d.img[i] = 0
	}
}

// Image returns the backing image for host-side inspection (e.g. a disk
// image builder verifying its own output).
func (d *Disk) Image() []byte {
	return d.img[:]
}

func (d *Disk) ReadByte(addr uint16) (uint8, bool) {
	switch {
	case addr == diskRegBlock:
		return d.block, true
	case addr == diskRegCmd:
		return 0, false // write-only register
	case addr >= diskRegBufferStart && addr <= diskRegBufferEnd:
		return d.buffer[addr-diskRegBufferStart], true
	default:
		return 0, false
	}
}

func (d *Disk) WriteByte(addr uint16, val uint8) {
	switch {
	case addr == diskRegBlock:
		d.block = val
	case addr == diskRegCmd:
		d.execCmd(val)
	case addr >= diskRegBufferStart && addr <= diskRegBufferEnd:
		d.buffer[addr-diskRegBufferStart] = val
	}
}

// CmdError reports whether the last WriteByte to CMD used an undefined
// command value; the bus consults this to decide whether to halt (spec
// §7: "disk command other than {nop, read, write}" is a VM-runtime halt).
func (d *Disk) CmdError() bool {
	return d.lastCmdError
}

func (d *Disk) execCmd(cmd uint8) {
	d.lastCmdError = false
	switch cmd {
	case isa.DiskCmdNop:
		// no-op
	case isa.DiskCmdRead:
		start := int(d.block) * isa.SectorSize
		copy(d.buffer[:], d.img[start:start+isa.SectorSize])
	case isa.DiskCmdWrite:
		start := int(d.block) * isa.SectorSize
		copy(d.img[start:start+isa.SectorSize], d.buffer[:])
	default:
		d.lastCmdError = true
	}
}
