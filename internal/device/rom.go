package device

import "github.com/oseyan/mb8/internal/isa"

// ROM is 4 KiB, read-only from the executor's viewpoint. The host loader
// may populate it via Load before execution begins; writes during
// execution are accepted and silently dropped (spec §4.2).
type ROM struct {
	bytes [isa.ROMSize]byte
}

func NewROM() *ROM {
	return &ROM{}
}

// Load copies program bytes into ROM starting at offset 0. It is a
// host-side operation, not something the executor can trigger.
func (r *ROM) Load(program []byte) {
	n := copy(r.bytes[:], program)
	for i := n; i < len(r.bytes); i++ {
		r.bytes[i] = 0
	}
}

func (r *ROM) ReadByte(addr uint16) (uint8, bool) {
	if int(addr) >= len(r.bytes) {
		return 0, false
	}
	return r.bytes[addr], true
}

// WriteByte is a no-op during execution: the host loader writes to ROM
// through Load, not through the bus.
func (r *ROM) WriteByte(addr uint16, val uint8) {}
