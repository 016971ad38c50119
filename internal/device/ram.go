package device

import "github.com/oseyan/mb8/internal/isa"

// RAM is a flat 48 KiB byte-addressable store with no hidden latency. The
// stack region (spec §3.1) lives inside this same backing array; the bus
// addresses it directly rather than handing out a sub-slice, per the
// "self-referential memory regions" design note: there is a single owner
// of the backing store (RAM) and the bus is the only thing that indexes
// into it.
type RAM struct {
	bytes [isa.RAMSize]byte
}

func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) ReadByte(addr uint16) (uint8, bool) {
	if int(addr) >= len(r.bytes) {
		return 0, false
	}
	return r.bytes[addr], true
}

func (r *RAM) WriteByte(addr uint16, val uint8) {
	if int(addr) >= len(r.bytes) {
		return
	}
	r.bytes[addr] = val
}
