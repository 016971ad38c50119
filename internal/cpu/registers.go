package cpu

import (
	"fmt"
	"strings"

	"github.com/oseyan/mb8/internal/isa"
)

// Registers is the 16-byte general register file. Aliases (SPH/SPL, F,
// IH/IL) are views over the same backing array rather than separate
// fields, per the "register aliases" design note (spec §4.3).
type Registers struct {
	slots [16]uint8
}

// NewRegisters builds the default reset state: all zero except the stack
// pointer, which is initialized to the top of the stack region.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Write(isa.SPH, uint8(isa.StackTop>>8))
	r.Write(isa.SPL, uint8(isa.StackTop&0xFF))
	return r
}

func (r *Registers) Read(reg isa.Register) uint8 {
	return r.slots[reg.Slot()]
}

func (r *Registers) Write(reg isa.Register, val uint8) {
	r.slots[reg.Slot()] = val
}

// SP returns the 16-bit stack pointer assembled from SPH/SPL.
func (r *Registers) SP() uint16 {
	return uint16(r.Read(isa.SPH))<<8 | uint16(r.Read(isa.SPL))
}

// SetSP writes sp back into SPH/SPL.
func (r *Registers) SetSP(sp uint16) {
	r.Write(isa.SPH, uint8(sp>>8))
	r.Write(isa.SPL, uint8(sp&0xFF))
}

// Flags returns the current flag byte (register F / R15).
func (r *Registers) Flags() uint8 {
	return r.Read(isa.F)
}

// SetFlags fully overwrites F, per spec §3.1: each arithmetic/compare
// instruction sets F by fully overwriting it to reflect only its own
// result.
func (r *Registers) SetFlags(z, n, c bool) {
	var f uint8
	if z {
		f |= isa.FlagZ
	}
	if n {
		f |= isa.FlagN
	}
	if c {
		f |= isa.FlagC
	}
	r.Write(isa.F, f)
}

func (r *Registers) FlagZ() bool { return r.Flags()&isa.FlagZ != 0 }
func (r *Registers) FlagN() bool { return r.Flags()&isa.FlagN != 0 }
func (r *Registers) FlagC() bool { return r.Flags()&isa.FlagC != 0 }

// Dump renders all 16 registers for debugging (spec §4.3: "a textual dump
// used only for debugging"; also the read-only surface the out-of-scope
// interactive debugger needs, per SPEC_FULL.md §12).
func (r *Registers) Dump() string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, "R%-2d=%02X ", i, r.slots[i])
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
