// Package cpu implements the mb8 register file and the fetch-decode-execute
// loop (spec §4.3, §4.4).
package cpu

import (
	"github.com/oseyan/mb8/internal/bus"
	"github.com/oseyan/mb8/internal/isa"
)

// SysHandler services the Sys instruction's host-delegated sub-opcodes
// (spec §4.4: "Sys is a hook into external services provided by the
// surrounding platform"). A nil handler makes Sys a no-op beyond the
// normal PC advance.
type SysHandler func(op isa.SysOp, src uint8)

// VM is the mb8 executor: program counter, halted flag, register file and
// bus. It is strictly single-threaded and synchronous (spec §5): one Step
// call executes exactly one instruction to completion.
type VM struct {
	PC      uint16
	Halted  bool
	HaltMsg string

	Regs *Registers
	Bus  *bus.Bus

	Sys SysHandler
}

// New constructs a VM with a fresh register file and bus, PC at the ROM
// entry point, not yet halted.
func New(b *bus.Bus) *VM {
	return &VM{
		PC:   isa.ROMEntry,
		Regs: NewRegisters(),
		Bus:  b,
	}
}

func (vm *VM) halt(msg string) {
	vm.Halted = true
	vm.HaltMsg = msg
}

// fetchWord reads the big-endian 16-bit instruction at addr.
func (vm *VM) fetchWord(addr uint16) (uint16, bool) {
	hi, ok := vm.Bus.ReadByte(addr)
	if !ok {
		return 0, false
	}
	lo, ok := vm.Bus.ReadByte(addr + 1)
	if !ok {
		return 0, false
	}
	return uint16(hi)<<8 | uint16(lo), true
}

// Step executes exactly one instruction. It is a no-op once Halted.
func (vm *VM) Step() {
	if vm.Halted {
		return
	}

	word, ok := vm.fetchWord(vm.PC)
	if !ok {
		vm.halt("bus read failed during fetch")
		return
	}
	vm.PC += 2

	ins, ok := isa.Decode(word)
	if !ok {
		vm.halt("decode failure")
		return
	}

	vm.execute(ins)
}

// Run executes up to maxSteps instructions, stopping early if the VM
// halts. This is the bounded-batch-per-frame driver the host UI loop
// polls (spec §5): it returns the number of instructions actually
// executed.
func (vm *VM) Run(maxSteps int) int {
	n := 0
	for n < maxSteps && !vm.Halted {
		vm.Step()
		n++
	}
	return n
}

func wrap8(v int) uint8 {
	return uint8(uint32(v) & 0xFF)
}

func (vm *VM) execute(ins isa.Instruction) {
	switch ins.Kind {
	case isa.KindNop:
		// no operation

	case isa.KindHalt:
		vm.halt("halt instruction")

	case isa.KindSys:
		if vm.Sys != nil {
			vm.Sys(ins.SysOp, vm.Regs.Read(ins.SysSrc))
		}

	case isa.KindMov:
		vm.Regs.Write(ins.Dst, vm.Regs.Read(ins.Src))

	case isa.KindAdd:
		d, s := vm.Regs.Read(ins.Dst), vm.Regs.Read(ins.Src)
		sum := int(d) + int(s)
		res := wrap8(sum)
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, sum > 0xFF)

	case isa.KindSub:
		d, s := vm.Regs.Read(ins.Dst), vm.Regs.Read(ins.Src)
		diff := int(d) - int(s)
		res := wrap8(diff)
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, diff < 0)

	case isa.KindCmp:
		d, s := vm.Regs.Read(ins.Dst), vm.Regs.Read(ins.Src)
		diff := int(d) - int(s)
		res := wrap8(diff)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, diff < 0)

	case isa.KindAnd:
		res := vm.Regs.Read(ins.Dst) & vm.Regs.Read(ins.Src)
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, false)

	case isa.KindOr:
		res := vm.Regs.Read(ins.Dst) | vm.Regs.Read(ins.Src)
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, false)

	case isa.KindXor:
		res := vm.Regs.Read(ins.Dst) ^ vm.Regs.Read(ins.Src)
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, false)

	case isa.KindShr:
		n := vm.Regs.Read(ins.Src) % 8
		res := vm.Regs.Read(ins.Dst) >> n
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, false)

	case isa.KindShl:
		n := vm.Regs.Read(ins.Src) % 8
		res := vm.Regs.Read(ins.Dst) << n
		vm.Regs.Write(ins.Dst, res)
		vm.Regs.SetFlags(res == 0, res&0x80 != 0, false)

	case isa.KindLdi:
		vm.Regs.Write(ins.Dst, ins.Imm8)

	case isa.KindJmp:
		vm.PC = uint16(vm.Regs.Read(ins.AddrHi))<<8 | uint16(vm.Regs.Read(ins.AddrLo))

	case isa.KindJr:
		vm.PC = uint16(int32(vm.PC) + int32(ins.Offset))

	case isa.KindJzr:
		if vm.Regs.FlagZ() {
			vm.PC = uint16(int32(vm.PC) + int32(ins.Offset))
		}
	case isa.KindJnzr:
		if !vm.Regs.FlagZ() {
			vm.PC = uint16(int32(vm.PC) + int32(ins.Offset))
		}
	case isa.KindJcr:
		if vm.Regs.FlagC() {
			vm.PC = uint16(int32(vm.PC) + int32(ins.Offset))
		}
	case isa.KindJncr:
		if !vm.Regs.FlagC() {
			vm.PC = uint16(int32(vm.PC) + int32(ins.Offset))
		}

	case isa.KindCall:
		target := uint16(vm.Regs.Read(ins.AddrHi))<<8 | uint16(vm.Regs.Read(ins.AddrLo))
		ret := vm.PC // already advanced past the Call word
		if !vm.pushByte(uint8(ret >> 8)) {
			return
		}
		if !vm.pushByte(uint8(ret & 0xFF)) {
			return
		}
		vm.PC = target

	case isa.KindRet:
		lo, ok := vm.popByte()
		if !ok {
			return
		}
		hi, ok := vm.popByte()
		if !ok {
			return
		}
		vm.PC = uint16(hi)<<8 | uint16(lo)

	case isa.KindPush:
		vm.pushByte(vm.Regs.Read(ins.Src))

	case isa.KindPop:
		v, ok := vm.popByte()
		if !ok {
			return
		}
		vm.Regs.Write(ins.Dst, v)

	case isa.KindLoad:
		addr := uint16(vm.Regs.Read(ins.AddrHi))<<8 | uint16(vm.Regs.Read(ins.AddrLo))
		v, ok := vm.Bus.ReadByte(addr)
		if !ok {
			vm.halt("bus read failed")
			return
		}
		vm.Regs.Write(ins.Dst, v)

	case isa.KindStore:
		addr := uint16(vm.Regs.Read(ins.AddrHi))<<8 | uint16(vm.Regs.Read(ins.AddrLo))
		vm.Bus.WriteByte(addr, vm.Regs.Read(ins.Src))
		if bus.IsDiskCmdWrite(addr) && vm.Bus.DiskCmdFault() {
			vm.halt("disk command error")
		}

	default:
		vm.halt("unimplemented instruction")
	}
}

// pushByte pushes one byte to the downward-growing stack (spec §4.4). The
// stack overflow check lives here and in pushByte's caller paths only,
// per the "stack as raw pointer arithmetic" design note.
func (vm *VM) pushByte(val uint8) bool {
	sp := vm.Regs.SP()
	if sp <= isa.StackStart {
		vm.halt("stack overflow")
		return false
	}
	sp--
	vm.Bus.WriteByte(sp, val)
	vm.Regs.SetSP(sp)
	return true
}

func (vm *VM) popByte() (uint8, bool) {
	sp := vm.Regs.SP()
	if sp >= isa.StackTop {
		vm.halt("stack underflow")
		return 0, false
	}
	val, ok := vm.Bus.ReadByte(sp)
	if !ok {
		vm.halt("bus read failed")
		return 0, false
	}
	vm.Regs.SetSP(sp + 1)
	return val, true
}
