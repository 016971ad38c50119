package isa

import "fmt"

// Kind identifies the operation an Instruction performs.
type Kind uint8

const (
	KindNop Kind = iota
	KindHalt
	KindSys

	KindMov
	KindAdd
	KindSub
	KindAnd
	KindOr
	KindXor
	KindShr
	KindShl
	KindCmp

	KindLdi

	KindJmp // absolute, target held in two registers (hi, lo)
	KindJr  // unconditional relative
	KindJzr
	KindJnzr
	KindJcr
	KindJncr

	KindCall
	KindRet
	KindPush
	KindPop

	KindLoad
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindNop:
		return "nop"
	case KindHalt:
		return "halt"
	case KindSys:
		return "sys"
	case KindMov:
		return "mov"
	case KindAdd:
		return "add"
	case KindSub:
		return "sub"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindXor:
		return "xor"
	case KindShr:
		return "shr"
	case KindShl:
		return "shl"
	case KindCmp:
		return "cmp"
	case KindLdi:
		return "ldi"
	case KindJmp:
		return "jmp"
	case KindJr:
		return "jr"
	case KindJzr:
		return "jzr"
	case KindJnzr:
		return "jnzr"
	case KindJcr:
		return "jcr"
	case KindJncr:
		return "jncr"
	case KindCall:
		return "call"
	case KindRet:
		return "ret"
	case KindPush:
		return "push"
	case KindPop:
		return "pop"
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sys sub-opcodes (SPEC_FULL.md §12, Open Question 1): the core ISA keeps
// Sys as the single nullary-shaped control opcode (nibble O=0, A=2); the
// sub-opcode selecting which host service to invoke and the register
// carrying its argument ride in the otherwise-unused B/C nibbles.
type SysOp uint8

const (
	SysPutc  SysOp = 0 // write the byte in SysSrc to the host console
	SysYield SysOp = 1 // yield the remainder of the current VM time slice
)

// Instruction is the decoded form of one 16-bit mb8 instruction word.
// Only the fields relevant to Kind are meaningful.
type Instruction struct {
	Kind Kind

	Dst Register
	Src Register

	Imm8 uint8

	AddrHi Register
	AddrLo Register

	Offset int8 // signed relative jump displacement

	SysOp  SysOp
	SysSrc Register
}

func mkWord(o, a, b, c uint8) uint16 {
	return uint16(o&0xF)<<12 | uint16(a&0xF)<<8 | uint16(b&0xF)<<4 | uint16(c&0xF)
}

// regRegSubop maps the reg-reg Kind values to their nibble A value and back.
var regRegToSub = map[Kind]uint8{
	KindMov: 0, KindAdd: 1, KindSub: 2, KindAnd: 3, KindOr: 4,
	KindXor: 5, KindShr: 6, KindShl: 7, KindCmp: 8,
}

var subToRegReg = map[uint8]Kind{
	0: KindMov, 1: KindAdd, 2: KindSub, 3: KindAnd, 4: KindOr,
	5: KindXor, 6: KindShr, 7: KindShl, 8: KindCmp,
}

var relJumpToSub = map[Kind]uint8{
	KindJr: 1, KindJzr: 2, KindJnzr: 3, KindJcr: 4, KindJncr: 5,
}

var subToRelJump = map[uint8]Kind{
	1: KindJr, 2: KindJzr, 3: KindJnzr, 4: KindJcr, 5: KindJncr,
}

// Encode turns an Instruction into its canonical 16-bit word. It reports
// ok=false if ins.Kind is not one of the defined Kind values.
func Encode(ins Instruction) (word uint16, ok bool) {
	switch ins.Kind {
	case KindNop:
		return mkWord(0, 0, 0, 0), true
	case KindHalt:
		return mkWord(0, 1, 0, 0), true
	case KindSys:
		return mkWord(0, 2, uint8(ins.SysOp), ins.SysSrc.Slot()), true

	case KindMov, KindAdd, KindSub, KindAnd, KindOr, KindXor, KindShr, KindShl, KindCmp:
		sub, known := regRegToSub[ins.Kind]
		if !known {
			return 0, false
		}
		return mkWord(1, sub, ins.Dst.Slot(), ins.Src.Slot()), true

	case KindLdi:
		return mkWord(2, ins.Dst.Slot(), uint8(ins.Imm8>>4), uint8(ins.Imm8&0xF)), true

	case KindJmp:
		return mkWord(3, 0, ins.AddrHi.Slot(), ins.AddrLo.Slot()), true
	case KindJr, KindJzr, KindJnzr, KindJcr, KindJncr:
		sub, known := relJumpToSub[ins.Kind]
		if !known {
			return 0, false
		}
		u := uint8(ins.Offset)
		return mkWord(3, sub, u>>4, u&0xF), true

	case KindCall:
		return mkWord(4, 0, ins.AddrHi.Slot(), ins.AddrLo.Slot()), true
	case KindRet:
		return mkWord(4, 1, 0, 0), true
	case KindPush:
		return mkWord(4, 2, ins.Src.Slot(), 0), true
	case KindPop:
		return mkWord(4, 3, ins.Dst.Slot(), 0), true

	case KindLoad:
		return mkWord(5, ins.Dst.Slot(), ins.AddrHi.Slot(), ins.AddrLo.Slot()), true
	case KindStore:
		return mkWord(6, ins.Src.Slot(), ins.AddrHi.Slot(), ins.AddrLo.Slot()), true
	}
	return 0, false
}

// Decode is the inverse of Encode. It returns ok=false for any bit pattern
// that does not correspond to a defined instruction (spec §3.2: decoding
// must be total over the defined opcodes and fail closed otherwise).
func Decode(word uint16) (ins Instruction, ok bool) {
	o := uint8(word>>12) & 0xF
	a := uint8(word>>8) & 0xF
	b := uint8(word>>4) & 0xF
	c := uint8(word) & 0xF

	switch o {
	case 0:
		switch {
		case a == 0 && b == 0 && c == 0:
			return Instruction{Kind: KindNop}, true
		case a == 1 && b == 0 && c == 0:
			return Instruction{Kind: KindHalt}, true
		case a == 2:
			return Instruction{Kind: KindSys, SysOp: SysOp(b), SysSrc: Register(c)}, true
		}
		return Instruction{}, false

	case 1:
		kind, known := subToRegReg[a]
		if !known {
			return Instruction{}, false
		}
		return Instruction{Kind: kind, Dst: Register(b), Src: Register(c)}, true

	case 2:
		return Instruction{Kind: KindLdi, Dst: Register(a), Imm8: b<<4 | c}, true

	case 3:
		if a == 0 {
			return Instruction{Kind: KindJmp, AddrHi: Register(b), AddrLo: Register(c)}, true
		}
		kind, known := subToRelJump[a]
		if !known {
			return Instruction{}, false
		}
		return Instruction{Kind: kind, Offset: int8(b<<4 | c)}, true

	case 4:
		switch a {
		case 0:
			return Instruction{Kind: KindCall, AddrHi: Register(b), AddrLo: Register(c)}, true
		case 1:
			if b == 0 && c == 0 {
				return Instruction{Kind: KindRet}, true
			}
		case 2:
			if c == 0 {
				return Instruction{Kind: KindPush, Src: Register(b)}, true
			}
		case 3:
			if c == 0 {
				return Instruction{Kind: KindPop, Dst: Register(b)}, true
			}
		}
		return Instruction{}, false

	case 5:
		return Instruction{Kind: KindLoad, Dst: Register(a), AddrHi: Register(b), AddrLo: Register(c)}, true

	case 6:
		return Instruction{Kind: KindStore, Src: Register(a), AddrHi: Register(b), AddrLo: Register(c)}, true
	}
	return Instruction{}, false
}
