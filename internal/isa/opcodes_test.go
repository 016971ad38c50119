package isa

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Kind: KindNop},
		{Kind: KindHalt},
		{Kind: KindSys, SysOp: SysPutc, SysSrc: R3},
		{Kind: KindMov, Dst: R1, Src: R2},
		{Kind: KindAdd, Dst: R0, Src: R1},
		{Kind: KindSub, Dst: R0, Src: R1},
		{Kind: KindCmp, Dst: R0, Src: R1},
		{Kind: KindLdi, Dst: R4, Imm8: 0xAB},
		{Kind: KindJmp, AddrHi: R0, AddrLo: R1},
		{Kind: KindJr, Offset: -5},
		{Kind: KindJzr, Offset: 10},
		{Kind: KindCall, AddrHi: R2, AddrLo: R3},
		{Kind: KindRet},
		{Kind: KindPush, Src: R5},
		{Kind: KindPop, Dst: R6},
		{Kind: KindLoad, Dst: R7, AddrHi: R0, AddrLo: R1},
		{Kind: KindStore, Src: R7, AddrHi: R0, AddrLo: R1},
	}

	for _, want := range cases {
		word, ok := Encode(want)
		if !ok {
			t.Fatalf("Encode(%+v): ok=false", want)
		}
		got, ok := Decode(word)
		if !ok {
			t.Fatalf("Decode(0x%04X) for %+v: ok=false", word, want)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v (word 0x%04X)", want, got, word)
		}
	}
}

func TestDecodeRejectsUndefinedOpcodes(t *testing.T) {
	// O=0, A=3 is not Nop/Halt/Sys.
	if _, ok := Decode(mkWord(0, 3, 0, 0)); ok {
		t.Fatalf("expected decode failure for undefined O=0,A=3")
	}
	// O=7 is entirely undefined.
	if _, ok := Decode(mkWord(7, 0, 0, 0)); ok {
		t.Fatalf("expected decode failure for undefined O=7")
	}
}

func TestAliasesEncodeToUnderlyingSlot(t *testing.T) {
	if SPH.Slot() != R13.Slot() {
		t.Fatalf("SPH should alias R13's slot")
	}
	if F.Slot() != R15.Slot() {
		t.Fatalf("F should alias R15's slot")
	}
}
