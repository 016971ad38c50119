package compiler

import "testing"

// buildSimpleFunc constructs a tiny one-block IRFunction with n sequential
// virtual registers, each live from its def to the final return, to
// exercise the spill path directly against the allocator's 4-register
// budget (R0-R3, spec §4.9/Glossary) without going through the full HIR
// pipeline.
func buildSimpleFunc(n int) *IRFunction {
	fn := &IRFunction{Name: "f", NumVRegs: n}
	blk := &BasicBlock{ID: 0}
	for i := 0; i < n; i++ {
		blk.Insts = append(blk.Insts, IRInst{Op: IRLoadImm, Dst: VReg(i), Imm: uint8(i)})
	}
	// Sum everything into VReg(0) so every register stays live until the
	// very last instruction.
	for i := 1; i < n; i++ {
		blk.Insts = append(blk.Insts, IRInst{Op: IRAdd, Dst: 0, Src1: 0, Src2: VReg(i)})
	}
	blk.Term = Terminator{Kind: TermRet, HasValue: true, Value: 0}
	fn.Blocks = []*BasicBlock{blk}
	return fn
}

func TestRegAllocFitsWithinPhysicalRegisters(t *testing.T) {
	fn := buildSimpleFunc(NumPhysRegs)
	res := RegAlloc(fn)
	for v := 0; v < NumPhysRegs; v++ {
		a := res.Alloc[VReg(v)]
		if a.Kind != AllocReg {
			t.Fatalf("vreg %d: expected a physical register, got spill", v)
		}
	}
}

func TestRegAllocSpillsWhenOverSubscribed(t *testing.T) {
	fn := buildSimpleFunc(6)
	res := RegAlloc(fn)
	spilled := 0
	for v := 0; v < 6; v++ {
		if res.Alloc[VReg(v)].Kind == AllocSpill {
			spilled++
		}
	}
	if spilled == 0 {
		t.Fatalf("expected at least one spill with 6 simultaneously live vregs over %d registers", NumPhysRegs)
	}
	if res.SpillSize != spilled {
		t.Fatalf("SpillSize %d does not match number of spilled vregs %d", res.SpillSize, spilled)
	}
}

func TestRegAllocAssignsDistinctRegisters(t *testing.T) {
	fn := buildSimpleFunc(NumPhysRegs)
	res := RegAlloc(fn)
	seen := map[int]bool{}
	for v := 0; v < NumPhysRegs; v++ {
		a := res.Alloc[VReg(v)]
		if a.Kind != AllocReg {
			continue
		}
		if seen[a.Reg] {
			t.Fatalf("register %d assigned to more than one simultaneously live vreg", a.Reg)
		}
		seen[a.Reg] = true
	}
}
