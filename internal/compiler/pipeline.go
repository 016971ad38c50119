package compiler

// Result is the outcome of a full Compile call.
type Result struct {
	Assembly string
	Diags    []Diagnostic
}

// OK reports whether compilation produced assembly with no diagnostics.
func (r Result) OK() bool {
	return len(r.Diags) == 0
}

// Compile is the compiler's single entry point (spec §1, §5.4): a pure
// function from source bytes to assembly text or a diagnostic list.
// Compile is synchronous and allocates no state outside this call's own
// pipeline stages (spec §5.4: "no global state persists between
// invocations").
//
// The pipeline halts and returns at the first stage producing a
// diagnostic (spec §7): lex errors prevent parsing, parse errors prevent
// semantic analysis, and semantic errors prevent code generation.
func Compile(src []byte) Result {
	toks, lexDiags := NewLexer(src).Tokenize()
	if len(lexDiags) > 0 {
		return Result{Diags: lexDiags}
	}

	prog, parseDiags := ParseProgram(toks)
	if len(parseDiags) > 0 {
		return Result{Diags: parseDiags}
	}

	hp, sema := Analyze(prog)
	if len(sema.diags) > 0 {
		return Result{Diags: sema.diags}
	}

	irProg := BuildProgram(hp, sema)
	asm := Generate(irProg)
	asm = Peephole(asm)

	return Result{Assembly: asm}
}
