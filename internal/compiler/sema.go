package compiler

import "fmt"

// Sema performs the two-phase semantic analysis / HIR lowering described
// in spec §4.7: collection (globals + function signatures), then a
// per-function pass that lowers statements and expressions bottom-up,
// attaching a resolved SymbolID/TypeID to every HIR node. Grounded on
// tinyrange-rtg/std/compiler/ir.go's Compiler scope-stack discipline
// (pushScope/popScope/addLocal/lookupLocal), generalized from whole-Go-
// package symbols to the spec's flat global/local/parameter/function
// symbol kinds.
type Sema struct {
	Types *TypeTable
	Syms  *SymbolTable

	scopes *scopeStack
	diags  []Diagnostic

	// funcRetType is the declared return type of the function currently
	// being lowered.
	funcRetType TypeID
	// stopped is set once a function has reported an error, per the
	// propagation policy in spec §7: "semantic and lowering halt on first
	// error per function to avoid cascade noise".
	stopped bool
}

func NewSema() *Sema {
	return &Sema{
		Types:  NewTypeTable(),
		Syms:   NewSymbolTable(),
		scopes: newScopeStack(),
	}
}

func (s *Sema) errorf(kind ErrorKind, span Span, format string, args ...interface{}) {
	s.diags = append(s.diags, Diagnostic{
		Stage: StageSema,
		Kind:  kind,
		Span:  span,
		Msg:   fmt.Sprintf(format, args...),
	})
	s.stopped = true
}

// errorfEF is errorf plus the Expected/Found pair, for the TypeMismatch
// diagnostics that have a natural "expected this type, got that type"
// shape.
func (s *Sema) errorfEF(kind ErrorKind, span Span, expected, found, format string, args ...interface{}) {
	s.diags = append(s.diags, Diagnostic{
		Stage:    StageSema,
		Kind:     kind,
		Span:     span,
		Msg:      fmt.Sprintf(format, args...),
		Expected: expected,
		Found:    found,
	})
	s.stopped = true
}

func (s *Sema) resolveType(te TypeExpr) TypeID {
	id, ok := s.Types.Lookup(te)
	if !ok {
		s.errorf(ErrUnknownSymbol, te.Span, "unknown type %q", te.Name)
		return s.Types.Void()
	}
	return id
}

// Analyze runs both sub-phases over prog and returns the lowered program.
// If any diagnostics were produced, the returned *HIRProgram is only
// partially built and should not be passed to the IR builder.
func Analyze(prog *Program) (*HIRProgram, *Sema) {
	s := NewSema()
	s.scopes.push() // global scope, lives for the whole analysis

	hp := &HIRProgram{}

	// Collection: globals.
	globalNames := map[string]bool{}
	for _, g := range prog.Globals {
		if globalNames[g.Name] {
			s.errorf(ErrDuplicateSymbol, g.Span, "duplicate global %q", g.Name)
			continue
		}
		globalNames[g.Name] = true
		typ := s.resolveType(g.Type)
		id := s.Syms.AddGlobal(g.Name, typ, g.Address)
		s.scopes.declare(g.Name, id)
		hp.Globals = append(hp.Globals, id)
	}

	// Collection: function signatures.
	funcNames := map[string]bool{}
	funcSymbols := make(map[*Function]SymbolID, len(prog.Functions))
	for _, fn := range prog.Functions {
		if funcNames[fn.Name] {
			s.errorf(ErrDuplicateSymbol, fn.Span, "duplicate function %q", fn.Name)
			continue
		}
		funcNames[fn.Name] = true

		var paramTypes []TypeID
		for _, p := range fn.Params {
			paramTypes = append(paramTypes, s.resolveType(p.Type))
		}
		retType := s.resolveType(fn.RetType)
		ftype := s.Types.Func(paramTypes, retType)
		id := s.Syms.Add(fn.Name, SymFunction, ftype)
		s.scopes.declare(fn.Name, id)
		funcSymbols[fn] = id
	}

	// Per-function analysis.
	for _, fn := range prog.Functions {
		fnSym, ok := funcSymbols[fn]
		if !ok {
			continue // duplicate, already reported
		}
		hp.Functions = append(hp.Functions, s.analyzeFunction(fn, fnSym))
	}

	return hp, s
}

func (s *Sema) analyzeFunction(fn *Function, fnSym SymbolID) *HIRFunction {
	s.stopped = false
	s.scopes.push()
	defer s.scopes.pop()

	info := s.Syms.Get(fnSym)
	ftype := s.Types.Info(info.Type)
	s.funcRetType = ftype.Ret

	hf := &HIRFunction{Symbol: fnSym, RetType: ftype.Ret}

	for i, p := range fn.Params {
		typ := ftype.Params[i]
		id := s.Syms.Add(p.Name, SymParameter, typ)
		if !s.scopes.declare(p.Name, id) {
			s.errorf(ErrDuplicateSymbol, p.Span, "duplicate parameter %q", p.Name)
		}
		hf.Params = append(hf.Params, id)
	}
	for _, l := range fn.Locals {
		typ := s.resolveType(l.Type)
		id := s.Syms.Add(l.Name, SymLocal, typ)
		if !s.scopes.declare(l.Name, id) {
			s.errorf(ErrDuplicateSymbol, l.Span, "duplicate local %q", l.Name)
		}
		hf.Locals = append(hf.Locals, id)
	}

	hf.Body = s.lowerBlock(fn.Body)
	return hf
}

func (s *Sema) lowerBlock(b *Block) *HIRBlock {
	hb := &HIRBlock{}
	for _, st := range b.Stmts {
		if s.stopped {
			break
		}
		hb.Stmts = append(hb.Stmts, s.lowerStmt(st))
	}
	return hb
}

func (s *Sema) lowerStmt(st Stmt) HIRStmt {
	switch n := st.(type) {
	case *Block:
		return s.lowerBlock(n)

	case *ReturnStmt:
		if n.Value == nil {
			if s.funcRetType != s.Types.Void() {
				s.errorfEF(ErrTypeMismatch, n.Span, s.Types.Name(s.funcRetType), "void",
					"expected a value of type %s, function returns void", s.Types.Name(s.funcRetType))
			}
			return &HIRReturn{HasValue: false}
		}
		val := s.lowerExpr(n.Value)
		if val != nil && val.Type() != s.funcRetType {
			s.errorfEF(ErrTypeMismatch, n.Value.SpanOf(), s.Types.Name(s.funcRetType), s.Types.Name(val.Type()),
				"return type mismatch: expected %s, got %s", s.Types.Name(s.funcRetType), s.Types.Name(val.Type()))
		}
		return &HIRReturn{Value: val, HasValue: true}

	case *ExprStmt:
		return &HIRExprStmt{X: s.lowerExpr(n.X)}

	case *IfStmt:
		cond := s.lowerExpr(n.Cond)
		if cond != nil && cond.Type() != s.Types.Bool() {
			s.errorfEF(ErrTypeMismatch, n.Cond.SpanOf(), "bool", s.Types.Name(cond.Type()),
				"if condition must be bool, got %s", s.Types.Name(cond.Type()))
		}
		hi := &HIRIf{Cond: cond, Then: s.lowerStmt(n.Then)}
		if n.Else != nil {
			hi.Else = s.lowerStmt(n.Else)
		}
		return hi

	case *WhileStmt:
		cond := s.lowerExpr(n.Cond)
		if cond != nil && cond.Type() != s.Types.Bool() {
			s.errorfEF(ErrTypeMismatch, n.Cond.SpanOf(), "bool", s.Types.Name(cond.Type()),
				"while condition must be bool, got %s", s.Types.Name(cond.Type()))
		}
		return &HIRWhile{Cond: cond, Body: s.lowerStmt(n.Body)}

	case *AssignStmt:
		target := s.lowerExpr(n.Target)
		switch target.(type) {
		case *HIRVar:
		case *HIRUnary:
			if target.(*HIRUnary).Op != OpDeref {
				s.errorf(ErrTypeMismatch, n.Target.SpanOf(), "invalid assignment target")
			}
		default:
			s.errorf(ErrTypeMismatch, n.Target.SpanOf(), "invalid assignment target")
		}
		value := s.lowerExpr(n.Value)
		if target != nil && value != nil && target.Type() != value.Type() {
			s.errorfEF(ErrTypeMismatch, n.Value.SpanOf(), s.Types.Name(target.Type()), s.Types.Name(value.Type()),
				"assignment type mismatch: expected %s, got %s", s.Types.Name(target.Type()), s.Types.Name(value.Type()))
		}
		return &HIRAssign{Target: target, Value: value}

	default:
		s.errorf(ErrInternalError, st.SpanOf(), "unhandled statement kind %T", st)
		return &HIRExprStmt{}
	}
}

func (s *Sema) lowerExpr(e Expr) HIRExpr {
	switch n := e.(type) {
	case *IntLit:
		// The type system only has one integer type (u8, spec §3.4); a
		// literal that lexed as u16 (value > 255) is only meaningful as
		// an address literal, never as an expression value, so it is
		// narrowed here rather than rejected.
		return &HIRIntLit{Value: n.Value & 0xFF, Typ: s.Types.U8()}

	case *VarExpr:
		id, ok := s.scopes.lookup(n.Name)
		if !ok {
			s.errorf(ErrUnknownSymbol, n.Span, "unknown identifier %q", n.Name)
			return &HIRVar{Typ: s.Types.Void()}
		}
		sym := s.Syms.Get(id)
		return &HIRVar{Symbol: id, Typ: sym.Type}

	case *UnaryExpr:
		x := s.lowerExpr(n.X)
		if x == nil {
			return nil
		}
		switch n.Op {
		case OpNeg:
			return &HIRUnary{Op: OpNeg, X: x, Typ: x.Type()}
		case OpAddr:
			if _, ok := x.(*HIRVar); !ok {
				s.errorf(ErrTypeMismatch, n.Span, "cannot take the address of this expression")
			}
			return &HIRUnary{Op: OpAddr, X: x, Typ: s.Types.Pointer(x.Type())}
		case OpDeref:
			info := s.Types.Info(x.Type())
			if info.Kind != TypePointer {
				s.errorf(ErrExpectedPointer, n.X.SpanOf(), "cannot dereference a non-pointer type %s", s.Types.Name(x.Type()))
				return &HIRUnary{Op: OpDeref, X: x, Typ: s.Types.Void()}
			}
			return &HIRUnary{Op: OpDeref, X: x, Typ: info.Elem}
		}
		return nil

	case *BinaryExpr:
		lhs := s.lowerExpr(n.Lhs)
		rhs := s.lowerExpr(n.Rhs)
		if lhs == nil || rhs == nil {
			return nil
		}
		if lhs.Type() != rhs.Type() {
			s.errorfEF(ErrTypeMismatch, n.Span, s.Types.Name(lhs.Type()), s.Types.Name(rhs.Type()),
				"operand type mismatch: %s vs %s", s.Types.Name(lhs.Type()), s.Types.Name(rhs.Type()))
		}
		if n.Op == OpEq {
			return &HIRBinary{Op: n.Op, Lhs: lhs, Rhs: rhs, Typ: s.Types.Bool()}
		}
		return &HIRBinary{Op: n.Op, Lhs: lhs, Rhs: rhs, Typ: lhs.Type()}

	case *CallExpr:
		id, ok := s.scopes.lookup(n.Callee)
		if !ok {
			s.errorf(ErrUnknownSymbol, n.Span, "unknown identifier %q", n.Callee)
			return &HIRCall{Typ: s.Types.Void()}
		}
		sym := s.Syms.Get(id)
		if sym.Kind != SymFunction {
			s.errorf(ErrSymbolIsNotCallable, n.Span, "%q is not callable", n.Callee)
			return &HIRCall{Typ: s.Types.Void()}
		}
		ftype := s.Types.Info(sym.Type)
		if len(n.Args) != len(ftype.Params) {
			s.errorf(ErrWrongArgumentsCount, n.Span, "%q expects %d arguments, got %d", n.Callee, len(ftype.Params), len(n.Args))
		}
		var args []HIRExpr
		for i, a := range n.Args {
			arg := s.lowerExpr(a)
			if arg == nil {
				continue
			}
			if i < len(ftype.Params) && arg.Type() != ftype.Params[i] {
				s.errorfEF(ErrTypeMismatch, a.SpanOf(), s.Types.Name(ftype.Params[i]), s.Types.Name(arg.Type()),
					"argument %d of %q: expected %s, got %s",
					i+1, n.Callee, s.Types.Name(ftype.Params[i]), s.Types.Name(arg.Type()))
			}
			args = append(args, arg)
		}
		return &HIRCall{Callee: id, Args: args, Typ: ftype.Ret}

	default:
		s.errorf(ErrInternalError, e.SpanOf(), "unhandled expression kind %T", e)
		return nil
	}
}
