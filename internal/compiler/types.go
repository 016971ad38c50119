package compiler

import "fmt"

// TypeID identifies a type; two types are equal iff their ids are equal
// (spec §3.4). Types are interned so structurally identical types (e.g.
// two uses of `*u8`, or two functions with the same signature) share one
// id.
type TypeID int

type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeBool
	TypeU8
	TypePointer
	TypeFunc
)

// TypeInfo is one entry in the TypeTable.
type TypeInfo struct {
	Kind   TypeKind
	Elem   TypeID   // pointee type, for TypePointer
	Params []TypeID // ordered parameter types, for TypeFunc
	Ret    TypeID   // return type, for TypeFunc
}

// Width reports the storage width of values of this type, in bytes.
// Pointers are two bytes wide (SPEC_FULL.md §12); void/function types have
// no runtime width.
func (t TypeInfo) Width() int {
	switch t.Kind {
	case TypeBool, TypeU8:
		return 1
	case TypePointer:
		return 2
	default:
		return 0
	}
}

// TypeTable interns every TypeInfo the compiler constructs, so type
// equality is just TypeID equality.
type TypeTable struct {
	infos  []TypeInfo
	byKey  map[string]TypeID
	voidID TypeID
	boolID TypeID
	u8ID   TypeID
}

func NewTypeTable() *TypeTable {
	t := &TypeTable{byKey: make(map[string]TypeID)}
	t.voidID = t.intern("void", TypeInfo{Kind: TypeVoid})
	t.boolID = t.intern("bool", TypeInfo{Kind: TypeBool})
	t.u8ID = t.intern("u8", TypeInfo{Kind: TypeU8})
	return t
}

func (t *TypeTable) intern(key string, info TypeInfo) TypeID {
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := TypeID(len(t.infos))
	t.infos = append(t.infos, info)
	t.byKey[key] = id
	return id
}

func (t *TypeTable) Void() TypeID { return t.voidID }
func (t *TypeTable) Bool() TypeID { return t.boolID }
func (t *TypeTable) U8() TypeID   { return t.u8ID }

func (t *TypeTable) Pointer(elem TypeID) TypeID {
	key := fmt.Sprintf("*%d", elem)
	return t.intern(key, TypeInfo{Kind: TypePointer, Elem: elem})
}

func (t *TypeTable) Func(params []TypeID, ret TypeID) TypeID {
	key := fmt.Sprintf("fn(%v)->%d", params, ret)
	ps := append([]TypeID(nil), params...)
	return t.intern(key, TypeInfo{Kind: TypeFunc, Params: ps, Ret: ret})
}

func (t *TypeTable) Info(id TypeID) TypeInfo {
	return t.infos[id]
}

// Lookup resolves a TypeExpr's syntactic name to a TypeID. ok is false for
// an unknown base type name.
func (t *TypeTable) Lookup(te TypeExpr) (TypeID, bool) {
	var base TypeID
	switch te.Name {
	case "void":
		base = t.voidID
	case "bool":
		base = t.boolID
	case "u8":
		base = t.u8ID
	default:
		return 0, false
	}
	if te.Pointer {
		return t.Pointer(base), true
	}
	return base, true
}

func (t *TypeTable) Name(id TypeID) string {
	info := t.Info(id)
	switch info.Kind {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeU8:
		return "u8"
	case TypePointer:
		return "*" + t.Name(info.Elem)
	case TypeFunc:
		return "function"
	default:
		return "?"
	}
}
