package ir

import (
	"fmt"
	"strings"

	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
)

// Sizeof builds the `sizeof T` instruction result: usize materialized via
// the standard LLVM idiom, ptrtoint(gep(T, null, 1)), since LLVM has no
// native sizeof opcode.
func (b *Block) Sizeof(usize *Type, t *Type) *Value {
	nullPtr := llconstant.NewNull(lltypes.NewPointer(t.LL))
	one := llconstant.NewInt(lltypes.I32, 1)
	gep := llconstant.NewGetElementPtr(t.LL, nullPtr, one)
	return b.result(usize, b.LL.NewPtrToInt(gep, usize.LL))
}

// Offsetof builds the `offsetof(T, field)` instruction result using the
// same null-gep-ptrtoint idiom, indexed to the given field.
func (b *Block) Offsetof(usize *Type, structType *Type, field int64) *Value {
	zero := llconstant.NewInt(lltypes.I32, 0)
	idx := llconstant.NewInt(lltypes.I32, field)
	nullPtr := llconstant.NewNull(lltypes.NewPointer(structType.LL))
	gep := llconstant.NewGetElementPtr(structType.LL, nullPtr, zero, idx)
	return b.result(usize, b.LL.NewPtrToInt(gep, usize.LL))
}

// FuncAddr builds the `funcaddr` value: the address of a named function,
// resolved by name only (per the Open Question in DESIGN.md — argument-type
// matching is not implemented, matching the source's own limitation).
func FuncAddr(fn *Function) *Value {
	// an llir Func's Type() is already the pointer-to-signature type.
	return &Value{Kind: ValResult, Type: &Type{Kind: KindFuncPtr, LL: fn.LL.Type()}, LL: fn.LL}
}

// CStrOfLen returns the CstrOfLen value for s: a global constant byte array
// holding s plus a trailing NUL, and a GEP-to-first-element pointer, cached
// per module so repeated literals share one backing global. The lexer folds
// an implicit NUL into CSTRING payloads already; it is stripped here before
// caching so that the same literal reaches the same global whether or not
// the caller's copy carries it, and StrLen counts content bytes only.
func (m *Module) CStrOfLen(s string) *Value {
	s = strings.TrimSuffix(s, "\x00")
	if m.cstrCache == nil {
		m.cstrCache = map[string]*Value{}
	}
	if v, ok := m.cstrCache[s]; ok {
		return v
	}

	name := fmt.Sprintf(".cstr.%d", len(m.cstrCache))
	data := llconstant.NewCharArrayFromString(s + "\x00")
	g := m.LL.NewGlobalDef(name, data)
	g.Immutable = true

	i8 := m.Builder.Prim(KindU8)
	ptrType := &Type{Kind: KindPointer, LL: lltypes.NewPointer(i8.LL), Elem: i8}
	zero := llconstant.NewInt(lltypes.I32, 0)
	gep := llconstant.NewGetElementPtr(data.Typ, g, zero, zero)

	v := &Value{Kind: ValCstrOfLen, Type: ptrType, LL: gep, StrLen: int64(len(s))}
	m.cstrCache[s] = v
	return v
}

// StructLiteral builds an aggregate struct value directly from elems; its LL
// is a constant struct when every element is constant, nil otherwise.
func (m *Module) StructLiteral(t *Type, elems []*Value) *Value {
	consts := make([]llconstant.Constant, len(elems))
	allConst := true
	for i, e := range elems {
		c, ok := e.LL.(llconstant.Constant)
		if !ok {
			allConst = false
			break
		}
		consts[i] = c
	}
	v := &Value{Kind: ValStructLiteral, Type: t, Elems: elems}
	if allConst {
		v.LL = llconstant.NewStruct(t.LL.(*lltypes.StructType), consts...)
	}
	return v
}

// ArrayLiteral builds a constant array aggregate value.
func (m *Module) ArrayLiteral(t *Type, elems []*Value) *Value {
	consts := make([]llconstant.Constant, len(elems))
	for i, e := range elems {
		consts[i] = e.LL.(llconstant.Constant)
	}
	return &Value{Kind: ValArrayLiteral, Type: t, Elems: elems, LL: llconstant.NewArray(t.LL.(*lltypes.ArrayType), consts...)}
}

// StructConstruction tags the result of field-by-field construction (alloca
// + memberptr/store pairs): the aggregate is
// never materialized as a single value, so LL is left nil and Elems/addr
// record what was stored.
func StructConstruction(t *Type, addr *Value, elems []*Value) *Value {
	return &Value{Kind: ValStructConstruction, Type: t, Inner: addr, Elems: elems}
}

// ConstBitcast wraps a compile-time bitcast of a constant value.
func (m *Module) ConstBitcast(t *Type, v *Value) *Value {
	c, ok := v.LL.(llconstant.Constant)
	if !ok {
		panic("ir: ConstBitcast on a non-constant value")
	}
	return &Value{Kind: ValConstBitcast, Type: t, Inner: v, LL: llconstant.NewBitCast(c, t.LL)}
}

// NewAnonGlobal declares an anonymous global holding init (immutable when
// isConst is set) and returns it; its sequential id is part of its name.
func (m *Module) NewAnonGlobal(name string, t *Type, init *Value, isConst bool) *Global {
	id := int64(m.nextAnonID)
	m.nextAnonID++
	gname := fmt.Sprintf(".anon.%d.%s", id, name)
	llg := m.LL.NewGlobalDef(gname, init.LL.(llconstant.Constant))
	llg.Immutable = isConst
	gl := &Global{Name: gname, Type: t, Init: init, LL: llg}
	m.AnonGlobals = append(m.AnonGlobals, gl)
	return gl
}
