// Package ir is the typed, control-flow-graph based intermediate
// representation lowering produces. It is built directly on top of
// github.com/llir/llvm's ir/types/constant/value/enum packages rather than
// a hand-rolled instruction set: Gale's basic blocks, instructions and
// typed values are llir/llvm's, wrapped in a thinner Kind-tagged API that
// matches the data model's IR type variants.
package ir

import (
	"fmt"

	lltypes "github.com/llir/llvm/ir/types"
)

// Kind tags the shape of a Type, mirroring the data model's IR type
// variants.
type Kind int

// List of IR type kinds.
const (
	KindNone Kind = iota
	KindPointer
	KindS8
	KindS16
	KindS32
	KindS64
	KindU8
	KindU16
	KindU32
	KindU64
	KindHalf
	KindFloat
	KindDouble
	KindBool
	KindUnion
	KindStructure
	KindVoid
	KindFuncPtr
	KindFixedArray
)

// Type wraps an llir/llvm type together with the Kind tag the data model
// requires (llir/llvm's own type system does not distinguish signed from
// unsigned integers — Gale tracks that distinction here).
type Type struct {
	Kind     Kind
	LL       lltypes.Type
	Elem     *Type  // Pointer, FixedArray
	Len      int64  // FixedArray
	Fields   []*Type // Structure, Union
	Packed   bool    // Structure
	Params   []*Type // FuncPtr
	Return   *Type   // FuncPtr
}

// Equal reports structural equality on shape, per the data model.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPointer:
		return t.Elem.Equal(o.Elem)
	case KindFixedArray:
		return t.Len == o.Len && t.Elem.Equal(o.Elem)
	case KindStructure, KindUnion:
		if t.Packed != o.Packed || len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	case KindFuncPtr:
		if len(t.Params) != len(o.Params) || !t.Return.Equal(o.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsInteger reports whether k is one of the signed or unsigned integer
// kinds (Bool excluded).
func (k Kind) IsInteger() bool {
	return k >= KindS8 && k <= KindU64
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= KindS8 && k <= KindS64 }

// IsFloat reports whether k is Half, Float or Double.
func (k Kind) IsFloat() bool { return k == KindHalf || k == KindFloat || k == KindDouble }

func (k Kind) String() string {
	names := [...]string{
		"none", "ptr", "s8", "s16", "s32", "s64", "u8", "u16", "u32", "u64",
		"half", "float", "double", "bool", "union", "struct", "void", "funcptr", "array",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Builder caches the handful of primitive Types every module needs, so
// Prim never allocates.
type Builder struct {
	cache map[Kind]*Type
}

// NewBuilder creates a Builder with the primitive kinds pre-populated.
func NewBuilder() *Builder {
	b := &Builder{cache: make(map[Kind]*Type)}
	prims := []struct {
		k  Kind
		ll lltypes.Type
	}{
		{KindVoid, lltypes.Void},
		{KindBool, lltypes.I1},
		{KindS8, lltypes.I8}, {KindU8, lltypes.I8},
		{KindS16, lltypes.I16}, {KindU16, lltypes.I16},
		{KindS32, lltypes.I32}, {KindU32, lltypes.I32},
		{KindS64, lltypes.I64}, {KindU64, lltypes.I64},
		{KindHalf, lltypes.Half},
		{KindFloat, lltypes.Float},
		{KindDouble, lltypes.Double},
	}
	for _, pr := range prims {
		b.cache[pr.k] = &Type{Kind: pr.k, LL: pr.ll}
	}
	return b
}

// Prim returns the cached primitive Type for k; k must not be Pointer,
// FixedArray, Structure, Union or FuncPtr.
func (b *Builder) Prim(k Kind) *Type { return b.cache[k] }

// Pointer builds a pointer-to-elem Type.
func (b *Builder) Pointer(elem *Type) *Type {
	return &Type{Kind: KindPointer, LL: lltypes.NewPointer(elem.LL), Elem: elem}
}

// FixedArray builds a [length]elem Type.
func (b *Builder) FixedArray(elem *Type, length int64) *Type {
	return &Type{Kind: KindFixedArray, LL: lltypes.NewArray(uint64(length), elem.LL), Elem: elem, Len: length}
}

// Structure builds a struct Type over fields, matching LLVM's packed-struct
// representation when packed is set.
func (b *Builder) Structure(fields []*Type, packed bool) *Type {
	ll := make([]lltypes.Type, len(fields))
	for i, f := range fields {
		ll[i] = f.LL
	}
	st := lltypes.NewStruct(ll...)
	st.Packed = packed
	return &Type{Kind: KindStructure, LL: st, Fields: fields, Packed: packed}
}

// Union builds an untagged union Type. LLVM has no native union type; Gale
// represents it as the common convention of a byte-blob array sized to the
// widest member (the member Types are kept for conformance/RTTI purposes
// only, never for field access).
func (b *Builder) Union(fields []*Type) *Type {
	max := int64(0)
	for _, f := range fields {
		if sz := llSizeHint(f); sz > max {
			max = sz
		}
	}
	return &Type{Kind: KindUnion, LL: lltypes.NewArray(uint64(max), lltypes.I8), Fields: fields}
}

// FuncPtr builds a function-pointer Type.
func (b *Builder) FuncPtr(params []*Type, ret *Type) *Type {
	ll := make([]lltypes.Type, len(params))
	for i, p := range params {
		ll[i] = p.LL
	}
	sig := lltypes.NewFunc(ret.LL, ll...)
	return &Type{Kind: KindFuncPtr, LL: lltypes.NewPointer(sig), Params: params, Return: ret}
}

// llSizeHint gives a rough byte-size estimate for union sizing, sufficient
// since exact target layout is the external codegen collaborator's concern.
func llSizeHint(t *Type) int64 {
	switch t.Kind {
	case KindS8, KindU8, KindBool:
		return 1
	case KindS16, KindU16, KindHalf:
		return 2
	case KindS32, KindU32, KindFloat:
		return 4
	case KindS64, KindU64, KindDouble, KindPointer, KindFuncPtr:
		return 8
	case KindFixedArray:
		return t.Len * llSizeHint(t.Elem)
	case KindStructure, KindUnion:
		var sum int64
		for _, f := range t.Fields {
			sum += llSizeHint(f)
		}
		return sum
	}
	return 0
}
