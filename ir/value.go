package ir

import (
	"fmt"

	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// ValueKind tags the shape of a Value, mirroring the data model's IR value
// variants.
type ValueKind int

// List of IR value kinds.
const (
	ValLiteral ValueKind = iota
	ValResult
	ValNullPtr
	ValArrayLiteral
	ValStructLiteral
	ValStructConstruction
	ValAnonGlobal
	ValConstAnonGlobal
	ValCstrOfLen
	ValConstBitcast
)

// Value wraps an llir/llvm value.Value with the Kind tag and the extra
// bookkeeping (global ids, cstring length) the data model's IR value
// variants carry that llir/llvm does not model natively.
type Value struct {
	Kind ValueKind
	Type *Type
	LL   llvalue.Value

	GlobalID int64  // AnonGlobal, ConstAnonGlobal
	StrLen   int64  // CstrOfLen
	Elems    []*Value // ArrayLiteral, StructLiteral, StructConstruction
	Inner    *Value   // ConstBitcast
}

func (v *Value) String() string {
	if v == nil || v.LL == nil {
		return fmt.Sprintf("<%v value>", v.Kind)
	}
	return v.LL.Ident()
}

// NewLiteral wraps a constant scalar (int or float) produced by the caller.
func NewLiteral(t *Type, c llconstant.Constant) *Value {
	return &Value{Kind: ValLiteral, Type: t, LL: c}
}

// NewResult wraps an instruction's result value (llir/llvm instructions are
// themselves value.Value, playing the role of the data model's
// Result{block_id, instr_index} variant).
func NewResult(t *Type, v llvalue.Value) *Value {
	return &Value{Kind: ValResult, Type: t, LL: v}
}

// NewNullPtr builds the null-pointer constant of pointer type t.
func NewNullPtr(t *Type) *Value {
	pt, ok := t.LL.(*lltypes.PointerType)
	if !ok {
		panic("ir: NewNullPtr on a non-pointer type")
	}
	return &Value{Kind: ValNullPtr, Type: t, LL: llconstant.NewNull(pt)}
}
