package ir

import (
	llconstant "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"

	lli "github.com/llir/llvm/ir"
)

// Block wraps one basic block being built. Every Block's last instruction
// must be a terminator (Ret, Br, CondBr); lowering enforces this by
// construction, never appending after a terminator has been emitted.
type Block struct {
	LL *lli.Block

	terminated bool
	m          *Module // owning module, for the malloc/free opcodes
}

func (b *Block) result(t *Type, v llvalue.Value) *Value { return &Value{Kind: ValResult, Type: t, LL: v} }

// --- memory ---

// Alloca emits a stack-slot allocation for elemType ("alloca/varptr" in the
// opcode taxonomy).
func (b *Block) Alloca(elemType *Type) *Value {
	return b.result(&Type{Kind: KindPointer, LL: lltypes.NewPointer(elemType.LL), Elem: elemType}, b.LL.NewAlloca(elemType.LL))
}

// Load reads through a pointer value.
func (b *Block) Load(elemType *Type, addr *Value) *Value {
	return b.result(elemType, b.LL.NewLoad(elemType.LL, addr.LL))
}

// Store writes val through a pointer value.
func (b *Block) Store(val, addr *Value) {
	b.LL.NewStore(val.LL, addr.LL)
}

// MemberPtr computes the address of struct field index i (the opcode
// taxonomy's "memberptr").
func (b *Block) MemberPtr(structType *Type, addr *Value, i int64) *Value {
	zero := llconstant.NewInt(lltypes.I32, 0)
	idx := llconstant.NewInt(lltypes.I32, i)
	fieldType := structType.Fields[i]
	gep := b.LL.NewGetElementPtr(structType.LL, addr.LL, zero, idx)
	return b.result(&Type{Kind: KindPointer, LL: lltypes.NewPointer(fieldType.LL), Elem: fieldType}, gep)
}

// ArrayPtr computes the address of element index at a fixed-array or
// pointer base (the opcode taxonomy's "arrayptr").
func (b *Block) ArrayPtr(elemType *Type, addr, index *Value) *Value {
	gep := b.LL.NewGetElementPtr(elemType.LL, addr.LL, index.LL)
	return b.result(&Type{Kind: KindPointer, LL: lltypes.NewPointer(elemType.LL), Elem: elemType}, gep)
}

// Malloc emits the `malloc` opcode: a heap allocation sized for one elemType,
// or count of them when count is non-nil, backed by the external C malloc.
func (b *Block) Malloc(elemType *Type, usize *Type, count *Value) *Value {
	sizeOne := b.Sizeof(usize, elemType)
	size := sizeOne
	if count != nil {
		size = b.arith(OpUMul, usize, sizeOne, count)
	}
	raw := b.LL.NewCall(b.m.mallocDecl(), size.LL)
	ptrType := &Type{Kind: KindPointer, LL: lltypes.NewPointer(elemType.LL), Elem: elemType}
	return b.result(ptrType, b.LL.NewBitCast(raw, ptrType.LL))
}

// Free emits the `free` opcode: releases a pointer previously returned by
// Malloc, backed by the external C free.
func (b *Block) Free(ptr *Value) {
	voidPtr := lltypes.NewPointer(lltypes.I8)
	cast := b.LL.NewBitCast(ptr.LL, voidPtr)
	b.LL.NewCall(b.m.freeDecl(), cast)
}

// --- control ---

// Ret emits the function's terminator. val may be nil for a void return.
func (b *Block) Ret(val *Value) {
	if b.terminated {
		return
	}
	if val == nil {
		b.LL.NewRet(nil)
	} else {
		b.LL.NewRet(val.LL)
	}
	b.terminated = true
}

// Br emits an unconditional branch.
func (b *Block) Br(target *Block) {
	if b.terminated {
		return
	}
	b.LL.NewBr(target.LL)
	b.terminated = true
}

// CondBr emits a conditional branch.
func (b *Block) CondBr(cond *Value, then, els *Block) {
	if b.terminated {
		return
	}
	b.LL.NewCondBr(cond.LL, then.LL, els.LL)
	b.terminated = true
}

// Terminated reports whether this block already ends in a terminator.
func (b *Block) Terminated() bool { return b.terminated }

// --- call ---

// Call emits a direct call to a known Function ("call(func_id, args)").
func (b *Block) Call(fn *Function, args []*Value) *Value {
	llargs := make([]llvalue.Value, len(args))
	for i, a := range args {
		llargs[i] = a.LL
	}
	call := b.LL.NewCall(fn.LL, llargs...)
	return b.result(fn.Return, call)
}

// CallAddr emits an indirect call through a function-pointer value
// ("calladdr(value, args)").
func (b *Block) CallAddr(callee *Value, retType *Type, args []*Value) *Value {
	llargs := make([]llvalue.Value, len(args))
	for i, a := range args {
		llargs[i] = a.LL
	}
	call := b.LL.NewCall(callee.LL, llargs...)
	return b.result(retType, call)
}

// --- binary math / logic / comparison ---

// BinOp identifies which family of binary opcode to emit: signed,
// unsigned, or float, per the data model's "distinct opcodes" rule.
type BinOp int

// List of binary IR opcodes.
const (
	OpSAdd BinOp = iota
	OpUAdd
	OpFAdd
	OpSSub
	OpUSub
	OpFSub
	OpSMul
	OpUMul
	OpFMul
	OpSDiv
	OpUDiv
	OpFDiv
	OpSRem
	OpURem
	OpFRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr
)

func (b *Block) arith(op BinOp, t *Type, x, y *Value) *Value {
	var v llvalue.Value
	switch op {
	case OpSAdd, OpUAdd:
		v = b.LL.NewAdd(x.LL, y.LL)
	case OpFAdd:
		v = b.LL.NewFAdd(x.LL, y.LL)
	case OpSSub, OpUSub:
		v = b.LL.NewSub(x.LL, y.LL)
	case OpFSub:
		v = b.LL.NewFSub(x.LL, y.LL)
	case OpSMul, OpUMul:
		v = b.LL.NewMul(x.LL, y.LL)
	case OpFMul:
		v = b.LL.NewFMul(x.LL, y.LL)
	case OpSDiv:
		v = b.LL.NewSDiv(x.LL, y.LL)
	case OpUDiv:
		v = b.LL.NewUDiv(x.LL, y.LL)
	case OpFDiv:
		v = b.LL.NewFDiv(x.LL, y.LL)
	case OpSRem:
		v = b.LL.NewSRem(x.LL, y.LL)
	case OpURem:
		v = b.LL.NewURem(x.LL, y.LL)
	case OpFRem:
		v = b.LL.NewFRem(x.LL, y.LL)
	case OpAnd:
		v = b.LL.NewAnd(x.LL, y.LL)
	case OpOr:
		v = b.LL.NewOr(x.LL, y.LL)
	case OpXor:
		v = b.LL.NewXor(x.LL, y.LL)
	case OpShl:
		v = b.LL.NewShl(x.LL, y.LL)
	case OpLShr:
		v = b.LL.NewLShr(x.LL, y.LL)
	case OpAShr:
		v = b.LL.NewAShr(x.LL, y.LL)
	}
	return b.result(t, v)
}

// Arith emits a binary math/logic opcode chosen by the caller (lower
// selects signed vs. unsigned vs. float based on the operand's IR type
// kind).
func (b *Block) Arith(op BinOp, t *Type, x, y *Value) *Value { return b.arith(op, t, x, y) }

// ICmp emits a signed or unsigned integer comparison.
func (b *Block) ICmp(pred llenum.IPred, boolType *Type, x, y *Value) *Value {
	return b.result(boolType, b.LL.NewICmp(pred, x.LL, y.LL))
}

// FCmp emits a float comparison.
func (b *Block) FCmp(pred llenum.FPred, boolType *Type, x, y *Value) *Value {
	return b.result(boolType, b.LL.NewFCmp(pred, x.LL, y.LL))
}

// --- casts ---

func (b *Block) BitCast(t *Type, v *Value) *Value {
	return b.result(t, b.LL.NewBitCast(v.LL, t.LL))
}
func (b *Block) ZExt(t *Type, v *Value) *Value { return b.result(t, b.LL.NewZExt(v.LL, t.LL)) }
func (b *Block) Trunc(t *Type, v *Value) *Value { return b.result(t, b.LL.NewTrunc(v.LL, t.LL)) }
func (b *Block) SExt(t *Type, v *Value) *Value  { return b.result(t, b.LL.NewSExt(v.LL, t.LL)) }
func (b *Block) FPExt(t *Type, v *Value) *Value { return b.result(t, b.LL.NewFPExt(v.LL, t.LL)) }
func (b *Block) FPTrunc(t *Type, v *Value) *Value {
	return b.result(t, b.LL.NewFPTrunc(v.LL, t.LL))
}
func (b *Block) IntToPtr(t *Type, v *Value) *Value { return b.result(t, b.LL.NewIntToPtr(v.LL, t.LL)) }
func (b *Block) PtrToInt(t *Type, v *Value) *Value { return b.result(t, b.LL.NewPtrToInt(v.LL, t.LL)) }
func (b *Block) FPToUI(t *Type, v *Value) *Value   { return b.result(t, b.LL.NewFPToUI(v.LL, t.LL)) }
func (b *Block) FPToSI(t *Type, v *Value) *Value   { return b.result(t, b.LL.NewFPToSI(v.LL, t.LL)) }
func (b *Block) UIToFP(t *Type, v *Value) *Value   { return b.result(t, b.LL.NewUIToFP(v.LL, t.LL)) }
func (b *Block) SIToFP(t *Type, v *Value) *Value   { return b.result(t, b.LL.NewSIToFP(v.LL, t.LL)) }

// Reinterpret reuses BitCast for the data model's "reinterpret" cast: a
// same-width bit-pattern-preserving type pun.
func (b *Block) Reinterpret(t *Type, v *Value) *Value { return b.BitCast(t, v) }

// IsZero / IsNonZero lower unary `!` and truthiness checks to an integer
// comparison against the zero value of v's type.
func (b *Block) IsZero(boolType *Type, v *Value) *Value {
	zero := llconstant.NewInt(v.Type.LL.(*lltypes.IntType), 0)
	return b.ICmp(llenum.IPredEQ, boolType, v, &Value{Type: v.Type, LL: zero})
}

func (b *Block) IsNonZero(boolType *Type, v *Value) *Value {
	zero := llconstant.NewInt(v.Type.LL.(*lltypes.IntType), 0)
	return b.ICmp(llenum.IPredNE, boolType, v, &Value{Type: v.Type, LL: zero})
}

// --- misc ---

// Negate emits two's-complement negation (0 - v).
func (b *Block) Negate(t *Type, v *Value) *Value {
	zero := &Value{Type: t, LL: llconstant.NewInt(t.LL.(*lltypes.IntType), 0)}
	return b.arith(OpSSub, t, zero, v)
}

// FNegate emits float negation.
func (b *Block) FNegate(t *Type, v *Value) *Value {
	return b.result(t, b.LL.NewFNeg(v.LL))
}

// BitComplement emits bitwise complement (v ^ -1).
func (b *Block) BitComplement(t *Type, v *Value) *Value {
	allOnes := &Value{Type: t, LL: llconstant.NewInt(t.LL.(*lltypes.IntType), -1)}
	return b.arith(OpXor, t, v, allOnes)
}

// VarZeroInit stores a zero value of t's shape into addr, used to
// zero-initialize a freshly allocated stack slot.
func (b *Block) VarZeroInit(t *Type, addr *Value) {
	b.LL.NewStore(llconstant.NewZeroInitializer(t.LL), addr.LL)
}
