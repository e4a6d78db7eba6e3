package lower

import (
	llconstant "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
	"github.com/mna/gale/resolve"
	"github.com/mna/gale/token"
	"github.com/mna/gale/types"
)

// lowerExpr lowers e to the IR value it produces, emitting instructions
// into b as needed.
func (l *Lowerer) lowerExpr(fc *funcCtx, b *ir.Block, e ast.Expr, sc *scope) *ir.Value {
	switch e := e.(type) {
	case *ast.IntLiteral:
		t := l.module.Builder.Prim(intKindForToken(e.Kind))
		return ir.NewLiteral(t, llconstant.NewInt(t.LL.(*lltypes.IntType), e.Value))
	case *ast.GenericIntLiteral:
		t := l.module.Builder.Prim(ir.KindS32)
		return ir.NewLiteral(t, llconstant.NewInt(t.LL.(*lltypes.IntType), e.Value))
	case *ast.FloatLiteral:
		t := l.module.Builder.Prim(floatKindForToken(e.Kind))
		return ir.NewLiteral(t, llconstant.NewFloat(t.LL.(*lltypes.FloatType), e.Value))
	case *ast.GenericFloatLiteral:
		t := l.module.Builder.Prim(ir.KindDouble)
		return ir.NewLiteral(t, llconstant.NewFloat(t.LL.(*lltypes.FloatType), e.Value))
	case *ast.BoolLiteral:
		return ir.NewLiteral(l.module.Bool, llconstant.NewBool(e.Value))
	case *ast.StringLiteral:
		return l.module.CStrOfLen(e.Value)
	case *ast.CStringLiteral:
		return l.module.CStrOfLen(e.Value)
	case *ast.NullLiteral:
		return ir.NewNullPtr(l.module.UsizePtr)
	case *ast.Ident:
		return l.lowerIdent(b, e, sc)
	case *ast.CallExpr:
		return l.lowerCall(fc, b, e, sc)
	case *ast.MethodCallExpr:
		return l.lowerMethodCall(fc, b, e, sc)
	case *ast.MemberExpr:
		addr, elemType := l.lowerMemberAddr(fc, b, e, sc)
		return b.Load(elemType, addr)
	case *ast.AddrOfExpr:
		if !ast.IsLValue(e.Expr) {
			l.ctx.Errorf(e.Span(), "operand of & must be an l-value")
			return l.zeroValue(l.module.UsizePtr)
		}
		addr, _ := l.lowerLValue(fc, b, e.Expr, sc)
		return addr
	case *ast.DerefExpr:
		ptr := l.lowerExpr(fc, b, e.Expr, sc)
		if ptr.Type.Kind != ir.KindPointer {
			l.ctx.Errorf(e.Span(), "cannot dereference a non-pointer value")
			return ptr
		}
		return b.Load(ptr.Type.Elem, ptr)
	case *ast.IndexExpr:
		addr, elemType := l.lowerIndexAddr(fc, b, e, sc)
		return b.Load(elemType, addr)
	case *ast.CastExpr:
		return l.lowerCast(fc, b, e, sc)
	case *ast.SizeofExpr:
		t, err := l.table.Resolve(e.Type)
		if err != nil {
			l.ctx.Errorf(e.Span(), "%s", err)
			t = l.module.Builder.Prim(ir.KindVoid)
		}
		l.recordTypeUse(e.Type)
		return b.Sizeof(l.module.Usize, t)
	case *ast.NewExpr:
		return l.lowerNew(fc, b, e, sc)
	case *ast.FuncAddrExpr:
		return l.lowerFuncAddr(e)
	case *ast.NotExpr:
		v := l.lowerExpr(fc, b, e.Expr, sc)
		v = l.conform(b, types.ConformPrimitives, v, l.module.Bool, e.Span())
		return b.IsZero(l.module.Bool, v)
	case *ast.BinOpExpr:
		return l.lowerBinOp(fc, b, e, sc)
	}
	l.ctx.Internalf(e.Span(), "lower: unhandled expression %T", e)
	return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
}

func intKindForToken(tok token.Token) ir.Kind {
	switch tok {
	case token.INT_B:
		return ir.KindS8
	case token.INT_UB:
		return ir.KindU8
	case token.INT_S:
		return ir.KindS16
	case token.INT_US:
		return ir.KindU16
	case token.INT_I:
		return ir.KindS32
	case token.INT_UI:
		return ir.KindU32
	case token.INT_L:
		return ir.KindS64
	case token.INT_UL:
		return ir.KindU64
	}
	return ir.KindS32
}

func floatKindForToken(tok token.Token) ir.Kind {
	if tok == token.FLOAT_F {
		return ir.KindFloat
	}
	return ir.KindDouble
}

// zeroValue builds a placeholder zero constant of t, used after a
// diagnostic so lowering can keep producing a well-typed tree.
func (l *Lowerer) zeroValue(t *ir.Type) *ir.Value {
	switch {
	case t.Kind == ir.KindVoid:
		return nil
	case t.Kind.IsFloat():
		return ir.NewLiteral(t, llconstant.NewFloat(t.LL.(*lltypes.FloatType), 0))
	case t.Kind.IsInteger() || t.Kind == ir.KindBool:
		return ir.NewLiteral(t, llconstant.NewInt(t.LL.(*lltypes.IntType), 0))
	case t.Kind == ir.KindPointer:
		return ir.NewNullPtr(t)
	}
	return ir.NewLiteral(t, llconstant.NewZeroInitializer(t.LL))
}

// lowerIdent loads the value bound to e.Name, searching locals, then
// module globals, then named constants/enum members, per the fixed lookup
// order.
func (l *Lowerer) lowerIdent(b *ir.Block, e *ast.Ident, sc *scope) *ir.Value {
	if slot := sc.lookup(e.Name); slot != nil {
		return b.Load(slot.IRType, slot.Addr)
	}
	if addr, elemType, ok := l.lookupGlobalAddr(e.Name); ok {
		return b.Load(elemType, addr)
	}
	if v, ok := l.constsByName[e.Name]; ok {
		return v
	}

	order := resolve.LookupOrder{Locals: [][]string{sc.namesInScope()}}
	if suggestion := order.SuggestVar(e.Name); suggestion != "" {
		l.ctx.Errorf(e.Span(), "undeclared identifier %q (did you mean %q?)", e.Name, suggestion)
	} else {
		l.ctx.Errorf(e.Span(), "undeclared identifier %q", e.Name)
	}
	return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
}

// lowerLValue resolves e to the address it denotes and the type stored
// there, for assignment targets, &e, and member/index receivers.
func (l *Lowerer) lowerLValue(fc *funcCtx, b *ir.Block, e ast.Expr, sc *scope) (*ir.Value, *ir.Type) {
	switch e := e.(type) {
	case *ast.Ident:
		if slot := sc.lookup(e.Name); slot != nil {
			return slot.Addr, slot.IRType
		}
		if addr, elemType, ok := l.lookupGlobalAddr(e.Name); ok {
			return addr, elemType
		}
		l.ctx.Errorf(e.Span(), "undeclared identifier %q", e.Name)
		t := l.module.Builder.Prim(ir.KindS32)
		return b.Alloca(t), t
	case *ast.DerefExpr:
		ptr := l.lowerExpr(fc, b, e.Expr, sc)
		if ptr.Type.Kind != ir.KindPointer {
			l.ctx.Errorf(e.Span(), "cannot dereference a non-pointer value")
			t := l.module.Builder.Prim(ir.KindS32)
			return b.Alloca(t), t
		}
		return ptr, ptr.Type.Elem
	case *ast.MemberExpr:
		return l.lowerMemberAddr(fc, b, e, sc)
	case *ast.IndexExpr:
		return l.lowerIndexAddr(fc, b, e, sc)
	}
	l.ctx.Errorf(e.Span(), "expression is not an l-value")
	t := l.module.Builder.Prim(ir.KindS32)
	return b.Alloca(t), t
}

// lowerMemberReceiver resolves recv to the address of the struct it names,
// auto-dereferencing once when recv's own type (or value) is a pointer to
// a struct.
func (l *Lowerer) lowerMemberReceiver(fc *funcCtx, b *ir.Block, recv ast.Expr, sc *scope) (*ir.Value, *ir.Type, bool) {
	if ast.IsLValue(recv) {
		addr, elemType := l.lowerLValue(fc, b, recv, sc)
		if elemType.Kind == ir.KindPointer {
			ptr := b.Load(elemType, addr)
			return ptr, elemType.Elem, true
		}
		return addr, elemType, true
	}

	v := l.lowerExpr(fc, b, recv, sc)
	if v.Type.Kind == ir.KindPointer {
		return v, v.Type.Elem, true
	}
	if v.Type.Kind == ir.KindStructure || v.Type.Kind == ir.KindUnion {
		tmp := b.Alloca(v.Type)
		b.Store(v, tmp)
		return tmp, v.Type, true
	}
	l.ctx.Errorf(recv.Span(), "member access on a value that is not a struct or pointer")
	return nil, nil, false
}

func (l *Lowerer) lookupField(structType *ir.Type, name string) (string, int, *ir.Type, bool) {
	structName, ok := l.table.StructName(structType)
	if !ok {
		return "", 0, nil, false
	}
	si, ok := l.table.Struct(structName)
	if !ok {
		return structName, 0, nil, false
	}
	for i, f := range si.Fields {
		if f == name {
			return structName, i, structType.Fields[i], true
		}
	}
	return structName, 0, nil, false
}

func (l *Lowerer) lowerMemberAddr(fc *funcCtx, b *ir.Block, e *ast.MemberExpr, sc *scope) (*ir.Value, *ir.Type) {
	recvAddr, recvType, ok := l.lowerMemberReceiver(fc, b, e.Recv, sc)
	if !ok {
		t := l.module.Builder.Prim(ir.KindS32)
		return b.Alloca(t), t
	}
	structName, idx, fieldType, ok := l.lookupField(recvType, e.Name)
	if !ok {
		l.ctx.Errorf(e.Span(), "type %s has no field %q", structName, e.Name)
		t := l.module.Builder.Prim(ir.KindS32)
		return b.Alloca(t), t
	}
	return b.MemberPtr(recvType, recvAddr, int64(idx)), fieldType
}

func (l *Lowerer) lowerIndexAddr(fc *funcCtx, b *ir.Block, e *ast.IndexExpr, sc *scope) (*ir.Value, *ir.Type) {
	idx := l.lowerExpr(fc, b, e.Index, sc)
	if !idx.Type.Kind.IsInteger() {
		l.ctx.Errorf(e.Index.Span(), "array index must be an integer")
	}
	idx = l.conform(b, types.ConformPrimitives, idx, l.module.Usize, e.Span())

	if ast.IsLValue(e.Recv) {
		addr, elemType := l.lowerLValue(fc, b, e.Recv, sc)
		switch elemType.Kind {
		case ir.KindFixedArray:
			return b.ArrayPtr(elemType.Elem, addr, idx), elemType.Elem
		case ir.KindPointer:
			ptr := b.Load(elemType, addr)
			return b.ArrayPtr(ptr.Type.Elem, ptr, idx), ptr.Type.Elem
		}
	}
	recv := l.lowerExpr(fc, b, e.Recv, sc)
	if recv.Type.Kind == ir.KindPointer {
		return b.ArrayPtr(recv.Type.Elem, recv, idx), recv.Type.Elem
	}
	l.ctx.Errorf(e.Span(), "cannot index a value that is not a pointer or fixed array")
	t := l.module.Builder.Prim(ir.KindS32)
	return b.Alloca(t), t
}

// conform applies whatever cast instruction (if any) types.Conform selects
// to bring val to target, reporting a diagnostic instead if none applies.
func (l *Lowerer) conform(b *ir.Block, mode types.ConformMode, val *ir.Value, target *ir.Type, pos token.Pos) *ir.Value {
	if val.Type.Equal(target) {
		return val
	}
	cast, ok := types.Conform(mode, val.Type, target)
	if !ok {
		l.ctx.Errorf(pos, "cannot conform a value of type %s to %s", val.Type.Kind, target.Kind)
		return val
	}
	return l.applyCast(b, cast, target, val)
}

func (l *Lowerer) applyCast(b *ir.Block, cast types.Cast, target *ir.Type, val *ir.Value) *ir.Value {
	switch cast.Kind {
	case types.CastNone:
		return val
	case types.CastSExt:
		return b.SExt(target, val)
	case types.CastZExt, types.CastBoolToInt:
		return b.ZExt(target, val)
	case types.CastTrunc:
		return b.Trunc(target, val)
	case types.CastFPExt:
		return b.FPExt(target, val)
	case types.CastFPTrunc:
		return b.FPTrunc(target, val)
	case types.CastSIToFP:
		return b.SIToFP(target, val)
	case types.CastUIToFP:
		return b.UIToFP(target, val)
	case types.CastFPToSI:
		return b.FPToSI(target, val)
	case types.CastFPToUI:
		return b.FPToUI(target, val)
	case types.CastBitcast:
		return b.BitCast(target, val)
	case types.CastPtrToInt:
		return b.PtrToInt(target, val)
	case types.CastIntToPtr:
		return b.IntToPtr(target, val)
	case types.CastIntToBool:
		return b.IsNonZero(l.module.Bool, val)
	}
	return val
}

func (l *Lowerer) lowerCast(fc *funcCtx, b *ir.Block, e *ast.CastExpr, sc *scope) *ir.Value {
	target, err := l.table.Resolve(e.Type)
	if err != nil {
		l.ctx.Errorf(e.Span(), "%s", err)
		target = l.module.Builder.Prim(ir.KindS32)
	}
	l.recordTypeUse(e.Type)

	v := l.lowerExpr(fc, b, e.Expr, sc)
	if v.Type.Equal(target) {
		return v
	}
	cast, ok := types.Conform(types.ConformAll, v.Type, target)
	if !ok {
		l.ctx.Errorf(e.Span(), "cannot cast a value of type %s to %s", v.Type.Kind, target.Kind)
		return v
	}
	return l.applyCast(b, cast, target, v)
}

func (l *Lowerer) lowerNew(fc *funcCtx, b *ir.Block, e *ast.NewExpr, sc *scope) *ir.Value {
	elemType, err := l.table.Resolve(e.Type)
	if err != nil {
		l.ctx.Errorf(e.Span(), "%s", err)
		elemType = l.module.Builder.Prim(ir.KindS32)
	}
	l.recordTypeUse(e.Type)

	var count *ir.Value
	if e.Count != nil {
		count = l.lowerExpr(fc, b, e.Count, sc)
		count = l.conform(b, types.ConformPrimitives, count, l.module.Usize, e.Span())
	} else {
		// No explicit count: new T always goes through the sized-malloc path,
		// with an implicit literal 1 rather than a distinct single-object
		// opcode.
		count = ir.NewLiteral(l.module.Usize, llconstant.NewInt(l.module.Usize.LL.(*lltypes.IntType), 1))
	}
	return b.Malloc(elemType, l.module.Usize, count)
}

func (l *Lowerer) lowerFuncAddr(e *ast.FuncAddrExpr) *ir.Value {
	mappings := l.module.LookupFuncs(e.Name)
	if len(mappings) == 0 {
		l.ctx.Errorf(e.Span(), "undeclared function %q", e.Name)
		return ir.NewNullPtr(l.module.FuncPtr)
	}
	l.ctx.Warningf(e.Span(), "func & does not select by argument types; using the first declaration of %q", e.Name)
	return ir.FuncAddr(mappings[0].Fn)
}

// --- calls ---

func (l *Lowerer) lowerCall(fc *funcCtx, b *ir.Block, e *ast.CallExpr, sc *scope) *ir.Value {
	args := make([]*ir.Value, len(e.Args))
	argTypes := make([]*ir.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = l.lowerExpr(fc, b, a, sc)
		argTypes[i] = args[i].Type
	}

	mappings := l.module.LookupFuncs(e.Callee.Name)
	if len(mappings) == 0 {
		l.ctx.Errorf(e.Span(), "undeclared function %q", e.Callee.Name)
		return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
	}
	chosen, ok := resolve.Resolve(candidatesOf(mappings), argTypes)
	if !ok {
		l.ctx.Errorf(e.Span(), "no overload of %q accepts the given argument types", e.Callee.Name)
		return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
	}

	fn := chosen.Mapping.Fn
	for i, pt := range fn.ParamTypes {
		args[i] = l.conform(b, types.ConformPrimitives, args[i], pt, e.Args[i].Span())
		args[i] = l.passArg(b, args[i], pt, paramPOD(fn, i))
	}
	return b.Call(fn, args)
}

func (l *Lowerer) lowerMethodCall(fc *funcCtx, b *ir.Block, e *ast.MethodCallExpr, sc *scope) *ir.Value {
	recvAddr, recvType, ok := l.lowerMemberReceiver(fc, b, e.Recv, sc)
	if !ok {
		return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
	}

	// A field holding a function pointer is called directly, ahead of
	// method-table lookup (a struct field and a method never share a name in
	// a well-formed program, but the field check comes first regardless).
	if _, idx, fieldType, ok := l.lookupField(recvType, e.Name); ok {
		if fieldType.Kind != ir.KindFuncPtr {
			l.ctx.Errorf(e.Span(), "field %q is not callable", e.Name)
			return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
		}
		fieldAddr := b.MemberPtr(recvType, recvAddr, int64(idx))
		callee := b.Load(fieldType, fieldAddr)
		args := l.lowerArgsFor(fc, b, e.Args, fieldType.Params, sc)
		return b.CallAddr(callee, fieldType.Return, args)
	}

	structName, _ := l.table.StructName(recvType)
	mappings := l.module.LookupMethods(structName, e.Name)
	if len(mappings) == 0 {
		l.ctx.Errorf(e.Span(), "type %s has no method %q", structName, e.Name)
		return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
	}

	// The receiver's address participates in resolution as the implicit
	// first argument, so candidate parameter lists line up with what the
	// call actually passes.
	args := make([]*ir.Value, len(e.Args))
	argTypes := make([]*ir.Type, len(e.Args)+1)
	argTypes[0] = recvAddr.Type
	for i, a := range e.Args {
		args[i] = l.lowerExpr(fc, b, a, sc)
		argTypes[i+1] = args[i].Type
	}
	chosen, ok := resolve.Resolve(candidatesOfMethods(mappings), argTypes)
	if !ok {
		l.ctx.Errorf(e.Span(), "no overload of method %q accepts the given argument types", e.Name)
		return l.zeroValue(l.module.Builder.Prim(ir.KindS32))
	}

	fn := chosen.Mapping.Fn
	callArgs := make([]*ir.Value, 0, len(args)+1)
	callArgs = append(callArgs, recvAddr)
	for i, pt := range fn.ParamTypes[1:] {
		v := l.conform(b, types.ConformPrimitives, args[i], pt, e.Args[i].Span())
		v = l.passArg(b, v, pt, paramPOD(fn, i+1))
		callArgs = append(callArgs, v)
	}
	return b.Call(fn, callArgs)
}

func (l *Lowerer) lowerArgsFor(fc *funcCtx, b *ir.Block, exprs []ast.Expr, params []*ir.Type, sc *scope) []*ir.Value {
	args := make([]*ir.Value, len(exprs))
	for i, a := range exprs {
		v := l.lowerExpr(fc, b, a, sc)
		if i < len(params) {
			v = l.conform(b, types.ConformPrimitives, v, params[i], a.Span())
		}
		args[i] = v
	}
	return args
}

func paramPOD(fn *ir.Function, i int) bool {
	if i < len(fn.ParamPOD) {
		return fn.ParamPOD[i]
	}
	return false
}

func candidatesOf(mappings []ir.FuncMapping) []resolve.Candidate {
	out := make([]resolve.Candidate, len(mappings))
	for i, m := range mappings {
		out[i] = resolve.Candidate{Mapping: m, Pos: token.Pos{Offset: int32(m.ID)}}
	}
	return out
}

func candidatesOfMethods(mappings []ir.MethodMapping) []resolve.Candidate {
	out := make([]resolve.Candidate, len(mappings))
	for i, m := range mappings {
		out[i] = resolve.Candidate{
			Mapping: ir.FuncMapping{Name: m.Name, ID: m.ID, Fn: m.Fn},
			Pos:     token.Pos{Offset: int32(m.ID)},
		}
	}
	return out
}

// --- binary operators ---

func (l *Lowerer) lowerBinOp(fc *funcCtx, b *ir.Block, e *ast.BinOpExpr, sc *scope) *ir.Value {
	lv := l.lowerExpr(fc, b, e.Left, sc)
	rv := l.lowerExpr(fc, b, e.Right, sc)

	if lv.Type.Kind == ir.KindStructure || lv.Type.Kind == ir.KindUnion {
		return l.lowerStructOperator(b, e, lv, rv)
	}

	if target := widerNumeric(lv.Type, rv.Type); target != nil {
		lv = l.conform(b, types.ConformPrimitives, lv, target, e.Span())
		rv = l.conform(b, types.ConformPrimitives, rv, target, e.Span())
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return l.arith(b, e.Op, lv.Type, lv, rv)
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return l.compare(b, e.Op, lv.Type, lv, rv)
	case ast.OpAnd:
		lv = l.conform(b, types.ConformPrimitives, lv, l.module.Bool, e.Span())
		rv = l.conform(b, types.ConformPrimitives, rv, l.module.Bool, e.Span())
		return b.Arith(ir.OpAnd, l.module.Bool, lv, rv)
	case ast.OpOr:
		lv = l.conform(b, types.ConformPrimitives, lv, l.module.Bool, e.Span())
		rv = l.conform(b, types.ConformPrimitives, rv, l.module.Bool, e.Span())
		return b.Arith(ir.OpOr, l.module.Bool, lv, rv)
	}
	l.ctx.Internalf(e.Span(), "lower: unhandled binary operator %s", e.Op)
	return lv
}

// widerNumeric picks the wider of two numeric IR types to conform both
// operands toward, matching integer-promotion semantics; nil means no
// widening is needed (equal types).
func widerNumeric(a, b *ir.Type) *ir.Type {
	if a.Equal(b) {
		return nil
	}
	switch {
	case a.Kind.IsInteger() && b.Kind.IsInteger():
		if types.IntWidth(a.Kind) >= types.IntWidth(b.Kind) {
			return a
		}
		return b
	case a.Kind.IsFloat() && b.Kind.IsFloat():
		if types.FloatWidth(a.Kind) >= types.FloatWidth(b.Kind) {
			return a
		}
		return b
	case a.Kind.IsFloat() && b.Kind.IsInteger():
		return a
	case b.Kind.IsFloat() && a.Kind.IsInteger():
		return b
	}
	return nil
}

func (l *Lowerer) arith(b *ir.Block, op ast.BinOp, t *ir.Type, x, y *ir.Value) *ir.Value {
	var bo ir.BinOp
	switch {
	case t.Kind.IsFloat():
		switch op {
		case ast.OpAdd:
			bo = ir.OpFAdd
		case ast.OpSub:
			bo = ir.OpFSub
		case ast.OpMul:
			bo = ir.OpFMul
		case ast.OpDiv:
			bo = ir.OpFDiv
		case ast.OpMod:
			bo = ir.OpFRem
		}
	case t.Kind.IsSigned():
		switch op {
		case ast.OpAdd:
			bo = ir.OpSAdd
		case ast.OpSub:
			bo = ir.OpSSub
		case ast.OpMul:
			bo = ir.OpSMul
		case ast.OpDiv:
			bo = ir.OpSDiv
		case ast.OpMod:
			bo = ir.OpSRem
		}
	default:
		switch op {
		case ast.OpAdd:
			bo = ir.OpUAdd
		case ast.OpSub:
			bo = ir.OpUSub
		case ast.OpMul:
			bo = ir.OpUMul
		case ast.OpDiv:
			bo = ir.OpUDiv
		case ast.OpMod:
			bo = ir.OpURem
		}
	}
	return b.Arith(bo, t, x, y)
}

// compare emits a comparison opcode chosen by t's kind: float comparisons
// use an ordered float predicate, integer comparisons use signed or
// unsigned predicates by sign; pointers and bool compare as unsigned.
func (l *Lowerer) compare(b *ir.Block, op ast.BinOp, t *ir.Type, x, y *ir.Value) *ir.Value {
	boolT := l.module.Bool
	if t.Kind.IsFloat() {
		return b.FCmp(fpred(op), boolT, x, y)
	}
	if t.Kind.IsSigned() {
		return b.ICmp(ipredSigned(op), boolT, x, y)
	}
	return b.ICmp(ipredUnsigned(op), boolT, x, y)
}

func ipredSigned(op ast.BinOp) llenum.IPred {
	switch op {
	case ast.OpEq:
		return llenum.IPredEQ
	case ast.OpNeq:
		return llenum.IPredNE
	case ast.OpLt:
		return llenum.IPredSLT
	case ast.OpGt:
		return llenum.IPredSGT
	case ast.OpLe:
		return llenum.IPredSLE
	case ast.OpGe:
		return llenum.IPredSGE
	}
	return llenum.IPredEQ
}

func ipredUnsigned(op ast.BinOp) llenum.IPred {
	switch op {
	case ast.OpEq:
		return llenum.IPredEQ
	case ast.OpNeq:
		return llenum.IPredNE
	case ast.OpLt:
		return llenum.IPredULT
	case ast.OpGt:
		return llenum.IPredUGT
	case ast.OpLe:
		return llenum.IPredULE
	case ast.OpGe:
		return llenum.IPredUGE
	}
	return llenum.IPredEQ
}

func fpred(op ast.BinOp) llenum.FPred {
	switch op {
	case ast.OpEq:
		return llenum.FPredOEQ
	case ast.OpNeq:
		return llenum.FPredONE
	case ast.OpLt:
		return llenum.FPredOLT
	case ast.OpGt:
		return llenum.FPredOGT
	case ast.OpLe:
		return llenum.FPredOLE
	case ast.OpGe:
		return llenum.FPredOGE
	}
	return llenum.FPredOEQ
}

// lowerStructOperator dispatches a binary operator applied to a struct or
// union left operand to its management method, since no built-in opcode
// applies to an aggregate operand.
func (l *Lowerer) lowerStructOperator(b *ir.Block, e *ast.BinOpExpr, lv, rv *ir.Value) *ir.Value {
	structName, ok := l.table.StructName(lv.Type)
	if !ok {
		l.ctx.Errorf(e.Span(), "operator %s has no built-in meaning for this aggregate type", e.Op)
		return lv
	}
	methodName := managementOpName(e.Op)
	cands := l.module.LookupMethods(structName, methodName)
	if len(cands) == 0 {
		l.ctx.Errorf(e.Span(), "struct %s declares no %s method for operator %s", structName, methodName, e.Op)
		return lv
	}
	tmp := b.Alloca(lv.Type)
	b.Store(lv, tmp)
	return b.Call(cands[0].Fn, []*ir.Value{tmp, rv})
}
