package lower

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

// storeWithManagement stores val into addr, routing through elemType's
// __assign__ method when it declares one. A plain `store` instruction is
// itself a legal whole-aggregate copy in the absence of __assign__, serving
// as the "falls back to a raw copy" case.
func (l *Lowerer) storeWithManagement(b *ir.Block, elemType *ir.Type, addr, val *ir.Value) {
	if elemType.Kind == ir.KindStructure || elemType.Kind == ir.KindUnion {
		if name, ok := l.table.StructName(elemType); ok {
			if cands := l.module.LookupMethods(name, "__assign__"); len(cands) > 0 {
				b.Call(cands[0].Fn, []*ir.Value{addr, val})
				return
			}
		}
	}
	b.Store(val, addr)
}

// passArg routes val through paramType's __pass__ method when the parameter
// is struct- or union-typed and not marked POD, per the argument-pass
// management point. Non-aggregate and POD parameters pass through
// unchanged.
func (l *Lowerer) passArg(b *ir.Block, val *ir.Value, paramType *ir.Type, pod bool) *ir.Value {
	if pod {
		return val
	}
	if paramType.Kind != ir.KindStructure && paramType.Kind != ir.KindUnion {
		return val
	}
	name, ok := l.table.StructName(paramType)
	if !ok {
		return val
	}
	cands := l.module.LookupMethods(name, "__pass__")
	if len(cands) == 0 {
		return val
	}
	return b.Call(cands[0].Fn, []*ir.Value{val})
}

// managementOpName maps a binary operator to the management-method name
// looked up when its left operand is a struct or union.
func managementOpName(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "__add__"
	case ast.OpSub:
		return "__subtract__"
	case ast.OpMul:
		return "__multiply__"
	case ast.OpDiv:
		return "__divide__"
	case ast.OpMod:
		return "__modulo__"
	case ast.OpEq:
		return "__equals__"
	case ast.OpNeq:
		return "__not_equals__"
	case ast.OpLt:
		return "__less_than__"
	case ast.OpGt:
		return "__greater_than__"
	case ast.OpLe:
		return "__less_equal__"
	case ast.OpGe:
		return "__greater_equal__"
	}
	return "__op__"
}
