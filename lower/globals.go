package lower

import (
	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

// declareGlobals resolves every program-scope Enum first, then every
// GlobalVariable and Constant in declaration order, so function bodies
// lowered in pass 2 can reference any of them regardless of textual order.
func (l *Lowerer) declareGlobals(f *ast.File) {
	l.globalsByName = map[string]*ir.Global{}
	l.constsByName = map[string]*ir.Value{}

	for _, d := range f.Decls {
		if e, ok := d.(*ast.Enum); ok {
			l.declareEnum(e)
		}
	}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GlobalVariable:
			l.declareGlobalVar(d)
		case *ast.Constant:
			l.declareConstant(d)
		}
	}
}

func (l *Lowerer) declareGlobalVar(d *ast.GlobalVariable) {
	irType, err := l.table.Resolve(d.Type)
	if err != nil {
		l.ctx.Errorf(d.Span(), "global %s: %s", d.Name, err)
		irType = l.module.Builder.Prim(ir.KindS32)
	}
	l.recordTypeUse(d.Type)

	var init *ir.Value
	if d.Init != nil {
		init = l.constExpr(d.Init, irType)
	}
	g := l.module.NewGlobal(d.Name, irType, init)
	l.globalsByName[d.Name] = g
}

func (l *Lowerer) declareConstant(d *ast.Constant) {
	irType, err := l.table.Resolve(d.Type)
	if err != nil {
		l.ctx.Errorf(d.Span(), "constant %s: %s", d.Name, err)
		irType = l.module.Builder.Prim(ir.KindS32)
	}
	l.constsByName[d.Name] = l.constExpr(d.Value, irType)
}

// declareEnum assigns each member a sequential s32 constant, auto-
// incrementing from the previous member's value when no explicit value is
// given, per the usual enum convention. Members are registered under their
// bare name (the language has no enum-qualified member syntax).
func (l *Lowerer) declareEnum(e *ast.Enum) {
	s32 := l.module.Builder.Prim(ir.KindS32)
	var next int64
	for _, m := range e.Members {
		val := next
		if m.Value != nil {
			if lit, ok := constIntValue(m.Value); ok {
				val = lit
			} else {
				l.ctx.Errorf(e.Span(), "enum %s member %s: value must be a constant integer", e.Name, m.Name)
			}
		}
		l.constsByName[m.Name] = ir.NewLiteral(s32, llconstant.NewInt(s32.LL.(*lltypes.IntType), val))
		next = val + 1
	}
}

func constIntValue(e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case *ast.IntLiteral:
		return e.Value, true
	case *ast.GenericIntLiteral:
		return e.Value, true
	}
	return 0, false
}

// constExpr lowers a compile-time-constant initializer expression to an IR
// value conformed to target. Only the literal forms needed for global and
// constant initializers are supported; anything else is reported as an
// error (the data model does not define a general constant-folding
// evaluator for arbitrary expressions, since the downstream codegen
// collaborator is out of scope).
func (l *Lowerer) constExpr(e ast.Expr, target *ir.Type) *ir.Value {
	switch e := e.(type) {
	case *ast.IntLiteral:
		return l.constIntLiteral(e.Value, target)
	case *ast.GenericIntLiteral:
		return l.constIntLiteral(e.Value, target)
	case *ast.FloatLiteral:
		return ir.NewLiteral(target, llconstant.NewFloat(target.LL.(*lltypes.FloatType), e.Value))
	case *ast.GenericFloatLiteral:
		return ir.NewLiteral(target, llconstant.NewFloat(target.LL.(*lltypes.FloatType), e.Value))
	case *ast.BoolLiteral:
		return ir.NewLiteral(target, llconstant.NewBool(e.Value))
	case *ast.NullLiteral:
		return ir.NewNullPtr(target)
	case *ast.StringLiteral:
		return l.module.CStrOfLen(e.Value)
	case *ast.CStringLiteral:
		return l.module.CStrOfLen(e.Value)
	case *ast.Ident:
		if v, ok := l.constsByName[e.Name]; ok {
			return v
		}
	}
	l.ctx.Errorf(e.Span(), "initializer is not a compile-time constant")
	return ir.NewLiteral(target, llconstant.NewZeroInitializer(target.LL))
}

func (l *Lowerer) constIntLiteral(v int64, target *ir.Type) *ir.Value {
	if target.Kind.IsFloat() {
		return ir.NewLiteral(target, llconstant.NewFloat(target.LL.(*lltypes.FloatType), float64(v)))
	}
	return ir.NewLiteral(target, llconstant.NewInt(target.LL.(*lltypes.IntType), v))
}

// lookupGlobalAddr resolves name to a module global's address Value and its
// element type, or ok=false if name is not a declared global.
func (l *Lowerer) lookupGlobalAddr(name string) (*ir.Value, *ir.Type, bool) {
	g, ok := l.globalsByName[name]
	if !ok {
		return nil, nil, false
	}
	ptrType := &ir.Type{Kind: ir.KindPointer, LL: lltypes.NewPointer(g.Type.LL), Elem: g.Type}
	return &ir.Value{Kind: ir.ValResult, Type: ptrType, LL: g.LL}, g.Type, true
}
