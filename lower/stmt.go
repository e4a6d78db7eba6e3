package lower

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
	"github.com/mna/gale/token"
	"github.com/mna/gale/types"
)

// lowerBlockInto lowers blk's statements into a fresh child scope of parent,
// starting at cur, and returns the block lowering ended on (terminated if
// blk's last reachable statement was a return/break/continue, or fell
// through and had its own scope unwound otherwise).
func (l *Lowerer) lowerBlockInto(fc *funcCtx, blk *ast.Block, cur *ir.Block, parent *scope) *ir.Block {
	return l.lowerBlockIntoScope(fc, blk, cur, newScope(parent))
}

// lowerBlockIntoScope is lowerBlockInto but reuses a caller-supplied scope,
// used by loop bodies so the label stack can reference that exact scope as
// its break/continue unravel point.
func (l *Lowerer) lowerBlockIntoScope(fc *funcCtx, blk *ast.Block, cur *ir.Block, sc *scope) *ir.Block {
	for _, s := range blk.Stmts {
		if cur.Terminated() {
			break
		}
		cur = l.lowerStmt(fc, cur, s, sc)
	}
	if !cur.Terminated() {
		l.unwindOneScope(fc, cur, sc)
	}
	return cur
}

// unwindDefers runs every scope's exit management (user `defer` statements,
// then each struct-typed local's __defer__ call, both in reverse
// declaration order) from fromScope up through its ancestors, stopping
// before toScope. toScope is nil for a return, which unwinds all the way to
// (but not past) the function root.
func (l *Lowerer) unwindDefers(fc *funcCtx, b *ir.Block, fromScope, toScope *scope) {
	for cur := fromScope; cur != nil && cur != toScope; cur = cur.parent {
		l.unwindOneScope(fc, b, cur)
	}
}

// unwindOneScope emits sc's own exit management, without touching ancestors.
func (l *Lowerer) unwindOneScope(fc *funcCtx, b *ir.Block, sc *scope) {
	for i := len(sc.defers) - 1; i >= 0; i-- {
		l.lowerStmt(fc, b, sc.defers[i], sc)
	}
	for i := len(sc.vars) - 1; i >= 0; i-- {
		l.callDeferMethod(b, sc.vars[i])
	}
}

// callDeferMethod emits a __defer__ call for v if v's type is a struct or
// union that declares one; a no-op otherwise.
func (l *Lowerer) callDeferMethod(b *ir.Block, v *varSlot) {
	if v.IRType.Kind != ir.KindStructure && v.IRType.Kind != ir.KindUnion {
		return
	}
	name, ok := l.table.StructName(v.IRType)
	if !ok {
		return
	}
	cands := l.module.LookupMethods(name, "__defer__")
	if len(cands) == 0 {
		return
	}
	b.Call(cands[0].Fn, []*ir.Value{v.Addr})
}

// lowerStmt dispatches one statement and returns the block execution
// continues on (the same block b, unless control-flow lowering opened new
// blocks).
func (l *Lowerer) lowerStmt(fc *funcCtx, b *ir.Block, s ast.Stmt, sc *scope) *ir.Block {
	switch s := s.(type) {
	case *ast.DeclareStmt:
		return l.lowerDeclare(fc, b, s, sc)
	case *ast.AssignStmt:
		return l.lowerAssign(fc, b, s, sc)
	case *ast.ExprStmt:
		l.lowerExpr(fc, b, s.Expr, sc)
		return b
	case *ast.ReturnStmt:
		return l.lowerReturn(fc, b, s, sc)
	case *ast.IfStmt:
		return l.lowerIf(fc, b, s, sc)
	case *ast.LoopStmt:
		return l.lowerLoop(fc, b, s, sc)
	case *ast.BreakStmt:
		return l.lowerBreakContinue(fc, b, s.Pos, s.Label, sc, true)
	case *ast.ContinueStmt:
		return l.lowerBreakContinue(fc, b, s.Pos, s.Label, sc, false)
	case *ast.DeferStmt:
		if containsReturn(s.Stmt) {
			l.ctx.Errorf(s.Span(), "return is not allowed inside a deferred statement")
			return b
		}
		sc.defers = append(sc.defers, s.Stmt)
		return b
	case *ast.DeleteStmt:
		return l.lowerDelete(fc, b, s, sc)
	}
	l.ctx.Internalf(s.Span(), "lower: unhandled statement %T", s)
	return b
}

func (l *Lowerer) lowerDeclare(fc *funcCtx, b *ir.Block, s *ast.DeclareStmt, sc *scope) *ir.Block {
	irType, err := l.table.Resolve(s.Type)
	if err != nil {
		l.ctx.Errorf(s.Span(), "%s: %s", s.Name, err)
		irType = l.module.Builder.Prim(ir.KindS32)
	}
	l.recordTypeUse(s.Type)

	addr := b.Alloca(irType)
	if s.Init != nil {
		val := l.lowerExpr(fc, b, s.Init, sc)
		val = l.conform(b, types.ConformPrimitives, val, irType, s.Span())
		l.storeWithManagement(b, irType, addr, val)
	} else {
		b.VarZeroInit(irType, addr)
	}
	sc.declare(&varSlot{Name: s.Name, IRType: irType, ASTType: s.Type, Addr: addr})
	return b
}

func (l *Lowerer) lowerAssign(fc *funcCtx, b *ir.Block, s *ast.AssignStmt, sc *scope) *ir.Block {
	if !ast.IsLValue(s.Dst) {
		l.ctx.Errorf(s.Span(), "assignment target is not an l-value")
		return b
	}
	addr, elemType := l.lowerLValue(fc, b, s.Dst, sc)
	val := l.lowerExpr(fc, b, s.Value, sc)

	if s.Op != ast.AssignSet {
		cur := b.Load(elemType, addr)
		val = l.conform(b, types.ConformPrimitives, val, elemType, s.Span())
		val = l.arith(b, compoundBinOp(s.Op), elemType, cur, val)
	} else {
		val = l.conform(b, types.ConformPrimitives, val, elemType, s.Span())
	}
	l.storeWithManagement(b, elemType, addr, val)
	return b
}

func compoundBinOp(op ast.AssignOp) ast.BinOp {
	switch op {
	case ast.AssignAdd:
		return ast.OpAdd
	case ast.AssignSub:
		return ast.OpSub
	case ast.AssignMul:
		return ast.OpMul
	case ast.AssignDiv:
		return ast.OpDiv
	case ast.AssignMod:
		return ast.OpMod
	}
	return ast.OpAdd
}

func (l *Lowerer) lowerReturn(fc *funcCtx, b *ir.Block, s *ast.ReturnStmt, sc *scope) *ir.Block {
	var val *ir.Value
	if s.Value != nil {
		val = l.lowerExpr(fc, b, s.Value, sc)
		val = l.conform(b, types.ConformPrimitives, val, fc.retType, s.Span())
	} else if fc.retType.Kind != ir.KindVoid {
		l.ctx.Errorf(s.Span(), "function must return a value of type %s", fc.retType.Kind)
	}
	l.emitReturn(fc, b, val, sc)
	return b
}

func (l *Lowerer) lowerIf(fc *funcCtx, b *ir.Block, s *ast.IfStmt, sc *scope) *ir.Block {
	cond := l.lowerExpr(fc, b, s.Cond, sc)
	cond = l.conform(b, types.ConformPrimitives, cond, l.module.Bool, s.Span())

	thenBlk := fc.fn.NewBlock("then")
	hasElse := s.Else != nil
	var elseBlk *ir.Block
	var mergeBlk *ir.Block
	getMerge := func() *ir.Block {
		if mergeBlk == nil {
			mergeBlk = fc.fn.NewBlock("merge")
		}
		return mergeBlk
	}

	branchElse := elseBlk
	if hasElse {
		elseBlk = fc.fn.NewBlock("else")
		branchElse = elseBlk
	} else {
		branchElse = getMerge()
	}

	if s.Kind == ast.CondUnless {
		b.CondBr(cond, branchElse, thenBlk)
	} else {
		b.CondBr(cond, thenBlk, branchElse)
	}

	thenEnd := l.lowerBlockInto(fc, s.Body, thenBlk, sc)
	if !thenEnd.Terminated() {
		thenEnd.Br(getMerge())
	}
	if hasElse {
		elseEnd := l.lowerBlockInto(fc, s.Else, elseBlk, sc)
		if !elseEnd.Terminated() {
			elseEnd.Br(getMerge())
		}
	}

	if mergeBlk == nil {
		// Both branches terminated (return/break/continue): there is no
		// fallthrough successor. thenEnd is itself terminated, which is all
		// the caller's statement loop needs to see.
		return thenEnd
	}
	return mergeBlk
}

func (l *Lowerer) lowerLoop(fc *funcCtx, b *ir.Block, s *ast.LoopStmt, sc *scope) *ir.Block {
	header := fc.fn.NewBlock("loop.header")
	body := fc.fn.NewBlock("loop.body")
	exit := fc.fn.NewBlock("loop.exit")

	b.Br(header)

	cond := l.lowerExpr(fc, header, s.Cond, sc)
	cond = l.conform(header, types.ConformPrimitives, cond, l.module.Bool, s.Span())
	if s.Kind == ast.CondUntil {
		header.CondBr(cond, exit, body)
	} else {
		header.CondBr(cond, body, exit)
	}

	bodyScope := newScope(sc)
	fc.pushLabel(labelEntry{label: s.Label, breakTo: exit, contTo: header, scope: bodyScope})
	bodyEnd := l.lowerBlockIntoScope(fc, s.Body, body, bodyScope)
	if !bodyEnd.Terminated() {
		bodyEnd.Br(header)
	}
	fc.popLabel()

	return exit
}

func (l *Lowerer) lowerBreakContinue(fc *funcCtx, b *ir.Block, pos token.Pos, label string, sc *scope, isBreak bool) *ir.Block {
	entry, ok := fc.findLabel(label)
	if !ok {
		if label == "" {
			l.ctx.Errorf(pos, "break/continue outside of a loop")
		} else {
			l.ctx.Errorf(pos, "no enclosing loop labeled %q", label)
		}
		return b
	}
	l.unwindDefers(fc, b, sc, entry.scope.parent)
	if isBreak {
		b.Br(entry.breakTo)
	} else {
		b.Br(entry.contTo)
	}
	return b
}

// containsReturn reports whether s is, or transitively contains, a return
// statement.
func containsReturn(s ast.Stmt) bool {
	found := false
	var v ast.VisitorFunc
	v = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if found {
			return nil
		}
		if dir == ast.VisitEnter {
			if _, ok := n.(*ast.ReturnStmt); ok {
				found = true
				return nil
			}
		}
		return v
	}
	ast.Walk(v, s)
	return found
}

func (l *Lowerer) lowerDelete(fc *funcCtx, b *ir.Block, s *ast.DeleteStmt, sc *scope) *ir.Block {
	val := l.lowerExpr(fc, b, s.Value, sc)
	if val.Type.Kind != ir.KindPointer {
		l.ctx.Errorf(s.Span(), "delete requires a pointer operand")
		return b
	}
	b.Free(val)
	return b
}
