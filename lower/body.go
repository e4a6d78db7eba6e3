package lower

import (
	llconstant "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

func (l *Lowerer) lowerBody(fn *ast.Function) {
	irfn := l.funcsByDecl[fn]
	entry := irfn.NewBlock("entry")

	fc := &funcCtx{fn: irfn, root: newScopeSized(nil, len(fn.Params)), retType: irfn.Return, unit: int32(fn.Span().Unit)}

	for i, p := range fn.Params {
		addr := entry.Alloca(irfn.ParamTypes[i])
		entry.Store(irfn.Param(i), addr)
		fc.root.declare(&varSlot{Name: p.Name, IRType: irfn.ParamTypes[i], ASTType: p.Type, Addr: addr})
	}

	last := l.lowerBlockInto(fc, fn.Body, entry, fc.root)

	if !last.Terminated() {
		// The function body's own top-level scope has already unwound its
		// defers by the time lowerBlockInto returns (on its own normal
		// fallthrough path), so only the root (parameter) scope remains.
		l.emitReturn(fc, last, nil, fc.root)
	}
}

// emitReturn conforms val (if any) to the function's return type, unwinds
// every defer and struct-variable __defer__ call from fromScope up to and
// including the function root (parameter) scope, then emits the terminator. A function
// whose declared return is void but whose traits include Main gets an
// implicit `ret s32 0`.
func (l *Lowerer) emitReturn(fc *funcCtx, b *ir.Block, val *ir.Value, fromScope *scope) {
	l.unwindDefers(fc, b, fromScope, nil)

	if fc.retType.Kind == ir.KindVoid {
		b.Ret(nil)
		return
	}
	if val == nil {
		// implicit main return, or a bare `return` in a non-void function
		// (already diagnosed by the caller where applicable)
		zero := &ir.Value{Type: fc.retType, LL: llconstant.NewInt(fc.retType.LL.(*lltypes.IntType), 0)}
		b.Ret(zero)
		return
	}
	b.Ret(val)
}
