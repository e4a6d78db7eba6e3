// Package lower implements AST → IR lowering: function skeletons then
// bodies, scoped variable slots, the defer stack, the label stack,
// control-flow lowering, management-method insertion, and RTTI table
// emission.
package lower

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/diag"
	"github.com/mna/gale/ir"
	"github.com/mna/gale/types"
)

// Lowerer drives the two-pass AST-to-IR translation for one translation
// unit's declarations.
type Lowerer struct {
	ctx    *diag.Context
	table  *types.Table
	module *ir.Module

	funcsByDecl  map[*ast.Function]*ir.Function
	globalsByName map[string]*ir.Global
	constsByName  map[string]*ir.Value
}

// New creates a Lowerer writing into module, resolving types through
// table, and reporting diagnostics on ctx.
func New(ctx *diag.Context, table *types.Table, module *ir.Module) *Lowerer {
	return &Lowerer{ctx: ctx, table: table, module: module, funcsByDecl: map[*ast.Function]*ir.Function{}}
}

// Lower runs both passes over f's declarations: pass 1 resolves every
// function signature and fills the function/method mapping indices; pass 2
// lowers each function body.
func (l *Lowerer) Lower(f *ast.File) {
	l.declareTypes(f)
	if err := l.table.ResolveStructFields(); err != nil {
		l.ctx.Errorf(f.Span(), "%s", err)
		return
	}
	l.declareGlobals(f)

	var funcs []*ast.Function
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.Function); ok {
			funcs = append(funcs, fn)
			l.skeleton(fn)
		}
	}
	for _, fn := range funcs {
		if fn.Body != nil {
			l.lowerBody(fn)
		}
	}

	if !l.ctx.NoTypeInfo {
		l.emitRTTI()
	} else {
		l.emitNullRTTI()
	}
}

func (l *Lowerer) declareTypes(f *ast.File) {
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.Struct:
			l.table.DeclareStruct(d)
		case *ast.Alias:
			l.table.DeclareAlias(d)
		case *ast.Enum:
			l.table.DeclareEnum(d)
		}
	}
}

// skeleton resolves fn's signature and registers it in the function or
// method mapping, sorted for later binary search. A function named "main"
// with a declared void return is lowered to return s32 (with an implicit
// `ret 0`).
func (l *Lowerer) skeleton(fn *ast.Function) {
	paramTypes := make([]*ir.Type, len(fn.Params))
	paramNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := l.table.Resolve(p.Type)
		if err != nil {
			l.ctx.Errorf(fn.Span(), "parameter %s: %s", p.Name, err)
			pt = l.module.Builder.Prim(ir.KindS32)
		}
		paramTypes[i] = pt
		paramNames[i] = p.Name
	}

	retType, err := l.table.Resolve(fn.Return)
	if err != nil {
		l.ctx.Errorf(fn.Span(), "return type: %s", err)
		retType = l.module.Builder.Prim(ir.KindVoid)
	}
	if fn.Traits.Has(ast.TraitMain) && retType.Kind == ir.KindVoid {
		retType = l.module.Builder.Prim(ir.KindS32)
	}

	irfn := l.module.NewFunction(fn.Name, paramNames, paramTypes, retType, uint8(fn.Traits))
	irfn.ParamPOD = make([]bool, len(fn.Params))
	for i, p := range fn.Params {
		irfn.ParamPOD[i] = p.POD
	}
	l.funcsByDecl[fn] = irfn

	if recv := fn.ReceiverType(); recv != "" {
		l.module.AddMethodMapping(recv, fn.Name, irfn)
	} else {
		l.module.AddFuncMapping(fn.Name, irfn)
	}

	for _, at := range astArgTypes(fn) {
		l.recordTypeUse(at)
	}
}

// recordTypeUse appends a written type to the module's type table, which
// accumulates each distinct written type encountered during lowering.
func (l *Lowerer) recordTypeUse(at ast.Type) {
	name, ok := baseName(at)
	if !ok {
		return
	}
	resolved, err := l.table.Resolve(at)
	if err != nil {
		return
	}
	_, isAlias := l.table.Alias(name)
	if len(at) > 1 {
		// a type with pointer/array prefixes is its own record, distinct
		// from the record of its bare base name
		name, isAlias = at.String(), false
	}
	l.module.AddTypeTableEntry(ir.TypeTableEntry{Name: name, Resolved: resolved, IsAlias: isAlias})
}

func astArgTypes(fn *ast.Function) []ast.Type {
	out := make([]ast.Type, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		out = append(out, p.Type)
	}
	out = append(out, fn.Return)
	return out
}

func baseName(t ast.Type) (string, bool) {
	for _, e := range t {
		if b, ok := e.(ast.Base); ok {
			return b.Name, true
		}
	}
	return "", false
}
