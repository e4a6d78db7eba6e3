// Package types implements conformance, dereference, and alias resolution,
// and the struct/alias/enum declaration table that resolves ast.Type to
// ir.Type. Structural equality is ir.Type.Equal, and the written-type table
// that feeds RTTI emission lives on ir.Module.
package types

import (
	"fmt"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

// StructInfo describes a declared struct: its field names/types in
// declaration order and its resolved IR type.
type StructInfo struct {
	Decl   *ast.Struct
	Fields []string
	IR     *ir.Type
}

// Table resolves ast.Type values to ir.Type, tracking struct, alias and
// enum declarations.
type Table struct {
	b *ir.Builder

	structs map[string]*StructInfo
	aliases map[string]ast.Type
	enums   map[string]*ast.Enum

	module *ir.Module
}

// NewTable creates an empty Table backed by m's type builder.
func NewTable(m *ir.Module) *Table {
	return &Table{
		b:       m.Builder,
		structs: map[string]*StructInfo{},
		aliases: map[string]ast.Type{},
		enums:   map[string]*ast.Enum{},
		module:  m,
	}
}

// DeclareStruct registers s, deferring field IR-type resolution until
// ResolveStructFields (struct bodies may reference other not-yet-declared
// structs by pointer).
func (t *Table) DeclareStruct(s *ast.Struct) {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	t.structs[s.Name] = &StructInfo{Decl: s, Fields: names}
}

// DeclareAlias registers the alias's stored element sequence.
func (t *Table) DeclareAlias(a *ast.Alias) {
	t.aliases[a.Name] = a.Type
}

// DeclareEnum registers e.
func (t *Table) DeclareEnum(e *ast.Enum) {
	t.enums[e.Name] = e
}

// Struct looks up a declared struct by name.
func (t *Table) Struct(name string) (*StructInfo, bool) {
	si, ok := t.structs[name]
	return si, ok
}

// StructName reverse-looks-up the declared struct name whose resolved IR
// type is it, used by lowering to find a value's management methods from
// its IR type alone. Ok is false for a structure/union IR type that does
// not (or not yet) back a declared struct, e.g. an anonymous union shape.
func (t *Table) StructName(it *ir.Type) (string, bool) {
	for name, si := range t.structs {
		if si.IR == it {
			return name, true
		}
	}
	return "", false
}

// Alias returns the stored element sequence of a declared alias by name.
func (t *Table) Alias(name string) (ast.Type, bool) {
	a, ok := t.aliases[name]
	return a, ok
}

// IsEnum reports whether name is a declared enum.
func (t *Table) IsEnum(name string) bool {
	_, ok := t.enums[name]
	return ok
}

// ResolveStructFields resolves every declared struct's field types to IR,
// building each struct's ir.Type. Must run after every struct and alias in
// the translation unit has been declared.
func (t *Table) ResolveStructFields() error {
	for name, si := range t.structs {
		fields := make([]*ir.Type, len(si.Decl.Fields))
		for i, f := range si.Decl.Fields {
			ft, err := t.Resolve(f.Type)
			if err != nil {
				return fmt.Errorf("struct %s field %s: %w", name, f.Name, err)
			}
			fields[i] = ft
		}
		si.IR = t.b.Structure(fields, si.Decl.Packed)
	}
	return nil
}

// Resolve lowers an ast.Type to an ir.Type, substituting alias element
// sequences (with cycle detection) along the way.
func (t *Table) Resolve(at ast.Type) (*ir.Type, error) {
	return t.resolve(at, map[string]bool{})
}

func (t *Table) resolve(at ast.Type, visitingAliases map[string]bool) (*ir.Type, error) {
	if len(at) == 0 {
		return t.b.Prim(ir.KindVoid), nil
	}
	switch e := at[0].(type) {
	case ast.Pointer:
		inner, err := t.resolve(at[1:], visitingAliases)
		if err != nil {
			return nil, err
		}
		return t.b.Pointer(inner), nil
	case ast.Array:
		inner, err := t.resolve(at[1:], visitingAliases)
		if err != nil {
			return nil, err
		}
		return t.b.Pointer(inner), nil
	case ast.FixedArray:
		inner, err := t.resolve(at[1:], visitingAliases)
		if err != nil {
			return nil, err
		}
		return t.b.FixedArray(inner, e.Length), nil
	case ast.GenericInt:
		return t.b.Prim(ir.KindS32), nil
	case ast.GenericFloat:
		return t.b.Prim(ir.KindDouble), nil
	case ast.Func:
		params := make([]*ir.Type, len(e.ArgTypes))
		for i, at := range e.ArgTypes {
			pt, err := t.Resolve(at)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		ret, err := t.Resolve(e.Return)
		if err != nil {
			return nil, err
		}
		return t.b.FuncPtr(params, ret), nil
	case ast.Base:
		return t.resolveBase(e.Name, visitingAliases)
	}
	return nil, fmt.Errorf("unknown type element %T", at[0])
}

func (t *Table) resolveBase(name string, visiting map[string]bool) (*ir.Type, error) {
	if k, ok := primitiveKind(name); ok {
		return t.b.Prim(k), nil
	}
	if name == "ptr" {
		// the raw pointer type, equivalent to a written *ubyte
		return t.b.Pointer(t.b.Prim(ir.KindU8)), nil
	}
	if si, ok := t.structs[name]; ok {
		if si.IR == nil {
			return nil, fmt.Errorf("struct %s field types not yet resolved", name)
		}
		return si.IR, nil
	}
	if aliased, ok := t.aliases[name]; ok {
		if visiting[name] {
			return nil, fmt.Errorf("alias cycle detected at %q", name)
		}
		visiting[name] = true
		return t.resolve(aliased, visiting)
	}
	if t.IsEnum(name) {
		return t.b.Prim(ir.KindS32), nil
	}
	return nil, fmt.Errorf("undeclared type %q", name)
}

func primitiveKind(name string) (ir.Kind, bool) {
	switch name {
	case "void":
		return ir.KindVoid, true
	case "bool":
		return ir.KindBool, true
	case "byte":
		return ir.KindS8, true
	case "ubyte":
		return ir.KindU8, true
	case "short":
		return ir.KindS16, true
	case "ushort":
		return ir.KindU16, true
	case "int":
		return ir.KindS32, true
	case "uint":
		return ir.KindU32, true
	case "long":
		return ir.KindS64, true
	case "ulong":
		return ir.KindU64, true
	case "float":
		return ir.KindFloat, true
	case "double":
		return ir.KindDouble, true
	case "usize":
		return ir.KindU64, true
	}
	return 0, false
}

// Deref yields T by removing the leading Pointer element of *T. A Type
// with no elements is treated as void and has no dereference.
func Deref(t ast.Type) (ast.Type, bool) {
	if len(t) == 0 {
		return nil, false
	}
	if _, ok := t[0].(ast.Pointer); !ok {
		return nil, false
	}
	return t[1:], true
}
