package types

import (
	"testing"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

func newTestTable() *Table {
	return NewTable(ir.NewModule("test"))
}

func TestResolvePrimitivesAndPointer(t *testing.T) {
	tbl := newTestTable()

	it, err := tbl.Resolve(ast.Type{ast.Base{Name: "int"}})
	if err != nil || it.Kind != ir.KindS32 {
		t.Fatalf("expected int -> s32, got %v, %v", it, err)
	}

	it, err = tbl.Resolve(ast.Type{ast.Pointer{}, ast.Pointer{}, ast.Base{Name: "ubyte"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Kind != ir.KindPointer || it.Elem.Kind != ir.KindPointer || it.Elem.Elem.Kind != ir.KindU8 {
		t.Fatalf("expected **ubyte to resolve to Pointer(Pointer(U8)), got %+v", it)
	}
}

func TestResolveEmptyTypeIsVoid(t *testing.T) {
	tbl := newTestTable()
	it, err := tbl.Resolve(ast.Type{})
	if err != nil || it.Kind != ir.KindVoid {
		t.Fatalf("expected an empty type to resolve to void, got %v, %v", it, err)
	}
}

func TestResolveUndeclaredTypeFails(t *testing.T) {
	tbl := newTestTable()
	if _, err := tbl.Resolve(ast.Type{ast.Base{Name: "Nope"}}); err == nil {
		t.Fatalf("expected an error resolving an undeclared type name")
	}
}

func TestResolveAliasSubstitution(t *testing.T) {
	tbl := newTestTable()
	tbl.DeclareAlias(&ast.Alias{Name: "MyInt", Type: ast.Type{ast.Base{Name: "int"}}})

	it, err := tbl.Resolve(ast.Type{ast.Base{Name: "MyInt"}})
	if err != nil || it.Kind != ir.KindS32 {
		t.Fatalf("expected alias MyInt to resolve through to s32, got %v, %v", it, err)
	}
}

func TestResolveAliasCycleDetected(t *testing.T) {
	tbl := newTestTable()
	tbl.DeclareAlias(&ast.Alias{Name: "A", Type: ast.Type{ast.Base{Name: "B"}}})
	tbl.DeclareAlias(&ast.Alias{Name: "B", Type: ast.Type{ast.Base{Name: "A"}}})

	if _, err := tbl.Resolve(ast.Type{ast.Base{Name: "A"}}); err == nil {
		t.Fatalf("expected an alias cycle between A and B to be detected")
	}
}

func TestResolveStructFieldsAndStructName(t *testing.T) {
	tbl := newTestTable()
	s := &ast.Struct{Name: "Point", Fields: []ast.Field{
		{Name: "x", Type: ast.Type{ast.Base{Name: "int"}}},
		{Name: "y", Type: ast.Type{ast.Base{Name: "int"}}},
	}}
	tbl.DeclareStruct(s)
	if err := tbl.ResolveStructFields(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	si, ok := tbl.Struct("Point")
	if !ok || si.IR.Kind != ir.KindStructure || len(si.IR.Fields) != 2 {
		t.Fatalf("expected Point to resolve to a 2-field struct, got %+v, %v", si, ok)
	}

	name, ok := tbl.StructName(si.IR)
	if !ok || name != "Point" {
		t.Fatalf("expected StructName to reverse-resolve to Point, got %q, %v", name, ok)
	}
}

func TestModuleTypeTableReduceIsSortedAndDeduped(t *testing.T) {
	m := ir.NewModule("test")
	b := m.Builder
	m.AddTypeTableEntry(ir.TypeTableEntry{Name: "int", Resolved: b.Prim(ir.KindS32)})
	m.AddTypeTableEntry(ir.TypeTableEntry{Name: "bool", Resolved: b.Prim(ir.KindBool)})
	m.AddTypeTableEntry(ir.TypeTableEntry{Name: "int", Resolved: b.Prim(ir.KindS32)}) // dup name, already rejected by AddTypeTableEntry
	m.Reduce()

	if len(m.TypeTable) != 2 {
		t.Fatalf("expected 2 distinct entries after reduction, got %d", len(m.TypeTable))
	}
	for i := 1; i < len(m.TypeTable); i++ {
		if m.TypeTable[i-1].Name >= m.TypeTable[i].Name {
			t.Fatalf("type table not strictly ascending by name: %v", m.TypeTable)
		}
	}
	if idx := m.LookupTypeIndex("bool"); idx != 0 {
		t.Fatalf("expected bool at index 0 after sort, got %d", idx)
	}
	if idx := m.LookupTypeIndex("missing"); idx != -1 {
		t.Fatalf("expected -1 for a name not in the table, got %d", idx)
	}
}
