package parser

import (
	"testing"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/diag"
	"github.com/mna/gale/lexer"
	"github.com/mna/gale/token"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Context) {
	t.Helper()
	var ss token.SourceSet
	unit := ss.AddSource("test.gale", []byte(src))
	ctx := diag.NewContext(&ss)
	f, ok := Parse(ctx, unit, []byte(src))
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diagnostics())
	}
	return f, ctx
}

func TestParseFuncNamedMain(t *testing.T) {
	f, _ := parse(t, "func main { }\n")
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*ast.Function)
	if !ok || fn.Name != "main" || fn.Traits&ast.TraitMain == 0 {
		t.Fatalf("expected a Function named main with TraitMain set, got %+v", f.Decls[0])
	}
}

// TestParsePrimitiveReturnType covers every built-in scalar type name as a
// function's declared return type: the lexer tokenizes these as dedicated
// keywords (KW_INT, KW_BOOL, ...), not IDENT, so the parser's type-name and
// type-start lookahead must accept both.
func TestParsePrimitiveReturnType(t *testing.T) {
	names := []string{"void", "bool", "byte", "ubyte", "short", "ushort",
		"int", "uint", "long", "ulong", "float", "double", "usize"}
	for _, name := range names {
		f, _ := parse(t, "func f "+name+" { }\n")
		fn, ok := f.Decls[0].(*ast.Function)
		if !ok {
			t.Fatalf("%s: expected a Function decl, got %+v", name, f.Decls[0])
		}
		if len(fn.Return) != 1 {
			t.Fatalf("%s: expected a single-element return type, got %v", name, fn.Return)
		}
		base, ok := fn.Return[0].(ast.Base)
		if !ok || base.Name != name {
			t.Fatalf("%s: expected return type Base{%q}, got %+v", name, name, fn.Return[0])
		}
	}
}

func TestParsePrimitiveParamAndPointerTypes(t *testing.T) {
	f, _ := parse(t, "func f(a int, b *ubyte, c **bool) { }\n")
	fn := f.Decls[0].(*ast.Function)
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if base, ok := fn.Params[0].Type[0].(ast.Base); !ok || base.Name != "int" {
		t.Fatalf("param a: expected Base{int}, got %+v", fn.Params[0].Type)
	}
	if len(fn.Params[1].Type) != 2 {
		t.Fatalf("param b: expected pointer + base, got %+v", fn.Params[1].Type)
	}
	if len(fn.Params[2].Type) != 3 {
		t.Fatalf("param c: expected 2 pointers + base, got %+v", fn.Params[2].Type)
	}
}

func TestParseStructFieldWithPrimitiveType(t *testing.T) {
	f, _ := parse(t, "struct Point {\n  x int\n  y int\n}\n")
	s, ok := f.Decls[0].(*ast.Struct)
	if !ok || len(s.Fields) != 2 {
		t.Fatalf("expected a 2-field struct, got %+v", f.Decls[0])
	}
	for _, field := range s.Fields {
		if base, ok := field.Type[0].(ast.Base); !ok || base.Name != "int" {
			t.Fatalf("field %s: expected Base{int}, got %+v", field.Name, field.Type)
		}
	}
}

func TestParseAliasOfPrimitiveType(t *testing.T) {
	f, _ := parse(t, "alias MyInt = int\n")
	a, ok := f.Decls[0].(*ast.Alias)
	if !ok || a.Name != "MyInt" {
		t.Fatalf("expected an Alias named MyInt, got %+v", f.Decls[0])
	}
	if base, ok := a.Type[0].(ast.Base); !ok || base.Name != "int" {
		t.Fatalf("expected aliased type Base{int}, got %+v", a.Type)
	}
}

func TestParseDeclareStmtWithPrimitiveType(t *testing.T) {
	f, _ := parse(t, "func f {\n  x int = 1\n}\n")
	fn := f.Decls[0].(*ast.Function)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Stmts))
	}
	ds, ok := fn.Body.Stmts[0].(*ast.DeclareStmt)
	if !ok || ds.Name != "x" {
		t.Fatalf("expected a DeclareStmt named x, got %+v", fn.Body.Stmts[0])
	}
	if base, ok := ds.Type[0].(ast.Base); !ok || base.Name != "int" {
		t.Fatalf("expected declared type Base{int}, got %+v", ds.Type)
	}
}

func TestParseCastAndSizeofAndNewWithPrimitiveType(t *testing.T) {
	f, _ := parse(t, "func f {\n  a int = cast int(1)\n  b usize = sizeof int\n  c *int = new int\n}\n")
	fn := f.Decls[0].(*ast.Function)
	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[0].(*ast.DeclareStmt).Init.(*ast.CastExpr); !ok {
		t.Fatalf("expected a cast initializer, got %+v", fn.Body.Stmts[0])
	}
	if _, ok := fn.Body.Stmts[1].(*ast.DeclareStmt).Init.(*ast.SizeofExpr); !ok {
		t.Fatalf("expected a sizeof initializer, got %+v", fn.Body.Stmts[1])
	}
	if _, ok := fn.Body.Stmts[2].(*ast.DeclareStmt).Init.(*ast.NewExpr); !ok {
		t.Fatalf("expected a new initializer, got %+v", fn.Body.Stmts[2])
	}
}

// TestParseLabeledLoop exercises the `name: while cond { }` form feeding
// break/continue-to-label.
func TestParseLabeledLoop(t *testing.T) {
	f, _ := parse(t, "func f {\n  outer: while true {\n    break outer\n  }\n}\n")
	fn := f.Decls[0].(*ast.Function)
	loop, ok := fn.Body.Stmts[0].(*ast.LoopStmt)
	if !ok || loop.Label != "outer" {
		t.Fatalf("expected a LoopStmt labeled outer, got %+v", fn.Body.Stmts[0])
	}
	br, ok := loop.Body.Stmts[0].(*ast.BreakStmt)
	if !ok || br.Label != "outer" {
		t.Fatalf("expected break outer inside the loop, got %+v", loop.Body.Stmts[0])
	}
}

func TestParseForeignFunctionWithPrimitiveSignature(t *testing.T) {
	f, _ := parse(t, "foreign puts(*ubyte) int\n")
	fn, ok := f.Decls[0].(*ast.Function)
	if !ok || fn.Name != "puts" || fn.Traits&ast.TraitForeign == 0 {
		t.Fatalf("expected a foreign Function named puts, got %+v", f.Decls[0])
	}
	if base, ok := fn.Return[0].(ast.Base); !ok || base.Name != "int" {
		t.Fatalf("expected foreign return type Base{int}, got %+v", fn.Return)
	}
}

// TestTypeStringParseRoundTrip checks parse_type(format_type(T)) ≡ T for a
// representative set of written types, including nested pointer/array
// prefixes and a function type.
func TestTypeStringParseRoundTrip(t *testing.T) {
	cases := []ast.Type{
		{ast.Base{Name: "int"}},
		{ast.Pointer{}, ast.Pointer{}, ast.Base{Name: "ubyte"}},
		{ast.FixedArray{Length: 8}, ast.Base{Name: "double"}},
		{ast.Array{}, ast.Base{Name: "bool"}},
		{ast.Pointer{}, ast.FixedArray{Length: 3}, ast.Pointer{}, ast.Base{Name: "Point"}},
		{ast.Func{
			ArgTypes: []ast.Type{{ast.Base{Name: "int"}}, {ast.Pointer{}, ast.Base{Name: "ubyte"}}},
			ArgFlows: []ast.ArgFlow{ast.FlowIn, ast.FlowIn},
			Return:   ast.Type{ast.Base{Name: "long"}},
		}},
	}
	for _, want := range cases {
		src := want.String() + "\n"
		var ss token.SourceSet
		unit := ss.AddSource("t.gale", []byte(src))
		ctx := diag.NewContext(&ss)
		toks := lexer.ScanAll(ctx, unit, []byte(src))
		if ctx.HasErrors() {
			t.Fatalf("%s: lex failed: %v", src, ctx.Diagnostics())
		}
		p := &parser{ctx: ctx, unit: unit, toks: toks}
		p.tok = p.toks[0]
		got := p.parseType()
		if !got.Equal(want) {
			t.Errorf("round trip of %q: got %q", want.String(), got.String())
		}
	}
}

func TestCheckDeclNameRejectsReservedTypeName(t *testing.T) {
	_, ctx := parseExpectFailure(t, "struct ptr { }\n")
	if !ctx.HasErrors() {
		t.Fatalf("expected an error declaring a struct named after a reserved type")
	}
}

func parseExpectFailure(t *testing.T, src string) (*ast.File, *diag.Context) {
	t.Helper()
	var ss token.SourceSet
	unit := ss.AddSource("test.gale", []byte(src))
	ctx := diag.NewContext(&ss)
	f, _ := Parse(ctx, unit, []byte(src))
	return f, ctx
}
