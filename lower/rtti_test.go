package lower_test

import (
	"testing"

	llconstant "github.com/llir/llvm/ir/constant"

	"github.com/mna/gale/diag"
	"github.com/mna/gale/ir"
	"github.com/mna/gale/lower"
	"github.com/mna/gale/parser"
	"github.com/mna/gale/token"
	"github.com/mna/gale/types"
)

func globalsByName(mod *ir.Module) map[string]*ir.Global {
	out := make(map[string]*ir.Global, len(mod.Globals))
	for _, g := range mod.Globals {
		out[g.Name] = g
	}
	return out
}

// TestRTTIGlobalsEmitted checks that lowering always emits the four
// distinguished RTTI globals, even for a module whose type table is empty.
func TestRTTIGlobalsEmitted(t *testing.T) {
	ctx, mod := compile(t, "func main { }\n")
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	globals := globalsByName(mod)
	for _, name := range []string{"__types__", "__types_length__", "__type_kinds__", "__type_kinds_length__"} {
		if globals[name] == nil {
			t.Errorf("missing RTTI global %s", name)
		}
	}
}

// TestRTTITableCountsWrittenTypes checks the reduced table is strictly
// ascending by name and its length flows into __types_length__.
func TestRTTITableCountsWrittenTypes(t *testing.T) {
	ctx, mod := compile(t, "func f(a int, b long) long { return b }\n")
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	if len(mod.TypeTable) != 2 {
		t.Fatalf("expected the written types int and long in the table, got %d entries", len(mod.TypeTable))
	}
	for i := 1; i < len(mod.TypeTable); i++ {
		if mod.TypeTable[i-1].Name >= mod.TypeTable[i].Name {
			t.Fatalf("reduced type table not strictly ascending: %v", mod.TypeTable)
		}
	}
	if mod.LookupTypeIndex("int") != 0 || mod.LookupTypeIndex("long") != 1 {
		t.Fatalf("expected binary-search lookup to find the canonical indices")
	}

	length := globalsByName(mod)["__types_length__"]
	if length == nil || length.Init == nil {
		t.Fatalf("expected __types_length__ to carry an initializer")
	}
	c, ok := length.Init.LL.(*llconstant.Int)
	if !ok || c.X.Int64() != 2 {
		t.Fatalf("expected __types_length__ = 2, got %v", length.Init)
	}
}

// TestNoTypeInfoEmitsNullRTTI checks the no-type-info switch: the four
// globals are still declared, initialized to null/0, and no table is built.
func TestNoTypeInfoEmitsNullRTTI(t *testing.T) {
	src := "func f(a int) { }\n"
	var ss token.SourceSet
	unit := ss.AddSource("test.gale", []byte(src))
	ctx := diag.NewContext(&ss)
	ctx.NoTypeInfo = true

	f, ok := parser.Parse(ctx, unit, []byte(src))
	if !ok {
		t.Fatalf("parse failed: %v", ctx.Diagnostics())
	}
	mod := ir.NewModule("test")
	table := types.NewTable(mod)
	lower.New(ctx, table, mod).Lower(f)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	globals := globalsByName(mod)
	typesG := globals["__types__"]
	if typesG == nil || typesG.Init == nil {
		t.Fatalf("expected __types__ to be declared with a null initializer")
	}
	if _, ok := typesG.Init.LL.(*llconstant.Null); !ok {
		t.Fatalf("expected __types__ initializer to be null, got %T", typesG.Init.LL)
	}
	length := globals["__types_length__"]
	c, ok := length.Init.LL.(*llconstant.Int)
	if !ok || c.X.Int64() != 0 {
		t.Fatalf("expected __types_length__ = 0 under no-type-info, got %v", length.Init)
	}
}
