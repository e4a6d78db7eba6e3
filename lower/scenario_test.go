package lower_test

import (
	"testing"

	llir "github.com/llir/llvm/ir"
	llconstant "github.com/llir/llvm/ir/constant"

	"github.com/mna/gale/ir"
)

// TestLowerHelloWorldCall checks the hello-world shape: a foreign puts and a
// main calling it with a cstring literal. main must contain a single call
// passing the shared "hi" constant (content length 2, NUL not counted),
// followed by the implicit `ret s32 0`.
func TestLowerHelloWorldCall(t *testing.T) {
	ctx, mod := compile(t, "foreign puts(*ubyte) int\nfunc main { puts('hi') }\n")
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	if got := len(mod.Funcs); got != 2 {
		t.Fatalf("expected two functions (puts, main), got %d", got)
	}
	putsFn := mod.LookupFuncs("puts")[0].Fn
	mainFn := mod.LookupFuncs("main")[0].Fn
	if len(mainFn.Blocks) != 1 {
		t.Fatalf("expected main to lower to a single block, got %d", len(mainFn.Blocks))
	}
	blk := mainFn.Blocks[0]

	calls := callArgs(blk)
	if len(calls) != 1 {
		t.Fatalf("expected exactly one call in main, got %d", len(calls))
	}
	call := calls[0]
	if fn, ok := call.Callee.(*llir.Func); !ok || fn != putsFn.LL {
		t.Fatalf("the call must target puts")
	}
	hi := mod.CStrOfLen("hi")
	if hi.StrLen != 2 {
		t.Fatalf("expected the 'hi' literal to report content length 2, got %d", hi.StrLen)
	}
	if len(call.Args) != 1 || call.Args[0] != hi.LL {
		t.Fatalf("the call must pass the shared \"hi\" constant")
	}

	ret, ok := blk.LL.Term.(*llir.TermRet)
	if !ok {
		t.Fatalf("main's block must end in ret, got %T", blk.LL.Term)
	}
	c, ok := ret.X.(*llconstant.Int)
	if !ok || c.X.Int64() != 0 {
		t.Fatalf("main must return the implicit s32 0, got %v", ret.X)
	}
}

// TestLowerIntegerPromotion checks that in
// `func add(a int, b long) long { return a + b }`, the narrower operand is
// sign-extended to s64 before the add, and the block ends in ret.
func TestLowerIntegerPromotion(t *testing.T) {
	ctx, mod := compile(t, "func add(a int, b long) long { return a + b }\n")
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	fn := mod.LookupFuncs("add")[0].Fn
	if fn.Return.Kind != ir.KindS64 {
		t.Fatalf("expected add to return s64, got %v", fn.Return.Kind)
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected add to lower to a single block, got %d", len(fn.Blocks))
	}
	blk := fn.Blocks[0]

	sextIdx, addIdx := -1, -1
	var sext *llir.InstSExt
	for i, inst := range blk.LL.Insts {
		switch inst := inst.(type) {
		case *llir.InstSExt:
			if sextIdx == -1 {
				sextIdx, sext = i, inst
			}
		case *llir.InstAdd:
			addIdx = i
		}
	}
	if sextIdx == -1 {
		t.Fatalf("expected a sext instruction widening the int operand")
	}
	if addIdx == -1 {
		t.Fatalf("expected an add instruction")
	}
	if sextIdx > addIdx {
		t.Fatalf("the sext must precede the add (sext at %d, add at %d)", sextIdx, addIdx)
	}
	if _, ok := sext.From.(*llir.InstLoad); !ok {
		t.Fatalf("the sext operand must be the load of parameter a, got %T", sext.From)
	}
	if _, ok := blk.LL.Term.(*llir.TermRet); !ok {
		t.Fatalf("add's block must end in ret, got %T", blk.LL.Term)
	}
}

// TestLowerOverloadCallsPickDistinctCallees checks overload binding at
// the call sites: g(1) must bind to g(int) and g(1.0) to g(double), so the
// two call instructions in main target distinct functions in mapping order.
func TestLowerOverloadCallsPickDistinctCallees(t *testing.T) {
	src := "func g(x int) { }\n" +
		"func g(x double) { }\n" +
		"func main {\n" +
		"    g(1)\n" +
		"    g(1.0)\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	mappings := mod.LookupFuncs("g")
	if len(mappings) != 2 {
		t.Fatalf("expected two overloads of g, got %d", len(mappings))
	}
	intFn, dblFn := mappings[0].Fn, mappings[1].Fn
	if intFn.ParamTypes[0].Kind != ir.KindS32 {
		intFn, dblFn = dblFn, intFn
	}

	mainFn := mod.LookupFuncs("main")[0].Fn
	calls := callArgs(mainFn.Blocks[0])
	if len(calls) != 2 {
		t.Fatalf("expected two calls in main, got %d", len(calls))
	}
	if fn, ok := calls[0].Callee.(*llir.Func); !ok || fn != intFn.LL {
		t.Fatalf("g(1) must resolve to the int overload")
	}
	if fn, ok := calls[1].Callee.(*llir.Func); !ok || fn != dblFn.LL {
		t.Fatalf("g(1.0) must resolve to the double overload")
	}
}

// TestLowerMethodThroughPointerAutoDeref checks that calling
// a method through a pointer variable loads the pointer once and passes it
// as the receiver, with no additional dereference.
func TestLowerMethodThroughPointerAutoDeref(t *testing.T) {
	src := "struct S {\n" +
		"    v int\n" +
		"}\n" +
		"func bump(this *S) {\n" +
		"    this.v += 1\n" +
		"}\n" +
		"func main {\n" +
		"    p *S = new S\n" +
		"    p.bump()\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	methods := mod.LookupMethods("S", "bump")
	if len(methods) != 1 {
		t.Fatalf("expected bump to register as a method of S, got %d mappings", len(methods))
	}
	bumpFn := methods[0].Fn

	mainFn := mod.LookupFuncs("main")[0].Fn
	if len(mainFn.Blocks) != 1 {
		t.Fatalf("expected main to lower to a single block, got %d", len(mainFn.Blocks))
	}

	var bumpCall *llir.InstCall
	for _, c := range callArgs(mainFn.Blocks[0]) {
		if fn, ok := c.Callee.(*llir.Func); ok && fn == bumpFn.LL {
			bumpCall = c
			break
		}
	}
	if bumpCall == nil {
		t.Fatalf("expected main to call bump")
	}
	if len(bumpCall.Args) != 1 {
		t.Fatalf("expected the method call to pass only the receiver, got %d args", len(bumpCall.Args))
	}
	if _, ok := bumpCall.Args[0].(*llir.InstLoad); !ok {
		t.Fatalf("the receiver must be the single implicit load of p, got %T", bumpCall.Args[0])
	}
}
