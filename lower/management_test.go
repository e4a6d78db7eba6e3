package lower_test

import (
	"testing"

	llir "github.com/llir/llvm/ir"
)

// TestLowerDeferMethodReverseDeclarationOrder checks the scope-exit
// management point: each stack variable of a struct type declaring
// __defer__ gets a call on scope exit, in reverse declaration order.
func TestLowerDeferMethodReverseDeclarationOrder(t *testing.T) {
	src := "struct S {\n" +
		"    v int\n" +
		"}\n" +
		"func __defer__(this *S) {\n" +
		"}\n" +
		"func f {\n" +
		"    a S\n" +
		"    b S\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	deferFn := mod.LookupMethods("S", "__defer__")[0].Fn
	fFn := mod.LookupFuncs("f")[0].Fn
	blk := fFn.Blocks[0]

	var allocas []*llir.InstAlloca
	var deferCalls []*llir.InstCall
	for _, inst := range blk.LL.Insts {
		switch inst := inst.(type) {
		case *llir.InstAlloca:
			allocas = append(allocas, inst)
		case *llir.InstCall:
			if fn, ok := inst.Callee.(*llir.Func); ok && fn == deferFn.LL {
				deferCalls = append(deferCalls, inst)
			}
		}
	}
	if len(allocas) != 2 {
		t.Fatalf("expected two stack slots (a, b), got %d", len(allocas))
	}
	if len(deferCalls) != 2 {
		t.Fatalf("expected two __defer__ calls, got %d", len(deferCalls))
	}
	// b was declared last, so its __defer__ runs first.
	if deferCalls[0].Args[0] != allocas[1] {
		t.Errorf("first __defer__ call must receive b's slot")
	}
	if deferCalls[1].Args[0] != allocas[0] {
		t.Errorf("second __defer__ call must receive a's slot")
	}
}

// TestLowerPassMethodWrapsArgument checks the argument-pass management
// point: a struct-typed argument routes through __pass__ before the call,
// and the callee receives the __pass__ result.
func TestLowerPassMethodWrapsArgument(t *testing.T) {
	src := "struct S {\n" +
		"    v int\n" +
		"}\n" +
		"func __pass__(this S) S {\n" +
		"    return this\n" +
		"}\n" +
		"func takes(x S) {\n" +
		"}\n" +
		"func f {\n" +
		"    a S\n" +
		"    takes(a)\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	passFn := mod.LookupMethods("S", "__pass__")[0].Fn
	takesFn := mod.LookupFuncs("takes")[0].Fn
	fFn := mod.LookupFuncs("f")[0].Fn

	var passCall, takesCall *llir.InstCall
	for _, c := range callArgs(fFn.Blocks[0]) {
		fn, ok := c.Callee.(*llir.Func)
		if !ok {
			continue
		}
		switch fn {
		case passFn.LL:
			passCall = c
		case takesFn.LL:
			takesCall = c
		}
	}
	if passCall == nil {
		t.Fatalf("expected the argument to route through __pass__")
	}
	if takesCall == nil {
		t.Fatalf("expected a call to takes")
	}
	if takesCall.Args[0] != passCall {
		t.Errorf("takes must receive the __pass__ result, got %T", takesCall.Args[0])
	}
}

// TestLowerAssignMethodReplacesStore checks the assignment management
// point: assigning to a struct variable whose type declares __assign__
// emits a call instead of a raw store.
func TestLowerAssignMethodReplacesStore(t *testing.T) {
	src := "struct S {\n" +
		"    v int\n" +
		"}\n" +
		"func __assign__(this *S, src S) {\n" +
		"}\n" +
		"func f {\n" +
		"    a S\n" +
		"    b S\n" +
		"    a = b\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	assignFn := mod.LookupMethods("S", "__assign__")[0].Fn
	fFn := mod.LookupFuncs("f")[0].Fn

	var assignCall *llir.InstCall
	for _, c := range callArgs(fFn.Blocks[0]) {
		if fn, ok := c.Callee.(*llir.Func); ok && fn == assignFn.LL {
			assignCall = c
			break
		}
	}
	if assignCall == nil {
		t.Fatalf("expected a = b to route through __assign__")
	}
	if len(assignCall.Args) != 2 {
		t.Fatalf("__assign__ must receive (dst, src), got %d args", len(assignCall.Args))
	}
}

// TestLowerStructOperatorMethod checks the binary-operator fallback: a +
// applied to struct operands dispatches to __add__.
func TestLowerStructOperatorMethod(t *testing.T) {
	src := "struct S {\n" +
		"    v int\n" +
		"}\n" +
		"func __add__(this *S, other S) S {\n" +
		"    return other\n" +
		"}\n" +
		"func f {\n" +
		"    a S\n" +
		"    b S\n" +
		"    c S = a + b\n" +
		"}\n"
	ctx, mod := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics())
	}

	addFn := mod.LookupMethods("S", "__add__")[0].Fn
	fFn := mod.LookupFuncs("f")[0].Fn
	found := false
	for _, c := range callArgs(fFn.Blocks[0]) {
		if fn, ok := c.Callee.(*llir.Func); ok && fn == addFn.LL {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a + b on struct operands to call __add__")
	}
}
