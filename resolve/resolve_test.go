package resolve

import (
	"testing"

	"github.com/mna/gale/ir"
	"github.com/mna/gale/token"
)

func mapping(b *ir.Builder, name string, params ...*ir.Type) Candidate {
	return Candidate{Mapping: ir.FuncMapping{Name: name, Fn: &ir.Function{Name: name, ParamTypes: params}}}
}

func TestResolveExactMatch(t *testing.T) {
	b := ir.NewBuilder()
	intCand := mapping(b, "g", b.Prim(ir.KindS32))
	intCand.Pos = token.Pos{Offset: 1, Unit: 1}
	dblCand := mapping(b, "g", b.Prim(ir.KindDouble))
	dblCand.Pos = token.Pos{Offset: 2, Unit: 1}

	got, ok := Resolve([]Candidate{intCand, dblCand}, []*ir.Type{b.Prim(ir.KindS32)})
	if !ok || got.Pos != intCand.Pos {
		t.Fatalf("expected the int overload to win, got %+v, %v", got, ok)
	}

	got, ok = Resolve([]Candidate{intCand, dblCand}, []*ir.Type{b.Prim(ir.KindDouble)})
	if !ok || got.Pos != dblCand.Pos {
		t.Fatalf("expected the double overload to win, got %+v, %v", got, ok)
	}
}

func TestResolveTiesBreakByExactCountThenPosition(t *testing.T) {
	b := ir.NewBuilder()
	// Both accept a GenericInt-ish s32 argument by conforming; the first one
	// declared (lowest Pos) should win since neither is an exact match.
	first := mapping(b, "h", b.Prim(ir.KindS64))
	first.Pos = token.Pos{Offset: 10, Unit: 1}
	second := mapping(b, "h", b.Prim(ir.KindDouble))
	second.Pos = token.Pos{Offset: 20, Unit: 1}

	got, ok := Resolve([]Candidate{second, first}, []*ir.Type{b.Prim(ir.KindS32)})
	if !ok || got.Pos != first.Pos {
		t.Fatalf("expected earliest declared candidate to win the tie, got %+v", got)
	}
}

func TestResolveNoCandidateAccepts(t *testing.T) {
	b := ir.NewBuilder()
	c := mapping(b, "k", b.Pointer(b.Prim(ir.KindS8)))
	_, ok := Resolve([]Candidate{c}, []*ir.Type{b.Prim(ir.KindS32)})
	if ok {
		t.Fatalf("expected no conforming candidate")
	}
}

func TestResolveArityMismatchIsSkipped(t *testing.T) {
	b := ir.NewBuilder()
	c := mapping(b, "m", b.Prim(ir.KindS32), b.Prim(ir.KindS32))
	_, ok := Resolve([]Candidate{c}, []*ir.Type{b.Prim(ir.KindS32)})
	if ok {
		t.Fatalf("a candidate with the wrong arity must never be selected")
	}
}

func TestSuggestThresholdAndMatch(t *testing.T) {
	scope := []string{"count", "counter", "total"}
	if got := Suggest("coutn", scope); got != "count" {
		t.Fatalf("expected 'coutn' to suggest 'count', got %q", got)
	}
	if got := Suggest("zzzzzzzzzzzz", scope); got != "" {
		t.Fatalf("expected no suggestion for an unrelated name, got %q", got)
	}
}

func TestLookupOrder(t *testing.T) {
	order := LookupOrder{
		Locals:  [][]string{{"x"}, {"y"}},
		Params:  []string{"y", "z"},
		Globals: []string{"z", "g"},
	}
	if order.Lookup("x") != "local" {
		t.Fatalf("expected x to resolve as local")
	}
	// y is shadowed: it exists in the outer local scope before params are
	// consulted, so it must resolve as local, not param.
	if order.Lookup("y") != "local" {
		t.Fatalf("expected y to resolve as local (shadowing the parameter)")
	}
	if order.Lookup("z") != "param" {
		t.Fatalf("expected z to resolve as param before globals")
	}
	if order.Lookup("g") != "global" {
		t.Fatalf("expected g to resolve as global")
	}
	if order.Lookup("nope") != "" {
		t.Fatalf("expected no match for an undeclared name")
	}
}

func TestSuggestVarSearchesOnlyLocals(t *testing.T) {
	order := LookupOrder{
		Locals:  [][]string{{"count"}},
		Params:  []string{"countt"},
		Globals: []string{"coun"},
	}
	if got := order.SuggestVar("coun"); got != "count" {
		t.Fatalf("expected SuggestVar to only search locals, got %q", got)
	}
}
