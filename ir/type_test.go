package ir

import "testing"

func TestTypeEqualPrimitives(t *testing.T) {
	b := NewBuilder()
	if !b.Prim(KindS32).Equal(b.Prim(KindS32)) {
		t.Fatalf("two references to the same cached primitive must be equal")
	}
	if b.Prim(KindS32).Equal(b.Prim(KindU32)) {
		t.Fatalf("s32 and u32 must not be structurally equal despite the same bit width")
	}
}

func TestTypeEqualPointerAndFixedArray(t *testing.T) {
	b := NewBuilder()
	p1 := b.Pointer(b.Prim(KindS8))
	p2 := b.Pointer(b.Prim(KindS8))
	if !p1.Equal(p2) {
		t.Fatalf("two pointer-to-s8 types must be structurally equal")
	}
	if p1.Equal(b.Pointer(b.Prim(KindU8))) {
		t.Fatalf("pointer-to-s8 and pointer-to-u8 must not be equal")
	}

	a1 := b.FixedArray(b.Prim(KindS32), 4)
	a2 := b.FixedArray(b.Prim(KindS32), 4)
	if !a1.Equal(a2) {
		t.Fatalf("two [4]s32 types must be structurally equal")
	}
	if a1.Equal(b.FixedArray(b.Prim(KindS32), 5)) {
		t.Fatalf("[4]s32 and [5]s32 must not be equal")
	}
}

func TestTypeEqualStructure(t *testing.T) {
	b := NewBuilder()
	s1 := b.Structure([]*Type{b.Prim(KindS32), b.Prim(KindBool)}, false)
	s2 := b.Structure([]*Type{b.Prim(KindS32), b.Prim(KindBool)}, false)
	if !s1.Equal(s2) {
		t.Fatalf("two structurally identical struct shapes must be equal")
	}
	packed := b.Structure([]*Type{b.Prim(KindS32), b.Prim(KindBool)}, true)
	if s1.Equal(packed) {
		t.Fatalf("packed and unpacked structs with the same fields must not be equal")
	}
	fewer := b.Structure([]*Type{b.Prim(KindS32)}, false)
	if s1.Equal(fewer) {
		t.Fatalf("structs of different field count must not be equal")
	}
}

func TestTypeEqualFuncPtr(t *testing.T) {
	b := NewBuilder()
	f1 := b.FuncPtr([]*Type{b.Prim(KindS32)}, b.Prim(KindBool))
	f2 := b.FuncPtr([]*Type{b.Prim(KindS32)}, b.Prim(KindBool))
	if !f1.Equal(f2) {
		t.Fatalf("two structurally identical function-pointer types must be equal")
	}
	if f1.Equal(b.FuncPtr([]*Type{b.Prim(KindU32)}, b.Prim(KindBool))) {
		t.Fatalf("function pointers differing by parameter type must not be equal")
	}
	if f1.Equal(b.FuncPtr([]*Type{b.Prim(KindS32)}, b.Prim(KindVoid))) {
		t.Fatalf("function pointers differing by return type must not be equal")
	}
}

func TestKindPredicates(t *testing.T) {
	if !KindS32.IsInteger() || !KindU64.IsInteger() {
		t.Fatalf("expected s32 and u64 to be integer kinds")
	}
	if KindBool.IsInteger() {
		t.Fatalf("bool must not be reported as an integer kind")
	}
	if !KindS32.IsSigned() || KindU32.IsSigned() {
		t.Fatalf("signedness predicate mismatch")
	}
	if !KindFloat.IsFloat() || !KindDouble.IsFloat() || !KindHalf.IsFloat() {
		t.Fatalf("expected float/double/half to be float kinds")
	}
	if KindS32.IsFloat() {
		t.Fatalf("s32 must not be a float kind")
	}
}
