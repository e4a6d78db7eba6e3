package token

import "testing"

func TestKeywordTableIsSortedAndContiguous(t *testing.T) {
	if len(kwNames) != 48 {
		t.Fatalf("expected exactly 48 keywords, got %d", len(kwNames))
	}
	for i := 1; i < len(kwNames); i++ {
		if kwNames[i-1] >= kwNames[i] {
			t.Fatalf("keyword table not sorted: %q >= %q", kwNames[i-1], kwNames[i])
		}
	}
	for i, name := range kwNames {
		want := kwBase + Token(i)
		if got := LookupKw(name); got != want {
			t.Errorf("LookupKw(%q) = %d, want %d (base+index)", name, got, want)
		}
	}
}

func TestLookupKwNonKeyword(t *testing.T) {
	if got := LookupKw("notakeyword"); got != IDENT {
		t.Errorf("expected IDENT for a non-keyword identifier, got %v", got)
	}
}

func TestTokenStringKnown(t *testing.T) {
	cases := map[Token]string{
		PLUS: "+", LBRACE: "{", KW_FUNC: "func", EOF: "end of file",
	}
	for tok, want := range cases {
		if got := tok.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", tok, got, want)
		}
	}
}

func TestTokenGoStringQuotesPunctuationAndKeywords(t *testing.T) {
	if got := KW_FUNC.GoString(); got != "'func'" {
		t.Errorf("GoString() of a keyword should be quoted, got %q", got)
	}
	if got := PLUS.GoString(); got != "'+'" {
		t.Errorf("GoString() of punctuation should be quoted, got %q", got)
	}
	if got := IDENT.GoString(); got != "identifier" {
		t.Errorf("GoString() of a literal kind should not be quoted, got %q", got)
	}
}

func TestIsBinopAndIsAssignOp(t *testing.T) {
	if !PLUS.IsBinop() || !KW_AND.IsBinop() || !ANDAND.IsBinop() {
		t.Errorf("expected +, 'and', && to be recognized as binops")
	}
	if NOT.IsBinop() || ASSIGN.IsBinop() {
		t.Errorf("! and = must not be binops")
	}
	if !ASSIGN.IsAssignOp() || !PLUS_EQ.IsAssignOp() {
		t.Errorf("expected = and += to be assignment operators")
	}
	if PLUS.IsAssignOp() {
		t.Errorf("+ must not be an assignment operator")
	}
}

func TestIsTypeKeyword(t *testing.T) {
	for _, tok := range []Token{KW_VOID, KW_BOOL, KW_INT, KW_USIZE, KW_UBYTE} {
		if !tok.IsTypeKeyword() {
			t.Errorf("expected %v to be a type keyword", tok)
		}
	}
	for _, tok := range []Token{IDENT, KW_FUNC, KW_STRUCT, KW_MAIN} {
		if tok.IsTypeKeyword() {
			t.Errorf("expected %v not to be a type keyword", tok)
		}
	}
}

func TestIsReservedTypeName(t *testing.T) {
	for _, name := range []string{"void", "bool", "usize", "ptr"} {
		if !IsReservedTypeName(name) {
			t.Errorf("expected %q to be a reserved type name", name)
		}
	}
	if IsReservedTypeName("MyStruct") {
		t.Errorf("a user identifier must not be reported as reserved")
	}
}
