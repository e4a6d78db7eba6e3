package token

import "sort"

// Token is a lexical token kind.
type Token int16

//nolint:revive
const (
	ILLEGAL Token = iota
	EOF
	NEWLINE // significant newline, acts as a statement separator

	// identifiers and literals
	IDENT
	INT_B  // byte
	INT_UB // ubyte
	INT_S  // short
	INT_US // ushort
	INT_I  // int
	INT_UI // uint
	INT_L  // long
	INT_UL // ulong
	GENERIC_INT
	FLOAT_F // float
	FLOAT_D // double
	GENERIC_FLOAT
	STRING  // "..."
	CSTRING // '...'

	// punctuation
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	PERCENT    // %
	AMP        // &
	PIPE       // |
	CARET      // ^
	TILDE      // ~
	SHL        // <<
	SHR        // >>
	ASSIGN     // =
	EQ         // ==
	NEQ        // !=
	LT         // <
	GT         // >
	LE         // <=
	GE         // >=
	ANDAND     // &&
	OROR       // ||
	NOT        // !
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }
	COMMA      // ,
	DOT        // .
	COLON      // :
	SEMI       // ;
	ELLIPSIS   // ...
	PLUS_EQ    // +=
	MINUS_EQ   // -=
	STAR_EQ    // *=
	SLASH_EQ   // /=
	PERCENT_EQ // %=
	AMP_EQ     // &=
	PIPE_EQ    // |=
	CARET_EQ   // ^=
	SHL_EQ     // <<=
	SHR_EQ     // >>=

	punctStart = PLUS
	punctEnd   = SHR_EQ
)

const (
	litStart = IDENT
	litEnd   = CSTRING
)

// The keyword block is declared separately so that each keyword's id is
// exactly kwBase + its index in the sorted kwNames table.
const kwBase = SHR_EQ + 1

//nolint:revive
const (
	KW_ALIAS Token = kwBase + iota
	KW_AND
	KW_BOOL
	KW_BREAK
	KW_BYTE
	KW_CAST
	KW_CONST
	KW_CONTINUE
	KW_DEFER
	KW_DELETE
	KW_DOUBLE
	KW_ELSE
	KW_ENUM
	KW_FALSE
	KW_FLOAT
	KW_FOREIGN
	KW_FUNC
	KW_IF
	KW_IMPORT
	KW_IN
	KW_INOUT
	KW_INT
	KW_LONG
	KW_MAIN
	KW_META
	KW_NEW
	KW_NOT
	KW_NULL
	KW_OR
	KW_OUT
	KW_PACKED
	KW_PRAGMA
	KW_RETURN
	KW_SHORT
	KW_SIZEOF
	KW_STDCALL
	KW_STRUCT
	KW_TRUE
	KW_UBYTE
	KW_UINT
	KW_ULONG
	KW_UNLESS
	KW_UNTIL
	KW_USHORT
	KW_USIZE
	KW_VARIADIC
	KW_VOID
	KW_WHILE

	kwEnd    = KW_WHILE
	maxToken = kwEnd
)

// kwNames is the sorted keyword table: exactly 48 entries, kwNames[i]
// corresponds to token kwBase+i.
var kwNames = [...]string{
	"alias", "and", "bool", "break", "byte", "cast", "const", "continue",
	"defer", "delete", "double", "else", "enum", "false", "float", "foreign",
	"func", "if", "import", "in", "inout", "int", "long", "main", "meta",
	"new", "not", "null", "or", "out", "packed", "pragma", "return", "short",
	"sizeof", "stdcall", "struct", "true", "ubyte", "uint", "ulong", "unless",
	"until", "ushort", "usize", "variadic", "void", "while",
}

func init() {
	if len(kwNames) != int(kwEnd-kwBase+1) {
		panic("token: keyword table size mismatch")
	}
}

var tokNames = buildTokNames()

func buildTokNames() map[Token]string {
	m := map[Token]string{
		ILLEGAL: "illegal token", EOF: "end of file", NEWLINE: "newline",
		IDENT: "identifier",
		INT_B: "byte literal", INT_UB: "ubyte literal", INT_S: "short literal",
		INT_US: "ushort literal", INT_I: "int literal", INT_UI: "uint literal",
		INT_L: "long literal", INT_UL: "ulong literal", GENERIC_INT: "int literal",
		FLOAT_F: "float literal", FLOAT_D: "double literal", GENERIC_FLOAT: "float literal",
		STRING: "string literal", CSTRING: "cstring literal",
		PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
		AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
		ASSIGN: "=", EQ: "==", NEQ: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
		ANDAND: "&&", OROR: "||", NOT: "!",
		LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
		COMMA: ",", DOT: ".", COLON: ":", SEMI: ";", ELLIPSIS: "...",
		PLUS_EQ: "+=", MINUS_EQ: "-=", STAR_EQ: "*=", SLASH_EQ: "/=",
		PERCENT_EQ: "%=", AMP_EQ: "&=", PIPE_EQ: "|=", CARET_EQ: "^=",
		SHL_EQ: "<<=", SHR_EQ: ">>=",
	}
	for i, name := range kwNames {
		m[kwBase+Token(i)] = name
	}
	return m
}

func (t Token) String() string {
	if s, ok := tokNames[t]; ok {
		return s
	}
	return "unknown token"
}

// GoString is like String but quotes punctuation and keywords, for use in
// diagnostics (fmt.Sprintf("%#v", tok)).
func (t Token) GoString() string {
	if t >= punctStart && t <= kwEnd {
		return "'" + t.String() + "'"
	}
	return t.String()
}

var kwLookup = buildKwLookup()

func buildKwLookup() map[string]Token {
	m := make(map[string]Token, len(kwNames))
	for i, name := range kwNames {
		m[name] = kwBase + Token(i)
	}
	return m
}

// LookupKw returns the keyword Token for lit, or IDENT if lit is not one of
// the 48 reserved keywords. It uses a binary search over the sorted keyword
// table, matching the sorted-table invariant the lexer relies on.
func LookupKw(lit string) Token {
	i := sort.SearchStrings(kwNames[:], lit)
	if i < len(kwNames) && kwNames[i] == lit {
		return kwBase + Token(i)
	}
	return IDENT
}

// IsBinop reports whether t can start an infix binary operator chain (not
// counting unary-only operators).
func (t Token) IsBinop() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, PERCENT, AMP, PIPE, CARET, SHL, SHR,
		LT, GT, LE, GE, EQ, NEQ, ANDAND, OROR, KW_AND, KW_OR:
		return true
	}
	return false
}

// IsAssignOp reports whether t is a simple or compound assignment operator.
func (t Token) IsAssignOp() bool {
	switch t {
	case ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ,
		AMP_EQ, PIPE_EQ, CARET_EQ, SHL_EQ, SHR_EQ:
		return true
	}
	return false
}

// IsReservedTypeName reports whether lit names one of the language's
// built-in scalar types, which may not be used as an alias or struct name.
func IsReservedTypeName(lit string) bool {
	switch lit {
	case "void", "bool", "byte", "ubyte", "short", "ushort", "int", "uint",
		"long", "ulong", "float", "double", "usize", "ptr":
		return true
	}
	return false
}

// IsTypeKeyword reports whether t is one of the built-in scalar type
// keywords (KW_VOID, KW_INT, ...). These are lexed as distinct keyword
// tokens, not IDENT, so a type name position must check both.
func (t Token) IsTypeKeyword() bool {
	switch t {
	case KW_VOID, KW_BOOL, KW_BYTE, KW_UBYTE, KW_SHORT, KW_USHORT, KW_INT,
		KW_UINT, KW_LONG, KW_ULONG, KW_FLOAT, KW_DOUBLE, KW_USIZE:
		return true
	}
	return false
}
