package ast

import "github.com/mna/gale/token"

// Param is one formal parameter of a Function declaration.
type Param struct {
	Name  string
	Type  Type
	Flow  ArgFlow
	POD   bool // "treated as plain-old-data" per-type trait
}

// Function is a program-scope function declaration.
type Function struct {
	Pos    token.Pos
	Name   string
	Params []Param
	Return Type
	Traits FuncTraits
	Body   *Block // nil for a foreign (bodyless) declaration
}

func (d *Function) Span() token.Pos { return d.Pos }
func (d *Function) Walk(v Visitor) {
	if d.Body != nil {
		Walk(v, d.Body)
	}
}
func (*Function) decl() {}

// IsMethod reports whether d is a struct method (its first parameter is
// conventionally named "this").
func (d *Function) IsMethod() bool {
	return len(d.Params) > 0 && d.Params[0].Name == "this"
}

// ReceiverType returns the base type name of d's receiver, or "" if d is
// not a method.
func (d *Function) ReceiverType() string {
	if !d.IsMethod() {
		return ""
	}
	t := d.Params[0].Type
	if len(t) == 2 {
		if _, ok := t[0].(Pointer); ok {
			if b, ok := t[1].(Base); ok {
				return b.Name
			}
		}
	}
	if len(t) == 1 {
		if b, ok := t[0].(Base); ok {
			return b.Name
		}
	}
	return ""
}

// Field is one member of a Struct declaration.
type Field struct {
	Name string
	Type Type
}

// Struct is a program-scope struct declaration.
type Struct struct {
	Pos    token.Pos
	Name   string
	Fields []Field
	Packed bool
}

func (d *Struct) Span() token.Pos { return d.Pos }
func (d *Struct) Walk(Visitor)    {}
func (*Struct) decl()             {}

// Alias is `alias Name = T`.
type Alias struct {
	Pos  token.Pos
	Name string
	Type Type
}

func (d *Alias) Span() token.Pos { return d.Pos }
func (d *Alias) Walk(Visitor)    {}
func (*Alias) decl()             {}

// GlobalVariable is a program-scope `name T` or `name T = init`.
type GlobalVariable struct {
	Pos  token.Pos
	Name string
	Type Type
	Init Expr // nil if absent
}

func (d *GlobalVariable) Span() token.Pos { return d.Pos }
func (d *GlobalVariable) Walk(v Visitor) {
	if d.Init != nil {
		Walk(v, d.Init)
	}
}
func (*GlobalVariable) decl() {}

// Constant is a program-scope named compile-time constant.
type Constant struct {
	Pos   token.Pos
	Name  string
	Type  Type
	Value Expr
}

func (d *Constant) Span() token.Pos { return d.Pos }
func (d *Constant) Walk(v Visitor)  { Walk(v, d.Value) }
func (*Constant) decl()             {}

// EnumMember is one `name` or `name = value` entry of an Enum.
type EnumMember struct {
	Name  string
	Value Expr // nil means auto-increment from the previous member
}

// Enum is a program-scope enum declaration.
type Enum struct {
	Pos     token.Pos
	Name    string
	Members []EnumMember
}

func (d *Enum) Span() token.Pos { return d.Pos }
func (d *Enum) Walk(v Visitor) {
	for _, m := range d.Members {
		if m.Value != nil {
			Walk(v, m.Value)
		}
	}
}
func (*Enum) decl() {}

// ForeignLibrary records a `foreign "name"` library declaration. It is a
// standalone declaration: foreign functions declared after it do not refer
// to it.
type ForeignLibrary struct {
	Pos  token.Pos
	Name string
}

func (d *ForeignLibrary) Span() token.Pos { return d.Pos }
func (d *ForeignLibrary) Walk(Visitor)    {}
func (*ForeignLibrary) decl()             {}
