// Package ast defines the in-memory tree of declarations, types,
// expressions and statements produced by the parser.
package ast

import "github.com/mna/gale/token"

// Node is implemented by every AST node.
type Node interface {
	Span() token.Pos
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node. Expressions used in
// statement position (calls, assignments) also implement Stmt, matching the
// shared node space the data model calls for.
type Stmt interface {
	Node
	stmt()
}

// Decl is implemented by every program-scope declaration.
type Decl interface {
	Node
	decl()
}

// File is a single parsed translation unit: its declarations and the flat
// meta-definition set seeded before parsing.
type File struct {
	Unit  token.UnitID
	Decls []Decl
	Meta  map[string]bool
}

func (f *File) Span() token.Pos { return token.Pos{Unit: f.Unit} }
func (f *File) Walk(v Visitor) {
	for _, d := range f.Decls {
		Walk(v, d)
	}
}
