package ast

import "strings"

// ArgFlow is the parameter-passing direction declared for a function
// argument.
type ArgFlow int

// List of argument flows.
const (
	FlowIn ArgFlow = iota
	FlowOut
	FlowInout
)

func (f ArgFlow) String() string {
	switch f {
	case FlowOut:
		return "out"
	case FlowInout:
		return "inout"
	default:
		return "in"
	}
}

// FuncTraits is a bitfield of traits carried by a function type or
// declaration.
type FuncTraits uint8

// List of function traits.
const (
	TraitForeign FuncTraits = 1 << iota
	TraitVariadic
	TraitMain
	TraitStdcall
)

func (t FuncTraits) Has(f FuncTraits) bool { return t&f != 0 }

// TypeElem is one element of a written type, read left to right as it
// appears in source. A Type is an ordered sequence of TypeElem; e.g. the
// written type "**ubyte" is the sequence [Pointer, Pointer, Base("ubyte")].
type TypeElem interface {
	typeElem()
	String() string
}

// Type is an ordered sequence of type elements.
type Type []TypeElem

// String renders a Type the way it would be written in source, base name
// last.
func (t Type) String() string {
	var sb strings.Builder
	for _, e := range t {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// Equal reports structural equality: same length, corresponding elements
// identical.
func (t Type) Equal(o Type) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !elemEqual(t[i], o[i]) {
			return false
		}
	}
	return true
}

func elemEqual(a, b TypeElem) bool {
	switch av := a.(type) {
	case Base:
		bv, ok := b.(Base)
		return ok && av.Name == bv.Name
	case Pointer:
		_, ok := b.(Pointer)
		return ok
	case Array:
		_, ok := b.(Array)
		return ok
	case FixedArray:
		bv, ok := b.(FixedArray)
		return ok && av.Length == bv.Length
	case GenericInt:
		_, ok := b.(GenericInt)
		return ok
	case GenericFloat:
		_, ok := b.(GenericFloat)
		return ok
	case Func:
		bv, ok := b.(Func)
		if !ok || av.Traits != bv.Traits || len(av.ArgTypes) != len(bv.ArgTypes) {
			return false
		}
		if !av.Return.Equal(bv.Return) {
			return false
		}
		for i := range av.ArgTypes {
			if av.ArgFlows[i] != bv.ArgFlows[i] || !av.ArgTypes[i].Equal(bv.ArgTypes[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Base names a built-in scalar type, a struct, or an alias.
type Base struct{ Name string }

func (Base) typeElem()      {}
func (b Base) String() string { return b.Name }

// Pointer marks the following element as pointed-to.
type Pointer struct{}

func (Pointer) typeElem()      {}
func (Pointer) String() string { return "*" }

// Array marks the following element as a dynamically-sized array.
type Array struct{}

func (Array) typeElem()      {}
func (Array) String() string { return "[]" }

// FixedArray marks the following element as an array of fixed Length.
type FixedArray struct{ Length int64 }

func (FixedArray) typeElem() {}
func (f FixedArray) String() string {
	return "[" + itoa(f.Length) + "]"
}

// GenericInt is the placeholder element used for an integer literal before
// it has been conformed to a concrete width.
type GenericInt struct{}

func (GenericInt) typeElem()      {}
func (GenericInt) String() string { return "<generic int>" }

// GenericFloat is the placeholder element used for a float literal before
// it has been conformed to a concrete width.
type GenericFloat struct{}

func (GenericFloat) typeElem()      {}
func (GenericFloat) String() string { return "<generic float>" }

// Func is the type-element variant for a function value / function
// pointer: argument types, per-argument flows, return type, and traits.
type Func struct {
	ArgTypes []Type
	ArgFlows []ArgFlow
	Return   Type
	Traits   FuncTraits
}

func (Func) typeElem() {}
func (f Func) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, t := range f.ArgTypes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteString(")")
	if len(f.Return) > 0 {
		sb.WriteString(" " + f.Return.String())
	}
	return sb.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
