package lower

import (
	"github.com/dolthub/swiss"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/ir"
)

// varSlot is one descriptor in the variable scope tree: a stack-allocated
// local with its IR and written type.
type varSlot struct {
	Name    string
	IRType  *ir.Type
	ASTType ast.Type
	Addr    *ir.Value // the alloca'd pointer
	Traits  struct{ POD bool }
}

// scope is one lexical block's variable scope, plus the defer list and
// unravel-point bookkeeping the block owns. Scopes form an ownership tree:
// the function owns the root, parents own children. vars keeps declaration
// order for unwind/suggestion purposes; byName indexes the same slots for
// O(1) lookup within the scope (last declaration wins, matching shadowing
// within a single block).
type scope struct {
	parent *scope
	vars   []*varSlot
	byName *swiss.Map[string, *varSlot]

	// defers holds the statements registered by `defer` within this exact
	// block, in insertion order; unwound in reverse on exit.
	defers []ast.Stmt
}

// newScopeSized creates a child of parent with sized, an upfront estimate of
// how many locals this scope will declare (the function's parameter count
// for the root scope; newScope passes 4 for an ordinary nested block).
func newScopeSized(parent *scope, sized int) *scope {
	if sized < 1 {
		sized = 1
	}
	return &scope{parent: parent, byName: swiss.NewMap[string, *varSlot](uint32(sized))}
}

func newScope(parent *scope) *scope { return newScopeSized(parent, 4) }

func (s *scope) declare(v *varSlot) {
	s.vars = append(s.vars, v)
	s.byName.Put(v.Name, v)
}

// lookup searches this scope then ancestors, innermost first.
func (s *scope) lookup(name string) *varSlot {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.byName.Get(name); ok {
			return v
		}
	}
	return nil
}

// namesInScope flattens every local name visible from s, innermost first,
// for use by resolve.Suggest.
func (s *scope) namesInScope() []string {
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		for i := len(cur.vars) - 1; i >= 0; i-- {
			out = append(out, cur.vars[i].Name)
		}
	}
	return out
}

// labelEntry is one entry of the label stack aligned with loop/block
// nesting.
type labelEntry struct {
	label   string
	breakTo *ir.Block
	contTo  *ir.Block
	scope   *scope // the loop body's own scope: break/continue unwind up to, but not past, this
}

// funcCtx carries the per-function lowering state: its scope tree root,
// label stack, and the function's return type.
type funcCtx struct {
	fn      *ir.Function
	root    *scope
	labels  []labelEntry
	retType *ir.Type
	unit    int32
}

func (fc *funcCtx) pushLabel(e labelEntry) { fc.labels = append(fc.labels, e) }
func (fc *funcCtx) popLabel()              { fc.labels = fc.labels[:len(fc.labels)-1] }

// findLabel searches the label stack from innermost to outermost; label ""
// means "unlabeled", matching the top entry.
func (fc *funcCtx) findLabel(label string) (labelEntry, bool) {
	if label == "" {
		if len(fc.labels) == 0 {
			return labelEntry{}, false
		}
		return fc.labels[len(fc.labels)-1], true
	}
	for i := len(fc.labels) - 1; i >= 0; i-- {
		if fc.labels[i].label == label {
			return fc.labels[i], true
		}
	}
	return labelEntry{}, false
}
