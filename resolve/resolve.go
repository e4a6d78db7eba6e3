// Package resolve implements function/method overload resolution, variable
// lookup, and Levenshtein-based name suggestions.
package resolve

import (
	"sort"

	"github.com/mna/gale/ir"
	"github.com/mna/gale/token"
	"github.com/mna/gale/types"
)

// Candidate is one overload candidate under consideration at a call site.
type Candidate struct {
	Mapping  ir.FuncMapping
	Pos      token.Pos // declaration position, for tie-breaking by source order
}

// Resolve picks the candidate among candidates whose parameter types accept
// argTypes under ConformPrimitives. Ties break by (1) exact-match count,
// then (2) declaration order (lowest Pos first). ok is false only when no
// candidate accepts; ambiguity between accepting candidates is broken, not
// rejected.
func Resolve(candidates []Candidate, argTypes []*ir.Type) (Candidate, bool) {
	type scored struct {
		c     Candidate
		exact int
	}
	var accepted []scored

	for _, c := range candidates {
		params := c.Mapping.Fn.ParamTypes
		if len(params) != len(argTypes) {
			continue
		}
		exact := 0
		ok := true
		for i, pt := range params {
			if pt.Equal(argTypes[i]) {
				exact++
				continue
			}
			if _, can := types.Conform(types.ConformPrimitives, argTypes[i], pt); !can {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, scored{c, exact})
		}
	}

	if len(accepted) == 0 {
		return Candidate{}, false
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].exact != accepted[j].exact {
			return accepted[i].exact > accepted[j].exact
		}
		pi, pj := accepted[i].c.Pos, accepted[j].c.Pos
		if pi.Unit != pj.Unit {
			return pi.Unit < pj.Unit
		}
		return pi.Offset < pj.Offset
	})
	return accepted[0].c, true
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

// suggestThreshold returns max(2, min(3, len/2)), the acceptance threshold
// for Suggest.
func suggestThreshold(name string) int {
	t := len(name) / 2
	if t > 3 {
		t = 3
	}
	if t < 2 {
		t = 2
	}
	return t
}

// Suggest returns the candidate name in scope nearest to name by edit
// distance, or "" if none is within the threshold.
func Suggest(name string, scope []string) string {
	thresh := suggestThreshold(name)
	best := ""
	bestDist := thresh + 1
	for _, cand := range scope {
		d := levenshtein(name, cand)
		if d <= thresh && d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// LookupOrder is the fixed variable-lookup sequence: local stack
// (innermost first), current function's parameters, module globals.
type LookupOrder struct {
	Locals  [][]string // innermost-first list of scope name lists
	Params  []string
	Globals []string
}

// Lookup finds name in the fixed order, returning which tier it was found
// in ("local", "param", "global") or "" if not found.
func (o LookupOrder) Lookup(name string) string {
	for _, scope := range o.Locals {
		for _, n := range scope {
			if n == name {
				return "local"
			}
		}
	}
	for _, n := range o.Params {
		if n == name {
			return "param"
		}
	}
	for _, n := range o.Globals {
		if n == name {
			return "global"
		}
	}
	return ""
}

// SuggestVar suggests the lexically nearest name for an unresolved
// variable use, searching only the local scope stack (innermost first) as
// the spec specifies.
func (o LookupOrder) SuggestVar(name string) string {
	var flat []string
	for _, scope := range o.Locals {
		flat = append(flat, scope...)
	}
	return Suggest(name, flat)
}
