// Package token defines the lexical token kinds and source position
// machinery shared by the lexer, parser, type checker and lowering passes.
package token

import "sort"

// UnitID identifies a translation unit registered in a SourceSet. The zero
// value never refers to a live unit.
type UnitID int32

// Pos is a source span anchor: a byte offset into the buffer owned by Unit.
// Line and column are never stored on Pos itself — they are resolved on
// demand from the SourceSet that owns the unit, per the data model's
// separation of "span" from "human-readable position".
type Pos struct {
	Offset int32
	Unit   UnitID
}

// NoPos is the zero value, used where no position applies.
var NoPos = Pos{}

// IsValid reports whether p refers to a registered unit.
func (p Pos) IsValid() bool { return p.Unit > 0 }

// Source owns the text of a single translation unit and lazily resolves
// byte offsets to line/column pairs.
type Source struct {
	Name string
	Text []byte

	// lineOffsets[i] is the byte offset of the first byte of line i+1 (lines
	// are 1-based). Built lazily on first Position call, since most tokens,
	// AST nodes and IR instructions are never rendered in a diagnostic.
	lineOffsets []int
}

func (s *Source) ensureLines() {
	if s.lineOffsets != nil {
		return
	}
	offs := []int{0}
	for i, b := range s.Text {
		if b == '\n' {
			offs = append(offs, i+1)
		}
	}
	s.lineOffsets = offs
}

// Position resolves a byte offset into a 1-based (line, column) pair and the
// text of that line (without its trailing newline). An offset past the end
// of the buffer resolves to the last line.
func (s *Source) Position(offset int) (line, col int, lineText string) {
	s.ensureLines()

	// index of the last lineOffsets entry <= offset
	i := sort.Search(len(s.lineOffsets), func(i int) bool { return s.lineOffsets[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	line = i + 1
	col = offset - s.lineOffsets[i] + 1

	end := len(s.Text)
	if i+1 < len(s.lineOffsets) {
		end = s.lineOffsets[i+1] - 1 // exclude the newline
		if end < s.lineOffsets[i] {
			end = s.lineOffsets[i]
		}
	}
	start := s.lineOffsets[i]
	if start > len(s.Text) {
		start = len(s.Text)
	}
	if end > len(s.Text) {
		end = len(s.Text)
	}
	lineText = string(s.Text[start:end])
	return line, col, lineText
}

// SourceSet owns every translation unit participating in a compilation,
// assigning each a stable UnitID.
type SourceSet struct {
	units []*Source
}

// AddSource registers a new translation unit and returns its id.
func (ss *SourceSet) AddSource(name string, text []byte) UnitID {
	ss.units = append(ss.units, &Source{Name: name, Text: text})
	return UnitID(len(ss.units))
}

// Source returns the Source for id, or nil if id is not registered.
func (ss *SourceSet) Source(id UnitID) *Source {
	if int(id) < 1 || int(id) > len(ss.units) {
		return nil
	}
	return ss.units[id-1]
}

// Position resolves a Pos through the SourceSet that owns it.
func (ss *SourceSet) Position(p Pos) (name string, line, col int, lineText string) {
	src := ss.Source(p.Unit)
	if src == nil {
		return "", 0, 0, ""
	}
	line, col, lineText = src.Position(int(p.Offset))
	return src.Name, line, col, lineText
}
