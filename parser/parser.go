// Package parser implements recursive-descent parsing with Pratt-style
// operator precedence, turning a token stream into an ast.File. Parsing
// stops at the first error: there is no partial-AST recovery.
package parser

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/diag"
	"github.com/mna/gale/lexer"
	"github.com/mna/gale/token"
)

// errStop is the sentinel panicked by expect/error and recovered at the
// single entry point, Parse. Unlike a synchronize-and-continue parser, the
// recovery here never resumes: it only unwinds the call stack cleanly.
type errStop struct{}

type parser struct {
	ctx  *diag.Context
	unit token.UnitID

	toks []lexer.TokenAndValue
	idx  int

	tok lexer.TokenAndValue // current token
}

// Parse tokenizes and parses src as unit, returning the resulting file. On
// the first lexical or syntactic error, parsing stops and the error is
// already recorded on ctx; the returned file may be nil or partially built
// and must not be used.
func Parse(ctx *diag.Context, unit token.UnitID, src []byte) (f *ast.File, ok bool) {
	toks := lexer.ScanAll(ctx, unit, src)
	p := &parser{ctx: ctx, unit: unit, toks: toks}
	p.tok = p.toks[0]

	defer func() {
		if r := recover(); r != nil {
			if _, isStop := r.(errStop); isStop {
				f, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	file := p.parseFile()
	return file, true
}

func (p *parser) advance() {
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	p.tok = p.toks[p.idx]
}

func (p *parser) pos() token.Pos { return p.tok.Pos }

func (p *parser) error(format string, args ...any) {
	p.ctx.Errorf(p.pos(), format, args...)
	panic(errStop{})
}

func (p *parser) expect(tok token.Token) lexer.TokenAndValue {
	if p.tok.Token != tok {
		p.error("expected %s, found %s", tok.GoString(), p.tok.Token.GoString())
	}
	cur := p.tok
	p.advance()
	return cur
}

// skipNewlines consumes any run of significant-newline tokens; used
// wherever the grammar allows blank lines (top level, after '{').
func (p *parser) skipNewlines() {
	for p.tok.Token == token.NEWLINE {
		p.advance()
	}
}

func (p *parser) parseFile() *ast.File {
	f := &ast.File{Unit: p.unit, Meta: map[string]bool{}}
	p.skipNewlines()
	for p.tok.Token != token.EOF {
		if d := p.parseDecl(f); d != nil {
			f.Decls = append(f.Decls, d)
		}
		p.skipNewlines()
	}
	return f
}

func (p *parser) checkDeclName(pos token.Pos, name string) {
	if token.IsReservedTypeName(name) {
		p.ctx.Errorf(pos, "%q is a reserved type name and cannot be redeclared", name)
		panic(errStop{})
	}
}
