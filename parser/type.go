package parser

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/token"
)

// parseType parses a single written type: a sequence of prefix elements
// (*, [], [N]) followed by a base name, or a `func(...)` type.
func (p *parser) parseType() ast.Type {
	var elems ast.Type
	for {
		switch p.tok.Token {
		case token.STAR:
			p.advance()
			elems = append(elems, ast.Pointer{})
			continue
		case token.LBRACK:
			p.advance()
			if p.tok.Token == token.RBRACK {
				p.advance()
				elems = append(elems, ast.Array{})
				continue
			}
			lit := p.expect(token.GENERIC_INT)
			p.expect(token.RBRACK)
			elems = append(elems, ast.FixedArray{Length: lit.Value.Int})
			continue
		}
		break
	}

	if p.tok.Token == token.KW_FUNC {
		elems = append(elems, p.parseFuncType())
		return elems
	}

	elems = append(elems, ast.Base{Name: p.expectTypeName()})
	return elems
}

// expectTypeName reads a type's base name: either a plain identifier (a
// struct, alias, or enum name) or one of the built-in scalar type keywords
// (int, bool, ubyte, ...), which the lexer tokenizes distinctly from IDENT.
func (p *parser) expectTypeName() string {
	if p.tok.Token.IsTypeKeyword() {
		cur := p.tok
		p.advance()
		return cur.Value.Raw
	}
	return p.expect(token.IDENT).Value.Raw
}

func (p *parser) parseFuncType() ast.Func {
	p.advance() // 'func'
	p.expect(token.LPAREN)

	var ft ast.Func
	for p.tok.Token != token.RPAREN {
		flow := ast.FlowIn
		switch p.tok.Token {
		case token.KW_IN:
			p.advance()
		case token.KW_OUT:
			flow = ast.FlowOut
			p.advance()
		case token.KW_INOUT:
			flow = ast.FlowInout
			p.advance()
		}
		ft.ArgTypes = append(ft.ArgTypes, p.parseType())
		ft.ArgFlows = append(ft.ArgFlows, flow)
		if p.tok.Token != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	if startsType(p.tok.Token) {
		ft.Return = p.parseType()
	}
	return ft
}
