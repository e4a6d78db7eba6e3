package parser

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/token"
)

// precedence returns the binary-operator precedence of tok (lowest to
// highest: && || ; and or ; comparisons ; + - ; * / %), or 0 if tok cannot
// start an infix chain.
func precedence(tok token.Token) int {
	switch tok {
	case token.ANDAND, token.OROR:
		return 1
	case token.KW_AND, token.KW_OR:
		return 2
	case token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE:
		return 3
	case token.PLUS, token.MINUS:
		return 4
	case token.STAR, token.SLASH, token.PERCENT:
		return 5
	}
	return 0
}

func binOpFor(tok token.Token) ast.BinOp {
	switch tok {
	case token.ANDAND, token.KW_AND:
		return ast.OpAnd
	case token.OROR, token.KW_OR:
		return ast.OpOr
	case token.EQ:
		return ast.OpEq
	case token.NEQ:
		return ast.OpNeq
	case token.LT:
		return ast.OpLt
	case token.GT:
		return ast.OpGt
	case token.LE:
		return ast.OpLe
	case token.GE:
		return ast.OpGe
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.STAR:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	case token.PERCENT:
		return ast.OpMod
	}
	panic("parser: not a binary operator token")
}

// parseExpr parses a full expression via op_expr(1, primary_expr()).
func (p *parser) parseExpr() ast.Expr {
	return p.parseOpExpr(1)
}

// parseOpExpr consumes infix operators while precedence(tok) >= minPrec,
// recursing with precedence+1 on the right side.
func (p *parser) parseOpExpr(minPrec int) ast.Expr {
	left := p.parsePrimaryExpr()
	for {
		prec := precedence(p.tok.Token)
		if prec < minPrec {
			return left
		}
		pos := p.pos()
		op := binOpFor(p.tok.Token)
		p.advance()
		right := p.parseOpExpr(prec + 1)
		left = &ast.BinOpExpr{Pos: pos, Op: op, Left: left, Right: right}
	}
}

// parsePrimaryExpr handles literals, parenthesized expressions, unary
// prefix operators, and identifiers, then attaches chained postfix
// operations ([expr], .word, .word(args)).
func (p *parser) parsePrimaryExpr() ast.Expr {
	e := p.parseUnaryOrAtom()
	return p.parsePostfix(e)
}

func (p *parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.tok.Token {
		case token.LBRACK:
			pos := p.pos()
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			e = &ast.IndexExpr{Pos: pos, Recv: e, Index: idx}
		case token.DOT:
			pos := p.pos()
			p.advance()
			name := p.expect(token.IDENT).Value.Raw
			if p.tok.Token == token.LPAREN {
				args := p.parseArgs()
				e = &ast.MethodCallExpr{Pos: pos, Recv: e, Name: name, Args: args}
			} else {
				e = &ast.MemberExpr{Pos: pos, Recv: e, Name: name}
			}
		default:
			return e
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.tok.Token != token.RPAREN {
		args = append(args, p.parseExpr())
		if p.tok.Token != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return args
}

func (p *parser) parseUnaryOrAtom() ast.Expr {
	pos := p.pos()
	switch p.tok.Token {
	case token.AMP:
		p.advance()
		operand := p.parsePrimaryExpr()
		if !ast.IsLValue(operand) {
			p.error("operand of & must be an l-value")
		}
		return &ast.AddrOfExpr{Pos: pos, Expr: operand}
	case token.STAR:
		p.advance()
		return &ast.DerefExpr{Pos: pos, Expr: p.parsePrimaryExpr()}
	case token.NOT:
		p.advance()
		return &ast.NotExpr{Pos: pos, Expr: p.parsePrimaryExpr()}
	case token.KW_CAST:
		p.advance()
		typ := p.parseType()
		p.expect(token.LPAREN)
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return &ast.CastExpr{Pos: pos, Type: typ, Expr: inner}
	case token.KW_SIZEOF:
		p.advance()
		return &ast.SizeofExpr{Pos: pos, Type: p.parseType()}
	case token.KW_NEW:
		p.advance()
		typ := p.parseType()
		var count ast.Expr
		if p.tok.Token == token.STAR {
			p.advance()
			count = p.parseExpr()
		}
		return &ast.NewExpr{Pos: pos, Type: typ, Count: count}
	case token.KW_FUNC:
		p.advance()
		p.expect(token.AMP)
		name := p.expect(token.IDENT).Value.Raw
		return &ast.FuncAddrExpr{Pos: pos, Name: name}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	case token.KW_NULL:
		p.advance()
		return &ast.NullLiteral{Pos: pos}
	case token.KW_TRUE:
		p.advance()
		return &ast.BoolLiteral{Pos: pos, Value: true}
	case token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{Pos: pos, Value: false}
	case token.STRING:
		v := p.tok.Value
		p.advance()
		return &ast.StringLiteral{Pos: pos, Value: v.Str}
	case token.CSTRING:
		v := p.tok.Value
		p.advance()
		return &ast.CStringLiteral{Pos: pos, Value: v.Str}
	case token.GENERIC_INT:
		v := p.tok.Value
		p.advance()
		return &ast.GenericIntLiteral{Pos: pos, Value: v.Int}
	case token.GENERIC_FLOAT:
		v := p.tok.Value
		p.advance()
		return &ast.GenericFloatLiteral{Pos: pos, Value: v.Float}
	case token.INT_B, token.INT_UB, token.INT_S, token.INT_US,
		token.INT_I, token.INT_UI, token.INT_L, token.INT_UL:
		v, tok := p.tok.Value, p.tok.Token
		p.advance()
		return &ast.IntLiteral{Pos: pos, Kind: tok, Value: v.Int}
	case token.FLOAT_F, token.FLOAT_D:
		v, tok := p.tok.Value, p.tok.Token
		p.advance()
		return &ast.FloatLiteral{Pos: pos, Kind: tok, Value: v.Float}
	case token.IDENT:
		name := p.tok.Value.Raw
		p.advance()
		if p.tok.Token == token.LPAREN {
			args := p.parseArgs()
			return &ast.CallExpr{Pos: pos, Callee: &ast.Ident{Pos: pos, Name: name}, Args: args}
		}
		return &ast.Ident{Pos: pos, Name: name}
	}

	p.error("unexpected %s in expression", p.tok.Token.GoString())
	return nil
}
