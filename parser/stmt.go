package parser

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/token"
)

func (p *parser) parseBlock() *ast.Block {
	pos := p.pos()
	p.expect(token.LBRACE)
	b := &ast.Block{Pos: pos}
	p.skipNewlines()
	for p.tok.Token != token.RBRACE {
		b.Stmts = append(b.Stmts, p.parseStmt())
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return b
}

// startsType reports whether tok can begin a written type, used to
// disambiguate a leading-identifier declare statement from an
// expression-or-assignment statement.
func startsType(tok token.Token) bool {
	switch tok {
	case token.IDENT, token.STAR, token.LBRACK, token.KW_FUNC:
		return true
	}
	return tok.IsTypeKeyword()
}

func (p *parser) parseStmt() ast.Stmt {
	pos := p.pos()
	switch p.tok.Token {
	case token.KW_RETURN:
		p.advance()
		if p.tok.Token == token.NEWLINE || p.tok.Token == token.RBRACE {
			return &ast.ReturnStmt{Pos: pos}
		}
		return &ast.ReturnStmt{Pos: pos, Value: p.parseExpr()}

	case token.KW_BREAK:
		p.advance()
		label := ""
		if p.tok.Token == token.IDENT {
			label = p.tok.Value.Raw
			p.advance()
		}
		return &ast.BreakStmt{Pos: pos, Label: label}

	case token.KW_CONTINUE:
		p.advance()
		label := ""
		if p.tok.Token == token.IDENT {
			label = p.tok.Value.Raw
			p.advance()
		}
		return &ast.ContinueStmt{Pos: pos, Label: label}

	case token.KW_DEFER:
		p.advance()
		return &ast.DeferStmt{Pos: pos, Stmt: p.parseStmt()}

	case token.KW_DELETE:
		p.advance()
		return &ast.DeleteStmt{Pos: pos, Value: p.parseExpr()}

	case token.KW_IF, token.KW_UNLESS:
		return p.parseIfStmt()

	case token.KW_WHILE, token.KW_UNTIL:
		return p.parseLoopStmt("")

	case token.IDENT:
		return p.parseIdentLeadStmt()
	}

	return p.parseExprOrAssignStmt()
}

func (p *parser) parseIfStmt() ast.Stmt {
	pos := p.pos()
	kind := ast.CondIf
	if p.tok.Token == token.KW_UNLESS {
		kind = ast.CondUnless
	}
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	var elseBlk *ast.Block
	save := p.idx
	p.skipNewlines()
	if p.tok.Token == token.KW_ELSE {
		p.advance()
		elseBlk = p.parseBlock()
	} else {
		p.idx = save
		p.tok = p.toks[p.idx]
	}
	return &ast.IfStmt{Pos: pos, Kind: kind, Cond: cond, Body: body, Else: elseBlk}
}

func (p *parser) parseLoopStmt(label string) ast.Stmt {
	pos := p.pos()
	kind := ast.CondWhile
	if p.tok.Token == token.KW_UNTIL {
		kind = ast.CondUntil
	}
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.LoopStmt{Pos: pos, Kind: kind, Cond: cond, Body: body, Label: label}
}

// parseIdentLeadStmt disambiguates `name T [= init]` (declare) and
// `name: while …` (labeled loop) from an expression or assignment starting
// with an identifier.
func (p *parser) parseIdentLeadStmt() ast.Stmt {
	save := p.idx
	pos := p.pos()
	name := p.tok.Value.Raw
	p.advance()

	if p.tok.Token == token.COLON {
		p.advance()
		if p.tok.Token != token.KW_WHILE && p.tok.Token != token.KW_UNTIL {
			p.error("expected while or until after label %q", name)
		}
		return p.parseLoopStmt(name)
	}

	if startsType(p.tok.Token) {
		typ := p.parseType()
		var init ast.Expr
		if p.tok.Token == token.ASSIGN {
			p.advance()
			init = p.parseExpr()
		}
		return &ast.DeclareStmt{Pos: pos, Name: name, Type: typ, Init: init}
	}

	p.idx = save
	p.tok = p.toks[p.idx]
	return p.parseExprOrAssignStmt()
}

var assignOps = map[token.Token]ast.AssignOp{
	token.ASSIGN:     ast.AssignSet,
	token.PLUS_EQ:    ast.AssignAdd,
	token.MINUS_EQ:   ast.AssignSub,
	token.STAR_EQ:    ast.AssignMul,
	token.SLASH_EQ:   ast.AssignDiv,
	token.PERCENT_EQ: ast.AssignMod,
}

// parseExprOrAssignStmt parses an expression used as a statement: only a
// call or an assignment (simple or compound) is legal here.
func (p *parser) parseExprOrAssignStmt() ast.Stmt {
	pos := p.pos()
	e := p.parseExpr()

	if op, ok := assignOps[p.tok.Token]; ok {
		if !ast.IsLValue(e) {
			p.ctx.Errorf(pos, "left-hand side of assignment is not assignable")
			panic(errStop{})
		}
		p.advance()
		val := p.parseExpr()
		return &ast.AssignStmt{Pos: pos, Op: op, Dst: e, Value: val}
	}

	if _, ok := e.(*ast.CallExpr); ok {
		return &ast.ExprStmt{Pos: pos, Expr: e}
	}
	if _, ok := e.(*ast.MethodCallExpr); ok {
		return &ast.ExprStmt{Pos: pos, Expr: e}
	}

	p.ctx.Errorf(pos, "expression not allowed as statement")
	panic(errStop{})
}
