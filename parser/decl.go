package parser

import (
	"github.com/mna/gale/ast"
	"github.com/mna/gale/token"
)

// parseDecl dispatches on the leading token of a program-scope declaration.
// import/pragma/meta directives are consumed for effect and return nil: the
// AST declaration set (Function, Struct, Alias, GlobalVariable, Constant,
// Enum, ForeignLibrary) does not include them as decl nodes.
func (p *parser) parseDecl(f *ast.File) ast.Decl {
	switch p.tok.Token {
	case token.KW_FUNC:
		return p.parseFunction(0)
	case token.KW_FOREIGN:
		return p.parseForeign()
	case token.KW_STRUCT:
		return p.parseStruct()
	case token.KW_ALIAS:
		return p.parseAlias()
	case token.KW_CONST:
		return p.parseConstant()
	case token.KW_ENUM:
		return p.parseEnum()
	case token.KW_IMPORT:
		p.advance()
		p.expect(token.STRING)
		return nil
	case token.KW_PRAGMA:
		p.advance()
		p.expect(token.IDENT)
		return nil
	case token.KW_META:
		p.advance()
		name := p.expect(token.IDENT).Value.Raw
		val := true
		if p.tok.Token == token.KW_FALSE {
			val, _ = false, p.advanceOK()
		} else if p.tok.Token == token.KW_TRUE {
			val, _ = true, p.advanceOK()
		}
		f.Meta[name] = val
		return nil
	case token.IDENT:
		return p.parseGlobalVariable()
	}

	p.error("unexpected %s at top level", p.tok.Token.GoString())
	return nil
}

func (p *parser) advanceOK() bool { p.advance(); return true }

// expectFuncName reads a function's declared name. "main" is itself one of
// the 48 reserved keywords (it is special-cased by the lowerer's pass 1),
// so a function name position must accept KW_MAIN in addition to the usual
// IDENT; the literal text survives in Value.Raw either way.
func (p *parser) expectFuncName() string {
	if p.tok.Token == token.KW_MAIN {
		cur := p.tok
		p.advance()
		return cur.Value.Raw
	}
	return p.expect(token.IDENT).Value.Raw
}

func (p *parser) parseFunction(traits ast.FuncTraits) *ast.Function {
	pos := p.pos()
	p.expect(token.KW_FUNC)
	name := p.expectFuncName()
	if name == "main" {
		traits |= ast.TraitMain
	}

	var params []ast.Param
	if p.tok.Token == token.LPAREN {
		p.advance()
		for p.tok.Token != token.RPAREN {
			if p.tok.Token == token.ELLIPSIS {
				p.advance()
				traits |= ast.TraitVariadic
				break
			}
			flow := ast.FlowIn
			switch p.tok.Token {
			case token.KW_OUT:
				flow = ast.FlowOut
				p.advance()
			case token.KW_INOUT:
				flow = ast.FlowInout
				p.advance()
			case token.KW_IN:
				p.advance()
			}
			pname := p.expect(token.IDENT).Value.Raw
			ptyp := p.parseType()
			pod := false
			if p.tok.Token == token.KW_PACKED {
				pod = true
				p.advance()
			}
			params = append(params, ast.Param{Name: pname, Type: ptyp, Flow: flow, POD: pod})
			if p.tok.Token != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
	}

	var ret ast.Type
	if startsType(p.tok.Token) {
		ret = p.parseType()
	}

	if p.tok.Token == token.KW_STDCALL {
		traits |= ast.TraitStdcall
		p.advance()
	}

	var body *ast.Block
	if p.tok.Token == token.LBRACE {
		body = p.parseBlock()
	}

	return &ast.Function{Pos: pos, Name: name, Params: params, Return: ret, Traits: traits, Body: body}
}

// parseForeign handles both `foreign "libname"` (returned as a standalone
// ast.ForeignLibrary declaration; functions declared after it do not refer
// to it) and `foreign name(...) ret` (a bodyless foreign function
// declaration).
func (p *parser) parseForeign() ast.Decl {
	pos := p.pos()
	p.expect(token.KW_FOREIGN)
	if p.tok.Token == token.STRING {
		name := p.tok.Value.Str
		p.advance()
		return &ast.ForeignLibrary{Pos: pos, Name: name}
	}

	name := p.expect(token.IDENT).Value.Raw
	var params []ast.Param
	p.expect(token.LPAREN)
	traits := ast.TraitForeign
	for p.tok.Token != token.RPAREN {
		if p.tok.Token == token.ELLIPSIS {
			p.advance()
			traits |= ast.TraitVariadic
			break
		}
		ptyp := p.parseType()
		params = append(params, ast.Param{Type: ptyp})
		if p.tok.Token != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	var ret ast.Type
	if startsType(p.tok.Token) {
		ret = p.parseType()
	}
	if p.tok.Token == token.KW_STDCALL {
		traits |= ast.TraitStdcall
		p.advance()
	}
	return &ast.Function{Pos: pos, Name: name, Params: params, Return: ret, Traits: traits}
}

func (p *parser) parseStruct() *ast.Struct {
	pos := p.pos()
	p.expect(token.KW_STRUCT)
	name := p.expect(token.IDENT).Value.Raw
	p.checkDeclName(pos, name)

	packed := false
	if p.tok.Token == token.KW_PACKED {
		packed = true
		p.advance()
	}

	p.expect(token.LBRACE)
	p.skipNewlines()
	s := &ast.Struct{Pos: pos, Name: name, Packed: packed}
	for p.tok.Token != token.RBRACE {
		fname := p.expect(token.IDENT).Value.Raw
		ftyp := p.parseType()
		s.Fields = append(s.Fields, ast.Field{Name: fname, Type: ftyp})
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return s
}

func (p *parser) parseAlias() *ast.Alias {
	pos := p.pos()
	p.expect(token.KW_ALIAS)
	name := p.expect(token.IDENT).Value.Raw
	p.checkDeclName(pos, name)
	p.expect(token.ASSIGN)
	return &ast.Alias{Pos: pos, Name: name, Type: p.parseType()}
}

func (p *parser) parseConstant() *ast.Constant {
	pos := p.pos()
	p.expect(token.KW_CONST)
	name := p.expect(token.IDENT).Value.Raw
	typ := p.parseType()
	p.expect(token.ASSIGN)
	return &ast.Constant{Pos: pos, Name: name, Type: typ, Value: p.parseExpr()}
}

func (p *parser) parseEnum() *ast.Enum {
	pos := p.pos()
	p.expect(token.KW_ENUM)
	name := p.expect(token.IDENT).Value.Raw
	p.checkDeclName(pos, name)

	p.expect(token.LBRACE)
	p.skipNewlines()
	e := &ast.Enum{Pos: pos, Name: name}
	for p.tok.Token != token.RBRACE {
		mname := p.expect(token.IDENT).Value.Raw
		var val ast.Expr
		if p.tok.Token == token.ASSIGN {
			p.advance()
			val = p.parseExpr()
		}
		e.Members = append(e.Members, ast.EnumMember{Name: mname, Value: val})
		if p.tok.Token == token.COMMA {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return e
}

func (p *parser) parseGlobalVariable() *ast.GlobalVariable {
	pos := p.pos()
	name := p.expect(token.IDENT).Value.Raw
	typ := p.parseType()
	var init ast.Expr
	if p.tok.Token == token.ASSIGN {
		p.advance()
		init = p.parseExpr()
	}
	return &ast.GlobalVariable{Pos: pos, Name: name, Type: typ, Init: init}
}
