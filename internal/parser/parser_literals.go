package parser

import (
	"strconv"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/lexer"
	"github.com/ucg-lang/ucg/internal/token"
)

func (p *Parser) parseIdent() ast.Expr {
	e := &ast.Ident{Name: p.cur.Literal, Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseIntLit() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf(errors.PAR001, pos, "invalid integer literal %q", p.cur.Literal)
	}
	p.nextToken()
	return &ast.IntLit{Value: v, Pos: pos}
}

func (p *Parser) parseFloatLit() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errorf(errors.PAR001, pos, "invalid float literal %q", p.cur.Literal)
	}
	p.nextToken()
	return &ast.FloatLit{Value: v, Pos: pos}
}

func (p *Parser) parseStringLit() ast.Expr {
	value, escapedAt := lexer.DecodeStringLiteral(p.cur.Literal)
	e := &ast.StringLit{Value: value, EscapedAt: escapedAt, Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseBoolLit() ast.Expr {
	e := &ast.BoolLit{Value: p.cur.Type == token.TRUE, Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseNullLit() ast.Expr {
	e := &ast.NullLit{Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseEnvExpr() ast.Expr {
	e := &ast.EnvExpr{Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseModExpr() ast.Expr {
	e := &ast.ModExpr{Pos: p.curPos()}
	p.nextToken()
	return e
}

func (p *Parser) parseListLit() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume '['

	var elems []ast.Expr
	p.copyBracesAllowed(func() {
		for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
			elems = append(elems, p.parseExpr(LOWEST))
			if p.curIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	})
	p.expect(token.RBRACKET)

	return &ast.ListLit{Elements: elems, Pos: pos}
}

func (p *Parser) parseTupleLit() ast.Expr {
	pos := p.curPos()
	fields := p.parseTupleFields()
	return &ast.TupleLit{Fields: fields, Pos: pos}
}

// parseTupleFields parses `'{' (ID '=' expr (',' ID '=' expr)*)? ','? '}'`
// with the leading '{' as the current token; used by tuple literals, tuple
// copies/module instantiations, module defaults, and select branches.
func (p *Parser) parseTupleFields() []*ast.TupleField {
	p.expect(token.LBRACE)

	var fields []*ast.TupleField
	p.copyBracesAllowed(func() {
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			fieldPos := p.curPos()
			if !p.curIs(token.IDENT) {
				p.errorf(errors.PAR004, p.curPos(), "expected field name, got %s %q", p.cur.Type, p.cur.Literal)
				break
			}
			name := p.cur.Literal
			p.nextToken()
			if !p.expect(token.ASSIGN) {
				break
			}
			value := p.parseExpr(LOWEST)
			fields = append(fields, &ast.TupleField{Name: name, Value: value, Pos: fieldPos})

			if p.curIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	})
	p.expect(token.RBRACE)

	return fields
}

func (p *Parser) parseFuncLit() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'func'
	p.expect(token.LPAREN)

	var params []string
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errorf(errors.PAR004, p.curPos(), "expected parameter name, got %s", p.cur.Type)
			break
		}
		params = append(params, p.cur.Literal)
		p.nextToken()
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	p.expect(token.FARROW)

	body := p.parseExpr(LOWEST)
	return &ast.FuncLit{Params: params, Body: body, Pos: pos}
}

func (p *Parser) parseModuleLit() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'module'

	defaults := p.parseTupleFields()
	p.expect(token.FARROW)

	var outExpr ast.Expr
	if p.curIs(token.LPAREN) {
		p.nextToken()
		p.copyBracesAllowed(func() { outExpr = p.parseExpr(LOWEST) })
		p.expect(token.RPAREN)
	}

	p.expect(token.LBRACE)
	var body []ast.Stmt
	p.copyBracesAllowed(func() {
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.SEMI) {
				p.errorf(errors.PAR003, p.curPos(), "unexpected empty statement (two adjacent ';')")
				p.nextToken()
				continue
			}
			stmt := p.parseStmt()
			if stmt != nil {
				body = append(body, stmt)
			} else {
				p.recoverToSemi()
			}
		}
	})
	p.expect(token.RBRACE)

	return &ast.ModuleLit{Defaults: defaults, OutExpr: outExpr, Body: body, Pos: pos}
}

func (p *Parser) parseSelectExpr() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'select'

	key := p.parseExpr(LOWEST)
	p.expect(token.COMMA)

	// The '{' after the default opens the branch block, not a copy of the
	// default expression; suspend the copy postfix until then.
	saved := p.noCopyBrace
	p.noCopyBrace = true
	def := p.parseExpr(LOWEST)
	p.noCopyBrace = saved

	p.expect(token.LBRACE)
	var branches []*ast.SelectBranch
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		// `true`/`false` lex as keywords but are legal branch names: keys
		// built with str(bool) match against them.
		if !p.curIs(token.IDENT) && !p.curIs(token.TRUE) && !p.curIs(token.FALSE) {
			p.errorf(errors.PAR004, p.curPos(), "expected branch name in select, got %s", p.cur.Type)
			break
		}
		name := p.cur.Literal
		p.nextToken()
		p.expect(token.ASSIGN)
		var val ast.Expr
		p.copyBracesAllowed(func() { val = p.parseExpr(LOWEST) })
		branches = append(branches, &ast.SelectBranch{Name: name, Value: val})
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RBRACE)

	return &ast.SelectExpr{Key: key, Default: def, Branches: branches, Pos: pos}
}

func (p *Parser) parseImportExpr() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'import'
	if !p.curIs(token.STRING) {
		p.errorf(errors.PAR004, p.curPos(), "expected a string path after 'import', got %s", p.cur.Type)
		return &ast.ImportExpr{Path: "", Pos: pos}
	}
	path, _ := lexer.DecodeStringLiteral(p.cur.Literal)
	p.nextToken()
	return &ast.ImportExpr{Path: path, Pos: pos}
}

func (p *Parser) parseFailExpr() ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'fail'
	msg := p.parseExpr(UNARY)
	return &ast.FailExpr{Msg: msg, Pos: pos}
}
