package parser

import (
	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
)

// parseStmt parses one top-level (or module-body) statement:
//
//	let NAME = expr;
//	assert expr;
//	out CONVERTER expr;
//	expr;
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Type {
	case token.LET:
		return p.parseLetStmt()
	case token.ASSERT:
		return p.parseAssertStmt()
	case token.OUT:
		return p.parseOutStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	pos := p.curPos()
	p.nextToken() // consume 'let'

	if !p.curIs(token.IDENT) {
		p.errorf(errors.PAR001, p.curPos(), "expected identifier after 'let', got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()

	if !p.expect(token.ASSIGN) {
		return nil
	}

	value := p.parseExpr(LOWEST)
	p.expect(token.SEMI)

	return &ast.LetStmt{Name: name, Value: value, Pos: pos}
}

func (p *Parser) parseAssertStmt() ast.Stmt {
	pos := p.curPos()
	p.nextToken() // consume 'assert'
	expr := p.parseExpr(LOWEST)
	p.expect(token.SEMI)
	return &ast.AssertStmt{Expr: expr, Pos: pos}
}

func (p *Parser) parseOutStmt() ast.Stmt {
	pos := p.curPos()
	p.nextToken() // consume 'out'

	if !p.curIs(token.IDENT) {
		p.errorf(errors.PAR004, p.curPos(), "expected converter name after 'out', got %s", p.cur.Type)
		return nil
	}
	conv := p.cur.Literal
	p.nextToken()

	expr := p.parseExpr(LOWEST)
	p.expect(token.SEMI)

	return &ast.OutStmt{Converter: conv, Expr: expr, Pos: pos}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	pos := p.curPos()
	expr := p.parseExpr(LOWEST)
	p.expect(token.SEMI)
	return &ast.ExprStmt{Expr: expr, Pos: pos}
}
