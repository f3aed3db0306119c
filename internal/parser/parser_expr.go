package parser

import (
	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
)

// parseExpr is the Pratt-parser entry point. Precedence ordering follows
// spec §4.2: || , && , comparison , range , additive , multiplicative ,
// unary , postfix , primary, with the format operator `%` sitting below
// everything else (lowest-precedence postfix), handled at the very top.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	left := p.parseExprAtPrecedence(precedence)
	if precedence == LOWEST && p.curIs(token.PERCENT) {
		left = p.parseFormatExpr(left)
	}
	return left
}

// parseExprAtPrecedence drives the precedence-climbing chain down through
// the operator levels. Range (`a:b`, between comparison and additive) and
// `in`/`is` (at comparison precedence) are ordinary infix entries, so a
// lower-precedence operator may still follow them (`"a" in t && ...`).
func (p *Parser) parseExprAtPrecedence(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf(errors.PAR001, p.curPos(), "unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
		return nil
	}
	left := prefix()

	for precedence < p.curPrecedence() {
		if p.noCopyBrace && p.curIs(token.LBRACE) {
			break
		}
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			break
		}
		left = infix(left)
	}

	return left
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	op := p.cur.Literal
	pos := p.curPos()
	precedence := p.curPrecedence()
	p.nextToken()

	right := p.parseExprAtPrecedence(precedence)
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	op := p.cur.Literal
	pos := p.curPos()
	p.nextToken()
	operand := p.parseExprAtPrecedence(UNARY)
	return &ast.UnaryExpr{Op: op, Expr: operand, Pos: pos}
}

// finishRangeExpr parses `:end` or `:step:end` after `start` has already
// been parsed, producing a RangeExpr. Step defaults to nil (meaning 1).
// Endpoints parse at RANGE precedence, so additive/multiplicative chains
// bind into an endpoint but a further ':' does not.
func (p *Parser) finishRangeExpr(start ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume ':'
	second := p.parseExprAtPrecedence(RANGE)

	if p.curIs(token.COLON) {
		p.nextToken() // consume second ':'
		end := p.parseExprAtPrecedence(RANGE)
		return &ast.RangeExpr{Start: start, Step: second, End: end, Pos: pos}
	}
	return &ast.RangeExpr{Start: start, Step: nil, End: second, Pos: pos}
}

func (p *Parser) finishInExpr(left ast.Expr) ast.Expr {
	pos := p.curPos()
	name := ""
	switch l := left.(type) {
	case *ast.Ident:
		name = l.Name
	case *ast.StringLit:
		name = l.Value
	default:
		p.errorf(errors.PAR004, pos, "left of 'in' must be a field name (identifier or string)")
	}
	p.nextToken() // consume 'in'
	tuple := p.parseExprAtPrecedence(COMPARISON)
	return &ast.InExpr{Name: name, Tuple: tuple, Pos: pos}
}

var typeNames = map[string]bool{
	"int": true, "float": true, "str": true, "bool": true,
	"list": true, "tuple": true, "func": true, "module": true, "null": true,
}

func (p *Parser) finishIsExpr(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume 'is'
	// `func` and `module` are keyword tokens, but they double as type names
	// on the right of 'is'.
	nameToken := p.curIs(token.IDENT) || p.curIs(token.FUNC) || p.curIs(token.MODULE)
	if !nameToken || !typeNames[p.cur.Literal] {
		p.errorf(errors.PAR004, p.curPos(), "expected a type name after 'is', got %s %q", p.cur.Type, p.cur.Literal)
		return &ast.IsExpr{Expr: left, Type: "", Pos: pos}
	}
	typeName := p.cur.Literal
	p.nextToken()
	return &ast.IsExpr{Expr: left, Type: typeName, Pos: pos}
}

func (p *Parser) parseFormatExpr(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume '%'

	var args []ast.Expr
	if p.curIs(token.LPAREN) {
		p.nextToken() // consume '('
		p.copyBracesAllowed(func() {
			if !p.curIs(token.RPAREN) {
				args = append(args, p.parseExpr(LOWEST))
				for p.curIs(token.COMMA) {
					p.nextToken()
					args = append(args, p.parseExpr(LOWEST))
				}
			}
		})
		p.expect(token.RPAREN)
	} else {
		args = append(args, p.parseExprAtPrecedence(UNARY))
	}

	return &ast.FormatExpr{Format: left, Args: args, Pos: pos}
}

func (p *Parser) parseSelectorOrDynIndex(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume '.'

	if p.curIs(token.LPAREN) {
		p.nextToken() // consume '('
		var idx ast.Expr
		p.copyBracesAllowed(func() { idx = p.parseExpr(LOWEST) })
		p.expect(token.RPAREN)
		return &ast.DynIndexExpr{Target: left, Index: idx, Pos: pos}
	}

	if !p.curIs(token.IDENT) && !p.curIs(token.INT) {
		p.errorf(errors.PAR001, p.curPos(), "expected field name or index after '.', got %s", p.cur.Type)
		return left
	}
	field := p.cur.Literal
	p.nextToken()
	return &ast.SelectorExpr{Target: left, Field: field, Pos: pos}
}

func (p *Parser) parseCallExpr(fn ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken() // consume '('

	var args []ast.Expr
	p.copyBracesAllowed(func() {
		if !p.curIs(token.RPAREN) {
			args = append(args, p.parseExpr(LOWEST))
			for p.curIs(token.COMMA) {
				p.nextToken()
				args = append(args, p.parseExpr(LOWEST))
			}
		}
	})
	p.expect(token.RPAREN)

	return &ast.CallExpr{Func: fn, Args: args, Pos: pos}
}

func (p *Parser) parseCopyExpr(base ast.Expr) ast.Expr {
	pos := p.curPos()
	fields := p.parseTupleFields()
	return &ast.CopyExpr{Base: base, Fields: fields, Pos: pos}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume '('
	var expr ast.Expr
	p.copyBracesAllowed(func() { expr = p.parseExpr(LOWEST) })
	p.expect(token.RPAREN)
	return expr
}
