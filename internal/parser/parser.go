// Package parser implements UCG's recursive-descent, Pratt-style parser:
// tokens produced by internal/lexer are reduced to the internal/ast tree.
package parser

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/lexer"
	"github.com/ucg-lang/ucg/internal/token"
)

// Precedence levels, low to high, matching spec §4.2.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	COMPARISON  // == != < <= > >=
	RANGE       // a:b a:s:b
	ADDITIVE    // + -
	MULTIPLIC   // * /
	UNARY       // not, unary -
	POSTFIX     // . () {} .( )
)

var precedences = map[token.Type]int{
	token.OR:     LOGICAL_OR,
	token.AND:    LOGICAL_AND,
	token.EQ:     COMPARISON,
	token.NEQ:    COMPARISON,
	token.LT:     COMPARISON,
	token.LTE:    COMPARISON,
	token.GT:     COMPARISON,
	token.GTE:    COMPARISON,
	token.IN:     COMPARISON,
	token.IS:     COMPARISON,
	token.COLON:  RANGE,
	token.PLUS:   ADDITIVE,
	token.MINUS:  ADDITIVE,
	token.STAR:   MULTIPLIC,
	token.SLASH:  MULTIPLIC,
	token.LPAREN: POSTFIX,
	token.DOT:    POSTFIX,
	token.LBRACE: POSTFIX,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser parses UCG token streams into an *ast.File.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  token.Token
	peek token.Token

	// noCopyBrace suspends the '{' copy/instantiation postfix while parsing
	// a select default, where a following '{' opens the branch block rather
	// than a copy of the default expression. Delimited sub-expressions
	// (parens, brackets, braces) re-enable it.
	noCopyBrace bool

	errors []error

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New creates a Parser over the given lexer.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file, errors: []error{}}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdent,
		token.INT:      p.parseIntLit,
		token.FLOAT:    p.parseFloatLit,
		token.STRING:   p.parseStringLit,
		token.TRUE:     p.parseBoolLit,
		token.FALSE:    p.parseBoolLit,
		token.NULL:     p.parseNullLit,
		token.ENV:      p.parseEnvExpr,
		token.MOD:      p.parseModExpr,
		token.LPAREN:   p.parseGroupedExpr,
		token.LBRACKET: p.parseListLit,
		token.LBRACE:   p.parseTupleLit,
		token.FUNC:     p.parseFuncLit,
		token.MODULE:   p.parseModuleLit,
		token.SELECT:   p.parseSelectExpr,
		token.IMPORT:   p.parseImportExpr,
		token.FAIL:     p.parseFailExpr,
		token.MINUS:    p.parseUnaryExpr,
		token.NOT:      p.parseUnaryExpr,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.OR:      p.parseBinaryExpr,
		token.AND:     p.parseBinaryExpr,
		token.EQ:      p.parseBinaryExpr,
		token.NEQ:     p.parseBinaryExpr,
		token.LT:      p.parseBinaryExpr,
		token.LTE:     p.parseBinaryExpr,
		token.GT:      p.parseBinaryExpr,
		token.GTE:     p.parseBinaryExpr,
		token.PLUS:    p.parseBinaryExpr,
		token.MINUS:   p.parseBinaryExpr,
		token.STAR:    p.parseBinaryExpr,
		token.SLASH:   p.parseBinaryExpr,
		token.LPAREN:  p.parseCallExpr,
		token.DOT:     p.parseSelectorOrDynIndex,
		token.LBRACE:  p.parseCopyExpr,
		token.COLON:   p.finishRangeExpr,
		token.IN:      p.finishInExpr,
		token.IS:      p.finishIsExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error accumulated during Parse.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) curPos() token.Pos { return p.cur.Pos }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// expect advances past the current token if it matches t, else records a
// PAR001 error and returns false.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(errors.PAR001, p.curPos(), "expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) errorf(code string, pos token.Pos, format string, args ...interface{}) {
	p.errors = append(p.errors, errors.New(code, fmt.Sprintf(format, args...), pos))
}

// Parse parses the whole token stream into a File, attempting best-effort
// batch recovery to the next ';' on syntax errors per spec §4.2.
func (p *Parser) Parse() *ast.File {
	file := &ast.File{Path: p.file}

	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.errorf(errors.PAR003, p.curPos(), "unexpected empty statement (two adjacent ';')")
			p.nextToken()
			continue
		}

		stmt := p.parseStmt()
		if stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		} else {
			// parseStmt failed to make progress; recover to the next ';'.
			p.recoverToSemi()
		}
	}

	return file
}

// copyBracesAllowed re-enables the '{' copy postfix for the duration of f,
// used by every explicitly delimited construct: inside parens, brackets, or
// braces a '{' can no longer be confused with a select branch block.
func (p *Parser) copyBracesAllowed(f func()) {
	saved := p.noCopyBrace
	p.noCopyBrace = false
	f()
	p.noCopyBrace = saved
}

// recoverToSemi skips tokens up to and including the next ';' (or EOF),
// giving the parser best-effort batch error reporting per spec §4.2.
func (p *Parser) recoverToSemi() {
	for !p.curIs(token.SEMI) && !p.curIs(token.EOF) {
		p.nextToken()
	}
	if p.curIs(token.SEMI) {
		p.nextToken()
	}
}
