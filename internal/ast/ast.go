// Package ast defines the UCG abstract syntax tree produced by the parser.
package ast

import (
	"fmt"
	"strings"

	"github.com/ucg-lang/ucg/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() token.Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a top-level statement node.
type Stmt interface {
	Node
	stmtNode()
}

// File is a parsed UCG source file: an ordered list of statements.
type File struct {
	Path  string
	Stmts []Stmt
}

func (f *File) String() string {
	parts := make([]string, len(f.Stmts))
	for i, s := range f.Stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}
func (f *File) Position() token.Pos {
	if len(f.Stmts) > 0 {
		return f.Stmts[0].Position()
	}
	return token.Pos{File: f.Path, Line: 1, Column: 1}
}

// ---- Statements ----

// LetStmt binds an immutable name: `let NAME = expr;`
type LetStmt struct {
	Name  string
	Value Expr
	Pos   token.Pos
}

func (s *LetStmt) String() string  { return fmt.Sprintf("let %s = %s;", s.Name, s.Value) }
func (s *LetStmt) Position() token.Pos { return s.Pos }
func (*LetStmt) stmtNode()         {}

// AssertStmt records a pass/fail check: `assert expr;`
type AssertStmt struct {
	Expr Expr
	Pos  token.Pos
}

func (s *AssertStmt) String() string  { return fmt.Sprintf("assert %s;", s.Expr) }
func (s *AssertStmt) Position() token.Pos { return s.Pos }
func (*AssertStmt) stmtNode()         {}

// OutStmt declares the single emitted artifact of a file: `out CONV expr;`
type OutStmt struct {
	Converter string
	Expr      Expr
	Pos       token.Pos
}

func (s *OutStmt) String() string  { return fmt.Sprintf("out %s %s;", s.Converter, s.Expr) }
func (s *OutStmt) Position() token.Pos { return s.Pos }
func (*OutStmt) stmtNode()         {}

// ExprStmt is a side-effect-free expression statement: `expr;`
type ExprStmt struct {
	Expr Expr
	Pos  token.Pos
}

func (s *ExprStmt) String() string  { return fmt.Sprintf("%s;", s.Expr) }
func (s *ExprStmt) Position() token.Pos { return s.Pos }
func (*ExprStmt) stmtNode()         {}

// ---- Expressions ----

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   token.Pos
}

func (e *IntLit) String() string  { return fmt.Sprintf("%d", e.Value) }
func (e *IntLit) Position() token.Pos { return e.Pos }
func (*IntLit) exprNode()         {}

// FloatLit is a floating point literal (lexeme always contains a dot).
type FloatLit struct {
	Value float64
	Pos   token.Pos
}

func (e *FloatLit) String() string  { return fmt.Sprintf("%g", e.Value) }
func (e *FloatLit) Position() token.Pos { return e.Pos }
func (*FloatLit) exprNode()         {}

// StringLit is a string literal with escapes already decoded. EscapedAt
// holds the rune indices (into Value) where a `\@` escape occurred, since
// the format operator (spec §3/§4.4) must never treat an escaped '@' as a
// placeholder even though, as plain string data, it is indistinguishable
// from an unescaped one.
type StringLit struct {
	Value     string
	EscapedAt []int
	Pos       token.Pos
}

func (e *StringLit) String() string  { return fmt.Sprintf("%q", e.Value) }
func (e *StringLit) Position() token.Pos { return e.Pos }
func (*StringLit) exprNode()         {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Pos   token.Pos
}

func (e *BoolLit) String() string  { return fmt.Sprintf("%t", e.Value) }
func (e *BoolLit) Position() token.Pos { return e.Pos }
func (*BoolLit) exprNode()         {}

// NullLit is the `NULL` literal.
type NullLit struct {
	Pos token.Pos
}

func (e *NullLit) String() string  { return "NULL" }
func (e *NullLit) Position() token.Pos { return e.Pos }
func (*NullLit) exprNode()         {}

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Pos  token.Pos
}

func (e *Ident) String() string  { return e.Name }
func (e *Ident) Position() token.Pos { return e.Pos }
func (*Ident) exprNode()         {}

// EnvExpr is the `env` keyword.
type EnvExpr struct {
	Pos token.Pos
}

func (e *EnvExpr) String() string  { return "env" }
func (e *EnvExpr) Position() token.Pos { return e.Pos }
func (*EnvExpr) exprNode()         {}

// ModExpr is the `mod` keyword, only meaningful inside a module body.
type ModExpr struct {
	Pos token.Pos
}

func (e *ModExpr) String() string  { return "mod" }
func (e *ModExpr) Position() token.Pos { return e.Pos }
func (*ModExpr) exprNode()         {}

// ListLit is a list literal.
type ListLit struct {
	Elements []Expr
	Pos      token.Pos
}

func (e *ListLit) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *ListLit) Position() token.Pos { return e.Pos }
func (*ListLit) exprNode()         {}

// TupleField is one `name = expr` binding inside a tuple literal or copy.
type TupleField struct {
	Name  string
	Value Expr
	Pos   token.Pos
}

// TupleLit is a tuple literal: `{ name = expr, ... }`
type TupleLit struct {
	Fields []*TupleField
	Pos    token.Pos
}

func (e *TupleLit) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (e *TupleLit) Position() token.Pos { return e.Pos }
func (*TupleLit) exprNode()         {}

// FuncLit is `func (params) => expr`.
type FuncLit struct {
	Params []string
	Body   Expr
	Pos    token.Pos
}

func (e *FuncLit) String() string {
	return fmt.Sprintf("func (%s) => %s", strings.Join(e.Params, ", "), e.Body)
}
func (e *FuncLit) Position() token.Pos { return e.Pos }
func (*FuncLit) exprNode()         {}

// ModuleLit is `module { defaults } => (out_expr?) { body }`.
type ModuleLit struct {
	Defaults []*TupleField
	OutExpr  Expr // nil when the module yields its let bindings
	Body     []Stmt
	Pos      token.Pos
}

func (e *ModuleLit) String() string {
	parts := make([]string, len(e.Defaults))
	for i, f := range e.Defaults {
		parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value)
	}
	out := ""
	if e.OutExpr != nil {
		out = fmt.Sprintf("(%s) ", e.OutExpr)
	}
	return fmt.Sprintf("module {%s} => %s{...}", strings.Join(parts, ", "), out)
}
func (e *ModuleLit) Position() token.Pos { return e.Pos }
func (*ModuleLit) exprNode()         {}

// SelectBranch is one `name = expr` case inside a `select`.
type SelectBranch struct {
	Name  string
	Value Expr
}

// SelectExpr is `select key, default { branches }`.
type SelectExpr struct {
	Key      Expr
	Default  Expr
	Branches []*SelectBranch
	Pos      token.Pos
}

func (e *SelectExpr) String() string {
	parts := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		parts[i] = fmt.Sprintf("%s=%s", b.Name, b.Value)
	}
	return fmt.Sprintf("select %s, %s {%s}", e.Key, e.Default, strings.Join(parts, ", "))
}
func (e *SelectExpr) Position() token.Pos { return e.Pos }
func (*SelectExpr) exprNode()         {}

// ImportExpr is `import "path"`.
type ImportExpr struct {
	Path string
	Pos  token.Pos
}

func (e *ImportExpr) String() string  { return fmt.Sprintf("import %q", e.Path) }
func (e *ImportExpr) Position() token.Pos { return e.Pos }
func (*ImportExpr) exprNode()         {}

// FailExpr is `fail msg`.
type FailExpr struct {
	Msg Expr
	Pos token.Pos
}

func (e *FailExpr) String() string  { return fmt.Sprintf("fail %s", e.Msg) }
func (e *FailExpr) Position() token.Pos { return e.Pos }
func (*FailExpr) exprNode()         {}

// BinaryExpr is any binary operator application.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   token.Pos
}

func (e *BinaryExpr) String() string  { return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right) }
func (e *BinaryExpr) Position() token.Pos { return e.Pos }
func (*BinaryExpr) exprNode()         {}

// UnaryExpr is `not expr` or unary `- expr`.
type UnaryExpr struct {
	Op   string
	Expr Expr
	Pos  token.Pos
}

func (e *UnaryExpr) String() string {
	if e.Op == "not" {
		return fmt.Sprintf("(%s %s)", e.Op, e.Expr)
	}
	return fmt.Sprintf("(%s%s)", e.Op, e.Expr)
}
func (e *UnaryExpr) Position() token.Pos { return e.Pos }
func (*UnaryExpr) exprNode()         {}

// SelectorExpr is static field/index access: `e.f` or `e.0`.
type SelectorExpr struct {
	Target Expr
	Field  string // identifier or integer literal text
	Pos    token.Pos
}

func (e *SelectorExpr) String() string  { return fmt.Sprintf("%s.%s", e.Target, e.Field) }
func (e *SelectorExpr) Position() token.Pos { return e.Pos }
func (*SelectorExpr) exprNode()         {}

// DynIndexExpr is dynamic field/index access: `e.(expr)`.
type DynIndexExpr struct {
	Target Expr
	Index  Expr
	Pos    token.Pos
}

func (e *DynIndexExpr) String() string  { return fmt.Sprintf("%s.(%s)", e.Target, e.Index) }
func (e *DynIndexExpr) Position() token.Pos { return e.Pos }
func (*DynIndexExpr) exprNode()         {}

// CallExpr is function application: `f(args)`.
type CallExpr struct {
	Func Expr
	Args []Expr
	Pos  token.Pos
}

func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Func, strings.Join(parts, ", "))
}
func (e *CallExpr) Position() token.Pos { return e.Pos }
func (*CallExpr) exprNode()         {}

// CopyExpr is tuple copy-on-modify / module instantiation: `base{overrides}`.
type CopyExpr struct {
	Base   Expr
	Fields []*TupleField
	Pos    token.Pos
}

func (e *CopyExpr) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value)
	}
	return fmt.Sprintf("%s{%s}", e.Base, strings.Join(parts, ", "))
}
func (e *CopyExpr) Position() token.Pos { return e.Pos }
func (*CopyExpr) exprNode()         {}

// FormatExpr is `fmt % (args)`.
type FormatExpr struct {
	Format Expr
	Args   []Expr
	Pos    token.Pos
}

func (e *FormatExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %% (%s)", e.Format, strings.Join(parts, ", "))
}
func (e *FormatExpr) Position() token.Pos { return e.Pos }
func (*FormatExpr) exprNode()         {}

// RangeExpr is `a:b` or `a:step:b`.
type RangeExpr struct {
	Start Expr
	Step  Expr // nil => defaults to 1
	End   Expr
	Pos   token.Pos
}

func (e *RangeExpr) String() string {
	if e.Step != nil {
		return fmt.Sprintf("%s:%s:%s", e.Start, e.Step, e.End)
	}
	return fmt.Sprintf("%s:%s", e.Start, e.End)
}
func (e *RangeExpr) Position() token.Pos { return e.Pos }
func (*RangeExpr) exprNode()         {}

// InExpr is `NAME in tuple`.
type InExpr struct {
	Name  string
	Tuple Expr
	Pos   token.Pos
}

func (e *InExpr) String() string  { return fmt.Sprintf("%s in %s", e.Name, e.Tuple) }
func (e *InExpr) Position() token.Pos { return e.Pos }
func (*InExpr) exprNode()         {}

// IsExpr is `e is TYPE`.
type IsExpr struct {
	Expr Expr
	Type string
	Pos  token.Pos
}

func (e *IsExpr) String() string  { return fmt.Sprintf("%s is %s", e.Expr, e.Type) }
func (e *IsExpr) Position() token.Pos { return e.Pos }
func (*IsExpr) exprNode()         {}
