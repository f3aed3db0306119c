// Package errors provides UCG's structured error taxonomy: every error the
// parser, evaluator, and source registry raise carries a stable code, a
// phase, and a chain of source spans (innermost first), per spec §7. The
// lexer records its own errors without a code; the parser reports the
// resulting ILLEGAL token as PAR001.
package errors

import (
	"fmt"
	"strings"

	"github.com/ucg-lang/ucg/internal/token"
)

// Error codes, grouped by phase. Each constant is one of the kinds spec §7
// names: LexError, ParseError, NameError, TypeFail, ArityError, IndexError,
// ImportError, AssertFail, UserFail.
const (
	// Lexer errors (LEX###)
	LEX001 = "LEX001" // illegal byte
	LEX002 = "LEX002" // unterminated string literal

	// Parser errors (PAR###)
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // two adjacent semicolons
	PAR004 = "PAR004" // malformed select/module/func shape
	PAR005 = "PAR005" // more than one `out` statement in a file, or `out` in an imported file

	// Name resolution errors (NAM###)
	NAM001 = "NAM001" // unbound identifier
	NAM002 = "NAM002" // duplicate let binding in a frame

	// Type errors (TYP###)
	TYP001 = "TYP001" // operand type mismatch (arithmetic/concatenation)
	TYP002 = "TYP002" // tuple override type mismatch
	TYP003 = "TYP003" // bad argument type to a built-in
	TYP004 = "TYP004" // select key did not reduce to Str
	TYP005 = "TYP005" // non-Bool operand to logical operator

	// Arity errors (ARI###)
	ARI001 = "ARI001" // wrong number of call arguments
	ARI002 = "ARI002" // format string/argument count mismatch

	// Index/field errors (IDX###)
	IDX001 = "IDX001" // list index out of range
	IDX002 = "IDX002" // missing tuple field
	IDX003 = "IDX003" // select had no matching branch and no default

	// Import errors (IMP###)
	IMP001 = "IMP001" // source file not found
	IMP002 = "IMP002" // import cycle
	IMP003 = "IMP003" // error while evaluating an imported file

	// Assertion failures (ASR###, recorded, never thrown)
	ASR001 = "ASR001"

	// User-raised failures (USR###)
	USR001 = "USR001" // `fail msg`

	// Resource errors (RES###)
	RES001 = "RES001" // recursion/call depth limit exceeded
)

// Info describes one error code for documentation/introspection purposes.
type Info struct {
	Code  string
	Phase string
	Title string
}

// Registry maps every known code to its descriptive Info.
var Registry = map[string]Info{
	LEX001: {LEX001, "lex", "illegal byte"},
	LEX002: {LEX002, "lex", "unterminated string literal"},

	PAR001: {PAR001, "parse", "unexpected token"},
	PAR002: {PAR002, "parse", "missing closing delimiter"},
	PAR003: {PAR003, "parse", "two adjacent semicolons"},
	PAR004: {PAR004, "parse", "malformed construct"},
	PAR005: {PAR005, "parse", "duplicate or non-root out statement"},

	NAM001: {NAM001, "name", "unbound identifier"},
	NAM002: {NAM002, "name", "duplicate let binding"},

	TYP001: {TYP001, "type", "operand type mismatch"},
	TYP002: {TYP002, "type", "tuple override type mismatch"},
	TYP003: {TYP003, "type", "bad built-in argument type"},
	TYP004: {TYP004, "type", "select key is not Str"},
	TYP005: {TYP005, "type", "logical operand is not Bool"},

	ARI001: {ARI001, "arity", "wrong call argument count"},
	ARI002: {ARI002, "arity", "format argument count mismatch"},

	IDX001: {IDX001, "index", "list index out of range"},
	IDX002: {IDX002, "index", "missing tuple field"},
	IDX003: {IDX003, "index", "no matching select branch"},

	IMP001: {IMP001, "import", "source not found"},
	IMP002: {IMP002, "import", "import cycle"},
	IMP003: {IMP003, "import", "error in imported file"},

	ASR001: {ASR001, "assert", "assertion recorded"},

	USR001: {USR001, "fail", "user fail"},

	RES001: {RES001, "resource", "recursion depth exceeded"},
}

// Diagnostic is UCG's single structured error type. Every error produced by
// the parser or evaluator (other than AssertFail, which is recorded rather
// than thrown) is a *Diagnostic, carrying a span chain with the innermost
// failure first. Lexer errors are not Diagnostics.
type Diagnostic struct {
	Code    string
	Message string
	Spans   []token.Pos // innermost first
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Code, d.Message)
	if len(d.Spans) > 0 {
		fmt.Fprintf(&b, " at %s", d.Spans[0])
	}
	for _, s := range d.Spans[1:] {
		fmt.Fprintf(&b, "\n\tfrom %s", s)
	}
	return b.String()
}

// New creates a Diagnostic with a single span.
func New(code, message string, pos token.Pos) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Spans: []token.Pos{pos}}
}

// Wrap appends an outer span after an inner diagnostic's chain, keeping the
// span chain innermost-first as errors propagate out of nested imports and
// calls. The inner diagnostic's code and message win, since the innermost
// failure is the one worth reading; the outer message is kept only when the
// inner error carries no diagnostic structure.
func Wrap(code, message string, pos token.Pos, inner error) *Diagnostic {
	if id, ok := inner.(*Diagnostic); ok {
		spans := append(append([]token.Pos{}, id.Spans...), pos)
		return &Diagnostic{Code: id.Code, Message: id.Message, Spans: spans}
	}
	return &Diagnostic{Code: code, Message: message, Spans: []token.Pos{pos}}
}

// Phase returns the phase name for a code, or "" if unknown.
func Phase(code string) string {
	if info, ok := Registry[code]; ok {
		return info.Phase
	}
	return ""
}
