package eval

import (
	"fmt"
	"strings"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalFormat implements `fmt % (args)`: each unescaped `@` in fmt consumes
// one arg, stringified canonically (bare for Str, literal form otherwise).
func (ev *Evaluator) evalFormat(env *Environment, e *ast.FormatExpr) (value.Value, error) {
	fmtVal, err := ev.Eval(env, e.Format)
	if err != nil {
		return nil, err
	}
	fmtStr, ok := fmtVal.(value.Str)
	if !ok {
		return nil, errors.New(errors.TYP003, "format target must be a string", e.Pos)
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.Eval(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var escapedAt []int
	if lit, ok := e.Format.(*ast.StringLit); ok {
		escapedAt = lit.EscapedAt
	}

	out, err := substituteFormat(fmtStr.Value, escapedAt, args, e.Pos)
	if err != nil {
		return nil, err
	}
	return value.Str{Value: out}, nil
}

// substituteFormat consumes, in order, every '@' rune in tmpl that is not
// among escapedAt (the positions the lexer/parser recorded as originating
// from a `\@` escape) as a placeholder for the next arg; escaped '@' runes
// are always copied through literally, regardless of where they fall among
// the placeholders. escapedAt is only populated when the format operand is
// a direct string literal (ast.StringLit); a format string computed at
// runtime has no escape information left to recover, since `\@` and a bare
// '@' decode to the identical character once they are just string data.
// A placeholder/argument count mismatch in either direction is an arity
// error.
func substituteFormat(tmpl string, escapedAt []int, args []value.Value, pos token.Pos) (string, error) {
	escaped := make(map[int]bool, len(escapedAt))
	for _, i := range escapedAt {
		escaped[i] = true
	}

	runes := []rune(tmpl)
	total := 0
	for i, r := range runes {
		if r == '@' && !escaped[i] {
			total++
		}
	}
	if total != len(args) {
		return "", errors.New(errors.ARI002, fmt.Sprintf("format string has %d placeholder(s) but %d argument(s) were given", total, len(args)), pos)
	}

	var b strings.Builder
	argi := 0
	for i, r := range runes {
		if r == '@' && !escaped[i] && argi < len(args) {
			b.WriteString(args[argi].String())
			argi++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
