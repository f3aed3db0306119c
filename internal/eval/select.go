package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalSelect implements `select key, default {branches}`: key must reduce
// to Str; a matching branch name wins, else default; no default and no
// match is an error.
func (ev *Evaluator) evalSelect(env *Environment, e *ast.SelectExpr) (value.Value, error) {
	keyVal, err := ev.Eval(env, e.Key)
	if err != nil {
		return nil, err
	}
	key, ok := keyVal.(value.Str)
	if !ok {
		return nil, errors.New(errors.TYP004, fmt.Sprintf("select key must be a string, got %s", keyVal.Kind()), e.Pos)
	}

	for _, branch := range e.Branches {
		if branch.Name == key.Value {
			return ev.Eval(env, branch.Value)
		}
	}
	if e.Default != nil {
		return ev.Eval(env, e.Default)
	}
	return nil, errors.New(errors.IDX003, fmt.Sprintf("select: no branch matches %q and no default", key.Value), e.Pos)
}
