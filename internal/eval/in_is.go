package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalIn implements `NAME in tuple`: Bool field presence, not a frame
// lookup of NAME.
func (ev *Evaluator) evalIn(env *Environment, e *ast.InExpr) (value.Value, error) {
	tupleVal, err := ev.Eval(env, e.Tuple)
	if err != nil {
		return nil, err
	}
	t, ok := tupleVal.(value.Tuple)
	if !ok {
		return nil, errors.New(errors.TYP003, fmt.Sprintf("'in' requires a tuple, got %s", tupleVal.Kind()), e.Pos)
	}
	return value.Bool{Value: t.Has(e.Name)}, nil
}

var isTypeKinds = map[string]value.Kind{
	"int":    value.IntKind,
	"float":  value.FloatKind,
	"str":    value.StrKind,
	"bool":   value.BoolKind,
	"null":   value.NullKind,
	"list":   value.ListKind,
	"tuple":  value.TupleKind,
	"func":   value.FuncKind,
	"module": value.ModuleKind,
}

// evalIs implements `e is TYPE`.
func (ev *Evaluator) evalIs(env *Environment, e *ast.IsExpr) (value.Value, error) {
	v, err := ev.Eval(env, e.Expr)
	if err != nil {
		return nil, err
	}
	kind, ok := isTypeKinds[e.Type]
	if !ok {
		return nil, errors.New(errors.TYP003, fmt.Sprintf("unknown type name %q in 'is'", e.Type), e.Pos)
	}
	return value.Bool{Value: v.Kind() == kind}, nil
}
