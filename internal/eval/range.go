package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalRange implements `a:b` and `a:s:b`, producing an inclusive list of
// Int. s defaults to 1 and must be positive; the range is empty if a > b.
func (ev *Evaluator) evalRange(env *Environment, e *ast.RangeExpr) (value.Value, error) {
	startVal, err := ev.Eval(env, e.Start)
	if err != nil {
		return nil, err
	}
	start, ok := startVal.(value.Int)
	if !ok {
		return nil, errors.New(errors.TYP003, "range bounds must be int", e.Pos)
	}

	endVal, err := ev.Eval(env, e.End)
	if err != nil {
		return nil, err
	}
	end, ok := endVal.(value.Int)
	if !ok {
		return nil, errors.New(errors.TYP003, "range bounds must be int", e.Pos)
	}

	step := int64(1)
	if e.Step != nil {
		stepVal, err := ev.Eval(env, e.Step)
		if err != nil {
			return nil, err
		}
		s, ok := stepVal.(value.Int)
		if !ok {
			return nil, errors.New(errors.TYP003, "range step must be int", e.Pos)
		}
		if s.Value <= 0 {
			return nil, errors.New(errors.TYP003, fmt.Sprintf("range step must be positive, got %d", s.Value), e.Pos)
		}
		step = s.Value
	}

	var elems []value.Value
	for i := start.Value; i <= end.Value; i += step {
		elems = append(elems, value.Int{Value: i})
	}
	return value.List{Elements: elems}, nil
}
