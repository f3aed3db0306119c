package eval

import (
	"fmt"
	"math"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

func (ev *Evaluator) evalBinary(env *Environment, e *ast.BinaryExpr) (value.Value, error) {
	switch e.Op {
	case "&&":
		return ev.evalLogical(env, e, false)
	case "||":
		return ev.evalLogical(env, e, true)
	}

	left, err := ev.Eval(env, e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "==":
		right, err := ev.Eval(env, e.Right)
		if err != nil {
			return nil, err
		}
		return value.Bool{Value: value.Equal(left, right)}, nil
	case "!=":
		right, err := ev.Eval(env, e.Right)
		if err != nil {
			return nil, err
		}
		return value.Bool{Value: !value.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		right, err := ev.Eval(env, e.Right)
		if err != nil {
			return nil, err
		}
		return evalOrdering(e.Op, left, right, e.Pos)
	case "+", "-", "*", "/":
		right, err := ev.Eval(env, e.Right)
		if err != nil {
			return nil, err
		}
		return evalArith(e.Op, left, right, e.Pos)
	}

	return nil, errors.New(errors.TYP001, fmt.Sprintf("unknown operator %q", e.Op), e.Pos)
}

// evalLogical short-circuits: shortCircuitOn is the value of Left that
// skips evaluating Right (false for &&, true for ||).
func (ev *Evaluator) evalLogical(env *Environment, e *ast.BinaryExpr, shortCircuitOn bool) (value.Value, error) {
	left, err := ev.Eval(env, e.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(value.Bool)
	if !ok {
		return nil, errors.New(errors.TYP005, "logical operand must be bool", e.Left.Position())
	}
	if lb.Value == shortCircuitOn {
		return lb, nil
	}
	right, err := ev.Eval(env, e.Right)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(value.Bool)
	if !ok {
		return nil, errors.New(errors.TYP005, "logical operand must be bool", e.Right.Position())
	}
	return rb, nil
}

// evalOrdering implements <, <=, >, >= for Int, Float, and Str, per spec
// §4.4 ("ordering only on Int/Str/Float"). An ordering against NaN is false
// regardless of operator, per IEEE-754.
func evalOrdering(op string, left, right value.Value, pos token.Pos) (value.Value, error) {
	if left.Kind() != right.Kind() {
		return nil, errors.New(errors.TYP001, fmt.Sprintf("cannot order %s against %s", left.Kind(), right.Kind()), pos)
	}
	if lf, ok := left.(value.Float); ok {
		rf := right.(value.Float)
		if math.IsNaN(lf.Value) || math.IsNaN(rf.Value) {
			return value.Bool{Value: false}, nil
		}
	}
	lt, ok := value.Less(left, right)
	if !ok {
		return nil, errors.New(errors.TYP001, fmt.Sprintf("type %s does not support ordering", left.Kind()), pos)
	}
	eq := value.Equal(left, right)
	switch op {
	case "<":
		return value.Bool{Value: lt}, nil
	case "<=":
		return value.Bool{Value: lt || eq}, nil
	case ">":
		return value.Bool{Value: !lt && !eq}, nil
	case ">=":
		return value.Bool{Value: !lt || eq}, nil
	}
	return nil, errors.New(errors.TYP001, fmt.Sprintf("unknown ordering operator %q", op), pos)
}

// evalArith implements +, -, *, / with spec §4.4's type-matching and
// integer-truncating-toward-zero division.
func evalArith(op string, left, right value.Value, pos token.Pos) (value.Value, error) {
	if op == "+" {
		if ls, ok := left.(value.Str); ok {
			rs, ok := right.(value.Str)
			if !ok {
				return nil, errors.New(errors.TYP001, "cannot concatenate str with non-str", pos)
			}
			return value.Str{Value: ls.Value + rs.Value}, nil
		}
		if ll, ok := left.(value.List); ok {
			rl, ok := right.(value.List)
			if !ok {
				return nil, errors.New(errors.TYP001, "cannot concatenate list with non-list", pos)
			}
			elems := make([]value.Value, 0, len(ll.Elements)+len(rl.Elements))
			elems = append(elems, ll.Elements...)
			elems = append(elems, rl.Elements...)
			return value.List{Elements: elems}, nil
		}
	}

	if left.Kind() != right.Kind() {
		return nil, errors.New(errors.TYP001, fmt.Sprintf("operand type mismatch: %s %s %s", left.Kind(), op, right.Kind()), pos)
	}

	switch lv := left.(type) {
	case value.Int:
		rv := right.(value.Int)
		switch op {
		case "+":
			return value.Int{Value: lv.Value + rv.Value}, nil
		case "-":
			return value.Int{Value: lv.Value - rv.Value}, nil
		case "*":
			return value.Int{Value: lv.Value * rv.Value}, nil
		case "/":
			if rv.Value == 0 {
				return nil, errors.New(errors.TYP001, "integer division by zero", pos)
			}
			return value.Int{Value: lv.Value / rv.Value}, nil
		}
	case value.Float:
		rv := right.(value.Float)
		switch op {
		case "+":
			return value.Float{Value: lv.Value + rv.Value}, nil
		case "-":
			return value.Float{Value: lv.Value - rv.Value}, nil
		case "*":
			return value.Float{Value: lv.Value * rv.Value}, nil
		case "/":
			return value.Float{Value: lv.Value / rv.Value}, nil
		}
	}

	return nil, errors.New(errors.TYP001, fmt.Sprintf("operator %q is not defined for %s", op, left.Kind()), pos)
}

func (ev *Evaluator) evalUnary(env *Environment, e *ast.UnaryExpr) (value.Value, error) {
	v, err := ev.Eval(env, e.Expr)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "not":
		b, ok := v.(value.Bool)
		if !ok {
			return nil, errors.New(errors.TYP005, "'not' operand must be bool", e.Pos)
		}
		return value.Bool{Value: !b.Value}, nil
	case "-":
		switch n := v.(type) {
		case value.Int:
			return value.Int{Value: -n.Value}, nil
		case value.Float:
			return value.Float{Value: -n.Value}, nil
		default:
			return nil, errors.New(errors.TYP001, "unary '-' requires int or float", e.Pos)
		}
	}
	return nil, errors.New(errors.TYP001, fmt.Sprintf("unknown unary operator %q", e.Op), e.Pos)
}
