package eval

import (
	"fmt"
	"strconv"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// callBuiltin dispatches one of the fixed built-in primitives. Arguments
// are reduced here (rather than by the caller) since each built-in has its
// own arity and evaluation order.
func (ev *Evaluator) callBuiltin(env *Environment, name string, argExprs []ast.Expr, pos token.Pos) (value.Value, error) {
	switch name {
	case "reduce":
		return ev.callReduce(env, argExprs, pos)
	case "filter":
		return ev.callFilter(env, argExprs, pos)
	case "map":
		return ev.callMap(env, argExprs, pos)
	case "int":
		return ev.callConversion(env, argExprs, pos, convInt)
	case "float":
		return ev.callConversion(env, argExprs, pos, convFloat)
	case "str":
		return ev.callConversion(env, argExprs, pos, convStr)
	case "bool":
		return ev.callConversion(env, argExprs, pos, convBool)
	}
	return nil, errors.New(errors.NAM001, fmt.Sprintf("unknown builtin %q", name), pos)
}

func (ev *Evaluator) evalFuncArg(env *Environment, expr ast.Expr, pos token.Pos) (value.Func, error) {
	v, err := ev.Eval(env, expr)
	if err != nil {
		return value.Func{}, err
	}
	fn, ok := v.(value.Func)
	if !ok {
		return value.Func{}, errors.New(errors.TYP003, fmt.Sprintf("expected a function, got %s", v.Kind()), pos)
	}
	return fn, nil
}

// collectionWalk iterates a collection for filter/map/reduce, producing
// one "element call" per item: the arguments to pass to the callback (not
// counting any reduce accumulator) and a rebuild function that reassembles
// a same-kind collection from a parallel slice of per-element results
// (used by filter's keep-mask and map's per-element transform).
type collectionWalk struct {
	count   int
	argsFor func(i int) []value.Value
	rebuildFiltered func(keep []bool) value.Value
	rebuildMapped   func(mapped []value.Value) (value.Value, error)
}

func walkCollection(coll value.Value, pos token.Pos) (*collectionWalk, error) {
	switch c := coll.(type) {
	case value.List:
		return &collectionWalk{
			count: len(c.Elements),
			argsFor: func(i int) []value.Value { return []value.Value{c.Elements[i]} },
			rebuildFiltered: func(keep []bool) value.Value {
				var out []value.Value
				for i, k := range keep {
					if k {
						out = append(out, c.Elements[i])
					}
				}
				return value.List{Elements: out}
			},
			rebuildMapped: func(mapped []value.Value) (value.Value, error) {
				return value.List{Elements: mapped}, nil
			},
		}, nil
	case value.Str:
		runes := []rune(c.Value)
		return &collectionWalk{
			count: len(runes),
			argsFor: func(i int) []value.Value { return []value.Value{value.Str{Value: string(runes[i])}} },
			rebuildFiltered: func(keep []bool) value.Value {
				var b []rune
				for i, k := range keep {
					if k {
						b = append(b, runes[i])
					}
				}
				return value.Str{Value: string(b)}
			},
			rebuildMapped: func(mapped []value.Value) (value.Value, error) {
				out := make([]rune, 0, len(mapped))
				for _, m := range mapped {
					s, ok := m.(value.Str)
					if !ok || len([]rune(s.Value)) != 1 {
						return nil, errors.New(errors.TYP003, "map over a string must return single-character strings", pos)
					}
					out = append(out, []rune(s.Value)[0])
				}
				return value.Str{Value: string(out)}, nil
			},
		}, nil
	case value.Tuple:
		names := append([]string{}, c.Order...)
		return &collectionWalk{
			count: len(names),
			argsFor: func(i int) []value.Value {
				return []value.Value{value.Str{Value: names[i]}, c.Fields[names[i]]}
			},
			rebuildFiltered: func(keep []bool) value.Value {
				var outNames []string
				var outVals []value.Value
				for i, k := range keep {
					if k {
						outNames = append(outNames, names[i])
						outVals = append(outVals, c.Fields[names[i]])
					}
				}
				return value.NewTuple(outNames, outVals)
			},
			rebuildMapped: func(mapped []value.Value) (value.Value, error) {
				return value.NewTuple(names, mapped), nil
			},
		}, nil
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("expected str, list, or tuple, got %s", coll.Kind()), pos)
	}
}

func (ev *Evaluator) callFilter(env *Environment, argExprs []ast.Expr, pos token.Pos) (value.Value, error) {
	if len(argExprs) != 2 {
		return nil, errors.New(errors.ARI001, "filter(f, coll) takes 2 arguments", pos)
	}
	fn, err := ev.evalFuncArg(env, argExprs[0], pos)
	if err != nil {
		return nil, err
	}
	collVal, err := ev.Eval(env, argExprs[1])
	if err != nil {
		return nil, err
	}
	w, err := walkCollection(collVal, pos)
	if err != nil {
		return nil, err
	}

	keep := make([]bool, w.count)
	for i := 0; i < w.count; i++ {
		res, err := ev.applyFunc(fn, w.argsFor(i), pos)
		if err != nil {
			return nil, err
		}
		b, ok := res.(value.Bool)
		if !ok {
			return nil, errors.New(errors.TYP003, "filter callback must return bool", pos)
		}
		keep[i] = b.Value
	}
	return w.rebuildFiltered(keep), nil
}

func (ev *Evaluator) callMap(env *Environment, argExprs []ast.Expr, pos token.Pos) (value.Value, error) {
	if len(argExprs) != 2 {
		return nil, errors.New(errors.ARI001, "map(f, coll) takes 2 arguments", pos)
	}
	fn, err := ev.evalFuncArg(env, argExprs[0], pos)
	if err != nil {
		return nil, err
	}
	collVal, err := ev.Eval(env, argExprs[1])
	if err != nil {
		return nil, err
	}
	w, err := walkCollection(collVal, pos)
	if err != nil {
		return nil, err
	}

	mapped := make([]value.Value, w.count)
	for i := 0; i < w.count; i++ {
		res, err := ev.applyFunc(fn, w.argsFor(i), pos)
		if err != nil {
			return nil, err
		}
		mapped[i] = res
	}
	return w.rebuildMapped(mapped)
}

func (ev *Evaluator) callReduce(env *Environment, argExprs []ast.Expr, pos token.Pos) (value.Value, error) {
	if len(argExprs) != 3 {
		return nil, errors.New(errors.ARI001, "reduce(f, init, coll) takes 3 arguments", pos)
	}
	fn, err := ev.evalFuncArg(env, argExprs[0], pos)
	if err != nil {
		return nil, err
	}
	acc, err := ev.Eval(env, argExprs[1])
	if err != nil {
		return nil, err
	}
	collVal, err := ev.Eval(env, argExprs[2])
	if err != nil {
		return nil, err
	}
	w, err := walkCollection(collVal, pos)
	if err != nil {
		return nil, err
	}

	for i := 0; i < w.count; i++ {
		callArgs := append([]value.Value{acc}, w.argsFor(i)...)
		acc, err = ev.applyFunc(fn, callArgs, pos)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (ev *Evaluator) callConversion(env *Environment, argExprs []ast.Expr, pos token.Pos, conv func(value.Value, token.Pos) (value.Value, error)) (value.Value, error) {
	if len(argExprs) != 1 {
		return nil, errors.New(errors.ARI001, "conversion built-ins take exactly 1 argument", pos)
	}
	v, err := ev.Eval(env, argExprs[0])
	if err != nil {
		return nil, err
	}
	return conv(v, pos)
}

func convInt(v value.Value, pos token.Pos) (value.Value, error) {
	switch t := v.(type) {
	case value.Int:
		return t, nil
	case value.Float:
		return value.Int{Value: int64(t.Value)}, nil
	case value.Bool:
		if t.Value {
			return value.Int{Value: 1}, nil
		}
		return value.Int{Value: 0}, nil
	case value.Str:
		n, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %q to int", t.Value), pos)
		}
		return value.Int{Value: n}, nil
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %s to int", v.Kind()), pos)
	}
}

func convFloat(v value.Value, pos token.Pos) (value.Value, error) {
	switch t := v.(type) {
	case value.Float:
		return t, nil
	case value.Int:
		return value.Float{Value: float64(t.Value)}, nil
	case value.Bool:
		if t.Value {
			return value.Float{Value: 1}, nil
		}
		return value.Float{Value: 0}, nil
	case value.Str:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %q to float", t.Value), pos)
		}
		return value.Float{Value: f}, nil
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %s to float", v.Kind()), pos)
	}
}

func convStr(v value.Value, pos token.Pos) (value.Value, error) {
	_ = pos
	return value.Str{Value: v.String()}, nil
}

func convBool(v value.Value, pos token.Pos) (value.Value, error) {
	switch t := v.(type) {
	case value.Bool:
		return t, nil
	case value.Int:
		return value.Bool{Value: t.Value != 0}, nil
	case value.Float:
		return value.Bool{Value: t.Value != 0}, nil
	case value.Null:
		return value.Bool{Value: false}, nil
	case value.Str:
		switch t.Value {
		case "true":
			return value.Bool{Value: true}, nil
		case "false":
			return value.Bool{Value: false}, nil
		default:
			return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %q to bool", t.Value), pos)
		}
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot convert %s to bool", v.Kind()), pos)
	}
}
