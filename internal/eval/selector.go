package eval

import (
	"fmt"
	"strconv"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalSelector implements `e.f` / `e.0`, including the special forms
// `env.NAME`, `mod.this`, and module-instance access to its internal lets.
func (ev *Evaluator) evalSelector(env *Environment, e *ast.SelectorExpr) (value.Value, error) {
	if _, ok := e.Target.(*ast.EnvExpr); ok {
		return EnvTuple{}.Lookup(sanitizeEnvName(e.Field)), nil
	}
	if _, ok := e.Target.(*ast.ModExpr); ok {
		if e.Field == "this" {
			_, self, _, ok := env.ModuleContext()
			if !ok || self == nil {
				return nil, errors.New(errors.NAM001, "mod.this used outside a recursive module body", e.Pos)
			}
			return *self, nil
		}
		merged, _, _, ok := env.ModuleContext()
		if !ok {
			return nil, errors.New(errors.NAM001, "mod used outside a module body", e.Pos)
		}
		return selectField(merged, e.Field, e.Pos)
	}

	target, err := ev.Eval(env, e.Target)
	if err != nil {
		return nil, err
	}
	return ev.selectInto(target, e.Field, e.Pos)
}

func (ev *Evaluator) selectInto(target value.Value, field string, pos token.Pos) (value.Value, error) {
	switch t := target.(type) {
	case value.Tuple:
		return selectField(t, field, pos)
	case value.List:
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.New(errors.IDX001, fmt.Sprintf("list index must be an integer, got %q", field), pos)
		}
		return selectListIndex(t, idx, pos)
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot select a field on %s", target.Kind()), pos)
	}
}

func selectField(t value.Tuple, name string, pos token.Pos) (value.Value, error) {
	v, ok := t.Fields[name]
	if !ok {
		return nil, errors.New(errors.IDX002, fmt.Sprintf("tuple has no field %q", name), pos)
	}
	return v, nil
}

func selectListIndex(l value.List, idx int, pos token.Pos) (value.Value, error) {
	if idx < 0 || idx >= len(l.Elements) {
		return nil, errors.New(errors.IDX001, fmt.Sprintf("list index %d out of range (len %d)", idx, len(l.Elements)), pos)
	}
	return l.Elements[idx], nil
}

// evalDynIndex implements `e.(expr)`, where expr reduces to an Int (list
// index) or Str (tuple field name). `env.(expr)` reads the process
// environment lazily, the same as `env.NAME`.
func (ev *Evaluator) evalDynIndex(env *Environment, e *ast.DynIndexExpr) (value.Value, error) {
	if _, ok := e.Target.(*ast.EnvExpr); ok {
		idx, err := ev.Eval(env, e.Index)
		if err != nil {
			return nil, err
		}
		name, ok := idx.(value.Str)
		if !ok {
			return nil, errors.New(errors.TYP003, "env dynamic index must reduce to str", e.Pos)
		}
		return EnvTuple{}.Lookup(sanitizeEnvName(name.Value)), nil
	}

	target, err := ev.Eval(env, e.Target)
	if err != nil {
		return nil, err
	}
	idx, err := ev.Eval(env, e.Index)
	if err != nil {
		return nil, err
	}

	switch i := idx.(type) {
	case value.Str:
		return ev.selectInto(target, i.Value, e.Pos)
	case value.Int:
		l, ok := target.(value.List)
		if !ok {
			return nil, errors.New(errors.TYP003, "integer dynamic index requires a list", e.Pos)
		}
		return selectListIndex(l, int(i.Value), e.Pos)
	default:
		return nil, errors.New(errors.TYP003, "dynamic index must reduce to int or str", e.Pos)
	}
}
