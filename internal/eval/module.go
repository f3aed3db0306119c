package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/value"
)

// evalCopy implements `base{overrides}`, which is tuple copy-on-modify when
// base reduces to a Tuple and module instantiation when base reduces to a
// Module; the parser cannot tell these apart, so the branch is taken at
// evaluation time per spec §9 ("do not attempt static inference").
func (ev *Evaluator) evalCopy(env *Environment, e *ast.CopyExpr) (value.Value, error) {
	base, err := ev.Eval(env, e.Base)
	if err != nil {
		return nil, err
	}

	switch b := base.(type) {
	case value.Tuple:
		return ev.evalTupleCopy(env, b, e)
	case value.Module:
		return ev.evalModuleInstantiate(env, b, e)
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot copy/instantiate a %s", base.Kind()), e.Pos)
	}
}

// evalTupleCopy applies copy-on-modify per spec §3: overriding an existing
// field requires a matching type; new fields may be added freely.
func (ev *Evaluator) evalTupleCopy(env *Environment, base value.Tuple, e *ast.CopyExpr) (value.Value, error) {
	names := make([]string, len(e.Fields))
	vals := make([]value.Value, len(e.Fields))
	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		if seen[f.Name] {
			return nil, errors.New(errors.NAM002, fmt.Sprintf("duplicate field %q in tuple copy", f.Name), f.Pos)
		}
		seen[f.Name] = true

		v, err := ev.Eval(env, f.Value)
		if err != nil {
			return nil, err
		}
		if existing, ok := base.Fields[f.Name]; ok && existing.Kind() != v.Kind() {
			return nil, errors.New(errors.TYP002, fmt.Sprintf("override for field %q changes type from %s to %s", f.Name, existing.Kind(), v.Kind()), f.Pos)
		}
		names[i] = f.Name
		vals[i] = v
	}
	return base.With(names, vals), nil
}

// evalModuleInstantiate applies spec §4.4's module instantiation rule:
// type-check overrides against defaults exactly like a tuple copy, merge
// into `mod`, evaluate the body statements into a fresh child environment,
// and return either the reduced out-expression or a tuple of the body's
// let bindings.
func (ev *Evaluator) evalModuleInstantiate(env *Environment, mod value.Module, e *ast.CopyExpr) (value.Value, error) {
	names := make([]string, len(e.Fields))
	vals := make([]value.Value, len(e.Fields))
	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		if seen[f.Name] {
			return nil, errors.New(errors.NAM002, fmt.Sprintf("duplicate field %q in module instantiation", f.Name), f.Pos)
		}
		seen[f.Name] = true

		v, err := ev.Eval(env, f.Value)
		if err != nil {
			return nil, err
		}
		if existing, ok := mod.Defaults.Fields[f.Name]; ok && existing.Kind() != v.Kind() {
			return nil, errors.New(errors.TYP002, fmt.Sprintf("override for field %q changes type from %s to %s", f.Name, existing.Kind(), v.Kind()), f.Pos)
		}
		names[i] = f.Name
		vals[i] = v
	}
	merged := mod.Defaults.With(names, vals)

	definingEnv, ok := mod.Env.(*Environment)
	if !ok {
		return nil, errors.New(errors.TYP003, "corrupt module closure environment", e.Pos)
	}
	outExpr, _ := mod.OutExpr.(ast.Expr) // nil OutExpr means "yield lets"
	body, ok := mod.Body.([]ast.Stmt)
	if !ok {
		return nil, errors.New(errors.TYP003, "corrupt module body", e.Pos)
	}

	self := mod
	var pkg *value.Module
	if _, _, parentPkg, ok := definingEnv.ModuleContext(); ok && parentPkg != nil {
		pkg = parentPkg
	} else {
		pkg = &self
	}
	bodyEnv := definingEnv.WithModuleContext(merged, &self, pkg)

	done, depthErr := ev.enter(e.Pos)
	if depthErr != nil {
		return nil, depthErr
	}
	defer done()

	for _, stmt := range body {
		if let, ok := stmt.(*ast.LetStmt); ok {
			v, err := ev.Eval(bodyEnv, let.Value)
			if err != nil {
				return nil, err
			}
			if !bodyEnv.Define(let.Name, v) {
				return nil, errors.New(errors.NAM002, fmt.Sprintf("duplicate let binding %q", let.Name), let.Pos)
			}
			continue
		}
		// assert/out/expr statements inside a module body are evaluated
		// for effect only; asserts and out are meaningless (and unreachable
		// in practice, since the parser only sees them at file scope in
		// idiomatic UCG) but still reduced so side-effect-free expression
		// statements behave identically to file scope.
		if err := ev.evalModuleBodyStmt(bodyEnv, stmt); err != nil {
			return nil, err
		}
	}

	if outExpr != nil {
		return ev.Eval(bodyEnv, outExpr)
	}
	return tupleOfLets(body, bodyEnv), nil
}

func (ev *Evaluator) evalModuleBodyStmt(env *Environment, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.AssertStmt:
		_, err := ev.Eval(env, s.Expr)
		return err
	case *ast.OutStmt:
		_, err := ev.Eval(env, s.Expr)
		return err
	case *ast.ExprStmt:
		_, err := ev.Eval(env, s.Expr)
		return err
	}
	return nil
}

// tupleOfLets builds the "no out_expr" return value: a tuple of every let
// binding declared directly in body, read back from bodyEnv so that later
// lets can reference earlier ones.
func tupleOfLets(body []ast.Stmt, bodyEnv *Environment) value.Value {
	var names []string
	var vals []value.Value
	for _, stmt := range body {
		let, ok := stmt.(*ast.LetStmt)
		if !ok {
			continue
		}
		v, ok := bodyEnv.Lookup(let.Name)
		if !ok {
			continue
		}
		names = append(names, let.Name)
		vals = append(vals, v)
	}
	return value.NewTuple(names, vals)
}
