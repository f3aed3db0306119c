package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// builtinNames are the built-in higher-order/conversion primitives that are
// available unless a user `let` of the same name shadows them in a nearer
// frame, per ordinary lexical scoping.
var builtinNames = map[string]bool{
	"reduce": true, "filter": true, "map": true,
	"int": true, "float": true, "str": true, "bool": true,
}

// evalCall implements `f(args)`, including the special zero-arg form
// `mod.pkg()` and the built-in primitives, before falling back to an
// ordinary Func call.
func (ev *Evaluator) evalCall(env *Environment, e *ast.CallExpr) (value.Value, error) {
	if sel, ok := e.Func.(*ast.SelectorExpr); ok {
		if _, isMod := sel.Target.(*ast.ModExpr); isMod && sel.Field == "pkg" {
			if len(e.Args) != 0 {
				return nil, errors.New(errors.ARI001, "mod.pkg() takes no arguments", e.Pos)
			}
			_, _, pkg, ok := env.ModuleContext()
			if !ok || pkg == nil {
				return nil, errors.New(errors.NAM001, "mod.pkg() used outside a module body", e.Pos)
			}
			return *pkg, nil
		}
	}

	if ident, ok := e.Func.(*ast.Ident); ok {
		if _, shadowed := env.Lookup(ident.Name); !shadowed && builtinNames[ident.Name] {
			return ev.callBuiltin(env, ident.Name, e.Args, e.Pos)
		}
	}

	fnVal, err := ev.Eval(env, e.Func)
	if err != nil {
		return nil, err
	}
	fn, ok := fnVal.(value.Func)
	if !ok {
		return nil, errors.New(errors.TYP003, fmt.Sprintf("cannot call a %s", fnVal.Kind()), e.Pos)
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.Eval(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ev.applyFunc(fn, args, e.Pos)
}

// applyFunc binds args positionally into a fresh child of fn's captured
// environment and reduces its body, honoring the recursion depth guard.
// Built-ins (reduce/filter/map) use this to invoke user callbacks.
func (ev *Evaluator) applyFunc(fn value.Func, args []value.Value, pos token.Pos) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, errors.New(errors.ARI001, fmt.Sprintf("function expects %d argument(s), got %d", len(fn.Params), len(args)), pos)
	}
	closureEnv, ok := fn.Env.(*Environment)
	if !ok {
		return nil, errors.New(errors.TYP003, "corrupt closure environment", pos)
	}
	body, ok := fn.Body.(ast.Expr)
	if !ok {
		return nil, errors.New(errors.TYP003, "corrupt closure body", pos)
	}

	callEnv := closureEnv.Child()
	for i, param := range fn.Params {
		callEnv.Define(param, args[i])
	}

	done, depthErr := ev.enter(pos)
	if depthErr != nil {
		return nil, depthErr
	}
	defer done()

	return ev.Eval(callEnv, body)
}
