// Package eval implements UCG's evaluator: pure reduction of an AST
// expression, under a lexical Environment, to a fully concrete Value.
package eval

import (
	"fmt"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// Importer resolves `import "relpath"` for the file currently being
// evaluated. It is implemented by internal/registry, which depends on this
// package rather than the other way around, so imports can recursively
// invoke the evaluator without an import cycle.
type Importer interface {
	Import(fromFile, relPath string) (value.Tuple, error)
}

// DefaultMaxDepth bounds evaluation depth (nested expression evaluation,
// including call and module-instantiation chains) absent an explicit
// configuration, per spec §5's "bounded recursion depth" rule.
const DefaultMaxDepth = 4000

// Evaluator reduces AST expressions to Values. One Evaluator is reused
// across every statement and import within a program run so that the depth
// guard and Importer are shared consistently.
type Evaluator struct {
	Importer Importer
	MaxDepth int

	depth int
}

// New creates an Evaluator with the default recursion depth limit.
func New(importer Importer) *Evaluator {
	return &Evaluator{Importer: importer, MaxDepth: DefaultMaxDepth}
}

func (ev *Evaluator) enter(pos token.Pos) (func(), error) {
	max := ev.MaxDepth
	if max <= 0 {
		max = DefaultMaxDepth
	}
	ev.depth++
	if ev.depth > max {
		ev.depth--
		return func() {}, errors.New(errors.RES001, fmt.Sprintf("recursion depth exceeded (limit %d)", max), pos)
	}
	return func() { ev.depth-- }, nil
}

// Eval reduces expr under env to a Value. The depth guard covers AST
// nesting as well as call/instantiation chains, per spec §5.
func (ev *Evaluator) Eval(env *Environment, expr ast.Expr) (value.Value, error) {
	done, depthErr := ev.enter(expr.Position())
	if depthErr != nil {
		return nil, depthErr
	}
	defer done()

	switch e := expr.(type) {
	case *ast.IntLit:
		return value.Int{Value: e.Value}, nil
	case *ast.FloatLit:
		return value.Float{Value: e.Value}, nil
	case *ast.StringLit:
		return value.Str{Value: e.Value}, nil
	case *ast.BoolLit:
		return value.Bool{Value: e.Value}, nil
	case *ast.NullLit:
		return value.Null{}, nil
	case *ast.Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return nil, errors.New(errors.NAM001, fmt.Sprintf("unbound identifier %q", e.Name), e.Pos)
		}
		return v, nil
	case *ast.EnvExpr:
		// A bare `env` (not immediately selected into) has no concrete
		// Value representation since its fields are read lazily; it is
		// only legal as the direct target of a selector.
		return nil, errors.New(errors.TYP003, "env must be used as env.NAME", e.Pos)
	case *ast.ModExpr:
		merged, _, _, ok := env.ModuleContext()
		if !ok {
			return nil, errors.New(errors.NAM001, "mod used outside a module body", e.Pos)
		}
		return merged, nil
	case *ast.ListLit:
		return ev.evalListLit(env, e)
	case *ast.TupleLit:
		return ev.evalTupleLit(env, e)
	case *ast.FuncLit:
		return value.Func{Params: append([]string{}, e.Params...), Body: e.Body, Env: env}, nil
	case *ast.ModuleLit:
		names, vals, err := ev.evalTupleFields(env, e.Defaults)
		if err != nil {
			return nil, err
		}
		return value.Module{
			Defaults: value.NewTuple(names, vals),
			OutExpr:  e.OutExpr,
			Body:     e.Body,
			Env:      env,
			SelfPath: e.Pos.File,
		}, nil
	case *ast.SelectExpr:
		return ev.evalSelect(env, e)
	case *ast.ImportExpr:
		return ev.evalImport(env, e)
	case *ast.FailExpr:
		return ev.evalFail(env, e)
	case *ast.BinaryExpr:
		return ev.evalBinary(env, e)
	case *ast.UnaryExpr:
		return ev.evalUnary(env, e)
	case *ast.SelectorExpr:
		return ev.evalSelector(env, e)
	case *ast.DynIndexExpr:
		return ev.evalDynIndex(env, e)
	case *ast.CallExpr:
		return ev.evalCall(env, e)
	case *ast.CopyExpr:
		return ev.evalCopy(env, e)
	case *ast.FormatExpr:
		return ev.evalFormat(env, e)
	case *ast.RangeExpr:
		return ev.evalRange(env, e)
	case *ast.InExpr:
		return ev.evalIn(env, e)
	case *ast.IsExpr:
		return ev.evalIs(env, e)
	default:
		return nil, errors.New(errors.TYP003, fmt.Sprintf("unhandled expression node %T", expr), expr.Position())
	}
}

func (ev *Evaluator) evalListLit(env *Environment, e *ast.ListLit) (value.Value, error) {
	elems := make([]value.Value, len(e.Elements))
	for i, el := range e.Elements {
		v, err := ev.Eval(env, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return value.List{Elements: elems}, nil
}

func (ev *Evaluator) evalTupleFields(env *Environment, fields []*ast.TupleField) ([]string, []value.Value, error) {
	names := make([]string, len(fields))
	vals := make([]value.Value, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if seen[f.Name] {
			return nil, nil, errors.New(errors.NAM002, fmt.Sprintf("duplicate field %q in tuple literal", f.Name), f.Pos)
		}
		seen[f.Name] = true
		v, err := ev.Eval(env, f.Value)
		if err != nil {
			return nil, nil, err
		}
		names[i] = f.Name
		vals[i] = v
	}
	return names, vals, nil
}

func (ev *Evaluator) evalTupleLit(env *Environment, e *ast.TupleLit) (value.Value, error) {
	names, vals, err := ev.evalTupleFields(env, e.Fields)
	if err != nil {
		return nil, err
	}
	return value.NewTuple(names, vals), nil
}

func (ev *Evaluator) evalFail(env *Environment, e *ast.FailExpr) (value.Value, error) {
	v, err := ev.Eval(env, e.Msg)
	if err != nil {
		return nil, err
	}
	s, ok := v.(value.Str)
	if !ok {
		return nil, errors.New(errors.TYP003, "fail message must be a string", e.Pos)
	}
	return nil, errors.New(errors.USR001, s.Value, e.Pos)
}

func (ev *Evaluator) evalImport(env *Environment, e *ast.ImportExpr) (value.Value, error) {
	if ev.Importer == nil {
		return nil, errors.New(errors.IMP001, "no importer configured", e.Pos)
	}
	fromFile := e.Pos.File
	t, err := ev.Importer.Import(fromFile, e.Path)
	if err != nil {
		return nil, errors.Wrap(errors.IMP003, fmt.Sprintf("error importing %q", e.Path), e.Pos, err)
	}
	return t, nil
}
