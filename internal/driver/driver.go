// Package driver implements UCG's statement-level driver (spec §4.5): it
// folds a file's statements into an environment, producing the
// assert/out accumulators the Build and Test modes report back to a CLI
// collaborator.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/convert"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/eval"
	"github.com/ucg-lang/ucg/internal/lexer"
	"github.com/ucg-lang/ucg/internal/parser"
	"github.com/ucg-lang/ucg/internal/registry"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// AssertResult is one recorded `assert` outcome, per spec §4.5/§8.
type AssertResult struct {
	Desc string
	OK   bool
}

// OutResult is a file's single emitted artifact, if any.
type OutResult struct {
	Converter string
	Value     value.Value
}

// FileReport summarizes one file's run through the driver.
type FileReport struct {
	Path    string
	Asserts []AssertResult
	Out     *OutResult
	Lets    []LetBinding
}

// LetBinding is one top-level `let` reduced while running a file, exposed
// for `ucg inspect` debugging output; it plays no role in build/test
// semantics.
type LetBinding struct {
	Name  string
	Value value.Value
}

// Failed reports whether any recorded assert in this file failed.
func (r *FileReport) Failed() bool {
	for _, a := range r.Asserts {
		if !a.OK {
			return true
		}
	}
	return false
}

// Driver evaluates files and folds their statements, sharing one Source
// Registry (and therefore one at-most-once-per-path import cache) and one
// Evaluator across every file run in a single program invocation.
type Driver struct {
	registry   *registry.Registry
	eval       *eval.Evaluator
	Converters *convert.Registry
}

// New creates a Driver that resolves non-relative imports against
// importRoots and dispatches `out` through converters.
func New(importRoots []string, converters *convert.Registry) *Driver {
	reg := registry.New(importRoots)
	ev := eval.New(reg)
	reg.Bind(ev)
	if converters == nil {
		converters = convert.NewRegistry()
	}
	return &Driver{registry: reg, eval: ev, Converters: converters}
}

// ImportGraph returns the source registry's observed import edges
// (importing file to imported files), for `ucg inspect` debugging output.
func (d *Driver) ImportGraph() map[string][]string {
	return d.registry.Graph()
}

// RunBuild evaluates path in Build mode: `out` is resolved against the
// converter registry and returned; asserts are still evaluated (a failing
// assert never aborts evaluation, per spec) but are not used to decide
// success — only a hard evaluation error or an unknown converter does.
func (d *Driver) RunBuild(path string) (*FileReport, error) {
	return d.run(path, true)
}

// RunTest evaluates path in Test mode: asserts are recorded and drive the
// report's Failed() result; any `out` present is reduced (so type/arity
// errors in it still surface) but never dispatched to a converter.
func (d *Driver) RunTest(path string) (*FileReport, error) {
	return d.run(path, false)
}

func (d *Driver) run(path string, buildMode bool) (*FileReport, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.New(errors.IMP001, fmt.Sprintf("cannot read %q: %v", path, err), token0(abs))
	}

	lex := lexer.New(src, abs)
	p := parser.New(lex, abs)
	file := p.Parse()
	if perrs := p.Errors(); len(perrs) > 0 {
		return nil, perrs[0]
	}

	report := &FileReport{Path: abs}
	env := eval.NewRootEnvironment()
	sawOut := false

	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			v, err := d.eval.Eval(env, s.Value)
			if err != nil {
				return nil, err
			}
			if !env.Define(s.Name, v) {
				return nil, errors.New(errors.NAM002, fmt.Sprintf("duplicate let binding %q", s.Name), s.Pos)
			}
			report.Lets = append(report.Lets, LetBinding{Name: s.Name, Value: v})
		case *ast.AssertStmt:
			ar, err := evalAssert(d.eval, env, s)
			if err != nil {
				return nil, err
			}
			report.Asserts = append(report.Asserts, ar)
		case *ast.OutStmt:
			if sawOut {
				return nil, errors.New(errors.PAR005, "more than one 'out' statement in a file", s.Pos)
			}
			sawOut = true
			v, err := d.eval.Eval(env, s.Expr)
			if err != nil {
				return nil, err
			}
			report.Out = &OutResult{Converter: s.Converter, Value: v}
			if buildMode {
				if _, ok := d.Converters.Lookup(s.Converter); !ok {
					return nil, &convert.ErrUnknownConverter{Name: s.Converter}
				}
			}
		case *ast.ExprStmt:
			if _, err := d.eval.Eval(env, s.Expr); err != nil {
				return nil, err
			}
		}
	}
	return report, nil
}

// evalAssert reduces an assert expression to the {ok, desc} tuple spec §4.5
// requires and records the outcome; a malformed assert shape is itself a
// TypeFail rather than a recorded failure, since it is not a valid
// assertion at all.
func evalAssert(ev *eval.Evaluator, env *eval.Environment, s *ast.AssertStmt) (AssertResult, error) {
	v, err := ev.Eval(env, s.Expr)
	if err != nil {
		return AssertResult{}, err
	}
	t, ok := v.(value.Tuple)
	if !ok {
		return AssertResult{}, errors.New(errors.TYP003, fmt.Sprintf("assert expression must be a tuple with ok/desc fields, got %s", v.Kind()), s.Pos)
	}
	okField, ok := t.Fields["ok"]
	if !ok {
		return AssertResult{}, errors.New(errors.IDX002, "assert tuple missing 'ok' field", s.Pos)
	}
	okBool, ok := okField.(value.Bool)
	if !ok {
		return AssertResult{}, errors.New(errors.TYP003, "assert 'ok' field must be bool", s.Pos)
	}
	descField, ok := t.Fields["desc"]
	if !ok {
		return AssertResult{}, errors.New(errors.IDX002, "assert tuple missing 'desc' field", s.Pos)
	}
	descStr, ok := descField.(value.Str)
	if !ok {
		return AssertResult{}, errors.New(errors.TYP003, "assert 'desc' field must be str", s.Pos)
	}
	return AssertResult{Desc: descStr.Value, OK: okBool.Value}, nil
}

// DiscoverTestFiles walks root looking for spec §4.5/§6's `*_test.ucg`
// files, the Test-mode entry points (their transitive imports are reached
// through the Source Registry during evaluation, not by this walk).
func DiscoverTestFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, "_test.ucg") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// token0 synthesizes a file-start position for errors raised before any
// real token has been read (e.g. "file not found").
func token0(file string) token.Pos {
	return token.Pos{File: file, Line: 1, Column: 1}
}
