package eval

import (
	"testing"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/lexer"
	"github.com/ucg-lang/ucg/internal/parser"
	"github.com/ucg-lang/ucg/internal/value"
)

// run lexes, parses, and evaluates a file's statements in order over a
// fresh root environment, returning the environment and the value of the
// last expression/let statement (for single-expression test cases).
func run(t *testing.T, src string) (*Environment, value.Value, error) {
	t.Helper()
	l := lexer.New([]byte(src), "test.ucg")
	p := parser.New(l, "test.ucg")
	f := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse error for %q: %v", src, errs)
	}

	ev := New(nil)
	env := NewRootEnvironment()
	var last value.Value
	for _, stmt := range f.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			v, err := ev.Eval(env, s.Value)
			if err != nil {
				return env, nil, err
			}
			env.Define(s.Name, v)
			last = v
		case *ast.ExprStmt:
			v, err := ev.Eval(env, s.Expr)
			if err != nil {
				return env, nil, err
			}
			last = v
		case *ast.AssertStmt:
			v, err := ev.Eval(env, s.Expr)
			if err != nil {
				return env, nil, err
			}
			last = v
		}
	}
	return env, last, nil
}

func evalOK(t *testing.T, src string) value.Value {
	t.Helper()
	_, v, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error evaluating %q: %v", src, err)
	}
	return v
}

func requireBoolTrue(t *testing.T, src string) {
	t.Helper()
	v := evalOK(t, src)
	b, ok := v.(value.Bool)
	if !ok || !b.Value {
		t.Fatalf("%q: expected true, got %#v", src, v)
	}
}

// Scenario 1: `let x = 1 + 1; assert { ok = x == 2, desc = "add" };`
func TestScenarioArithmeticAssert(t *testing.T) {
	_, v, err := run(t, `let x = 1 + 1; assert { ok = x == 2, desc = "add" };`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tup, ok := v.(value.Tuple)
	if !ok || tup.Fields["ok"].(value.Bool).Value != true {
		t.Fatalf("expected ok=true assert tuple, got %#v", v)
	}
}

// Scenario 2: copy-on-modify tuples leave the base untouched.
func TestScenarioTupleCopyOnModify(t *testing.T) {
	requireBoolTrue(t, `
let t = {a=1, b="x"};
let u = t{a=2};
u.a == 2 && u.b == "x" && t.a == 1;
`)
}

// Scenario 3: overriding a field with a mismatched type is a TypeFail.
func TestScenarioTupleCopyTypeMismatch(t *testing.T) {
	_, _, err := run(t, `let t = {a=1}; let u = t{a="x"};`)
	if err == nil {
		t.Fatalf("expected TypeFail overriding int field with str")
	}
}

// Scenario 4: function application and argument type mismatch.
func TestScenarioFuncApplyAndTypeFail(t *testing.T) {
	requireBoolTrue(t, `let f = func (x, y) => x + y; f(2,3) == 5;`)

	_, _, err := run(t, `let f = func (x, y) => x + y; f(2,"3");`)
	if err == nil {
		t.Fatalf("expected TypeFail calling f(2,\"3\")")
	}
}

// Scenario 5: select with and without a matching branch.
func TestScenarioSelect(t *testing.T) {
	requireBoolTrue(t, `select "qa", 0 { qa = 80, prod = 443 } == 80;`)
	requireBoolTrue(t, `select "dev", 22 { qa = 80 } == 22;`)
}

// Scenario 6: format substitution with an escaped literal '@'.
func TestScenarioFormat(t *testing.T) {
	v := evalOK(t, `"foo @ @ \@" % (1, "bar");`)
	s, ok := v.(value.Str)
	if !ok || s.Value != "foo 1 bar @" {
		t.Fatalf("expected %q, got %#v", "foo 1 bar @", v)
	}
}

// A `\@` that falls *before* or *between* real placeholders must still be
// skipped as a substitution target, not just one trailing at the end of the
// template (the position scenario 6 happens to exercise).
func TestFormatEscapedAtNotAtEnd(t *testing.T) {
	v := evalOK(t, `"\@ @ @" % (1, "bar");`)
	s, ok := v.(value.Str)
	if !ok || s.Value != "@ 1 bar" {
		t.Fatalf("expected %q, got %#v", "@ 1 bar", v)
	}
}

// Scenario 7: inclusive integer ranges.
func TestScenarioRange(t *testing.T) {
	requireBoolTrue(t, `1:5 == [1,2,3,4,5];`)
	requireBoolTrue(t, `0:2:6 == [0,2,4,6];`)
}

// Scenario 8: list concatenation requires matching types.
func TestScenarioListConcat(t *testing.T) {
	requireBoolTrue(t, `["a"] + ["b"] == ["a","b"];`)

	_, _, err := run(t, `["a"] + "b";`)
	if err == nil {
		t.Fatalf("expected TypeFail concatenating list with str")
	}
}

func TestModuleInstantiationDefaultsAndOverrides(t *testing.T) {
	requireBoolTrue(t, `
let svc = module { port = 80, name = "web" } => {
  let url = "http://host:" + str(mod.port);
};
let inst = svc{port = 8080};
inst.url == "http://host:8080";
`)
}

func TestModuleOutExprSelectsReturnValue(t *testing.T) {
	requireBoolTrue(t, `
let svc = module { port = 80 } => (mod.port + 1) {
  let unused = 1;
};
svc{port = 9} == 10;
`)
}

func TestModuleSelfRecursionViaModThis(t *testing.T) {
	requireBoolTrue(t, `
let countdown = module { n = 0 } => {
  let step = select str(mod.n > 0), mod.n {
    true = mod.this{n = mod.n - 1}.step
  };
};
countdown{n = 3}.step == 0;
`)
}

func TestFailPropagation(t *testing.T) {
	_, _, err := run(t, `fail "boom";`)
	if err == nil {
		t.Fatalf("expected UserFail from fail expression")
	}
}

func TestInAndIsOperators(t *testing.T) {
	requireBoolTrue(t, `let t = {a=1}; "a" in t && not ("b" in t);`)
	requireBoolTrue(t, `1 is int;`)
	requireBoolTrue(t, `1.0 is float;`)
	requireBoolTrue(t, `"s" is str;`)
	requireBoolTrue(t, `[1] is list;`)
	requireBoolTrue(t, `{a=1} is tuple;`)
}

func TestInFollowedByLogicalOperator(t *testing.T) {
	requireBoolTrue(t, `let t = {a=1}; "a" in t && t.a == 1;`)
	requireBoolTrue(t, `let t = {a=1}; a in t || false;`)
}

func TestIsFuncAndModuleTypeNames(t *testing.T) {
	requireBoolTrue(t, `(func (x) => x) is func;`)
	requireBoolTrue(t, `(module {} => { let x = 1; }) is module;`)
	requireBoolTrue(t, `NULL is null;`)
}

func TestRangeEndpointsAllowArithmetic(t *testing.T) {
	requireBoolTrue(t, `let n = 4; 1:n+1 == [1,2,3,4,5];`)
	requireBoolTrue(t, `0:1+1:6 == [0,2,4,6];`)
}

func TestFormatArityMismatchBothDirections(t *testing.T) {
	_, _, err := run(t, `"@ @" % (1);`)
	if err == nil {
		t.Fatalf("expected arity error for too few arguments")
	}
	_, _, err = run(t, `"@" % (1, 2);`)
	if err == nil {
		t.Fatalf("expected arity error for too many arguments")
	}
}

func TestNaNNeverOrdersOrEquals(t *testing.T) {
	requireBoolTrue(t, `0.0/0.0 != 0.0/0.0;`)
	requireBoolTrue(t, `not (0.0/0.0 < 1.0) && not (0.0/0.0 > 1.0) && not (0.0/0.0 <= 1.0);`)
}

func TestEnvLookupIsLazyAndNullWhenUnset(t *testing.T) {
	t.Setenv("UCG_EVAL_TEST_VAR", "hello")
	requireBoolTrue(t, `env.UCG_EVAL_TEST_VAR == "hello";`)
	requireBoolTrue(t, `env.("UCG_EVAL_TEST_VAR") == "hello";`)
	requireBoolTrue(t, `env.UCG_EVAL_TEST_UNSET == NULL;`)
}

func TestReduceFilterMap(t *testing.T) {
	requireBoolTrue(t, `reduce(func (acc, x) => acc + x, 0, [1,2,3]) == 6;`)
	requireBoolTrue(t, `filter(func (x) => x > 1, [1,2,3]) == [2,3];`)
	requireBoolTrue(t, `map(func (x) => x * 2, [1,2,3]) == [2,4,6];`)
}

func TestConversions(t *testing.T) {
	requireBoolTrue(t, `int("42") == 42;`)
	requireBoolTrue(t, `float(1) == 1.0;`)
	requireBoolTrue(t, `str(1) == "1";`)
	requireBoolTrue(t, `bool(0) == false;`)
}

func TestSelectorAndDynIndex(t *testing.T) {
	requireBoolTrue(t, `let t = {a=1, b=2}; t.a == 1 && t.b == 2;`)
	requireBoolTrue(t, `let l = [10,20,30]; l.1 == 20;`)
	requireBoolTrue(t, `let t = {a=9}; t.("a") == 9;`)
	requireBoolTrue(t, `let l = [7,8,9]; l.(1) == 8;`)

	_, _, err := run(t, `let t = {a=1}; t.missing;`)
	if err == nil {
		t.Fatalf("expected IndexFail selecting a missing field")
	}
}

func TestRecursionDepthGuard(t *testing.T) {
	ev := New(nil)
	ev.MaxDepth = 10
	env := NewRootEnvironment()
	l := lexer.New([]byte(`
let rec = module { n = 0 } => (mod.n) {
  let step = mod.this{n = mod.n + 1}.step;
};
rec{n=0};
`), "test.ucg")
	p := parser.New(l, "test.ucg")
	f := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	var lastErr error
	for _, stmt := range f.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			v, err := ev.Eval(env, s.Value)
			if err != nil {
				lastErr = err
				break
			}
			env.Define(s.Name, v)
		case *ast.ExprStmt:
			_, lastErr = ev.Eval(env, s.Expr)
		}
	}
	if lastErr == nil {
		t.Fatalf("expected recursion depth error")
	}
}
