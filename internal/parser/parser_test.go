package parser

import (
	"testing"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/lexer"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New([]byte(src), "test.ucg")
	p := New(l, "test.ucg")
	f := p.Parse()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return f
}

func TestParseLetAssertOut(t *testing.T) {
	f := parseFile(t, `let x = 1; assert x == 1; out json x;`)
	if len(f.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(f.Stmts))
	}
	let, ok := f.Stmts[0].(*ast.LetStmt)
	if !ok || let.Name != "x" {
		t.Fatalf("expected let x, got %#v", f.Stmts[0])
	}
	if _, ok := f.Stmts[1].(*ast.AssertStmt); !ok {
		t.Fatalf("expected assert stmt, got %#v", f.Stmts[1])
	}
	out, ok := f.Stmts[2].(*ast.OutStmt)
	if !ok || out.Converter != "json" {
		t.Fatalf("expected out json, got %#v", f.Stmts[2])
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"(1 + 2) * 3;", "((1 + 2) * 3);"},
		{"1 + 2 + 3;", "((1 + 2) + 3);"},
		{"not true && false;", "((not true) && false);"},
		{"1 < 2 || 3 > 4;", "((1 < 2) || (3 > 4));"},
		{"-1 + 2;", "((-1) + 2);"},
	}
	for _, tt := range tests {
		f := parseFile(t, tt.src)
		if len(f.Stmts) != 1 {
			t.Fatalf("src %q: expected 1 statement, got %d", tt.src, len(f.Stmts))
		}
		got := f.Stmts[0].String()
		if got != tt.want {
			t.Errorf("src %q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseRangeWithStep(t *testing.T) {
	f := parseFile(t, `let r = 0:2:6;`)
	let := f.Stmts[0].(*ast.LetStmt)
	rng, ok := let.Value.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected RangeExpr, got %#v", let.Value)
	}
	if rng.Step == nil {
		t.Fatalf("expected a step expression")
	}
}

func TestParseRangeNoStep(t *testing.T) {
	f := parseFile(t, `let r = 1:5;`)
	let := f.Stmts[0].(*ast.LetStmt)
	rng, ok := let.Value.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected RangeExpr, got %#v", let.Value)
	}
	if rng.Step != nil {
		t.Fatalf("expected no step, got %v", rng.Step)
	}
}

func TestParseTupleLitAndSelector(t *testing.T) {
	f := parseFile(t, `let t = {a = 1, b = "x"}; let v = t.a;`)
	let1 := f.Stmts[0].(*ast.LetStmt)
	tup, ok := let1.Value.(*ast.TupleLit)
	if !ok || len(tup.Fields) != 2 {
		t.Fatalf("expected 2-field tuple literal, got %#v", let1.Value)
	}
	let2 := f.Stmts[1].(*ast.LetStmt)
	sel, ok := let2.Value.(*ast.SelectorExpr)
	if !ok || sel.Field != "a" {
		t.Fatalf("expected selector .a, got %#v", let2.Value)
	}
}

func TestParseDynIndex(t *testing.T) {
	f := parseFile(t, `let v = t.(k);`)
	let := f.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.DynIndexExpr); !ok {
		t.Fatalf("expected DynIndexExpr, got %#v", let.Value)
	}
}

func TestParseCopyExpr(t *testing.T) {
	f := parseFile(t, `let u = t{a = 2};`)
	let := f.Stmts[0].(*ast.LetStmt)
	cp, ok := let.Value.(*ast.CopyExpr)
	if !ok || len(cp.Fields) != 1 || cp.Fields[0].Name != "a" {
		t.Fatalf("expected CopyExpr with override a, got %#v", let.Value)
	}
}

func TestParseCallExpr(t *testing.T) {
	f := parseFile(t, `let v = f(1, 2, 3);`)
	let := f.Stmts[0].(*ast.LetStmt)
	call, ok := let.Value.(*ast.CallExpr)
	if !ok || len(call.Args) != 3 {
		t.Fatalf("expected call with 3 args, got %#v", let.Value)
	}
}

func TestParseFuncLit(t *testing.T) {
	f := parseFile(t, `let add = func (a, b) => a + b;`)
	let := f.Stmts[0].(*ast.LetStmt)
	fn, ok := let.Value.(*ast.FuncLit)
	if !ok || len(fn.Params) != 2 {
		t.Fatalf("expected 2-param func literal, got %#v", let.Value)
	}
}

func TestParseModuleLit(t *testing.T) {
	f := parseFile(t, `let m = module {port = 8080} => (port) { let doubled = port * 2; };`)
	let := f.Stmts[0].(*ast.LetStmt)
	mod, ok := let.Value.(*ast.ModuleLit)
	if !ok {
		t.Fatalf("expected ModuleLit, got %#v", let.Value)
	}
	if len(mod.Defaults) != 1 || mod.Defaults[0].Name != "port" {
		t.Fatalf("expected one default field port, got %#v", mod.Defaults)
	}
	if mod.OutExpr == nil {
		t.Fatalf("expected explicit out expr")
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(mod.Body))
	}
}

func TestParseModuleLitImplicitOut(t *testing.T) {
	f := parseFile(t, `let m = module {} => { let x = 1; };`)
	let := f.Stmts[0].(*ast.LetStmt)
	mod := let.Value.(*ast.ModuleLit)
	if mod.OutExpr != nil {
		t.Fatalf("expected nil OutExpr for implicit-yield module, got %v", mod.OutExpr)
	}
}

func TestParseSelectExpr(t *testing.T) {
	f := parseFile(t, `let v = select env.stage, "dev" {dev = 1, prod = 2};`)
	let := f.Stmts[0].(*ast.LetStmt)
	sel, ok := let.Value.(*ast.SelectExpr)
	if !ok || len(sel.Branches) != 2 {
		t.Fatalf("expected select with 2 branches, got %#v", let.Value)
	}
}

func TestParseSelectDefaultStopsBeforeBranchBlock(t *testing.T) {
	f := parseFile(t, `let v = select key, base.port { qa = 80 };`)
	sel, ok := f.Stmts[0].(*ast.LetStmt).Value.(*ast.SelectExpr)
	if !ok {
		t.Fatalf("expected SelectExpr, got %#v", f.Stmts[0].(*ast.LetStmt).Value)
	}
	if _, ok := sel.Default.(*ast.SelectorExpr); !ok {
		t.Fatalf("expected selector default, got %#v", sel.Default)
	}
	if len(sel.Branches) != 1 || sel.Branches[0].Name != "qa" {
		t.Fatalf("expected one qa branch, got %#v", sel.Branches)
	}
}

func TestParseSelectDefaultCopyNeedsParens(t *testing.T) {
	f := parseFile(t, `let v = select key, (base{port = 1}) { qa = 80 };`)
	sel := f.Stmts[0].(*ast.LetStmt).Value.(*ast.SelectExpr)
	if _, ok := sel.Default.(*ast.CopyExpr); !ok {
		t.Fatalf("expected parenthesized copy default, got %#v", sel.Default)
	}
	if len(sel.Branches) != 1 {
		t.Fatalf("expected one branch, got %#v", sel.Branches)
	}
}

func TestParseSelectBoolBranchNames(t *testing.T) {
	f := parseFile(t, `let v = select str(x > 0), 0 { true = 1, false = 2 };`)
	sel := f.Stmts[0].(*ast.LetStmt).Value.(*ast.SelectExpr)
	if len(sel.Branches) != 2 || sel.Branches[0].Name != "true" || sel.Branches[1].Name != "false" {
		t.Fatalf("expected true/false branches, got %#v", sel.Branches)
	}
}

func TestParseImportExpr(t *testing.T) {
	f := parseFile(t, `let shared = import "lib/shared.ucg";`)
	let := f.Stmts[0].(*ast.LetStmt)
	imp, ok := let.Value.(*ast.ImportExpr)
	if !ok || imp.Path != "lib/shared.ucg" {
		t.Fatalf("expected import of lib/shared.ucg, got %#v", let.Value)
	}
}

func TestParseFailExpr(t *testing.T) {
	f := parseFile(t, `let v = fail "bad input";`)
	let := f.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.FailExpr); !ok {
		t.Fatalf("expected FailExpr, got %#v", let.Value)
	}
}

func TestParseFormatExprTuple(t *testing.T) {
	f := parseFile(t, `let v = "foo @ @ \@" % (1, "bar");`)
	let := f.Stmts[0].(*ast.LetStmt)
	fe, ok := let.Value.(*ast.FormatExpr)
	if !ok || len(fe.Args) != 2 {
		t.Fatalf("expected format expr with 2 args, got %#v", let.Value)
	}
}

func TestParseFormatExprSingle(t *testing.T) {
	f := parseFile(t, `let v = "n=@" % n;`)
	let := f.Stmts[0].(*ast.LetStmt)
	fe, ok := let.Value.(*ast.FormatExpr)
	if !ok || len(fe.Args) != 1 {
		t.Fatalf("expected format expr with 1 arg, got %#v", let.Value)
	}
}

func TestParseInExpr(t *testing.T) {
	f := parseFile(t, `let v = x in t;`)
	let := f.Stmts[0].(*ast.LetStmt)
	in, ok := let.Value.(*ast.InExpr)
	if !ok || in.Name != "x" {
		t.Fatalf("expected InExpr on x, got %#v", let.Value)
	}
}

func TestParseInWithStringNeedle(t *testing.T) {
	f := parseFile(t, `let v = "a" in t;`)
	let := f.Stmts[0].(*ast.LetStmt)
	in, ok := let.Value.(*ast.InExpr)
	if !ok || in.Name != "a" {
		t.Fatalf("expected InExpr on \"a\", got %#v", let.Value)
	}
}

func TestParseInBindsBelowLogical(t *testing.T) {
	f := parseFile(t, `let v = "a" in t && b;`)
	let := f.Stmts[0].(*ast.LetStmt)
	bin, ok := let.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "&&" {
		t.Fatalf("expected && at the top, got %#v", let.Value)
	}
	if _, ok := bin.Left.(*ast.InExpr); !ok {
		t.Fatalf("expected InExpr on the left of &&, got %#v", bin.Left)
	}
}

func TestParseRangeEndpointWithAddition(t *testing.T) {
	f := parseFile(t, `let r = 1:n+1;`)
	let := f.Stmts[0].(*ast.LetStmt)
	rng, ok := let.Value.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected RangeExpr, got %#v", let.Value)
	}
	if _, ok := rng.End.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected additive end expression, got %#v", rng.End)
	}
}

func TestParseIsExpr(t *testing.T) {
	f := parseFile(t, `let v = x is int;`)
	let := f.Stmts[0].(*ast.LetStmt)
	is, ok := let.Value.(*ast.IsExpr)
	if !ok || is.Type != "int" {
		t.Fatalf("expected IsExpr int, got %#v", let.Value)
	}
}

func TestParseListLit(t *testing.T) {
	f := parseFile(t, `let v = [1, 2, 3];`)
	let := f.Stmts[0].(*ast.LetStmt)
	list, ok := let.Value.(*ast.ListLit)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected 3-element list, got %#v", let.Value)
	}
}

func TestParseEnvAndMod(t *testing.T) {
	f := parseFile(t, `let a = env; let b = mod;`)
	if _, ok := f.Stmts[0].(*ast.LetStmt).Value.(*ast.EnvExpr); !ok {
		t.Fatalf("expected EnvExpr")
	}
	if _, ok := f.Stmts[1].(*ast.LetStmt).Value.(*ast.ModExpr); !ok {
		t.Fatalf("expected ModExpr")
	}
}

func TestParseErrorRecoveryContinuesAfterBadStatement(t *testing.T) {
	l := lexer.New([]byte(`let x = ; let y = 2;`), "t.ucg")
	p := New(l, "t.ucg")
	f := p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one parse error")
	}
	found := false
	for _, s := range f.Stmts {
		if let, ok := s.(*ast.LetStmt); ok && let.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still parse `let y = 2;`, stmts: %#v", f.Stmts)
	}
}

func TestParseDoubleSemicolonIsError(t *testing.T) {
	l := lexer.New([]byte(`let x = 1;; let y = 2;`), "t.ucg")
	p := New(l, "t.ucg")
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an error for two adjacent semicolons")
	}
}
