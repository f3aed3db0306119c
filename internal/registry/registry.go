// Package registry implements UCG's Source Registry: it resolves
// `import "relpath"` to a file, lexes, parses, and evaluates it at most
// once, and memoizes the resulting tuple for the program's lifetime. It
// implements eval.Importer, so the evaluator depends on an interface rather
// than on this package, avoiding an eval<->registry import cycle while
// still letting imports recursively re-enter the evaluator.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ucg-lang/ucg/internal/ast"
	"github.com/ucg-lang/ucg/internal/errors"
	"github.com/ucg-lang/ucg/internal/eval"
	"github.com/ucg-lang/ucg/internal/lexer"
	"github.com/ucg-lang/ucg/internal/parser"
	"github.com/ucg-lang/ucg/internal/token"
	"github.com/ucg-lang/ucg/internal/value"
)

// entry is one Source Registry slot: either still being evaluated
// (inFlight, for cycle detection and for other callers to wait on) or done
// with a memoized result. importedFrom is the canonical path of the file
// whose import statement triggered this entry's load, forming a parent
// pointer that lets Import walk the *actual* import chain a given call
// arrived on, rather than a single registry-wide stack that would
// conflate unrelated concurrent import chains with genuine cycles.
type entry struct {
	inFlight     bool
	importedFrom string
	done         chan struct{}
	tuple        value.Tuple
	err          error
}

// Registry is the at-most-once-per-path import resolver described in
// spec §4.6/§5: canonical path -> (tuple, error), at most one in-flight
// load per path, with other callers for the same path blocking on the
// in-flight load rather than erroring, and genuine import cycles (the
// same chain revisiting a path already in its own ancestry) reported as
// "import cycle: a -> b -> a".
type Registry struct {
	mu    sync.Mutex
	cache map[string]*entry
	edges map[string][]string

	roots []string
	eval  *eval.Evaluator
}

// New creates a Registry that searches importRoots (in order, after the
// importing file's own directory) for non-relative import paths.
func New(importRoots []string) *Registry {
	return &Registry{
		cache: make(map[string]*entry),
		edges: make(map[string][]string),
		roots: append([]string{}, importRoots...),
	}
}

// Bind attaches the Evaluator this registry uses to reduce an imported
// file's statements. Construction is two-step (New then Bind) because the
// Evaluator and the Registry each need a reference to the other.
func (r *Registry) Bind(ev *eval.Evaluator) {
	r.eval = ev
}

// Import implements eval.Importer.
func (r *Registry) Import(fromFile, relPath string) (value.Tuple, error) {
	path, err := r.resolvePath(fromFile, relPath)
	if err != nil {
		return value.Tuple{}, errors.New(errors.IMP001, err.Error(), token0(fromFile))
	}
	fromCanon := canonOrSelf(fromFile)

	r.mu.Lock()
	r.recordEdge(fromCanon, path)
	if e, ok := r.cache[path]; ok {
		if e.inFlight {
			if r.isAncestor(path, fromCanon) {
				chain := r.buildCycleChain(path, fromCanon)
				r.mu.Unlock()
				return value.Tuple{}, errors.New(errors.IMP002, fmt.Sprintf("import cycle: %s", strings.Join(chain, " -> ")), token0(fromFile))
			}
			done := e.done
			r.mu.Unlock()
			<-done
			r.mu.Lock()
			e = r.cache[path]
			r.mu.Unlock()
			return e.tuple, e.err
		}
		r.mu.Unlock()
		return e.tuple, e.err
	}
	e := &entry{inFlight: true, importedFrom: fromCanon, done: make(chan struct{})}
	r.cache[path] = e
	r.mu.Unlock()

	tuple, evalErr := r.loadAndEval(path)

	r.mu.Lock()
	e.tuple = tuple
	e.err = evalErr
	e.inFlight = false
	close(e.done)
	r.mu.Unlock()

	return tuple, evalErr
}

// recordEdge notes that fromCanon's source imports path, deduplicating
// repeated imports of the same file. Must be called with r.mu held.
func (r *Registry) recordEdge(fromCanon, path string) {
	for _, p := range r.edges[fromCanon] {
		if p == path {
			return
		}
	}
	r.edges[fromCanon] = append(r.edges[fromCanon], path)
}

// Graph returns a copy of the import edges observed so far: importing file
// (canonical path) to the files it imported, in first-import order. Used by
// `ucg inspect` to dump the import graph; it plays no role in evaluation.
func (r *Registry) Graph() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]string, len(r.edges))
	for from, tos := range r.edges {
		out[from] = append([]string{}, tos...)
	}
	return out
}

// isAncestor reports whether path appears in fromCanon's own import chain
// (fromCanon itself, or whoever imported fromCanon, transitively). Must be
// called with r.mu held.
func (r *Registry) isAncestor(path, fromCanon string) bool {
	cur := fromCanon
	seen := make(map[string]bool)
	for !seen[cur] {
		if cur == path {
			return true
		}
		seen[cur] = true
		e, ok := r.cache[cur]
		if !ok || e.importedFrom == "" {
			return false
		}
		cur = e.importedFrom
	}
	return false
}

// buildCycleChain renders the ancestry walk from fromCanon back to path
// (inclusive) in chronological order, e.g. "a -> b -> a". Must be called
// with r.mu held.
func (r *Registry) buildCycleChain(path, fromCanon string) []string {
	var chain []string
	cur := fromCanon
	for {
		chain = append(chain, cur)
		if cur == path {
			break
		}
		e, ok := r.cache[cur]
		if !ok || e.importedFrom == "" {
			break
		}
		cur = e.importedFrom
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return append(chain, path)
}

// canonOrSelf absolutizes p for use as a cache/ancestry key, falling back
// to p unchanged if it cannot be resolved (e.g. a synthetic path).
func canonOrSelf(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func (r *Registry) loadAndEval(path string) (value.Tuple, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return value.Tuple{}, errors.New(errors.IMP001, fmt.Sprintf("cannot read %q: %v", path, err), token0(path))
	}

	lex := lexer.New(src, path)
	p := parser.New(lex, path)
	file := p.Parse()
	if len(p.Errors()) > 0 {
		return value.Tuple{}, errors.New(errors.IMP003, fmt.Sprintf("parse error in %q: %v", path, p.Errors()[0]), token0(path))
	}

	return r.evalFile(file)
}

// evalFile reduces every let at file scope into a fresh root environment
// and returns them as a tuple, per spec §4.6: "a tuple whose fields are the
// names bound by let in that file at top level"; asserts and expression
// statements are evaluated but do not contribute fields. `out` outside the root file is
// rejected (spec §9's "enforce root-only" resolution), since an imported
// file is by definition not the build root.
func (r *Registry) evalFile(file *ast.File) (value.Tuple, error) {
	env := eval.NewRootEnvironment()

	var names []string
	var vals []value.Value
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			v, err := r.eval.Eval(env, s.Value)
			if err != nil {
				return value.Tuple{}, err
			}
			if !env.Define(s.Name, v) {
				return value.Tuple{}, errors.New(errors.NAM002, fmt.Sprintf("duplicate let binding %q", s.Name), s.Pos)
			}
			names = append(names, s.Name)
			vals = append(vals, v)
		case *ast.AssertStmt:
			if _, err := r.eval.Eval(env, s.Expr); err != nil {
				return value.Tuple{}, err
			}
		case *ast.OutStmt:
			return value.Tuple{}, errors.New(errors.PAR005, "imported files may not declare 'out'; only the build root may", s.Pos)
		case *ast.ExprStmt:
			if _, err := r.eval.Eval(env, s.Expr); err != nil {
				return value.Tuple{}, err
			}
		}
	}
	return value.NewTuple(names, vals), nil
}

// resolvePath applies spec §4.6's relative-to-importer rule. A non-relative
// path is tried against the importing file's own directory first, then
// against each registered import root in order.
func (r *Registry) resolvePath(fromFile, relPath string) (string, error) {
	if strings.HasPrefix(relPath, "./") || strings.HasPrefix(relPath, "../") {
		dir := filepath.Dir(fromFile)
		path := filepath.Join(dir, relPath)
		if !strings.HasSuffix(path, ".ucg") {
			path += ".ucg"
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("import %q not found relative to %q", relPath, fromFile)
		}
		return filepath.Abs(path)
	}

	candidates := append([]string{filepath.Dir(fromFile)}, r.roots...)
	for _, root := range candidates {
		path := filepath.Join(root, relPath)
		if !strings.HasSuffix(path, ".ucg") {
			path += ".ucg"
		}
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("import %q not found relative to %q or in any import root", relPath, fromFile)
}

// token0 synthesizes a file-start position for errors raised before any
// real token has been read (e.g. "import not found").
func token0(file string) token.Pos {
	return token.Pos{File: file, Line: 1, Column: 1}
}
