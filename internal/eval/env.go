package eval

import (
	"os"
	"strings"

	"github.com/ucg-lang/ucg/internal/value"
)

// Environment is an immutable frame in a lexical scope chain: lookup walks
// parents, and a frame's bindings are never mutated once a let has been
// added to it. Closures capture the *Environment they were defined in.
type Environment struct {
	bindings map[string]value.Value
	parent   *Environment

	// modMerged/modSelf/modPkg are set only on the frame introduced by
	// entering a module body; they give `mod` its three meanings: the
	// merged defaults+overrides tuple, `mod.this` (self, for recursion),
	// and `mod.pkg()` (the enclosing file's own module value).
	modMerged *value.Tuple
	modSelf   *value.Module
	modPkg    *value.Module
}

// NewRootEnvironment creates the outermost frame for a file, with no
// bindings and no module context.
func NewRootEnvironment() *Environment {
	return &Environment{bindings: make(map[string]value.Value)}
}

// Child creates a new empty frame whose parent is e.
func (e *Environment) Child() *Environment {
	return &Environment{bindings: make(map[string]value.Value), parent: e}
}

// WithModuleContext creates a child frame carrying the `mod` bindings for a
// module body being evaluated.
func (e *Environment) WithModuleContext(merged value.Tuple, self, pkg *value.Module) *Environment {
	child := e.Child()
	child.modMerged = &merged
	child.modSelf = self
	child.modPkg = pkg
	return child
}

// Define binds name in this frame. It reports false if name is already bound
// in this exact frame (identifier collision within a frame is a compile
// error per spec); parent frames may legally shadow the same name.
func (e *Environment) Define(name string, v value.Value) bool {
	if _, exists := e.bindings[name]; exists {
		return false
	}
	e.bindings[name] = v
	return true
}

// Lookup walks the frame chain for name.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// ModuleContext returns the nearest enclosing module context, searching
// outward from e.
func (e *Environment) ModuleContext() (merged value.Tuple, self, pkg *value.Module, ok bool) {
	for f := e; f != nil; f = f.parent {
		if f.modMerged != nil {
			return *f.modMerged, f.modSelf, f.modPkg, true
		}
	}
	return value.Tuple{}, nil, nil, false
}

// EnvTuple is the value `env` resolves to: field access is lazy and reads
// the real process environment on demand, per spec, so it is not backed by
// value.Tuple (whose fields are fixed at construction). Evaluator selector
// handling special-cases EnvExpr targets rather than materializing this as
// a value.Tuple.
type EnvTuple struct{}

// Lookup reads a process environment variable, returning Null when unset.
func (EnvTuple) Lookup(name string) value.Value {
	if v, ok := os.LookupEnv(name); ok {
		return value.Str{Value: v}
	}
	return value.Null{}
}

// sanitizeEnvName trims surrounding whitespace from a dynamically indexed
// variable name such as `env.(" HOME ")`; it makes no other change, so a
// name containing dots is looked up as written.
func sanitizeEnvName(name string) string {
	return strings.TrimSpace(name)
}
