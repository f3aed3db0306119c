// Package value defines UCG's runtime value model: the tagged variants the
// evaluator reduces every expression to, plus their structural equality and
// canonical stringification rules.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies a Value's variant tag. UCG has no type hierarchy: type
// equality for inference purposes is exactly Kind equality.
type Kind int

const (
	IntKind Kind = iota
	FloatKind
	StrKind
	BoolKind
	NullKind
	ListKind
	TupleKind
	FuncKind
	ModuleKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StrKind:
		return "str"
	case BoolKind:
		return "bool"
	case NullKind:
		return "null"
	case ListKind:
		return "list"
	case TupleKind:
		return "tuple"
	case FuncKind:
		return "func"
	case ModuleKind:
		return "module"
	}
	return "unknown"
}

// Value is any fully-reduced UCG runtime value. Values are immutable after
// construction; a Tuple "copy" always builds a new Value.
type Value interface {
	Kind() Kind
	// String renders the value in canonical UCG literal form: a bare
	// (unquoted) string for Str, and UCG literal syntax for everything
	// else. This is what `fmt % (args)` substitutes for `@`.
	String() string
}

// Int is a 64-bit signed integer value.
type Int struct{ Value int64 }

func (Int) Kind() Kind        { return IntKind }
func (v Int) String() string  { return strconv.FormatInt(v.Value, 10) }

// Float is an IEEE-754 double value.
type Float struct{ Value float64 }

func (Float) Kind() Kind { return FloatKind }
func (v Float) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// Str is a UTF-8 string value.
type Str struct{ Value string }

func (Str) Kind() Kind       { return StrKind }
func (v Str) String() string { return v.Value }

// Bool is a boolean value.
type Bool struct{ Value bool }

func (Bool) Kind() Kind { return BoolKind }
func (v Bool) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// Null is the singleton null value.
type Null struct{}

func (Null) Kind() Kind       { return NullKind }
func (Null) String() string { return "NULL" }

// List is an ordered, heterogeneous sequence of values.
type List struct{ Elements []Value }

func (List) Kind() Kind { return ListKind }
func (v List) String() string {
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		parts[i] = literalForm(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Tuple is an unordered mapping from field name to Value. Duplicate fields
// are illegal by construction; Order preserves insertion order so iteration
// is deterministic per instance even though the spec does not require it.
type Tuple struct {
	Order  []string
	Fields map[string]Value
}

// NewTuple builds a Tuple from fields in the given order. It panics if names
// repeats a name, since the evaluator is expected to have already rejected
// duplicate fields (TypeFail-adjacent compile/evaluate time check).
func NewTuple(names []string, vals []Value) Tuple {
	fields := make(map[string]Value, len(names))
	for i, n := range names {
		if _, dup := fields[n]; dup {
			panic(fmt.Sprintf("value.NewTuple: duplicate field %q", n))
		}
		fields[n] = vals[i]
	}
	order := make([]string, len(names))
	copy(order, names)
	return Tuple{Order: order, Fields: fields}
}

func (Tuple) Kind() Kind { return TupleKind }

func (v Tuple) String() string {
	parts := make([]string, 0, len(v.Order))
	for _, name := range v.Order {
		parts = append(parts, fmt.Sprintf("%s=%s", name, literalForm(v.Fields[name])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Has reports whether the tuple has a field with the given name.
func (v Tuple) Has(name string) bool {
	_, ok := v.Fields[name]
	return ok
}

// With returns a new Tuple with overrides applied: fields present in both
// keep override's value (copy-on-modify), fields only in overrides are
// appended, and v itself is left untouched.
func (v Tuple) With(names []string, vals []Value) Tuple {
	fields := make(map[string]Value, len(v.Fields)+len(names))
	for k, val := range v.Fields {
		fields[k] = val
	}
	order := append([]string{}, v.Order...)
	for i, n := range names {
		if _, exists := fields[n]; !exists {
			order = append(order, n)
		}
		fields[n] = vals[i]
	}
	return Tuple{Order: order, Fields: fields}
}

// Func is a closure: a pure, single-expression-bodied lambda plus the
// environment it was defined in. Env is `interface{}` to avoid an import
// cycle with the evaluator's environment type; eval asserts it back.
type Func struct {
	Params []string
	Body   interface{} // ast.Expr body, opaque to this package
	Env    interface{} // *eval.Environment, opaque to this package
}

func (Func) Kind() Kind        { return FuncKind }
func (Func) String() string { return "<func>" }

// Module is a parameterizable template: invoking it with an override tuple
// yields either the evaluated OutExpr or a tuple of its internal lets.
type Module struct {
	Defaults Tuple
	OutExpr  interface{} // ast.Expr or nil
	Body     interface{} // []ast.Stmt
	Env      interface{} // *eval.Environment captured at definition
	SelfPath string      // path of the defining file, taken from the module literal's position
}

func (Module) Kind() Kind        { return ModuleKind }
func (Module) String() string { return "<module>" }

// literalForm renders a value the way it would appear nested inside a list
// or tuple literal: strings are quoted there (only the top-level argument to
// `%` is rendered bare).
func literalForm(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(s.Value)
	}
	return v.String()
}

// Equal implements UCG's structural equality (`==`/`!=`). NaN never equals
// itself, per IEEE-754, mirroring the language's Float semantics.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Int:
		return av.Value == b.(Int).Value
	case Float:
		bv := b.(Float)
		if math.IsNaN(av.Value) || math.IsNaN(bv.Value) {
			return false
		}
		return av.Value == bv.Value
	case Str:
		return av.Value == b.(Str).Value
	case Bool:
		return av.Value == b.(Bool).Value
	case Null:
		return true
	case List:
		bv := b.(List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bv := b.(Tuple)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		// Func and Module are never structurally comparable; identity
		// comparison (same Go value) is the closest meaningful notion,
		// and the language never needs to compare them for equality.
		return false
	}
}

// Less implements ordering for Int, Float, and Str only, as required by
// the comparison operators; callers must type-check first.
func Less(a, b Value) (bool, bool) {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return av.Value < bv.Value, ok
	case Float:
		bv, ok := b.(Float)
		return av.Value < bv.Value, ok
	case Str:
		bv, ok := b.(Str)
		return av.Value < bv.Value, ok
	default:
		return false, false
	}
}

// SortedFieldNames returns a tuple's field names in a stable, sorted order;
// used only for deterministic debug/inspect output, never for semantics.
func SortedFieldNames(t Tuple) []string {
	names := append([]string{}, t.Order...)
	sort.Strings(names)
	return names
}
