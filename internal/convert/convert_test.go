package convert_test

import (
	"io"
	"testing"

	"github.com/ucg-lang/ucg/internal/convert"
	"github.com/ucg-lang/ucg/internal/value"
)

// debugConverter is a minimal in-memory Converter used only to exercise the
// registry/driver wiring in tests; it is not a bundled format.
type debugConverter struct{}

func (debugConverter) Convert(v value.Value, w io.Writer) error {
	_, err := w.Write([]byte(v.String()))
	return err
}

func (debugConverter) Extension() string { return ".debug" }

func TestRegisterAndLookup(t *testing.T) {
	r := convert.NewRegistry()
	r.Register("debug", debugConverter{})

	c, ok := r.Lookup("debug")
	if !ok {
		t.Fatalf("expected debug converter to be registered")
	}
	if c.Extension() != ".debug" {
		t.Fatalf("expected extension .debug, got %q", c.Extension())
	}
}

func TestLookupUnknownConverter(t *testing.T) {
	r := convert.NewRegistry()
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("expected missing converter to not be found")
	}
}

func TestErrUnknownConverterMessage(t *testing.T) {
	err := &convert.ErrUnknownConverter{Name: "yaml"}
	if got, want := err.Error(), `unknown converter "yaml"`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNamesSorted(t *testing.T) {
	r := convert.NewRegistry()
	r.Register("yaml", debugConverter{})
	r.Register("json", debugConverter{})
	r.Register("flags", debugConverter{})

	names := r.Names()
	want := []string{"flags", "json", "yaml"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
