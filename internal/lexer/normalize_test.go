package lexer

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/ucg-lang/ucg/internal/token"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 'l', 'l', 'o'}, []byte("hello")},
		{"without_bom", []byte("hello"), []byte("hello")},
		{"empty_with_bom", []byte{0xEF, 0xBB, 0xBF}, []byte{}},
		{"empty_without_bom", []byte{}, []byte{}},
		{"partial_bom", []byte{0xEF, 0xBB, 'h', 'i'}, []byte{0xEF, 0xBB, 'h', 'i'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNFCNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_nfc", "café", "café"},
		{"nfd_to_nfc", "café", "café"},
		{"ascii_unchanged", "hello world", "hello world"},
		{"mixed_unicode", "naïve café", "naïve café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(Normalize([]byte(tt.input)))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
			if !norm.NFC.IsNormalString(result) {
				t.Errorf("result is not in NFC form")
			}
		})
	}
}

func TestBOMAndNFC(t *testing.T) {
	input := append(append([]byte{}, bomUTF8...), []byte("café")...)
	expected := "café"

	result := string(Normalize(input))
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("result is not in NFC form")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"hello", "café", "café", "\ufeffhello"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Normalize([]byte(input))
			second := Normalize(first)
			if !bytes.Equal(first, second) {
				t.Errorf("Normalize is not idempotent: first=%q, second=%q", first, second)
			}
		})
	}
}

func TestNormalizeDeterminism(t *testing.T) {
	input := []byte("\ufeffcafé")

	var results [][]byte
	for i := 0; i < 10; i++ {
		results = append(results, Normalize(input))
	}
	baseline := results[0]
	for i, result := range results[1:] {
		if !bytes.Equal(result, baseline) {
			t.Errorf("iteration %d produced different output", i+1)
		}
	}
}

// TestCanaryDeterministicTokens ensures lexically equivalent source (LF vs
// CRLF, NFC vs NFD, with/without BOM) produces an identical token stream.
func TestCanaryDeterministicTokens(t *testing.T) {
	variants := []string{
		"let café = 1;\n",
		"let café = 1;\n",
		"\ufefflet café = 1;\n",
	}
	variants[1] = strings.ReplaceAll(variants[1], "\n", "\r\n")

	var baseline []token.Type
	for i, src := range variants {
		l := New([]byte(src), "t.ucg")
		var types []token.Type
		for {
			tok := l.NextToken()
			types = append(types, tok.Type)
			if tok.Type == token.EOF {
				break
			}
		}
		if i == 0 {
			baseline = types
			continue
		}
		if len(types) != len(baseline) {
			t.Fatalf("variant %d: token count mismatch: %d vs %d", i, len(types), len(baseline))
		}
		for j := range types {
			if types[j] != baseline[j] {
				t.Fatalf("variant %d: token %d type mismatch: %v vs %v", i, j, types[j], baseline[j])
			}
		}
	}
}
