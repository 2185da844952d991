package tokenize

import (
	"reflect"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	got := Line("Test line, should be bee's knees!")
	want := []string{"Test", "line", ",", "should", "be", "bee's", "knees", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Line() = %v, want %v", got, want)
	}
}

func TestLineNumbersAndSymbols(t *testing.T) {
	got := Line(`score: 42% (final)`)
	want := []string{"score", ":", "42", "%", "final", ")"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Line() = %v, want %v", got, want)
	}
}

func TestAlphasLower(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{`a,"Test, this is."`, []string{"a", "test", "this", "is"}},
		{"Second LINE 2024", []string{"second", "line"}},
		{"", []string{}},
		{"123 !!", []string{}},
	}
	for _, tt := range tests {
		got := AlphasLower(tt.text)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("AlphasLower(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestReader(t *testing.T) {
	in := "target,line\na,\"Test, this is.\"\nb,second line\n"
	got, err := Reader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	want := []string{
		"target", ",", "line", "a", ",", `"`, "Test", ",", "this", "is", ".", `"`, "b", ",",
		"second", "line",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reader() = %v, want %v", got, want)
	}
}

func TestTokenizerOptions(t *testing.T) {
	tok, err := New(Options{Pattern: PatternWords, Lowercase: true})
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Tokenize("Hello, World")
	want := []string{"hello", ",", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}

	fold, err := New(Options{FoldAccents: true, Lowercase: true})
	if err != nil {
		t.Fatal(err)
	}
	got = fold.Tokenize("Café Über")
	want = []string{"cafe", "uber"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() with folding = %v, want %v", got, want)
	}
}

func TestTokenizerNormalizesNFC(t *testing.T) {
	tok, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	// "e" followed by a combining acute accent composes into a single rune.
	got := tok.Tokenize("cafe\u0301")
	want := []string{"caf\u00e9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestTokenizerCustomPattern(t *testing.T) {
	tok, err := New(Options{Pattern: `\d+`})
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Lines([]string{"a1b22", "none"})
	want := [][]string{{"1", "22"}, {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}

	if _, err := New(Options{Pattern: `(`}); err == nil {
		t.Error("New() with invalid pattern: expected error")
	}
}
