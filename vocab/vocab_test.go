package vocab

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestVocabulary_Add(t *testing.T) {
	v := New()
	for _, tok := range []string{"a", "b", "a", "", "ab</w>"} {
		v.Add(tok)
	}
	if !reflect.DeepEqual(v.Tokens, []string{"a", "b", "ab</w>"}) {
		t.Errorf("Tokens = %v", v.Tokens)
	}
	if v.MaxLen != 3 { // "a", "b", "</w>"
		t.Errorf("MaxLen = %d, want 3", v.MaxLen)
	}
	if i, ok := v.Index("b"); !ok || i != 1 {
		t.Errorf("Index(b) = %d, %v", i, ok)
	}
	if v.Contains("c") {
		t.Errorf("vocabulary should not contain 'c'")
	}
}

func TestVocabulary_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.csv")
	src := FromTokens([]string{"e", "s", "</w>", "es", "est</w>", `"`, ","})
	if err := src.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), Header+"\n") {
		t.Errorf("saved file should start with the header, got %q", raw)
	}

	dst := New()
	if err := dst.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(dst.Tokens, src.Tokens) {
		t.Errorf("Load() = %v, want %v", dst.Tokens, src.Tokens)
	}
}

func TestVocabulary_ReadLegacyRecords(t *testing.T) {
	in := "Tokens in vocab:\nlow\nlow,</w>\nest\n"
	v := New()
	if err := v.Read(strings.NewReader(in)); err != nil {
		t.Fatal(err)
	}
	want := []string{"low", "low</w>", "est"}
	if !reflect.DeepEqual(v.Tokens, want) {
		t.Errorf("Read() = %v, want %v", v.Tokens, want)
	}
}

func TestVocabulary_ReadWithoutHeader(t *testing.T) {
	v := New()
	if err := v.Read(strings.NewReader("a\nb\n")); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
}

func TestVocabulary_LoadMissing(t *testing.T) {
	if err := New().Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Load() of a missing file: expected error")
	}
}

func TestVocabulary_WriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != Header+"\n" {
		t.Errorf("Write() = %q", buf.String())
	}
}

func TestSymbols(t *testing.T) {
	tests := []struct {
		tok  string
		want []string
	}{
		{"low</w>", []string{"l", "o", "w", "</w>"}},
		{"</w>", []string{"</w>"}},
		{"naïve", []string{"n", "a", "ï", "v", "e"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := Symbols(tt.tok)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Symbols(%q) = %v, want %v", tt.tok, got, tt.want)
		}
		if n := SymbolLen(tt.tok); n != len(tt.want) {
			t.Errorf("SymbolLen(%q) = %d, want %d", tt.tok, n, len(tt.want))
		}
	}
	if !IsWholeWord("st</w>") || IsWholeWord("st") {
		t.Error("IsWholeWord mismatch")
	}
}
