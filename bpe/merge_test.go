package bpe

import (
	"reflect"
	"strings"
	"testing"
)

func TestMergeWord(t *testing.T) {
	tests := []struct {
		word  string
		pair  Pair
		mode  MergeMode
		want  []string
		count int
	}{
		{"abab", Pair{"a", "b"}, MergeGreedy, []string{"ab", "ab"}, 2},
		{"abab", Pair{"a", "b"}, MergeReference, []string{"ab", "a", "b"}, 1},
		{"ababab", Pair{"a", "b"}, MergeReference, []string{"ab", "a", "b", "ab"}, 2},
		{"aaa", Pair{"a", "a"}, MergeGreedy, []string{"aa", "a"}, 1},
		{"aaaa", Pair{"a", "a"}, MergeGreedy, []string{"aa", "aa"}, 2},
		{"aaaa", Pair{"a", "a"}, MergeReference, []string{"aa", "a", "a"}, 1},
		{"xyz", Pair{"a", "b"}, MergeGreedy, []string{"x", "y", "z"}, 0},
		{"ba", Pair{"a", "b"}, MergeGreedy, []string{"b", "a"}, 0},
	}
	for _, tt := range tests {
		syms := strings.Split(tt.word, "")
		got, n := mergeWord(syms, tt.pair, tt.pair.Merged(), tt.mode)
		if !reflect.DeepEqual(got, tt.want) || n != tt.count {
			t.Errorf("mergeWord(%q, %v, %v) = %v, %d; want %v, %d",
				tt.word, tt.pair, tt.mode, got, n, tt.want, tt.count)
		}
	}
}

func TestCorpusMerge(t *testing.T) {
	corpus, _ := BuildCorpus([][]string{{"ab", "ba", "abab"}})
	n := corpus.Merge(Pair{"a", "b"}, MergeGreedy)
	if n != 3 {
		t.Errorf("Merge() = %d, want 3", n)
	}
	want := [][]string{
		{"ab", EndOfWord},
		{"b", "a", EndOfWord},
		{"ab", "ab", EndOfWord},
	}
	for i, w := range corpus.Words {
		if !reflect.DeepEqual(w.Symbols, want[i]) {
			t.Errorf("word %d = %v, want %v", i, w.Symbols, want[i])
		}
	}
}

func TestCorpusMergeMatchesSymbolsNotStrings(t *testing.T) {
	// "ab"+"c" and "a"+"bc" concatenate to the same string but are different pairs.
	corpus := &Corpus{Words: []Word{
		{Symbols: []string{"a", "bc", EndOfWord}, Count: 1},
		{Symbols: []string{"ab", "c", EndOfWord}, Count: 1},
	}}
	corpus.Merge(Pair{"ab", "c"}, MergeGreedy)
	if !reflect.DeepEqual(corpus.Words[0].Symbols, []string{"a", "bc", EndOfWord}) {
		t.Errorf("unrelated pair was merged: %v", corpus.Words[0].Symbols)
	}
	if !reflect.DeepEqual(corpus.Words[1].Symbols, []string{"abc", EndOfWord}) {
		t.Errorf("pair was not merged: %v", corpus.Words[1].Symbols)
	}
}

func TestParseMergeMode(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want MergeMode
	}{{"", MergeGreedy}, {"greedy", MergeGreedy}, {"reference", MergeReference}} {
		got, err := ParseMergeMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMergeMode(%q) = %v, %v", tt.in, got, err)
		}
		if tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
	if _, err := ParseMergeMode("overlap"); err == nil {
		t.Error("ParseMergeMode(overlap): expected error")
	}
}
