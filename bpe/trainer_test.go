package bpe

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

var sampleLines = [][]string{
	{"low", "low", "low", "low", "low"},
	{"lower", "lower"},
	{"newest", "newest", "newest", "newest", "newest", "newest"},
	{"widest", "widest", "widest"},
}

func TestTrainEarlyExit(t *testing.T) {
	tr := NewTrainer([][]string{{"aaab"}})

	initial := tr.Frequencies().Snapshot()
	wantInitial := map[string]int{"a": 3, "b": 1, EndOfWord: 1}
	if !reflect.DeepEqual(initial, wantInitial) {
		t.Fatalf("initial table = %v, want %v", initial, wantInitial)
	}

	m, ok := tr.Step()
	if !ok || m.Pair != (Pair{"a", "a"}) || m.Count != 2 {
		t.Fatalf("first Step() = %+v, %v; want (a,a) count 2", m, ok)
	}

	got := tr.Run(MinVocabSize)
	want := []string{"aa", "aaab" + EndOfWord}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run() = %v, want %v", got, want)
	}
	if n := tr.Stats().Merges; n != 4 {
		t.Errorf("Merges = %d, want 4", n)
	}
	if _, ok := tr.Step(); ok {
		t.Error("Step() after exhaustion: expected false")
	}
}

func TestTrainEmpty(t *testing.T) {
	got := Train(nil, 100)
	if len(got) != 0 {
		t.Errorf("Train(nil) = %v, want empty", got)
	}
	got = Train([][]string{{}, {""}}, 0)
	if len(got) != 0 {
		t.Errorf("Train(empty lines) = %v, want empty", got)
	}
}

func TestClampSize(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{0, 52}, {-5, 52}, {51, 52}, {52, 52}, {1000, 1000}} {
		if got := ClampSize(tt.in); got != tt.want {
			t.Errorf("ClampSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTrainSizeBound(t *testing.T) {
	for _, size := range []int{0, 10, 52, 53, 60, 500} {
		tr := NewTrainer(sampleLines)
		initial := tr.Frequencies().Len()
		got := tr.Run(size)
		limit := max(ClampSize(size), initial)
		if len(got) > limit {
			t.Errorf("size %d: vocabulary has %d tokens, limit %d", size, len(got), limit)
		}
	}
}

func TestTrainTokensHavePositiveFrequency(t *testing.T) {
	tr := NewTrainer(sampleLines)
	got := tr.Run(60)
	if tr.Stats().Merges == 0 {
		t.Fatal("expected at least one merge")
	}
	for _, tok := range got {
		if n := tr.Frequencies().Get(tok); n <= 0 {
			t.Errorf("token %q has frequency %d", tok, n)
		}
	}
	// Every word ends up as one whole-word token once merging is exhausted.
	for _, w := range tr.Corpus().Words {
		if len(w.Symbols) != 1 {
			t.Errorf("word %v not fully merged", w.Symbols)
		}
	}
}

func TestTrainIdempotentAtTarget(t *testing.T) {
	var alphabet, greek, digits strings.Builder
	for r := 'a'; r <= 'z'; r++ {
		alphabet.WriteRune(r)
	}
	for r := 'α'; r <= 'ω'; r++ {
		greek.WriteRune(r)
	}
	digits.WriteString("0123456789")
	lines := [][]string{{alphabet.String(), greek.String(), digits.String()}}

	tr := NewTrainer(lines)
	initial := tr.Vocabulary()
	if len(initial) < MinVocabSize {
		t.Fatalf("fixture has only %d symbols", len(initial))
	}

	got := tr.Run(MinVocabSize)
	if tr.Stats().Merges != 0 {
		t.Errorf("Merges = %d, want 0", tr.Stats().Merges)
	}
	sort.Strings(initial)
	sort.Strings(got)
	if !reflect.DeepEqual(got, initial) {
		t.Errorf("Run() = %v, want the initial symbols %v", got, initial)
	}
}

func TestStepConservation(t *testing.T) {
	tr := NewTrainer(sampleLines)
	for step := 0; step < 10; step++ {
		before := tr.Frequencies().Snapshot()
		beforeTotal := tr.Frequencies().Total()
		m, ok := tr.Step()
		if !ok {
			t.Fatalf("step %d: no pair", step)
		}
		after := tr.Frequencies().Snapshot()
		merged := m.Merged()

		// both constituents lose Count, the merged token gains it once
		lost := m.Count
		if m.A == m.B {
			lost = 0
		}
		if got := tr.Frequencies().Total(); got != beforeTotal-lost {
			t.Errorf("step %d: total = %d, want %d", step, got, beforeTotal-lost)
		}

		if after[merged] != before[merged]+m.Count {
			t.Errorf("step %d: freq[%q] = %d, want %d", step, merged, after[merged], before[merged]+m.Count)
		}
		for tok, n := range before {
			if tok == merged {
				continue
			}
			want := n
			if tok == m.A || tok == m.B {
				want -= m.Count
			}
			if want <= 0 {
				if _, present := after[tok]; present {
					t.Errorf("step %d: %q should have been removed", step, tok)
				}
				continue
			}
			if after[tok] != want {
				t.Errorf("step %d: freq[%q] = %d, want %d", step, tok, after[tok], want)
			}
		}
		for tok, n := range after {
			if n <= 0 {
				t.Errorf("step %d: %q kept with frequency %d", step, tok, n)
			}
		}
	}
}

func TestTrainDeterministic(t *testing.T) {
	first := Train(sampleLines, 70)
	for i := 0; i < 5; i++ {
		if got := Train(sampleLines, 70); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d = %v, want %v", i, got, first)
		}
	}
}

func TestTrainMergeOrder(t *testing.T) {
	tr := NewTrainer(sampleLines)
	tr.Run(MinVocabSize + 5)
	merges := tr.Merges()
	if len(merges) == 0 {
		t.Fatal("no merges")
	}
	// "es" occurs 9 times (newest x6, widest x3), more than any other pair.
	if merges[0].Pair != (Pair{"e", "s"}) || merges[0].Count != 9 {
		t.Errorf("first merge = %+v, want (e,s) count 9", merges[0])
	}
	vocab := tr.Vocabulary()
	last := merges[len(merges)-1].Merged()
	if vocab[len(vocab)-1] != last {
		t.Errorf("last vocabulary token = %q, want latest merge %q", vocab[len(vocab)-1], last)
	}
}

func TestTrainReferenceMode(t *testing.T) {
	lines := [][]string{{"abab", "abab"}}
	greedy := NewTrainer(lines)
	greedy.Step()
	ref := NewTrainer(lines, WithMergeMode(MergeReference))
	ref.Step()

	if got := greedy.Corpus().Words[0].Symbols; !reflect.DeepEqual(got, []string{"ab", "ab", EndOfWord}) {
		t.Errorf("greedy word = %v", got)
	}
	if got := ref.Corpus().Words[0].Symbols; !reflect.DeepEqual(got, []string{"ab", "a", "b", EndOfWord}) {
		t.Errorf("reference word = %v", got)
	}
}

func TestTrainReferenceModeOvercount(t *testing.T) {
	// The reference scan rewrites fewer pairs than it counted, so the table
	// subtracts more than a constituent has left. Such tokens are dropped
	// even though the corpus still holds them.
	tr := NewTrainer([][]string{{"bababab"}}, WithMergeMode(MergeReference))

	first, _ := tr.Step()
	if first.Pair != (Pair{"b", "a"}) || first.Count != 3 || first.Replaced != 2 {
		t.Fatalf("first merge = %+v", first)
	}
	if got := tr.Vocabulary(); !reflect.DeepEqual(got, []string{"b", EndOfWord, "ba"}) {
		t.Errorf("after first merge vocab = %v", got)
	}

	// "b" has frequency 1 in the table but the merge removes 2
	second, _ := tr.Step()
	if second.Pair != (Pair{"ba", "b"}) || second.Count != 2 {
		t.Fatalf("second merge = %+v", second)
	}
	if tr.Frequencies().Contains("b") || tr.Frequencies().Contains("a") {
		t.Errorf("exhausted constituents kept: %v", tr.Frequencies().Snapshot())
	}
	if got := tr.Vocabulary(); !reflect.DeepEqual(got, []string{EndOfWord, "ba", "bab"}) {
		t.Errorf("vocab = %v", got)
	}
	if got := tr.Corpus().Words[0].Symbols; !reflect.DeepEqual(got, []string{"bab", "a", "bab", EndOfWord}) {
		t.Errorf("word = %v", got)
	}
	for tok, n := range tr.Frequencies().Snapshot() {
		if n <= 0 {
			t.Errorf("%q kept with frequency %d", tok, n)
		}
	}
}
