// Package bpe learns a character-level Byte Pair Encoding vocabulary from
// tokenized text and segments new text with it.
//
// Training repeatedly finds the most frequent adjacent symbol pair in the
// corpus, merges it everywhere and records the merged token, until the
// vocabulary reaches the requested size or nothing is left to merge.
package bpe

import (
	"log"
	"time"
)

// MinVocabSize is the smallest vocabulary size training will aim for.
const MinVocabSize = 52

// ClampSize raises n to MinVocabSize.
func ClampSize(n int) int {
	if n < MinVocabSize {
		return MinVocabSize
	}
	return n
}

// Merge is one learned merge rule.
type Merge struct {
	Pair
	Count int
	// Replaced is the number of symbol pairs rewritten in the corpus.
	Replaced int
}

// Stats summarises a training run.
type Stats struct {
	Merges        int
	VocabSize     int
	Words         int
	DistinctWords int
	Elapsed       time.Duration
}

// Trainer owns the corpus and frequency table for one training run.
// It is not safe for concurrent use.
type Trainer struct {
	corpus        *Corpus
	freq          *FrequencyTable
	mode          MergeMode
	progressEvery int
	merges        []Merge
	elapsed       time.Duration
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithMergeMode selects the merge scan (default MergeGreedy).
func WithMergeMode(m MergeMode) Option {
	return func(t *Trainer) { t.mode = m }
}

// WithProgress logs every n-th merge with the standard logger; 0 disables.
func WithProgress(n int) Option {
	return func(t *Trainer) { t.progressEvery = n }
}

// NewTrainer builds the corpus and initial frequency table from lines.
func NewTrainer(lines [][]string, opts ...Option) *Trainer {
	corpus, freq := BuildCorpus(lines)
	t := &Trainer{corpus: corpus, freq: freq}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Step performs one merge iteration. It returns false, leaving all state
// untouched, when no word has a pair left to merge.
func (t *Trainer) Step() (Merge, bool) {
	p, count, ok := t.corpus.MostFrequentPair()
	if !ok {
		return Merge{}, false
	}
	t.freq.applyMerge(p, count)
	m := Merge{Pair: p, Count: count}
	m.Replaced = t.corpus.Merge(p, t.mode)
	t.merges = append(t.merges, m)

	if t.progressEvery > 0 && len(t.merges)%t.progressEvery == 0 {
		log.Printf("merge %d: %q + %q -> %q count=%d vocab=%d",
			len(t.merges), p.A, p.B, p.Merged(), count, t.freq.Len())
	}
	return m, true
}

// Run merges until the vocabulary holds at least ClampSize(size) tokens or
// no pair is left, and returns the vocabulary.
func (t *Trainer) Run(size int) []string {
	start := time.Now()
	n := ClampSize(size)
	for t.freq.Len() < n {
		if _, ok := t.Step(); !ok {
			break
		}
	}
	t.elapsed += time.Since(start)
	return t.Vocabulary()
}

// Vocabulary returns the current tokens in insertion order.
func (t *Trainer) Vocabulary() []string {
	return t.freq.Tokens()
}

// Frequencies exposes the frequency table.
func (t *Trainer) Frequencies() *FrequencyTable {
	return t.freq
}

// Corpus exposes the corpus at its current merge state.
func (t *Trainer) Corpus() *Corpus {
	return t.corpus
}

// Merges returns the learned merges in order.
func (t *Trainer) Merges() []Merge {
	out := make([]Merge, len(t.merges))
	copy(out, t.merges)
	return out
}

// Stats reports on the run so far.
func (t *Trainer) Stats() Stats {
	return Stats{
		Merges:        len(t.merges),
		VocabSize:     t.freq.Len(),
		Words:         t.corpus.Occurrences(),
		DistinctWords: t.corpus.Len(),
		Elapsed:       t.elapsed,
	}
}

// Train learns a vocabulary of (at most) ClampSize(size) tokens from lines
// using the default options.
func Train(lines [][]string, size int) []string {
	return NewTrainer(lines).Run(size)
}
