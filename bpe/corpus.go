package bpe

import (
	"strings"

	"github.com/teatak/subword/vocab"
)

// EndOfWord terminates every corpus word.
const EndOfWord = vocab.EndOfWord

// Word is one distinct corpus word at the current merge state and the number
// of times it occurred in the source text.
type Word struct {
	Symbols []string
	Count   int
}

// Corpus holds the distinct words of the training text in first-seen order.
type Corpus struct {
	Words []Word
}

// BuildCorpus converts tokenized lines into a corpus and the initial frequency
// table. Each word is lower-cased, split into characters and terminated with
// EndOfWord; identical sequences are coalesced. The table counts every
// character occurrence and one EndOfWord per word occurrence, in first-seen order.
func BuildCorpus(lines [][]string) (*Corpus, *FrequencyTable) {
	corpus := &Corpus{}
	freq := NewFrequencyTable()
	index := make(map[string]int)

	for _, line := range lines {
		for _, token := range line {
			lower := strings.ToLower(token)
			if lower == "" {
				continue
			}
			syms := make([]string, 0, len(lower)+1)
			for _, r := range lower {
				c := string(r)
				syms = append(syms, c)
				freq.Add(c, 1)
			}
			syms = append(syms, EndOfWord)
			freq.Add(EndOfWord, 1)

			key := strings.Join(syms, "\x00")
			if i, ok := index[key]; ok {
				corpus.Words[i].Count++
				continue
			}
			index[key] = len(corpus.Words)
			corpus.Words = append(corpus.Words, Word{Symbols: syms, Count: 1})
		}
	}
	return corpus, freq
}

// Len returns the number of distinct words.
func (c *Corpus) Len() int {
	return len(c.Words)
}

// Occurrences returns the total number of word occurrences.
func (c *Corpus) Occurrences() int {
	n := 0
	for _, w := range c.Words {
		n += w.Count
	}
	return n
}

// Symbols returns the number of symbols over all distinct words.
func (c *Corpus) Symbols() int {
	n := 0
	for _, w := range c.Words {
		n += len(w.Symbols)
	}
	return n
}
