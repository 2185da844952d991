package bpe

// Pair is two adjacent symbols.
type Pair struct {
	A, B string
}

// Merged returns the symbol that replaces the pair.
func (p Pair) Merged() string {
	return p.A + p.B
}

// PairCount is a pair and its aggregate count over the corpus.
type PairCount struct {
	Pair
	Count int
}

// PairCounts counts every adjacent symbol pair, weighting each occurrence by
// its word's count. Pairs are returned in the order they are first met while
// walking the corpus words in order, left to right.
func (c *Corpus) PairCounts() []PairCount {
	counts := make(map[Pair]int)
	var order []Pair
	for _, w := range c.Words {
		for i := 0; i+1 < len(w.Symbols); i++ {
			p := Pair{w.Symbols[i], w.Symbols[i+1]}
			if _, ok := counts[p]; !ok {
				order = append(order, p)
			}
			counts[p] += w.Count
		}
	}
	out := make([]PairCount, len(order))
	for i, p := range order {
		out[i] = PairCount{Pair: p, Count: counts[p]}
	}
	return out
}

// MostFrequentPair returns the pair with the greatest aggregate count. Ties go
// to the pair met first in corpus order. ok is false when no word has two or
// more symbols left.
func (c *Corpus) MostFrequentPair() (best Pair, count int, ok bool) {
	for _, pc := range c.PairCounts() {
		if pc.Count > count {
			best, count, ok = pc.Pair, pc.Count, true
		}
	}
	return best, count, ok
}
