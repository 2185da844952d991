package bpe

import "fmt"

// MergeMode selects how a pair is rewritten within one word.
type MergeMode int

const (
	// MergeGreedy replaces every non-overlapping occurrence in one left to
	// right pass; after a merge at i scanning resumes at the pair (i+1, i+2)
	// of the shortened word.
	MergeGreedy MergeMode = iota
	// MergeReference also steps over the symbol right after each merge, so an
	// occurrence that starts there is left for a later iteration.
	MergeReference
)

// String implements fmt.Stringer.
func (m MergeMode) String() string {
	switch m {
	case MergeGreedy:
		return "greedy"
	case MergeReference:
		return "reference"
	}
	return fmt.Sprintf("MergeMode(%d)", int(m))
}

// ParseMergeMode parses "greedy" (or "") and "reference".
func ParseMergeMode(s string) (MergeMode, error) {
	switch s {
	case "", "greedy":
		return MergeGreedy, nil
	case "reference":
		return MergeReference, nil
	}
	return MergeGreedy, fmt.Errorf("bpe: unknown merge mode %q", s)
}

// Merge rewrites every occurrence of p in the corpus into p.Merged(), in
// place, and returns the number of replacements.
func (c *Corpus) Merge(p Pair, mode MergeMode) int {
	merged := p.Merged()
	total := 0
	for i := range c.Words {
		w := &c.Words[i]
		if len(w.Symbols) < 2 {
			continue
		}
		var n int
		w.Symbols, n = mergeWord(w.Symbols, p, merged, mode)
		total += n
	}
	return total
}

// mergeWord compacts syms in place; the write index never passes the read index.
func mergeWord(syms []string, p Pair, merged string, mode MergeMode) ([]string, int) {
	out := syms[:0]
	n := 0
	i := 0
	for i < len(syms) {
		if i+1 < len(syms) && syms[i] == p.A && syms[i+1] == p.B {
			out = append(out, merged)
			i += 2
			n++
			if mode == MergeReference && i < len(syms) {
				out = append(out, syms[i])
				i++
			}
			continue
		}
		out = append(out, syms[i])
		i++
	}
	// clear the abandoned tail so merged-away strings can be collected
	for k := len(out); k < len(syms); k++ {
		syms[k] = ""
	}
	return out, n
}
