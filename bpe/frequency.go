package bpe

// FrequencyTable maps vocabulary tokens to cumulative frequencies and keeps
// them in insertion order. Every token it holds has a positive frequency.
type FrequencyTable struct {
	order []string
	freq  map[string]int
}

// NewFrequencyTable creates an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{freq: make(map[string]int)}
}

// Add increases the frequency of tok by n, appending tok if it is new.
func (f *FrequencyTable) Add(tok string, n int) {
	if _, ok := f.freq[tok]; !ok {
		f.order = append(f.order, tok)
	}
	f.freq[tok] += n
}

// Get returns the frequency of tok, 0 when absent.
func (f *FrequencyTable) Get(tok string) int {
	return f.freq[tok]
}

// Contains checks if tok is present.
func (f *FrequencyTable) Contains(tok string) bool {
	_, ok := f.freq[tok]
	return ok
}

// Len returns the number of tokens.
func (f *FrequencyTable) Len() int {
	return len(f.order)
}

// Tokens returns a copy of the tokens in insertion order.
func (f *FrequencyTable) Tokens() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Total returns the sum of all frequencies.
func (f *FrequencyTable) Total() int {
	total := 0
	for _, n := range f.freq {
		total += n
	}
	return total
}

// Snapshot copies the token → frequency mapping.
func (f *FrequencyTable) Snapshot() map[string]int {
	out := make(map[string]int, len(f.freq))
	for k, v := range f.freq {
		out[k] = v
	}
	return out
}

// applyMerge records a merge of p that occurred count times: each constituent
// loses count (once when both sides are the same token) and is dropped when
// it runs out; the concatenation gains count.
func (f *FrequencyTable) applyMerge(p Pair, count int) {
	f.subtract(p.A, count)
	if p.B != p.A {
		f.subtract(p.B, count)
	}
	f.Add(p.Merged(), count)
}

func (f *FrequencyTable) subtract(tok string, n int) {
	cur, ok := f.freq[tok]
	if !ok {
		return
	}
	cur -= n
	if cur > 0 {
		f.freq[tok] = cur
		return
	}
	delete(f.freq, tok)
	for i, t := range f.order {
		if t == tok {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}
