// Package bayes implements a multinomial Naive Bayes text classifier over
// pre-tokenized lines.
package bayes

import (
	"math"
	"sort"
)

// Example is a tokenized line paired with its label.
type Example struct {
	Tokens []string
	Label  string
}

// Counts holds per-label token occurrences gathered from a training set.
type Counts struct {
	// Tokens[token][label] = occurrences
	Tokens map[string]map[string]int
	// Words[label] = total tokens seen under label
	Words map[string]int
}

// Preprocess counts every token occurrence per label.
// Labels without tokens still get an entry in Words.
func Preprocess(examples []Example) *Counts {
	c := &Counts{
		Tokens: make(map[string]map[string]int),
		Words:  make(map[string]int),
	}
	for _, ex := range examples {
		if _, ok := c.Words[ex.Label]; !ok {
			c.Words[ex.Label] = 0
		}
		for _, tok := range ex.Tokens {
			if c.Tokens[tok] == nil {
				c.Tokens[tok] = make(map[string]int)
			}
			c.Tokens[tok][ex.Label]++
			c.Words[ex.Label]++
		}
	}
	return c
}

// Labels returns the labels in sorted order.
func (c *Counts) Labels() []string {
	labels := make([]string, 0, len(c.Words))
	for l := range c.Words {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Model maps tokens to per-label conditional probabilities.
type Model struct {
	// Labels in sorted order; Probs values are aligned with it.
	Labels []string
	// Probs[token][i] = P(token | Labels[i])
	Probs map[string][]float64
}

// NewModel creates a new empty model.
func NewModel() *Model {
	return &Model{
		Probs: make(map[string][]float64),
	}
}

// FromCounts builds a model from counts using additive smoothing alpha.
// alpha 0 gives the plain frequency ratio count/words. A label with no
// words (and no smoothing) gets probability 0 for every token.
func FromCounts(c *Counts, alpha float64) *Model {
	m := NewModel()
	m.Labels = c.Labels()
	vocab := float64(len(c.Tokens))
	for tok, perLabel := range c.Tokens {
		probs := make([]float64, len(m.Labels))
		for i, label := range m.Labels {
			denom := float64(c.Words[label]) + alpha*vocab
			if denom == 0 {
				continue
			}
			probs[i] = (float64(perLabel[label]) + alpha) / denom
		}
		m.Probs[tok] = probs
	}
	return m
}

// Train preprocesses examples and builds a model in one step.
func Train(examples []Example, alpha float64) *Model {
	return FromCounts(Preprocess(examples), alpha)
}

// Len returns the number of known tokens.
func (m *Model) Len() int {
	return len(m.Probs)
}

// Scores returns the log-likelihood of tokens under every label.
// Tokens unknown to the model are skipped; a zero probability yields -Inf.
func (m *Model) Scores(tokens []string) map[string]float64 {
	sums := m.logSums(tokens)
	out := make(map[string]float64, len(m.Labels))
	for i, label := range m.Labels {
		out[label] = sums[i]
	}
	return out
}

func (m *Model) logSums(tokens []string) []float64 {
	sums := make([]float64, len(m.Labels))
	for _, tok := range tokens {
		probs, ok := m.Probs[tok]
		if !ok {
			continue
		}
		for i, p := range probs {
			sums[i] += math.Log(p)
		}
	}
	return sums
}

// Classify returns the label with the highest score. Ties go to the label
// that sorts first. ok is false when the model has no labels.
func (m *Model) Classify(tokens []string) (label string, ok bool) {
	if len(m.Labels) == 0 {
		return "", false
	}
	sums := m.logSums(tokens)
	best := 0
	for i := 1; i < len(sums); i++ {
		if sums[i] > sums[best] {
			best = i
		}
	}
	return m.Labels[best], true
}

// InClass reports whether target scores strictly higher than every other label.
func (m *Model) InClass(tokens []string, target string) bool {
	idx := m.labelIndex(target)
	if idx < 0 {
		return false
	}
	sums := m.logSums(tokens)
	for i, s := range sums {
		if i == idx {
			continue
		}
		// NaN and -Inf on both sides fail this check too
		if !(sums[idx] > s) {
			return false
		}
	}
	return true
}

// MatchesTarget reports whether the model agrees with the example's label
// on membership in target.
func (m *Model) MatchesTarget(target string, ex Example) bool {
	return (ex.Label == target) == m.InClass(ex.Tokens, target)
}

func (m *Model) labelIndex(label string) int {
	i := sort.SearchStrings(m.Labels, label)
	if i < len(m.Labels) && m.Labels[i] == label {
		return i
	}
	return -1
}
