package bpe

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/teatak/subword/vocab"
)

const (
	// Unknown replaces any span of a word that no vocabulary token covers.
	Unknown = "</unknown>"
	// DefaultCacheSize bounds the number of memoised word segmentations.
	DefaultCacheSize = 8192
)

// Encoder segments words into vocabulary tokens by greedy longest match.
// It is safe for concurrent use.
type Encoder struct {
	vocab   *vocab.Vocabulary
	unknown string
	cache   *lru.Cache
}

// EncoderOption configures an Encoder.
type EncoderOption func(*encoderConfig)

type encoderConfig struct {
	unknown   string
	cacheSize int
}

// WithUnknown sets the placeholder emitted for uncovered spans.
func WithUnknown(tok string) EncoderOption {
	return func(c *encoderConfig) {
		if tok != "" {
			c.unknown = tok
		}
	}
}

// WithCacheSize sets the word cache capacity; 0 disables caching.
func WithCacheSize(n int) EncoderOption {
	return func(c *encoderConfig) { c.cacheSize = n }
}

// NewEncoder builds an encoder over tokens.
func NewEncoder(tokens []string, opts ...EncoderOption) *Encoder {
	return NewEncoderFromVocabulary(vocab.FromTokens(tokens), opts...)
}

// NewEncoderFromVocabulary builds an encoder over an existing vocabulary,
// which must not be modified afterwards.
func NewEncoderFromVocabulary(v *vocab.Vocabulary, opts ...EncoderOption) *Encoder {
	cfg := encoderConfig{unknown: Unknown, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Encoder{vocab: v, unknown: cfg.unknown}
	if cfg.cacheSize > 0 {
		// lru.New only fails for a non-positive size
		e.cache, _ = lru.New(cfg.cacheSize)
	}
	return e
}

// Vocabulary returns the encoder's vocabulary.
func (e *Encoder) Vocabulary() *vocab.Vocabulary {
	return e.vocab
}

// UnknownToken returns the placeholder for uncovered spans.
func (e *Encoder) UnknownToken() string {
	return e.unknown
}

// Encode segments every word of every line. The result has one entry per
// input line.
func (e *Encoder) Encode(lines [][]string) [][]string {
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = e.EncodeLine(line)
	}
	return out
}

// EncodeLine segments the words of one line and concatenates the results.
func (e *Encoder) EncodeLine(words []string) []string {
	out := []string{}
	for _, w := range words {
		out = append(out, e.EncodeWord(w)...)
	}
	return out
}

// EncodeWord lower-cases word, terminates it with EndOfWord and splits it
// left to right, always taking the longest vocabulary token that matches at
// the current position. Runs of symbols no token covers become a single
// unknown placeholder.
func (e *Encoder) EncodeWord(word string) []string {
	if word == "" {
		return nil
	}
	if e.cache != nil {
		if v, ok := e.cache.Get(word); ok {
			return append([]string(nil), v.([]string)...)
		}
	}

	syms := vocab.Symbols(strings.ToLower(word) + EndOfWord)
	var out []string
	inUnknown := false
	for i := 0; i < len(syms); {
		matched := 0
		for l := min(e.vocab.MaxLen, len(syms)-i); l >= 1; l-- {
			cand := strings.Join(syms[i:i+l], "")
			if e.vocab.Contains(cand) {
				out = append(out, cand)
				matched = l
				break
			}
		}
		if matched == 0 {
			if !inUnknown {
				out = append(out, e.unknown)
				inUnknown = true
			}
			i++
			continue
		}
		inUnknown = false
		i += matched
	}

	if e.cache != nil {
		e.cache.Add(word, append([]string(nil), out...))
	}
	return out
}
