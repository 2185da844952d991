// Package tokenize splits raw text lines into word and punctuation tokens.
// Its output is the pre-tokenized input consumed by BPE training and by the
// Naive Bayes classifier.
package tokenize

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// WordsPattern matches letter runs (apostrophes included), digit runs and
	// single punctuation marks. Case is preserved.
	WordsPattern = `[\p{L}']+|[0-9]+|[?,.!:"=_\-%#@&\])]`
	// AlphasPattern matches letter runs only, apostrophes included.
	AlphasPattern = `[\p{L}']+`
)

// Pattern names accepted by New.
const (
	PatternWords  = "words"
	PatternAlphas = "alphas"
)

var (
	wordsRe  = regexp2.MustCompile(WordsPattern, regexp2.None)
	alphasRe = regexp2.MustCompile(AlphasPattern, regexp2.None)
)

// Line breaks a line into word, number and punctuation tokens, keeping case.
func Line(s string) []string {
	return findAll(wordsRe, norm.NFC.String(s))
}

// AlphasLower extracts the alphabetic runs of a line, lower-cased.
func AlphasLower(s string) []string {
	tokens := findAll(alphasRe, norm.NFC.String(s))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return tokens
}

// Reader tokenizes every line read from r with Line and returns the
// concatenated token stream.
func Reader(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		out = append(out, Line(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("tokenize: read: %w", err)
	}
	return out, nil
}

// Options configures a Tokenizer.
type Options struct {
	// Pattern is PatternWords, PatternAlphas or a custom regexp2 expression.
	// Empty means PatternAlphas.
	Pattern     string
	Lowercase   bool
	FoldAccents bool
}

// Tokenizer applies normalisation and a compiled pattern to lines of text.
// It is safe for concurrent use.
type Tokenizer struct {
	re        *regexp2.Regexp
	lowercase bool
	fold      bool
}

// New compiles a Tokenizer from opts.
func New(opts Options) (*Tokenizer, error) {
	t := &Tokenizer{lowercase: opts.Lowercase, fold: opts.FoldAccents}
	switch opts.Pattern {
	case "", PatternAlphas:
		t.re = alphasRe
	case PatternWords:
		t.re = wordsRe
	default:
		re, err := regexp2.Compile(opts.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("tokenize: compile pattern %q: %w", opts.Pattern, err)
		}
		t.re = re
	}
	return t, nil
}

// Tokenize splits a single line.
func (t *Tokenizer) Tokenize(line string) []string {
	tokens := findAll(t.re, t.normalize(line))
	if t.lowercase {
		for i, tok := range tokens {
			tokens[i] = strings.ToLower(tok)
		}
	}
	return tokens
}

// Lines tokenizes each line independently, keeping empty results so that the
// output stays aligned with the input.
func (t *Tokenizer) Lines(lines []string) [][]string {
	out := make([][]string, len(lines))
	for i, l := range lines {
		out[i] = t.Tokenize(l)
	}
	return out
}

func (t *Tokenizer) normalize(s string) string {
	if !t.fold {
		return norm.NFC.String(s)
	}
	// Chain holds internal buffers, so build one per call.
	tform := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(tform, s)
	if err != nil {
		return norm.NFC.String(s)
	}
	return out
}

// findAll returns every match of re in s. Matching errors (timeouts) end the
// scan and keep what was found so far.
func findAll(re *regexp2.Regexp, s string) []string {
	tokens := []string{}
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		tokens = append(tokens, m.String())
		m, err = re.FindNextMatch(m)
	}
	return tokens
}
