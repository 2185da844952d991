package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// EndOfWord is appended to every word so merges never cross word
	// boundaries and suffixes stay distinct from prefixes.
	EndOfWord = "</w>"
	// Header is the first record of a saved vocabulary file.
	Header = "Tokens in vocab:"
)

// Vocabulary is an ordered set of subword tokens.
type Vocabulary struct {
	Tokens []string
	index  map[string]int
	// MaxLen is the longest token measured in symbols (see SymbolLen).
	MaxLen int
}

// New creates an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// FromTokens builds a vocabulary keeping the first occurrence of each token.
func FromTokens(tokens []string) *Vocabulary {
	v := New()
	for _, t := range tokens {
		v.Add(t)
	}
	return v
}

// Add appends tok unless it is empty or already present.
func (v *Vocabulary) Add(tok string) bool {
	if tok == "" {
		return false
	}
	if _, ok := v.index[tok]; ok {
		return false
	}
	v.index[tok] = len(v.Tokens)
	v.Tokens = append(v.Tokens, tok)
	if n := SymbolLen(tok); n > v.MaxLen {
		v.MaxLen = n
	}
	return true
}

// Contains checks if tok is in the vocabulary.
func (v *Vocabulary) Contains(tok string) bool {
	_, ok := v.index[tok]
	return ok
}

// Index returns the position of tok.
func (v *Vocabulary) Index(tok string) (int, bool) {
	i, ok := v.index[tok]
	return i, ok
}

// Len returns the number of tokens.
func (v *Vocabulary) Len() int {
	return len(v.Tokens)
}

// Load reads tokens from a vocabulary file and adds them in file order.
func (v *Vocabulary) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := v.Read(file); err != nil {
		return fmt.Errorf("vocab: %s: %w", path, err)
	}
	return nil
}

// Read parses the CSV vocabulary format: an optional Header record followed by
// one token per record. Records of the form `token,</w>` are joined into a
// single whole-word token.
func (v *Vocabulary) Read(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			if len(record) > 0 && record[0] == Header {
				continue
			}
		}
		if len(record) == 0 {
			continue
		}
		tok := record[0]
		if len(record) >= 2 && record[1] == EndOfWord {
			tok += EndOfWord
		}
		v.Add(tok)
	}
}

// Save writes the vocabulary to path, one token per record after the header.
func (v *Vocabulary) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := v.Write(file); err != nil {
		return fmt.Errorf("vocab: %s: %w", path, err)
	}
	return file.Close()
}

// Write emits the CSV vocabulary format.
func (v *Vocabulary) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{Header}); err != nil {
		return err
	}
	for _, tok := range v.Tokens {
		if err := writer.Write([]string{tok}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Symbols splits a token into its symbols: one per rune, with a trailing
// EndOfWord kept as a single symbol.
func Symbols(tok string) []string {
	body, eow := strings.CutSuffix(tok, EndOfWord)
	syms := make([]string, 0, utf8.RuneCountInString(body)+1)
	for _, r := range body {
		syms = append(syms, string(r))
	}
	if eow {
		syms = append(syms, EndOfWord)
	}
	return syms
}

// SymbolLen returns len(Symbols(tok)) without allocating.
func SymbolLen(tok string) int {
	body, eow := strings.CutSuffix(tok, EndOfWord)
	n := utf8.RuneCountInString(body)
	if eow {
		n++
	}
	return n
}

// IsWholeWord reports whether tok can only match at the end of a word.
func IsWholeWord(tok string) bool {
	return strings.HasSuffix(tok, EndOfWord)
}
