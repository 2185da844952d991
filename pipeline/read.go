package pipeline

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teatak/subword/bayes"
	"github.com/teatak/subword/tokenize"
)

// Input kinds.
const (
	KindCSV = "csv" // header row, text in column 1
	KindTxt = "txt" // one line of text per line
)

// ReadLines returns the raw text lines of a csv or txt input.
func ReadLines(path, kind string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch kind {
	case KindCSV:
		var lines []string
		err := eachRecord(file, func(n int, rec []string) error {
			if len(rec) < 2 {
				return fmt.Errorf("%s:%d: want at least 2 fields, got %d", path, n, len(rec))
			}
			lines = append(lines, rec[1])
			return nil
		})
		return lines, err
	case KindTxt:
		var lines []string
		scanner := bufio.NewScanner(file)
		buf := make([]byte, 1024*1024)
		scanner.Buffer(buf, 1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		return lines, scanner.Err()
	default:
		return nil, fmt.Errorf("unknown input kind %q (want %s or %s)", kind, KindCSV, KindTxt)
	}
}

// ReadTokens reads an input and tokenizes each line with tok.
// A nil tok uses tokenize.AlphasLower.
func ReadTokens(path, kind string, tok *tokenize.Tokenizer) ([][]string, error) {
	lines, err := ReadLines(path, kind)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = tokenizeLine(tok, line)
	}
	return out, nil
}

// ReadLabeled reads a "label,text" CSV file with a header row.
func ReadLabeled(path string, tok *tokenize.Tokenizer) ([]bayes.Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var examples []bayes.Example
	err = eachRecord(file, func(n int, rec []string) error {
		if len(rec) < 2 {
			return fmt.Errorf("%s:%d: want label and text, got %d fields", path, n, len(rec))
		}
		examples = append(examples, bayes.Example{
			Label:  strings.TrimSpace(rec[0]),
			Tokens: tokenizeLine(tok, rec[1]),
		})
		return nil
	})
	return examples, err
}

// eachRecord calls fn for every record after the header. n is the 1-based
// record number including the header.
func eachRecord(r io.Reader, fn func(n int, rec []string) error) error {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	n := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		n++
		if n == 1 {
			continue
		}
		if err := fn(n, rec); err != nil {
			return err
		}
	}
}

func tokenizeLine(tok *tokenize.Tokenizer, line string) []string {
	if tok == nil {
		return tokenize.AlphasLower(line)
	}
	return tok.Tokenize(line)
}
