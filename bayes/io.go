package bayes

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// HeaderWord is the first column name of a saved model.
const HeaderWord = "word"

// Load reads a model saved by Save.
func Load(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// Read parses a CSV model: a header "word,<label>..." followed by one row
// per token with a probability for every label.
func Read(r io.Reader) (*Model, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 1 || header[0] != HeaderWord {
		return nil, fmt.Errorf("bad header %q", header)
	}

	m := NewModel()
	m.Labels = append([]string(nil), header[1:]...)
	if !sort.StringsAreSorted(m.Labels) {
		return nil, fmt.Errorf("labels not sorted: %q", m.Labels)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		probs := make([]float64, len(m.Labels))
		for i := range probs {
			probs[i], err = strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", rec[0], err)
			}
		}
		m.Probs[rec[0]] = probs
	}
	return m, nil
}

// Save writes the model to a CSV file.
func (m *Model) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write streams the model as CSV. Rows are sorted by token.
func (m *Model) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{HeaderWord}, m.Labels...)); err != nil {
		return err
	}

	tokens := make([]string, 0, len(m.Probs))
	for tok := range m.Probs {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	rec := make([]string, len(m.Labels)+1)
	for _, tok := range tokens {
		rec[0] = tok
		for i, p := range m.Probs[tok] {
			rec[i+1] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
