package pipeline

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// EncodingHeader is the first record of an encoding file.
const EncodingHeader = "Tokenized sequences"

// SaveEncoding writes one CSV record per encoded line.
func SaveEncoding(path string, seqs [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteEncoding(file, seqs); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteEncoding streams encoded lines as CSV. An empty line is written as
// a single quoted empty field so readers do not skip it.
func WriteEncoding(w io.Writer, seqs [][]string) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write([]string{EncodingHeader}); err != nil {
		return err
	}
	for _, seq := range seqs {
		if len(seq) > 0 {
			if err := cw.Write(seq); err != nil {
				return err
			}
			continue
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if _, err := bw.WriteString("\"\"\n"); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadEncoding reads a file written by SaveEncoding.
func LoadEncoding(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadEncoding(file)
}

// ReadEncoding parses encoded lines written by WriteEncoding.
func ReadEncoding(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) != 1 || header[0] != EncodingHeader {
		return nil, fmt.Errorf("bad encoding header %q", header)
	}

	var seqs [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return seqs, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && rec[0] == "" {
			rec = []string{}
		}
		seqs = append(seqs, rec)
	}
}
