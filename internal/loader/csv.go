package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/csimplestring/go-csv/detector"
)

type csvReader struct{}

func (csvReader) Format() string { return "csv" }

func (csvReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func (csvReader) Read(data []byte, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(data)
	}
	return readDelimited(data, delim)
}

type tsvReader struct{}

func (tsvReader) Format() string { return "tsv" }

func (tsvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") || strings.HasSuffix(name, ".txt")
}

func (tsvReader) Read(data []byte, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = '\t'
	}
	return readDelimited(data, delim)
}

var candidateDelimiters = map[rune]bool{',': true, ';': true, '\t': true, '|': true}

// DetectDelimiter returns the most likely field separator, defaulting to ','.
func DetectDelimiter(data []byte) rune {
	d := detector.New()
	for _, s := range d.DetectDelimiter(bytes.NewReader(data), '"') {
		if s == "" {
			continue
		}
		if r := []rune(s)[0]; candidateDelimiters[r] {
			return r
		}
	}
	return ','
}

func readDelimited(data []byte, delim rune) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Reason: "empty input", Err: ErrNoColumns}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	tbl := &Table{Header: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &FormatError{Line: pe.Line, Reason: pe.Err.Error(), Err: err}
			}
			return nil, fmt.Errorf("read row %d: %w", len(tbl.Rows)+1, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, &FormatError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, saw %d", len(header), len(rec)),
				Err:    dataset.ErrRaggedRow,
			}
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, nil
}
