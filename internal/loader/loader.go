package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

// Options controls how files are turned into datasets.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects.
	Delimiter rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
	// AllowMissingMarker parses a SOFT file without `!dataset_table_begin` as a plain
	// tab-separated table starting at the first line.
	AllowMissingMarker bool
	// MaxRows limits data rows kept; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns the options used when no flags or config override them.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Table is the raw header and rows produced by a format reader.
type Table struct {
	Header []string
	Rows   [][]string
	Meta   []dataset.Attribute
}

// Reader decodes one file format.
type Reader interface {
	Format() string
	CanRead(filename string) bool
	Read(data []byte, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a format reader. Later registrations do not override earlier ones.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(tsvReader{})
	Register(xlsxReader{})
	Register(xlsReader{})
	Register(softReader{})
}

// Load reads path, selects a reader by extension and returns the Dataset. Every
// failure is reported as "could not load <file>: <cause>".
func Load(path string, opt Options) (*dataset.Dataset, error) {
	ds, err := load(path, opt)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

func load(path string, opt Options) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".gz") {
		data, err = gunzip(data)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(name, ".gz")
	}
	r := readerFor(name)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
	logrus.WithFields(logrus.Fields{"file": path, "format": r.Format(), "bytes": len(data)}).Debug("loading dataset")
	tbl, err := r.Read(data, opt)
	if err != nil {
		return nil, err
	}
	if opt.MaxRows > 0 && len(tbl.Rows) > opt.MaxRows {
		logrus.WithFields(logrus.Fields{"file": path, "rows": len(tbl.Rows), "max_rows": opt.MaxRows}).Warn("truncating rows")
		tbl.Rows = tbl.Rows[:opt.MaxRows]
	}
	ds, err := dataset.FromRecords(filepath.Base(path), tbl.Header, tbl.Rows)
	if err != nil {
		return nil, err
	}
	ds.Format = r.Format()
	ds.Meta = tbl.Meta
	logrus.WithFields(logrus.Fields{"id": ds.ID, "rows": ds.Rows(), "columns": len(ds.Columns())}).Debug("dataset loaded")
	return ds, nil
}

func readerFor(name string) Reader {
	for _, r := range registry {
		if r.CanRead(name) {
			return r
		}
	}
	return nil
}

// Supported reports whether a reader is registered for the file name.
func Supported(path string) bool {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".gz")
	return readerFor(name) != nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	return out, nil
}

var (
	// ErrUnsupportedFormat indicates no reader is registered for the extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMarkerNotFound indicates a SOFT file without a `!dataset_table_begin` line.
	ErrMarkerNotFound = errors.New("dataset table marker not found")
	// ErrNoColumns indicates an input without a header row.
	ErrNoColumns = errors.New("no columns to parse")
)

// FormatError reports malformed content, with the 1-based line when known.
type FormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("format error: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
