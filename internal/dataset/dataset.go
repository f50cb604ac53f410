package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the derived classification of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedColumns   = errors.New("columns have different lengths")
	ErrRaggedRow       = errors.New("row has more fields than the header")
)

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Len returns the number of cells, missing ones included.
func (c *Column) Len() int { return len(c.Values) }

// Kind classifies the column purely from the types of its values: numeric when at
// least one cell is a number and no cell is text, categorical otherwise.
func (c *Column) Kind() Kind {
	nums := 0
	for _, v := range c.Values {
		if v.Missing {
			continue
		}
		if !v.IsNum {
			return KindCategorical
		}
		nums++
	}
	if nums == 0 {
		return KindCategorical
	}
	return KindNumeric
}

// Floats returns the non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsNum && !v.Missing {
			out = append(out, v.Num)
		}
	}
	return out
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// Attribute is one metadata line found in a file header (SOFT `^`/`!` lines).
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Dataset is an immutable table of equally long, uniquely named columns.
type Dataset struct {
	ID     string
	Source string
	Format string
	Meta   []Attribute

	cols  []*Column
	index map[string]int
}

// New validates cols and wraps them in a Dataset with a fresh load ID.
func New(source string, cols []*Column) (*Dataset, error) {
	d := &Dataset{
		ID:     uuid.NewString(),
		Source: source,
		cols:   cols,
		index:  make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := d.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		d.index[c.Name] = i
		if i > 0 && c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrRaggedColumns, c.Name, c.Len(), cols[0].Name, cols[0].Len())
		}
	}
	return d, nil
}

// FromRecords builds a Dataset from a header and string rows. Short rows are padded
// with missing cells; blank and repeated header names are made unique.
func FromRecords(source string, header []string, rows [][]string) (*Dataset, error) {
	names := uniqueNames(header)
	cols := make([]*Column, len(names))
	for i, n := range names {
		cols[i] = &Column{Name: n, Values: make([]Value, 0, len(rows))}
	}
	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRaggedRow, r+1, len(row), len(names))
		}
		for j, c := range cols {
			if j < len(row) {
				c.Values = append(c.Values, ParseValue(row[j]))
			} else {
				c.Values = append(c.Values, Missing())
			}
		}
	}
	return New(source, cols)
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			candidate := fmt.Sprintf("%s.%d", name, n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = fmt.Sprintf("%s.%d", name, seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

// Columns returns the columns in file order.
func (d *Dataset) Columns() []*Column { return d.cols }

// Names returns column names in file order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return d.cols[i], nil
}

// Rows returns the shared row count.
func (d *Dataset) Rows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// MetaValue returns the first metadata value stored under key.
func (d *Dataset) MetaValue(key string) (string, bool) {
	for _, a := range d.Meta {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
