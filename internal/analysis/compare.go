package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CompareMode names the pair of column kinds being compared.
type CompareMode string

const (
	ModeNumericNumeric         CompareMode = "numeric-numeric"
	ModeNumericCategorical     CompareMode = "numeric-categorical"
	ModeCategoricalCategorical CompareMode = "categorical-categorical"
)

// GroupStats summarizes the numeric column within one category of the other.
type GroupStats struct {
	Key     string  `json:"key"`
	Missing bool    `json:"missing,omitempty"`
	Size    int     `json:"size"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Contingency is a cross-tabulation of two categorical columns.
type Contingency struct {
	Rows   []string `json:"rows"`
	Cols   []string `json:"cols"`
	Counts [][]int  `json:"counts"`
}

// Comparison is the pairwise view of two columns.
type Comparison struct {
	A     string      `json:"a"`
	B     string      `json:"b"`
	Mode  CompareMode `json:"mode"`
	Pairs int         `json:"pairs"`
	// Pearson is nil when undefined (fewer than two pairs or zero variance).
	Pearson     *float64     `json:"pearson,omitempty"`
	Groups      []GroupStats `json:"groups,omitempty"`
	Contingency *Contingency `json:"contingency,omitempty"`

	// Paired values for scatter plots (numeric-numeric only).
	X []float64 `json:"-"`
	Y []float64 `json:"-"`
}

var errLengthMismatch = errors.New("columns have different lengths")

// Compare builds the comparison view of a and b, choosing the mode from their kinds.
func Compare(a, b *dataset.Column) (*Comparison, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: %q=%d, %q=%d", errLengthMismatch, a.Name, a.Len(), b.Name, b.Len())
	}
	ka, kb := a.Kind(), b.Kind()
	cmp := &Comparison{A: a.Name, B: b.Name}
	switch {
	case ka == dataset.KindNumeric && kb == dataset.KindNumeric:
		cmp.Mode = ModeNumericNumeric
		compareNumeric(cmp, a, b)
	case ka == dataset.KindNumeric:
		cmp.Mode = ModeNumericCategorical
		cmp.Groups, cmp.Pairs = groupStats(a, b)
	case kb == dataset.KindNumeric:
		cmp.Mode = ModeNumericCategorical
		cmp.Groups, cmp.Pairs = groupStats(b, a)
	default:
		cmp.Mode = ModeCategoricalCategorical
		cmp.Contingency = crossTab(a, b)
		cmp.Pairs = a.Len()
	}
	return cmp, nil
}

func compareNumeric(cmp *Comparison, a, b *dataset.Column) {
	for i := range a.Values {
		va, vb := a.Values[i], b.Values[i]
		if va.Missing || vb.Missing {
			continue
		}
		cmp.X = append(cmp.X, va.Num)
		cmp.Y = append(cmp.Y, vb.Num)
	}
	cmp.Pairs = len(cmp.X)
	if cmp.Pairs < 2 {
		return
	}
	r := stat.Correlation(cmp.X, cmp.Y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}
	r = math.Max(-1, math.Min(1, r))
	cmp.Pearson = &r
}

func groupStats(num, cat *dataset.Column) ([]GroupStats, int) {
	byKey := map[category][]float64{}
	pairs := 0
	for i, v := range num.Values {
		if v.Missing {
			continue
		}
		key := categoryOf(cat.Values[i])
		byKey[key] = append(byKey[key], v.Num)
		pairs++
	}
	out := make([]GroupStats, 0, len(byKey))
	for k, vals := range byKey {
		g := GroupStats{Key: k.value, Missing: k.missing, Size: len(vals), Min: floats.Min(vals), Max: floats.Max(vals)}
		if len(vals) > 1 {
			g.Mean, g.Std = stat.MeanStdDev(vals, nil)
		} else {
			g.Mean = vals[0]
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		switch {
		case out[i].Size != out[j].Size:
			return out[i].Size > out[j].Size
		case out[i].Key != out[j].Key:
			return out[i].Key < out[j].Key
		default:
			return !out[i].Missing
		}
	})
	return out, pairs
}

func crossTab(a, b *dataset.Column) *Contingency {
	ct := &Contingency{}
	rowIdx := map[category]int{}
	colIdx := map[category]int{}
	for _, c := range ValueCounts(a) {
		rowIdx[c.key()] = len(ct.Rows)
		ct.Rows = append(ct.Rows, c.Value)
	}
	for _, c := range ValueCounts(b) {
		colIdx[c.key()] = len(ct.Cols)
		ct.Cols = append(ct.Cols, c.Value)
	}
	ct.Counts = make([][]int, len(ct.Rows))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.Cols))
	}
	for i := range a.Values {
		ct.Counts[rowIdx[categoryOf(a.Values[i])]][colIdx[categoryOf(b.Values[i])]]++
	}
	return ct
}

// Markdown renders the comparison in the same register as Report.Markdown.
func (c *Comparison) Markdown() string {
	var b strings.Builder
	b.WriteString("[COMPARISON]\n")
	b.WriteString(fmt.Sprintf("Columns: %s ~ %s (%s)\n", safeName(c.A), safeName(c.B), c.Mode))
	b.WriteString(fmt.Sprintf("Pairs: %d\n", c.Pairs))
	switch c.Mode {
	case ModeNumericNumeric:
		if c.Pearson != nil {
			b.WriteString(fmt.Sprintf("Pearson r: %.3f\n", *c.Pearson))
		} else {
			b.WriteString("Pearson r: undefined\n")
		}
	case ModeNumericCategorical:
		b.WriteString("\n[GROUPS]\n")
		for _, g := range c.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d): mean %.4g, std %.4g, min %.4g, max %.4g\n",
				safeVal(g.Key), g.Size, g.Mean, g.Std, g.Min, g.Max))
		}
	case ModeCategoricalCategorical:
		ct := c.Contingency
		b.WriteString("\n[CONTINGENCY]\n| ")
		b.WriteString(safeName(c.A) + " \\ " + safeName(c.B))
		for _, col := range ct.Cols {
			b.WriteString(" | " + safeVal(col))
		}
		b.WriteString(" |\n|")
		for i := 0; i <= len(ct.Cols); i++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for i, row := range ct.Rows {
			b.WriteString("| " + safeVal(row))
			for _, n := range ct.Counts[i] {
				b.WriteString(fmt.Sprintf(" | %d", n))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}
