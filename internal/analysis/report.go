package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
)

// Report is a markdown-friendly analysis of a dataset.
type Report struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Format   string              `json:"format"`
	Rows     int                 `json:"rows"`
	Meta     []dataset.Attribute `json:"meta,omitempty"`
	Cols     []ColumnSummary     `json:"columns"`
	Samples  [][]string          `json:"samples,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`

	topValues int
}

// Analyze summarizes the named columns of ds, or all columns when names is empty.
func Analyze(ds *dataset.Dataset, opt Options, names ...string) (*Report, error) {
	cols := ds.Columns()
	if len(names) > 0 {
		cols = make([]*dataset.Column, 0, len(names))
		for _, n := range names {
			c, err := ds.Column(n)
			if err != nil {
				return nil, err
			}
			cols = append(cols, c)
		}
	}
	rep := &Report{
		ID:        ds.ID,
		Name:      ds.Source,
		Format:    ds.Format,
		Rows:      ds.Rows(),
		Meta:      ds.Meta,
		Cols:      make([]ColumnSummary, 0, len(cols)),
		topValues: opt.TopValues,
	}
	for _, c := range cols {
		s, err := Summarize(c, opt)
		if err != nil {
			return nil, err
		}
		if s.Kind == dataset.KindCategorical && s.Unique == rep.Rows && rep.Rows > 20 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: every value is distinct (identifier column?)", c.Name))
		}
		rep.Cols = append(rep.Cols, s)
	}
	for i := 0; i < opt.SampleRows && i < rep.Rows; i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c.Values[i].String()
		}
		rep.Samples = append(rep.Samples, row)
	}
	return rep, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Format != "" {
		b.WriteString(fmt.Sprintf("Format: %s\n", r.Format))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	if len(r.Meta) > 0 {
		b.WriteString("\n[METADATA]\n")
		for _, a := range r.Meta {
			b.WriteString(fmt.Sprintf("- %s = %s\n", a.Key, safeVal(a.Value)))
		}
	}

	b.WriteString("\n[COLUMNS]\n")
	for _, c := range r.Cols {
		name := safeName(c.Name)
		switch c.Kind {
		case dataset.KindNumeric:
			n := c.Numeric
			b.WriteString(fmt.Sprintf("- %s: numeric (count %d, missing %d)", name, n.Count, n.Missing))
			b.WriteString(fmt.Sprintf(" — mean %.2f, median %.2f, max %s, min %s, std %.4g",
				n.Mean, n.Median, formatNum(n.Max), formatNum(n.Min), n.Std))
			if n.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", n.OutliersCount, n.OutlierThreshold))
				if n.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", n.OutliersMaxAbsZ))
				}
			}
		default:
			b.WriteString(fmt.Sprintf("- %s: categorical (unique %d)", name, c.Unique))
			shown := c.Counts
			if r.topValues > 0 && len(shown) > r.topValues {
				shown = shown[:r.topValues]
			}
			if len(shown) > 0 {
				b.WriteString(" — counts: ")
				for i, kv := range shown {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if len(shown) < len(c.Counts) {
					b.WriteString(fmt.Sprintf(", … %d more", len(c.Counts)-len(shown)))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatNum(f float64) string { return fmt.Sprintf("%g", f) }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
