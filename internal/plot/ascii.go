package plot

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/aybabtme/uniplot/histogram"
)

// ASCII prints a terminal rendition of the column chart: a histogram for
// numeric columns, horizontal bars for categorical ones.
func ASCII(w io.Writer, col *dataset.Column, opt Options) error {
	opt = opt.normalized()
	width := opt.Width / 16
	if width < 10 {
		width = 10
	}
	if col.Kind() == dataset.KindNumeric {
		vals := col.Floats()
		if len(vals) == 0 {
			return ErrNoData
		}
		fmt.Fprintf(w, "Histogram of %s (n=%d)\n", col.Name, len(vals))
		hist := histogram.Hist(opt.Bins, append([]float64(nil), vals...))
		return histogram.Fprint(w, hist, histogram.Linear(width))
	}
	counts := analysis.ValueCounts(col)
	if len(counts) == 0 {
		return ErrNoData
	}
	if len(counts) > opt.MaxBars {
		counts = counts[:opt.MaxBars]
	}
	fmt.Fprintf(w, "Counts of %s\n", col.Name)
	labelW, maxN := 0, 0
	for _, c := range counts {
		if n := utf8.RuneCountInString(c.Value); n > labelW {
			labelW = n
		}
		if c.Count > maxN {
			maxN = c.Count
		}
	}
	for _, c := range counts {
		bar := c.Count * width / maxN
		if bar == 0 {
			bar = 1
		}
		pad := strings.Repeat(" ", labelW-utf8.RuneCountInString(c.Value))
		if _, err := fmt.Fprintf(w, "%s%s | %s %d\n", c.Value, pad, strings.Repeat("█", bar), c.Count); err != nil {
			return err
		}
	}
	return nil
}
