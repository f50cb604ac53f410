package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Options sizes rendered charts.
type Options struct {
	Bins   int
	Width  int
	Height int
	// MaxBars caps categorical bar charts; the remaining categories are folded into one bar.
	MaxBars int
}

// DefaultOptions returns the chart defaults.
func DefaultOptions() Options {
	return Options{Bins: DefaultBins, Width: 800, Height: 480, MaxBars: 30}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Bins <= 0 {
		o.Bins = d.Bins
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.MaxBars <= 0 {
		o.MaxBars = d.MaxBars
	}
	return o
}

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: 1.5, StrokeColor: col}
}

// ColumnPNG writes a histogram for numeric columns and a bar chart of value
// counts for categorical ones.
func ColumnPNG(w io.Writer, col *dataset.Column, opt Options) error {
	opt = opt.normalized()
	if col.Kind() == dataset.KindNumeric {
		bins, err := Bins(col.Floats(), opt.Bins)
		if err != nil {
			return fmt.Errorf("histogram %q: %w", col.Name, err)
		}
		return HistogramPNG(w, col.Name, bins, opt)
	}
	return BarPNG(w, col.Name, analysis.ValueCounts(col), opt)
}

// HistogramPNG draws pre-computed bins as adjacent bars.
func HistogramPNG(w io.Writer, title string, bins []Bin, opt Options) error {
	if len(bins) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{Value: float64(b.Count), Label: fmt.Sprintf("%.3g", b.Lo)}
	}
	return renderBars(w, "Distribution of "+title, bars, opt.normalized())
}

// BarPNG draws category counts, largest first.
func BarPNG(w io.Writer, title string, counts []analysis.CategoryCount, opt Options) error {
	if len(counts) == 0 {
		return ErrNoData
	}
	opt = opt.normalized()
	bars := make([]chart.Value, 0, opt.MaxBars)
	for i, c := range counts {
		if i == opt.MaxBars-1 && len(counts) > opt.MaxBars {
			rest := 0
			for _, r := range counts[i:] {
				rest += r.Count
			}
			bars = append(bars, chart.Value{Value: float64(rest), Label: fmt.Sprintf("other (%d)", len(counts)-i)})
			break
		}
		bars = append(bars, chart.Value{Value: float64(c.Count), Label: c.Value})
	}
	return renderBars(w, "Counts of "+title, bars, opt)
}

func renderBars(w io.Writer, title string, bars []chart.Value, opt Options) error {
	maxY := 0.0
	for _, b := range bars {
		maxY = math.Max(maxY, b.Value)
	}
	spacing := 4
	barWidth := (opt.Width-120)/len(bars) - spacing
	if barWidth < 2 {
		barWidth = 2
	}
	graph := chart.BarChart{
		Title:      title,
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxY + 1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// LinePNG plots the numeric values of col against their row index.
func LinePNG(w io.Writer, col *dataset.Column, opt Options) error {
	if col.Kind() != dataset.KindNumeric {
		return fmt.Errorf("line plot %q: column is %s", col.Name, col.Kind())
	}
	var xs, ys []float64
	for i, v := range col.Values {
		if v.Missing {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v.Num)
	}
	if len(ys) == 0 {
		return ErrNoData
	}
	series := chart.ContinuousSeries{Name: col.Name, XValues: xs, YValues: ys, Style: lineStyle(chart.ColorBlue)}
	if len(ys) == 1 {
		series.Style = pointStyle(chart.ColorBlue)
	}
	return renderXY(w, "Line plot of "+col.Name, "row", col.Name, series, opt.normalized())
}

// ScatterPNG plots paired values, as produced by analysis.Compare.
func ScatterPNG(w io.Writer, xName, yName string, xs, ys []float64, opt Options) error {
	if len(xs) == 0 || len(xs) != len(ys) {
		return ErrNoData
	}
	series := chart.ContinuousSeries{XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)}
	return renderXY(w, fmt.Sprintf("%s vs %s", yName, xName), xName, yName, series, opt.normalized())
}

func renderXY(w io.Writer, title, xName, yName string, series chart.ContinuousSeries, opt Options) error {
	xMin, xMax := paddedRange(series.XValues)
	yMin, yMax := paddedRange(series.YValues)
	graph := chart.Chart{
		Title:      title,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xName, Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis:      chart.YAxis{Name: yName, Range: &chart.ContinuousRange{Min: yMin, Max: yMax}},
		Series:     []chart.Series{series},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// paddedRange returns the data bounds, widened when they coincide since the
// renderer rejects a zero-width axis.
func paddedRange(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 0.5)
		return lo - pad, hi + pad
	}
	return lo, hi
}
