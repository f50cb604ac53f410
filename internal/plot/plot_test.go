package plot

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func numericColumn(name string, vals ...float64) *dataset.Column {
	c := &dataset.Column{Name: name}
	for _, v := range vals {
		c.Values = append(c.Values, dataset.Number(v))
	}
	return c
}

func textColumn(name string, vals ...string) *dataset.Column {
	c := &dataset.Column{Name: name}
	for _, v := range vals {
		c.Values = append(c.Values, dataset.ParseValue(v))
	}
	return c
}

func TestBinsCoverAllValues(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins, err := Bins(vals, 0)
	if err != nil {
		t.Fatalf("Bins: %v", err)
	}
	if len(bins) != DefaultBins {
		t.Fatalf("got %d bins", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(vals) {
		t.Fatalf("bins hold %d values, want %d", total, len(vals))
	}
	if bins[0].Lo != 0 || bins[len(bins)-1].Hi != 10 {
		t.Fatalf("range = [%v, %v]", bins[0].Lo, bins[len(bins)-1].Hi)
	}
	// The maximum lands in the last bin.
	if bins[len(bins)-1].Count != 2 {
		t.Fatalf("last bin = %+v", bins[len(bins)-1])
	}
}

func TestBinsConstantAndEmpty(t *testing.T) {
	bins, err := Bins([]float64{3, 3, 3}, 4)
	if err != nil {
		t.Fatalf("Bins: %v", err)
	}
	if bins[0].Lo != 2.5 || bins[3].Hi != 3.5 {
		t.Fatalf("constant range = [%v, %v]", bins[0].Lo, bins[3].Hi)
	}
	if _, err := Bins(nil, 4); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestBinsIgnoreNonFinite(t *testing.T) {
	bins, err := Bins([]float64{1, 2, math.Inf(1), 3, math.NaN(), math.Inf(-1)}, 2)
	if err != nil {
		t.Fatalf("Bins: %v", err)
	}
	if bins[0].Lo != 1 || bins[1].Hi != 3 || bins[0].Count+bins[1].Count != 3 {
		t.Fatalf("bins = %+v", bins)
	}
	if _, err := Bins([]float64{math.Inf(1)}, 2); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	// Infinite tokens are missing cells, so the column still plots.
	col := textColumn("lfc", "1", "2", "inf", "3", "-Infinity")
	if col.Kind() != dataset.KindNumeric {
		t.Fatalf("kind = %s", col.Kind())
	}
	var buf bytes.Buffer
	if err := ColumnPNG(&buf, col, DefaultOptions()); err != nil {
		t.Fatalf("ColumnPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("not a PNG")
	}
}

func TestColumnPNG(t *testing.T) {
	cases := []*dataset.Column{
		numericColumn("expr", 1.5, 2.5, 2.5, 9, 4),
		numericColumn("flat", 7, 7),
		textColumn("tissue", "liver", "kidney", "liver", "NA"),
	}
	for _, col := range cases {
		var buf bytes.Buffer
		if err := ColumnPNG(&buf, col, DefaultOptions()); err != nil {
			t.Fatalf("%s: %v", col.Name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Fatalf("%s: output is not a PNG", col.Name)
		}
	}
}

func TestBarPNGFoldsTail(t *testing.T) {
	vals := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		vals = append(vals, strings.Repeat("g", i%25+1))
	}
	opt := DefaultOptions()
	opt.MaxBars = 5
	var buf bytes.Buffer
	if err := ColumnPNG(&buf, textColumn("gene", vals...), opt); err != nil {
		t.Fatalf("ColumnPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestLineAndScatterPNG(t *testing.T) {
	col := &dataset.Column{Name: "signal", Values: []dataset.Value{
		dataset.Number(1), dataset.Missing(), dataset.Number(3), dataset.Number(2),
	}}
	var buf bytes.Buffer
	if err := LinePNG(&buf, col, DefaultOptions()); err != nil {
		t.Fatalf("LinePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("line output is not a PNG")
	}
	if err := LinePNG(&bytes.Buffer{}, textColumn("t", "a"), DefaultOptions()); err == nil {
		t.Fatalf("expected error for categorical line plot")
	}

	buf.Reset()
	if err := ScatterPNG(&buf, "x", "y", []float64{1, 2, 3}, []float64{2, 4, 5}, DefaultOptions()); err != nil {
		t.Fatalf("ScatterPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("scatter output is not a PNG")
	}
	if err := ScatterPNG(&buf, "x", "y", nil, nil, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := ASCII(&buf, numericColumn("age", 20, 30, 40, 50, 60), DefaultOptions()); err != nil {
		t.Fatalf("ASCII numeric: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Histogram of age (n=5)") {
		t.Fatalf("numeric output:\n%s", buf.String())
	}

	buf.Reset()
	if err := ASCII(&buf, textColumn("sex", "F", "M", "F"), DefaultOptions()); err != nil {
		t.Fatalf("ASCII categorical: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "F | ") || !strings.Contains(out, " 2\n") {
		t.Fatalf("categorical output:\n%s", out)
	}
}
