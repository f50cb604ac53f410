package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
)

func mustDataset(t *testing.T, header []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("test.csv", header, rows)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return ds
}

func column(t *testing.T, ds *dataset.Dataset, name string) *dataset.Column {
	t.Helper()
	c, err := ds.Column(name)
	if err != nil {
		t.Fatalf("column %q: %v", name, err)
	}
	return c
}

func TestSummarizeNumericRoundTrip(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, [][]string{{"1", "4"}, {"2", "5"}, {"3", "6"}})
	want := map[string][4]float64{ // mean, median, min, max
		"a": {2, 2, 1, 3},
		"b": {5, 5, 4, 6},
	}
	for name, w := range want {
		s, err := Summarize(column(t, ds, name), DefaultOptions())
		if err != nil {
			t.Fatalf("Summarize(%s): %v", name, err)
		}
		if s.Kind != dataset.KindNumeric || s.Numeric == nil {
			t.Fatalf("%s: expected numeric, got %s", name, s.Kind)
		}
		n := s.Numeric
		if n.Count != 3 {
			t.Fatalf("%s: count=%d want 3", name, n.Count)
		}
		got := [4]float64{n.Mean, n.Median, n.Min, n.Max}
		if got != w {
			t.Fatalf("%s: got %v want %v", name, got, w)
		}
		if math.Abs(n.Std-1) > 1e-9 {
			t.Fatalf("%s: std=%v want 1", name, n.Std)
		}
	}
}

func TestSummarizeNumericBounds(t *testing.T) {
	vals := []string{"3.5", "-1", "12", "NA", "7.25", "0", "0", "100", "2", ""}
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{v}
	}
	ds := mustDataset(t, []string{"x"}, rows)
	s, err := Summarize(column(t, ds, "x"), DefaultOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	n := s.Numeric
	if n == nil {
		t.Fatalf("expected numeric summary")
	}
	if n.Count != len(vals) || n.Missing != 2 {
		t.Fatalf("count=%d missing=%d", n.Count, n.Missing)
	}
	if n.Min > n.Mean || n.Mean > n.Max || n.Min > n.Median || n.Median > n.Max {
		t.Fatalf("statistics out of range: %+v", n)
	}
	if n.Min != -1 || n.Max != 100 {
		t.Fatalf("min/max = %v/%v", n.Min, n.Max)
	}
	if n.OutliersCount != 1 {
		t.Fatalf("expected the 100 to be flagged, got %d outliers", n.OutliersCount)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	ds := mustDataset(t, []string{"x"}, [][]string{{"42"}})
	s, err := Summarize(column(t, ds, "x"), DefaultOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	n := s.Numeric
	if n.Mean != 42 || n.Median != 42 || n.Min != 42 || n.Max != 42 || n.Std != 0 {
		t.Fatalf("unexpected stats: %+v", n)
	}
}

func TestSummarizeCategorical(t *testing.T) {
	ds := mustDataset(t, []string{"tissue"}, [][]string{{"liver"}, {"kidney"}, {"liver"}, {""}, {"brain"}, {"liver"}})
	s, err := Summarize(column(t, ds, "tissue"), DefaultOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Kind != dataset.KindCategorical {
		t.Fatalf("expected categorical, got %s", s.Kind)
	}
	if s.Total() != 6 {
		t.Fatalf("counts sum to %d, want 6", s.Total())
	}
	if s.Counts[0].Value != "liver" || s.Counts[0].Count != 3 {
		t.Fatalf("top category = %+v", s.Counts[0])
	}
	// Ties break alphabetically; "(missing)" sorts before letters.
	order := []string{"liver", "(missing)", "brain", "kidney"}
	for i, w := range order {
		if s.Counts[i].Value != w {
			t.Fatalf("position %d: got %q want %q", i, s.Counts[i].Value, w)
		}
	}
}

func TestMissingBucketIsSeparateFromText(t *testing.T) {
	ds := mustDataset(t, []string{"note"}, [][]string{{"(missing)"}, {""}, {"x"}})
	counts := ValueCounts(column(t, ds, "note"))
	if len(counts) != 3 {
		t.Fatalf("got %d categories, want 3: %+v", len(counts), counts)
	}
	// Same label and count: the text value sorts before the missing bucket.
	if counts[0].Value != MissingLabel || counts[0].Missing {
		t.Fatalf("first = %+v, want text (missing)", counts[0])
	}
	if counts[1].Value != MissingLabel || !counts[1].Missing {
		t.Fatalf("second = %+v, want missing bucket", counts[1])
	}
	for _, c := range counts {
		if c.Count != 1 {
			t.Fatalf("count = %+v", c)
		}
	}
}

func TestSummarizeIgnoresInfinity(t *testing.T) {
	ds := mustDataset(t, []string{"lfc"}, [][]string{{"1"}, {"-inf"}, {"inf"}, {"2"}, {"Infinity"}})
	s, err := Summarize(column(t, ds, "lfc"), DefaultOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Kind != dataset.KindNumeric {
		t.Fatalf("kind = %s", s.Kind)
	}
	n := s.Numeric
	if n.Count != 5 || n.Missing != 3 || n.Mean != 1.5 || n.Min != 1 || n.Max != 2 {
		t.Fatalf("stats = %+v", n)
	}
	if n.Mean < n.Min || n.Mean > n.Max {
		t.Fatalf("mean %v outside [%v, %v]", n.Mean, n.Min, n.Max)
	}
	rep, err := Analyze(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := json.Marshal(rep); err != nil {
		t.Fatalf("json: %v", err)
	}
}

func TestMixedColumnIsCategorical(t *testing.T) {
	ds := mustDataset(t, []string{"dose"}, [][]string{{"1"}, {"1.0"}, {"high"}, {"1"}})
	s, err := Summarize(column(t, ds, "dose"), DefaultOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Kind != dataset.KindCategorical || s.Unique != 3 {
		t.Fatalf("kind=%s unique=%d", s.Kind, s.Unique)
	}
	if s.Counts[0].Value != "1" || s.Counts[0].Count != 2 {
		t.Fatalf("top = %+v", s.Counts[0])
	}
}

func TestAnalyzeMarkdown(t *testing.T) {
	ds := mustDataset(t, []string{"group", "score"}, [][]string{{"A", "10"}, {"B", "12"}, {"A", "14"}})
	rep, err := Analyze(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Rows: 3",
		"Columns: 2",
		"- group: categorical (unique 2) — counts: A(2), B(1)",
		"- score: numeric (count 3, missing 0) — mean 12.00, median 12.00, max 14, min 10",
		"[HEAD AND SAMPLE ROWS]",
		"| group | score |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q\n%s", want, md)
		}
	}

	if _, err := Analyze(ds, DefaultOptions(), "nope"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	one, err := Analyze(ds, DefaultOptions(), "score")
	if err != nil || len(one.Cols) != 1 {
		t.Fatalf("selected analyze: %v cols=%d", err, len(one.Cols))
	}
}

func TestAnalyzeIdentifierWarning(t *testing.T) {
	rows := make([][]string, 25)
	for i := range rows {
		rows[i] = []string{"probe_" + string(rune('a'+i))}
	}
	ds := mustDataset(t, []string{"ID_REF"}, rows)
	rep, err := Analyze(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "ID_REF") {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
}

func TestReportCSV(t *testing.T) {
	ds := mustDataset(t, []string{"group", "score"}, [][]string{{"A", "1.5"}, {"B", "2.5"}, {"A", "3.5"}})
	rep, err := Analyze(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	out, err := rep.CSV()
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "column,kind,count,mean,median,min,max,value" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 data rows, got %d:\n%s", len(lines)-1, out)
	}
	if lines[3] != "score,numeric,3,2.5,2.5,1.5,3.5," {
		t.Fatalf("numeric row = %q", lines[3])
	}
}
