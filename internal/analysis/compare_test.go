package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
)

func TestCompareNumericNumeric(t *testing.T) {
	ds := mustDataset(t, []string{"x", "y"}, [][]string{{"1", "2"}, {"2", "4"}, {"3", "6"}, {"NA", "8"}, {"4", "8"}})
	cmp, err := Compare(column(t, ds, "x"), column(t, ds, "y"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Mode != ModeNumericNumeric {
		t.Fatalf("mode = %s", cmp.Mode)
	}
	if cmp.Pairs != 4 || len(cmp.X) != 4 {
		t.Fatalf("pairs = %d", cmp.Pairs)
	}
	if cmp.Pearson == nil || math.Abs(*cmp.Pearson-1) > 1e-9 {
		t.Fatalf("pearson = %v", cmp.Pearson)
	}
}

func TestCompareConstantColumnHasNoPearson(t *testing.T) {
	ds := mustDataset(t, []string{"x", "y"}, [][]string{{"1", "5"}, {"2", "5"}, {"3", "5"}})
	cmp, err := Compare(column(t, ds, "x"), column(t, ds, "y"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Pearson != nil {
		t.Fatalf("expected undefined pearson, got %v", *cmp.Pearson)
	}
	if !strings.Contains(cmp.Markdown(), "Pearson r: undefined") {
		t.Fatalf("markdown: %s", cmp.Markdown())
	}
}

func TestCompareNumericCategorical(t *testing.T) {
	ds := mustDataset(t, []string{"group", "score"}, [][]string{
		{"A", "1"}, {"B", "10"}, {"A", "3"}, {"", "7"}, {"B", "NA"},
	})
	// Argument order does not matter.
	cmp, err := Compare(column(t, ds, "group"), column(t, ds, "score"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Mode != ModeNumericCategorical || cmp.Pairs != 4 {
		t.Fatalf("mode=%s pairs=%d", cmp.Mode, cmp.Pairs)
	}
	if len(cmp.Groups) != 3 {
		t.Fatalf("groups = %+v", cmp.Groups)
	}
	a := cmp.Groups[0]
	if a.Key != "A" || a.Size != 2 || a.Mean != 2 || a.Min != 1 || a.Max != 3 {
		t.Fatalf("group A = %+v", a)
	}
	if cmp.Groups[1].Key != MissingLabel || !cmp.Groups[1].Missing || cmp.Groups[2].Key != "B" {
		t.Fatalf("group order = %+v", cmp.Groups)
	}
}

func TestCompareCategoricalCategorical(t *testing.T) {
	ds := mustDataset(t, []string{"sex", "status"}, [][]string{
		{"F", "case"}, {"M", "control"}, {"F", "case"}, {"F", "control"},
	})
	cmp, err := Compare(column(t, ds, "sex"), column(t, ds, "status"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	ct := cmp.Contingency
	if ct == nil {
		t.Fatalf("expected contingency table")
	}
	total := 0
	for _, row := range ct.Counts {
		for _, n := range row {
			total += n
		}
	}
	if total != 4 {
		t.Fatalf("table total = %d", total)
	}
	if ct.Rows[0] != "F" || ct.Counts[0][0] != 2 {
		t.Fatalf("F row = %v %v", ct.Rows, ct.Counts)
	}
	if !strings.Contains(cmp.Markdown(), "| sex \\ status | case | control |") {
		t.Fatalf("markdown: %s", cmp.Markdown())
	}
}

func TestCompareLengthMismatch(t *testing.T) {
	a := &dataset.Column{Name: "a", Values: []dataset.Value{dataset.Number(1)}}
	b := &dataset.Column{Name: "b"}
	if _, err := Compare(a, b); !errors.Is(err, errLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
}

func TestCrossTabKeepsMissingApartFromText(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, [][]string{
		{"(missing)", "x"}, {"", "x"}, {"(missing)", "y"},
	})
	cmp, err := Compare(column(t, ds, "a"), column(t, ds, "b"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	ct := cmp.Contingency
	if len(ct.Rows) != 2 {
		t.Fatalf("rows = %v", ct.Rows)
	}
	// Text "(missing)" occurs twice, the missing cell once.
	if got := ct.Counts[0][0] + ct.Counts[0][1]; got != 2 {
		t.Fatalf("text row total = %d, counts %v", got, ct.Counts)
	}
	if got := ct.Counts[1][0] + ct.Counts[1][1]; got != 1 {
		t.Fatalf("missing row total = %d, counts %v", got, ct.Counts)
	}
}
