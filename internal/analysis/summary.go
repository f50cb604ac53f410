package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/montanaflynn/stats"
)

// MissingLabel is the category under which missing cells are counted.
const MissingLabel = "(missing)"

// Options controls column summaries.
type Options struct {
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues limits categories shown in Markdown; 0 shows all.
	TopValues int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		Outliers:         true,
		OutlierThreshold: 3.5,
		SampleRows:       5,
		TopValues:        10,
	}
}

// NumericStats holds the descriptive statistics of a numeric column. Count is the
// column length; the remaining figures cover non-missing values only.
type NumericStats struct {
	Count   int     `json:"count" csv:"count"`
	Missing int     `json:"missing" csv:"missing"`
	Mean    float64 `json:"mean" csv:"mean"`
	Median  float64 `json:"median" csv:"median"`
	Min     float64 `json:"min" csv:"min"`
	Max     float64 `json:"max" csv:"max"`
	Std     float64 `json:"std" csv:"std"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers_count,omitempty" csv:"-"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty" csv:"-"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty" csv:"-"`
}

// CategoryCount is one distinct value and its number of occurrences. The missing
// bucket is labelled MissingLabel and flagged, so a literal "(missing)" token
// stays a separate category.
type CategoryCount struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Missing bool   `json:"missing,omitempty"`
}

// category keys a cell for counting; missing cells never share a key with text.
type category struct {
	value   string
	missing bool
}

func categoryOf(v dataset.Value) category {
	if v.Missing {
		return category{value: MissingLabel, missing: true}
	}
	return category{value: v.String()}
}

func (c CategoryCount) key() category { return category{value: c.Value, missing: c.Missing} }

// ColumnSummary is the classification of a column plus the matching statistics.
type ColumnSummary struct {
	Name    string          `json:"name"`
	Kind    dataset.Kind    `json:"kind"`
	Numeric *NumericStats   `json:"numeric,omitempty"`
	Counts  []CategoryCount `json:"counts,omitempty"`
	Unique  int             `json:"unique,omitempty"`
}

// Total returns the number of cells the summary accounts for.
func (s ColumnSummary) Total() int {
	if s.Numeric != nil {
		return s.Numeric.Count
	}
	n := 0
	for _, c := range s.Counts {
		n += c.Count
	}
	return n
}

// Summarize classifies col and computes numeric statistics or category counts.
func Summarize(col *dataset.Column, opt Options) (ColumnSummary, error) {
	s := ColumnSummary{Name: col.Name, Kind: col.Kind()}
	switch s.Kind {
	case dataset.KindNumeric:
		ns, err := numericStats(col, opt)
		if err != nil {
			return s, fmt.Errorf("column %q: %w", col.Name, err)
		}
		s.Numeric = ns
	default:
		s.Counts = ValueCounts(col)
		s.Unique = len(s.Counts)
	}
	return s, nil
}

func numericStats(col *dataset.Column, opt Options) (*NumericStats, error) {
	data := stats.Float64Data(col.Floats())
	out := &NumericStats{Count: col.Len(), Missing: col.MissingCount()}
	var err error
	if out.Mean, err = data.Mean(); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if out.Median, err = data.Median(); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	if out.Min, err = data.Min(); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if out.Max, err = data.Max(); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if data.Len() > 1 {
		if out.Std, err = stats.StandardDeviationSample(data); err != nil {
			return nil, fmt.Errorf("std: %w", err)
		}
	}
	if opt.Outliers && data.Len() >= 8 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		median, mad := medianMAD(data)
		if mad > 0 {
			for _, v := range data {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					out.OutliersCount++
				}
				if az > out.OutliersMaxAbsZ {
					out.OutliersMaxAbsZ = az
				}
			}
		}
		out.OutlierThreshold = thr
	}
	return out, nil
}

// ValueCounts counts each distinct token, with missing cells under MissingLabel,
// ordered by count descending then value.
func ValueCounts(col *dataset.Column) []CategoryCount {
	counts := make(map[category]int)
	for _, v := range col.Values {
		counts[categoryOf(v)]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, CategoryCount{Value: k.value, Count: n, Missing: k.missing})
	}
	sort.Slice(out, func(i, j int) bool {
		switch {
		case out[i].Count != out[j].Count:
			return out[i].Count > out[j].Count
		case out[i].Value != out[j].Value:
			return out[i].Value < out[j].Value
		default:
			return !out[i].Missing
		}
	})
	return out
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
