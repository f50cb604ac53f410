package analysis

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/gocarina/gocsv"
)

// statRow is one line of the CSV export. Numeric columns fill the statistics;
// categorical columns emit one row per distinct value.
type statRow struct {
	Column string `csv:"column"`
	Kind   string `csv:"kind"`
	Count  int    `csv:"count"`
	Mean   string `csv:"mean"`
	Median string `csv:"median"`
	Min    string `csv:"min"`
	Max    string `csv:"max"`
	Value  string `csv:"value"`
}

// CSV renders the report as a flat table.
func (r *Report) CSV() (string, error) {
	var rows []*statRow
	for _, c := range r.Cols {
		if c.Kind == dataset.KindNumeric {
			n := c.Numeric
			rows = append(rows, &statRow{
				Column: c.Name,
				Kind:   string(c.Kind),
				Count:  n.Count,
				Mean:   ftoa(n.Mean),
				Median: ftoa(n.Median),
				Min:    ftoa(n.Min),
				Max:    ftoa(n.Max),
			})
			continue
		}
		for _, kv := range c.Counts {
			rows = append(rows, &statRow{Column: c.Name, Kind: string(c.Kind), Count: kv.Count, Value: kv.Value})
		}
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
