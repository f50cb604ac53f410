package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/biotab-cli/internal/dataset"
)

const (
	// TableBeginMarker starts the data table of a GEO SOFT dataset file.
	TableBeginMarker = "!dataset_table_begin"
	// TableEndMarker closes it.
	TableEndMarker = "!dataset_table_end"
)

type softReader struct{}

func (softReader) Format() string { return "soft" }

func (softReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".soft")
}

func (softReader) Read(data []byte, opt Options) (*Table, error) {
	return ReadSOFT(data, opt.AllowMissingMarker)
}

// ReadSOFT scans for the first line beginning with TableBeginMarker. The next line is the
// tab-separated header and every following line a tab-separated row, up to TableEndMarker.
// Attribute lines before the marker are returned as metadata. Without the marker the call
// fails, unless allowMissingMarker is set, in which case the whole input is the table.
func ReadSOFT(data []byte, allowMissingMarker bool) (*Table, error) {
	lines, err := splitLines(data)
	if err != nil {
		return nil, err
	}
	start := -1
	var meta []dataset.Attribute
	for i, line := range lines {
		if strings.HasPrefix(line, TableBeginMarker) {
			start = i + 1
			break
		}
		if a, ok := parseAttribute(line); ok {
			meta = append(meta, a)
		}
	}
	if start < 0 {
		if !allowMissingMarker {
			return nil, &FormatError{Reason: "no line begins with " + TableBeginMarker, Err: ErrMarkerNotFound}
		}
		start = 0
		meta = nil
	}

	tbl := &Table{Meta: meta}
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, TableEndMarker) {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if tbl.Header == nil {
			tbl.Header = fields
			continue
		}
		if len(fields) > len(tbl.Header) {
			return nil, &FormatError{
				Line:   i + 1,
				Reason: fmt.Sprintf("expected %d fields, saw %d", len(tbl.Header), len(fields)),
				Err:    dataset.ErrRaggedRow,
			}
		}
		tbl.Rows = append(tbl.Rows, fields)
	}
	if tbl.Header == nil {
		return nil, &FormatError{Line: start + 1, Reason: "missing table header", Err: ErrNoColumns}
	}
	return tbl, nil
}

func splitLines(data []byte) ([]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return lines, nil
}

// parseAttribute reads `^ENTITY = value` and `!key = value` header lines.
func parseAttribute(line string) (dataset.Attribute, bool) {
	if !strings.HasPrefix(line, "^") && !strings.HasPrefix(line, "!") {
		return dataset.Attribute{}, false
	}
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return dataset.Attribute{}, false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return dataset.Attribute{}, false
	}
	return dataset.Attribute{Key: key, Value: strings.TrimSpace(val)}, true
}
