package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

type xlsReader struct{}

func (xlsReader) Format() string { return "xls" }

func (xlsReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

// Read loads a legacy BIFF workbook. Only sheet selection by index is supported.
func (xlsReader) Read(data []byte, opt Options) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	idx := opt.SheetIndex - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= wb.NumSheets() {
		return nil, fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx+1, wb.NumSheets())
	}
	sheet := wb.GetSheet(idx)
	if sheet == nil {
		return nil, fmt.Errorf("sheet %d could not be read", idx+1)
	}

	tbl := &Table{}
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}
		// LastCol may be inclusive or one past the end depending on the writer;
		// trailing blanks are trimmed below.
		cells := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells = append(cells, row.Col(colID))
		}
		cells = trimTrailingBlanks(cells)
		if len(cells) == 0 {
			continue
		}
		if tbl.Header == nil {
			tbl.Header = cells
			continue
		}
		if err := checkWidth(cells, len(tbl.Header), rowID+1); err != nil {
			return nil, err
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	if len(tbl.Header) == 0 {
		return nil, &FormatError{Reason: "sheet has no header row", Err: ErrNoColumns}
	}
	return tbl, nil
}
