package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Value is a single cell: a number, a text token, or missing. Text keeps the
// trimmed source token for parsed cells, numbers included.
type Value struct {
	Num     float64
	Text    string
	IsNum   bool
	Missing bool
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Num: f, IsNum: true} }

// Text returns a text Value.
func Text(s string) Value { return Value{Text: s} }

// Missing returns an empty cell.
func Missing() Value { return Value{Missing: true} }

// missingTokens mirrors the NA spellings common in exported spreadsheets and GEO tables.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
	"#NA":  {},
}

// IsMissingToken reports whether raw (after trimming) denotes a missing cell.
func IsMissingToken(raw string) bool {
	_, ok := missingTokens[strings.TrimSpace(raw)]
	return ok
}

// ParseValue infers the representational type of a raw cell. Tokens that parse
// to a non-finite float (NaN, inf, Infinity, 1e999) are missing.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if IsMissingToken(s) {
		return Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Text(s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{Num: f, Text: s, IsNum: true}
}

// String renders the value the way it appears in reports.
func (v Value) String() string {
	switch {
	case v.Missing:
		return ""
	case v.Text != "":
		return v.Text
	case v.IsNum:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v.Text
	}
}
