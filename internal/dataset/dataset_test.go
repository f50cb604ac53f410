package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw   string
		isNum bool
		miss  bool
		num   float64
		text  string
	}{
		{raw: "1", isNum: true, num: 1},
		{raw: " -2.5e3 ", isNum: true, num: -2500},
		{raw: "", miss: true},
		{raw: "NA", miss: true},
		{raw: "NaN", miss: true},
		{raw: " null ", miss: true},
		{raw: "NAN", miss: true},
		{raw: "inf", miss: true},
		{raw: "-Infinity", miss: true},
		{raw: "+Inf", miss: true},
		{raw: "1e999", miss: true},
		{raw: "ILMN_1343291", text: "ILMN_1343291"},
		{raw: "12.5%", text: "12.5%"},
	}
	for _, tc := range cases {
		v := ParseValue(tc.raw)
		assert.Equal(t, tc.miss, v.Missing, tc.raw)
		assert.Equal(t, tc.isNum, v.IsNum, tc.raw)
		if tc.isNum {
			assert.Equal(t, tc.num, v.Num, tc.raw)
		}
		if tc.text != "" {
			assert.Equal(t, tc.text, v.Text, tc.raw)
		}
	}
}

func TestColumnKind(t *testing.T) {
	num := &Column{Name: "x", Values: []Value{Number(1), Missing(), Number(3)}}
	assert.Equal(t, KindNumeric, num.Kind())
	assert.Equal(t, []float64{1, 3}, num.Floats())
	assert.Equal(t, 1, num.MissingCount())

	mixed := &Column{Name: "y", Values: []Value{Number(1), Text("a")}}
	assert.Equal(t, KindCategorical, mixed.Kind())

	empty := &Column{Name: "z", Values: []Value{Missing(), Missing()}}
	assert.Equal(t, KindCategorical, empty.Kind())
}

func TestFromRecordsPadsAndRenames(t *testing.T) {
	d, err := FromRecords("t.csv", []string{"id", "id", "", "v"}, [][]string{
		{"a", "b", "c", "1"},
		{"d", "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "id.1", "Unnamed: 2", "v"}, d.Names())
	assert.Equal(t, 2, d.Rows())
	assert.NotEmpty(t, d.ID)

	v, err := d.Column("v")
	require.NoError(t, err)
	assert.True(t, v.Values[1].Missing)
	assert.Equal(t, KindNumeric, v.Kind())
}

func TestFromRecordsRejectsLongRows(t *testing.T) {
	_, err := FromRecords("t.csv", []string{"a"}, [][]string{{"1", "2"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRaggedRow))
}

func TestNewValidates(t *testing.T) {
	_, err := New("x", []*Column{{Name: "a"}, {Name: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New("x", []*Column{
		{Name: "a", Values: []Value{Number(1)}},
		{Name: "b"},
	})
	assert.ErrorIs(t, err, ErrRaggedColumns)

	d, err := New("x", []*Column{{Name: "a", Values: []Value{Number(1)}}})
	require.NoError(t, err)
	_, err = d.Column("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
