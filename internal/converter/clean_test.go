package converter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/sweeper/internal/types"
)

func mustCSV(t *testing.T, data string) *types.Table {
	t.Helper()
	table, _, err := Normalize([]byte(data), types.FormatCSV)
	require.NoError(t, err)
	return table
}

func TestRemoveDuplicates(t *testing.T) {
	table := mustCSV(t, "a,b\n1,x\n2,y\n1,x\n,\n,\n2,z\n")

	got := RemoveDuplicates(table)

	assert.Equal(t, [][]string{
		{"1", "x"},
		{"2", "y"},
		{"", ""},
		{"2", "z"},
	}, got.StringRows())
	assert.Equal(t, 6, table.NumRows(), "input is not modified")
}

func TestRemoveDuplicatesDistinguishesKinds(t *testing.T) {
	table := &types.Table{
		Columns: []string{"v"},
		Rows: [][]types.Cell{
			{types.Number(1)},
			{types.String("1")},
			{types.Null()},
			{types.String("")},
		},
	}

	assert.Equal(t, 4, RemoveDuplicates(table).NumRows())
}

func TestRemoveDuplicatesTreatsNegativeZeroAsZero(t *testing.T) {
	table := &types.Table{
		Columns: []string{"v"},
		Rows:    [][]types.Cell{{types.Number(0)}, {types.Number(math.Copysign(0, -1))}},
	}

	assert.Equal(t, 1, RemoveDuplicates(table).NumRows())
}

func TestRemoveDuplicatesIsIdempotent(t *testing.T) {
	table := mustCSV(t, "a,b\n1,2\n1,2\n3,4\n3,4\n")

	once := RemoveDuplicates(table)
	twice := RemoveDuplicates(once)
	assert.Equal(t, once, twice)
}

func TestFillMissingNumeric(t *testing.T) {
	table := mustCSV(t, "name,score,bonus,empty\nA,10,,\nB,,1.5,\nC,20,,\n,,,\n")

	got := FillMissingNumeric(table)

	assert.Equal(t, [][]string{
		{"A", "10", "1.5", ""},
		{"B", "15", "1.5", ""},
		{"C", "20", "1.5", ""},
		{"", "15", "1.5", ""},
	}, got.StringRows(), "text and all-null columns keep their nulls")

	assert.True(t, table.Rows[1][1].IsNull(), "input is not modified")
}

func TestFillMissingNumericIsIdempotent(t *testing.T) {
	table := mustCSV(t, "x,y\n1,\n,4\n2,5\n")

	once := FillMissingNumeric(table)
	assert.Equal(t, once, FillMissingNumeric(once))
}

func TestDedupThenFill(t *testing.T) {
	table := mustCSV(t, "a,b\n1,2\n1,2\n3,\n")

	got := FillMissingNumeric(RemoveDuplicates(table))

	assert.Equal(t, [][]string{{"1", "2"}, {"3", "2"}}, got.StringRows())
}

func TestSelectColumns(t *testing.T) {
	table := mustCSV(t, "a,b,c\n1,2,3\n4,5,6\n")

	tests := []struct {
		name     string
		names    []string
		columns  []string
		firstRow []string
	}{
		{"Reorders", []string{"c", "a"}, []string{"c", "a"}, []string{"3", "1"}},
		{"Identity", []string{"a", "b", "c"}, []string{"a", "b", "c"}, []string{"1", "2", "3"}},
		{"Repeated name keeps first position", []string{"b", "a", "b"}, []string{"b", "a"}, []string{"2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectColumns(table, tt.names)
			require.NoError(t, err)
			assert.Equal(t, tt.columns, got.Columns)
			assert.Equal(t, 2, got.NumRows())
			assert.Equal(t, tt.firstRow, got.StringRows()[0])
		})
	}
}

func TestSelectColumnsUnknown(t *testing.T) {
	table := mustCSV(t, "a,b\n1,2\n")

	_, err := SelectColumns(table, []string{"a", "missing"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.ErrorContains(t, err, "missing")
}

func TestSelectColumnsEmpty(t *testing.T) {
	table := mustCSV(t, "a,b\n1,2\n3,4\n")

	got, err := SelectColumns(table, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Columns)
	assert.Equal(t, 2, got.NumRows())
}

func TestNumericColumns(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected []int
	}{
		{"Detects single column", "Name,Hours\nAlice,8.0\nBob,7.5\n", []int{1}},
		{"Detects multiple columns", "Hours,Name,Overtime\n8,Alice,1\n7.5,Bob,\n", []int{0, 2}},
		{"All-null column is not numeric", "a,b\n1,\n2,\n", []int{0}},
		{"No numeric data", "a\nx\ny\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NumericColumns(mustCSV(t, tt.data)))
		})
	}
}
