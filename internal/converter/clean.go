package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

// RemoveDuplicates drops rows equal to an earlier row across every column.
// The first occurrence is kept and row order is preserved.
func RemoveDuplicates(t *types.Table) *types.Table {
	out := &types.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]types.Cell, 0, len(t.Rows)),
	}
	seen := make(map[string]bool, len(t.Rows))

	for _, row := range t.Rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, append([]types.Cell(nil), row...))
	}
	return out
}

func rowKey(row []types.Cell) string {
	var b strings.Builder
	for _, c := range row {
		switch c.Kind {
		case types.CellNull:
			b.WriteString("n")
		case types.CellNumber:
			b.WriteString("f")
			v := c.Num
			if v == 0 {
				v = 0 // folds -0 into 0
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case types.CellString:
			b.WriteString("s")
			b.WriteString(strconv.Itoa(len(c.Str)))
			b.WriteByte(':')
			b.WriteString(c.Str)
		}
		b.WriteByte(0)
	}
	return b.String()
}

// isNumericColumn reports whether every cell in column col is a number or
// null, and how many numbers it holds.
func isNumericColumn(t *types.Table, col int) (bool, int) {
	count := 0
	for _, row := range t.Rows {
		switch row[col].Kind {
		case types.CellNumber:
			count++
		case types.CellString:
			return false, 0
		}
	}
	return true, count
}

// FillMissingNumeric replaces nulls in numeric columns with the mean of the
// column's values. Text columns, and numeric columns with no values at all,
// are left as they are.
func FillMissingNumeric(t *types.Table) *types.Table {
	out := t.Clone()

	for col := range out.Columns {
		numeric, count := isNumericColumn(out, col)
		if !numeric || count == 0 {
			continue
		}

		var sum float64
		for _, row := range out.Rows {
			if row[col].Kind == types.CellNumber {
				sum += row[col].Num
			}
		}
		mean := sum / float64(count)

		for _, row := range out.Rows {
			if row[col].IsNull() {
				row[col] = types.Number(mean)
			}
		}
	}
	return out
}

// SelectColumns projects the table onto names, in the order given. A name
// repeated in names keeps its first position.
func SelectColumns(t *types.Table, names []string) (*types.Table, error) {
	var (
		indices []int
		columns []string
		picked  = make(map[string]bool, len(names))
	)
	for _, name := range names {
		if picked[name] {
			continue
		}
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		picked[name] = true
		indices = append(indices, idx)
		columns = append(columns, name)
	}

	out := &types.Table{Columns: columns, Rows: make([][]types.Cell, len(t.Rows))}
	for r, row := range t.Rows {
		cells := make([]types.Cell, len(indices))
		for i, idx := range indices {
			cells[i] = row[idx]
		}
		out.Rows[r] = cells
	}
	return out, nil
}

// NumericColumns returns the indices of columns holding only numbers and
// nulls, with at least one number.
func NumericColumns(t *types.Table) []int {
	var detected []int
	for col := range t.Columns {
		if numeric, count := isNumericColumn(t, col); numeric && count > 0 {
			detected = append(detected, col)
		}
	}
	return detected
}
