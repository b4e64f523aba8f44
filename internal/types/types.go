package types

import "strconv"

// Format is the closed set of file kinds a table can be read from or written to.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "spreadsheet"
	FormatWord        Format = "word"
	FormatSlides      Format = "slides"
	FormatPDF         Format = "pdf"
	FormatJSON        Format = "json"
)

// Formats lists every supported format in menu order.
var Formats = []Format{FormatCSV, FormatSpreadsheet, FormatPDF, FormatSlides, FormatWord, FormatJSON}

type CellKind int

const (
	CellNull CellKind = iota
	CellNumber
	CellString
)

// Cell is a single scalar value: a number, a string or null.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

func Null() Cell { return Cell{Kind: CellNull} }

func Number(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

func String(s string) Cell { return Cell{Kind: CellString, Str: s} }

func (c Cell) IsNull() bool { return c.Kind == CellNull }

// String returns the display form of the cell. Null renders as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellString:
		return c.Str
	default:
		return ""
	}
}

// Table is an ordered set of uniquely named columns. Every row holds exactly
// one cell per column.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the cells in column i.
func (t *Table) Column(i int) []Cell {
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// StringRows renders every row with Cell.String.
func (t *Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}

type ConversionResult struct {
	InputFile     string
	FileName      string
	MIME          string
	Format        Format
	Data          []byte
	Columns       []string
	RowsProcessed int
	// Substitutions counts characters the target encoding could not hold.
	Substitutions int
}
