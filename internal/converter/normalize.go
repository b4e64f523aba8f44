package converter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/sweeper/internal/types"
)

// Column names used for document formats that have no header of their own.
const (
	ColumnContent    = "Content"
	ColumnParagraphs = "Paragraphs"
	ColumnSlides     = "Slides"
)

const slideBreak = "\n\n--- Slide Break ---\n\n"

// Normalize reads data as the given format and returns its tabular form plus
// a human-readable preview. CSV and spreadsheet input has no preview.
// Nothing partial is returned on error.
func Normalize(data []byte, format types.Format) (*types.Table, string, error) {
	var (
		table   *types.Table
		preview string
		err     error
	)

	switch format {
	case types.FormatCSV:
		table, err = readCSV(data)
	case types.FormatSpreadsheet:
		table, err = readXLSX(data)
	case types.FormatPDF:
		table, preview, err = readPDF(data)
	case types.FormatWord:
		table, preview, err = readDocx(data)
	case types.FormatSlides:
		table, preview, err = readPptx(data)
	case types.FormatJSON:
		table, preview, err = readJSON(data)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, "", err
	}

	log.Debug().
		Str("format", string(format)).
		Int("columns", len(table.Columns)).
		Int("rows", table.NumRows()).
		Msg("normalized input")
	return table, preview, nil
}

func readCSV(data []byte) (*types.Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty CSV file", ErrMalformedInput)
	}

	return buildTable(records[0], records[1:])
}

func readXLSX(data []byte) (*types.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	// GetRows trims trailing empty rows but keeps leading ones.
	start := 0
	for start < len(rows) && len(rows[start]) == 0 {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("%w: empty XLSX file", ErrMalformedInput)
	}

	// A header with blank trailing cells comes back shorter than its data.
	header := rows[start]
	for _, row := range rows[start+1:] {
		for len(header) < len(row) {
			header = append(header, "")
		}
	}

	return buildTable(header, rows[start+1:])
}

// singleColumn builds a one-column text table.
func singleColumn(name string, values []string) *types.Table {
	rows := make([][]types.Cell, len(values))
	for i, v := range values {
		rows[i] = []types.Cell{types.String(v)}
	}
	return &types.Table{Columns: []string{name}, Rows: rows}
}
