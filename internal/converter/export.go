package converter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/sweeper/internal/types"
)

// PDFOptions controls the fixed-width table layout of PDF exports. Sizes are
// in millimetres, FontSize in points.
type PDFOptions struct {
	ColumnWidth    float64
	RowHeight      float64
	FontSize       float64
	StrictEncoding bool
}

type ExportOptions struct {
	JSONIndent int
	PDF        PDFOptions
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		JSONIndent: 4,
		PDF: PDFOptions{
			ColumnWidth: 40,
			RowHeight:   10,
			FontSize:    12,
		},
	}
}

// Exporter serializes tables into any supported format.
type Exporter struct {
	opts ExportOptions
}

func NewExporter(opts ExportOptions) *Exporter {
	return &Exporter{opts: opts}
}

// Serialize writes t with the default options.
func Serialize(t *types.Table, format types.Format, sourceName string) (*types.ConversionResult, error) {
	return NewExporter(DefaultExportOptions()).Serialize(t, format, sourceName)
}

// Serialize renders t as format. The suggested file name is sourceName with
// its extension swapped for the target's.
func (e *Exporter) Serialize(t *types.Table, format types.Format, sourceName string) (*types.ConversionResult, error) {
	var (
		data          []byte
		substitutions int
		err           error
	)

	switch format {
	case types.FormatCSV:
		data, err = writeCSV(t)
	case types.FormatSpreadsheet:
		data, err = writeXLSX(t)
	case types.FormatJSON:
		data, err = writeJSON(t, e.opts.JSONIndent)
	case types.FormatWord:
		data, err = writeDocx(t)
	case types.FormatSlides:
		data, err = writePptx(t)
	case types.FormatPDF:
		data, substitutions, err = writePDF(t, e.opts.PDF)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s as %s: %w", sourceName, format, err)
	}

	if substitutions > 0 {
		log.Warn().
			Str("file", sourceName).
			Int("substitutions", substitutions).
			Msg("characters replaced to fit the PDF font encoding")
	}

	result := &types.ConversionResult{
		InputFile:     sourceName,
		FileName:      OutputName(sourceName, format),
		MIME:          MIME(format),
		Format:        format,
		Data:          data,
		Columns:       append([]string(nil), t.Columns...),
		RowsProcessed: t.NumRows(),
		Substitutions: substitutions,
	}

	log.Debug().
		Str("file", result.FileName).
		Str("format", string(format)).
		Int("bytes", len(data)).
		Msg("serialized table")
	return result, nil
}

func writeCSV(t *types.Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := append([][]string{t.Columns}, t.StringRows()...)
	for _, rec := range records {
		// A lone empty field would be a blank line, which readers skip.
		if len(rec) == 1 && rec[0] == "" {
			writer.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := writer.Write(rec); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(t *types.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	for col, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
	}

	for r, row := range t.Rows {
		for col, c := range row {
			if c.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			var value any = c.Str
			if c.Kind == types.CellNumber {
				value = c.Num
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON emits an array with one object per row, keys in column order.
func writeJSON(t *types.Table, indent int) ([]byte, error) {
	records := make([]*jsonObject, len(t.Rows))
	for i, row := range t.Rows {
		obj := &jsonObject{keys: t.Columns, values: make(map[string]any, len(row))}
		for j, c := range row {
			switch {
			case c.Kind == types.CellNumber && !math.IsInf(c.Num, 0) && !math.IsNaN(c.Num):
				obj.values[t.Columns[j]] = c.Num
			case c.Kind == types.CellString:
				obj.values[t.Columns[j]] = c.Str
			default:
				obj.values[t.Columns[j]] = nil
			}
		}
		records[i] = obj
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
