package converter

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/nconklindev/sweeper/internal/types"
)

// writePDF lays the table out as bordered fixed-width cells, header first,
// breaking pages automatically. It returns how many characters had to be
// substituted for the font encoding.
func writePDF(t *types.Table, opts PDFOptions) ([]byte, int, error) {
	enc := &cp1252Encoder{strict: opts.StrictEncoding}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", opts.FontSize)

	writeRow := func(values []string) error {
		for _, v := range values {
			text, err := enc.encode(v)
			if err != nil {
				return err
			}
			pdf.CellFormat(opts.ColumnWidth, opts.RowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(opts.RowHeight)
		return nil
	}

	if err := writeRow(t.Columns); err != nil {
		return nil, 0, err
	}
	for _, row := range t.StringRows() {
		if err := writeRow(row); err != nil {
			return nil, 0, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), enc.substitutions, nil
}
