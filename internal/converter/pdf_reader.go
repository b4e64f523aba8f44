package converter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nconklindev/sweeper/internal/types"
)

// readPDF extracts the text layer of every page, one row per page. Scanned
// pages without a text layer come through as empty rows.
func readPDF(data []byte) (table *types.Table, preview string, err error) {
	// The parser panics on some truncated or hostile files.
	defer func() {
		if r := recover(); r != nil {
			table, preview = nil, ""
			err = fmt.Errorf("%w: pdf: %v", ErrMalformedInput, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: pdf: %v", ErrMalformedInput, err)
	}

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, pageErr := p.GetPlainText(fonts)
		if pageErr != nil {
			return nil, "", fmt.Errorf("%w: pdf page %d: %v", ErrMalformedInput, i, pageErr)
		}
		pages = append(pages, text)
	}

	return singleColumn(ColumnContent, pages), strings.Join(pages, "\n\n"), nil
}
