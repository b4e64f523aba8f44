package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

// missingMarkers are raw cell texts read as null in delimited and sheet input.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
}

func isMissing(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// parseNumber reports whether s looks like a plain decimal number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// uniqueColumns makes header names unique and non-empty. Repeats get a
// ".N" suffix and blanks become "Unnamed: <i>".
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// buildTable turns a header and raw string records into a typed table. A
// column whose every non-missing value parses as a number becomes numeric;
// any other column keeps its text. Short records are padded with nulls.
func buildTable(header []string, records [][]string) (*types.Table, error) {
	columns := uniqueColumns(header)
	width := len(columns)

	for i, rec := range records {
		if len(rec) > width {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformedInput, i+2, len(rec), width)
		}
	}

	numeric := make([]bool, width)
	for col := 0; col < width; col++ {
		numeric[col] = true
		for _, rec := range records {
			if col >= len(rec) || isMissing(rec[col]) {
				continue
			}
			if _, ok := parseNumber(rec[col]); !ok {
				numeric[col] = false
				break
			}
		}
	}

	rows := make([][]types.Cell, len(records))
	for i, rec := range records {
		row := make([]types.Cell, width)
		for col := 0; col < width; col++ {
			if col >= len(rec) || isMissing(rec[col]) {
				row[col] = types.Null()
				continue
			}
			if numeric[col] {
				v, _ := parseNumber(rec[col])
				row[col] = types.Number(v)
			} else {
				row[col] = types.String(rec[col])
			}
		}
		rows[i] = row
	}

	return &types.Table{Columns: columns, Rows: rows}, nil
}
