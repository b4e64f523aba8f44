package converter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/sweeper/internal/types"
)

func sampleTable() *types.Table {
	return &types.Table{
		Columns: []string{"name", "hours", "note"},
		Rows: [][]types.Cell{
			{types.String("Alice"), types.Number(8.5), types.String("a, \"quoted\" <note>")},
			{types.String("Bob"), types.Null(), types.Null()},
		},
	}
}

func TestSerializeMetadata(t *testing.T) {
	for _, f := range types.Formats {
		t.Run(string(f), func(t *testing.T) {
			result, err := Serialize(sampleTable(), f, "timesheet.csv")
			require.NoError(t, err)

			assert.Equal(t, "timesheet"+Extension(f), result.FileName)
			assert.Equal(t, MIME(f), result.MIME)
			assert.Equal(t, f, result.Format)
			assert.Equal(t, 2, result.RowsProcessed)
			assert.Equal(t, []string{"name", "hours", "note"}, result.Columns)
			assert.NotEmpty(t, result.Data)
		})
	}
}

func TestSerializeUnsupported(t *testing.T) {
	_, err := Serialize(sampleTable(), types.Format("html"), "x.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSerializeCSVRoundTrip(t *testing.T) {
	result, err := Serialize(sampleTable(), types.FormatCSV, "in.json")
	require.NoError(t, err)

	assert.Equal(t, "name,hours,note\nAlice,8.5,\"a, \"\"quoted\"\" <note>\"\nBob,,\n", string(result.Data))

	back, _, err := Normalize(result.Data, types.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), back)
}

func TestSerializeCSVKeepsNullOnlyRows(t *testing.T) {
	table := &types.Table{
		Columns: []string{"a"},
		Rows:    [][]types.Cell{{types.Number(1)}, {types.Null()}, {types.Number(3)}},
	}

	result, err := Serialize(table, types.FormatCSV, "in.json")
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n\"\"\n3\n", string(result.Data))

	back, _, err := Normalize(result.Data, types.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, table, back)
}

func TestSerializeJSON(t *testing.T) {
	result, err := Serialize(sampleTable(), types.FormatJSON, "in.csv")
	require.NoError(t, err)

	assert.Contains(t, string(result.Data), "\n    {\n        \"name\": \"Alice\",")
	assert.Contains(t, string(result.Data), `<note>`, "HTML characters are not escaped")

	var records []map[string]any
	require.NoError(t, json.Unmarshal(result.Data, &records))
	assert.Equal(t, []map[string]any{
		{"name": "Alice", "hours": 8.5, "note": "a, \"quoted\" <note>"},
		{"name": "Bob", "hours": nil, "note": nil},
	}, records)

	back, _, err := Normalize(result.Data, types.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), back)
}

func TestSerializeJSONIndent(t *testing.T) {
	opts := DefaultExportOptions()
	opts.JSONIndent = 0

	result, err := NewExporter(opts).Serialize(sampleTable(), types.FormatJSON, "in.csv")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.Data, []byte(`[{"name":"Alice","hours":8.5,`)))
}

func TestSerializeJSONEmptyTable(t *testing.T) {
	result, err := Serialize(&types.Table{Columns: []string{"a"}}, types.FormatJSON, "in.csv")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(result.Data))
}

func TestSerializeXLSXRoundTrip(t *testing.T) {
	result, err := Serialize(sampleTable(), types.FormatSpreadsheet, "in.csv")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(f.GetSheetName(0), "A1")
	require.NoError(t, err)
	assert.Equal(t, "name", header)

	back, _, err := Normalize(result.Data, types.FormatSpreadsheet)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), back)
}

func TestSerializeDocx(t *testing.T) {
	result, err := Serialize(sampleTable(), types.FormatWord, "in.csv")
	require.NoError(t, err)

	// Table cells are not body paragraphs, so only the heading reads back.
	back, _, err := Normalize(result.Data, types.FormatWord)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Data Export"}}, back.StringRows())

	doc, err := mustPackage(t, result.Data).read("word/document.xml")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `a, &#34;quoted&#34; &lt;note&gt;`)
	assert.Equal(t, 3, bytes.Count(doc, []byte("<w:tr>")), "header plus two rows")
}

func TestSerializeDocxNoColumns(t *testing.T) {
	result, err := Serialize(&types.Table{}, types.FormatWord, "in.csv")
	require.NoError(t, err)

	doc, err := mustPackage(t, result.Data).read("word/document.xml")
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "<w:tbl>")
}

func TestSerializePptx(t *testing.T) {
	result, err := Serialize(sampleTable(), types.FormatSlides, "in.csv")
	require.NoError(t, err)

	back, _, err := Normalize(result.Data, types.FormatSlides)
	require.NoError(t, err)
	require.Equal(t, 1, back.NumRows())
	assert.Equal(t,
		"name | hours | note\nAlice | 8.5 | a, \"quoted\" <note>\nBob |  | ",
		back.Rows[0][0].String())
}

func TestSerializePDF(t *testing.T) {
	table := &types.Table{
		Columns: []string{"city"},
		Rows:    [][]types.Cell{{types.String("café")}, {types.String("Zürich")}},
	}

	result, err := Serialize(table, types.FormatPDF, "cities.csv")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF-")))
	assert.Zero(t, result.Substitutions)

	back, _, err := Normalize(result.Data, types.FormatPDF)
	require.NoError(t, err)
	require.Equal(t, 1, back.NumRows(), "one page")
}

func TestSerializePDFSubstitutions(t *testing.T) {
	table := &types.Table{
		Columns: []string{"word"},
		Rows:    [][]types.Cell{{types.String("漢字")}},
	}

	result, err := Serialize(table, types.FormatPDF, "in.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Substitutions)

	opts := DefaultExportOptions()
	opts.PDF.StrictEncoding = true
	_, err = NewExporter(opts).Serialize(table, types.FormatPDF, "in.csv")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestSerializePDFPaginates(t *testing.T) {
	table := &types.Table{Columns: []string{"n"}}
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, []types.Cell{types.Number(float64(i))})
	}

	result, err := Serialize(table, types.FormatPDF, "in.csv")
	require.NoError(t, err)

	back, _, err := Normalize(result.Data, types.FormatPDF)
	require.NoError(t, err)
	assert.Greater(t, back.NumRows(), 1)
}

func mustPackage(t *testing.T, data []byte) *ooxmlPackage {
	t.Helper()
	pkg, err := openPackage(data)
	require.NoError(t, err)
	return pkg
}
