package converter

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/sweeper/internal/types"
)

// zipFixture packs name/content pairs into a zip archive.
func zipFixture(t *testing.T, files ...string) []byte {
	t.Helper()
	require.Zero(t, len(files)%2)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i < len(files); i += 2 {
		w, err := zw.Create(files[i])
		require.NoError(t, err)
		_, err = w.Write([]byte(files[i+1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const testDocument = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
	<w:p><w:r><w:t>First </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
	<w:p><w:r><w:t>   </w:t></w:r></w:p>
	<w:tbl><w:tr><w:tc><w:p><w:r><w:t>inside a table</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
	<w:p><w:r><w:t>Line</w:t><w:br/><w:t>break</w:t><w:tab/><w:t>tab</w:t></w:r></w:p>
	<w:p/>
	<w:sectPr/>
</w:body>
</w:document>`

func TestNormalizeDocx(t *testing.T) {
	data := zipFixture(t, "word/document.xml", testDocument)

	table, preview, err := Normalize(data, types.FormatWord)
	require.NoError(t, err)

	assert.Equal(t, []string{ColumnParagraphs}, table.Columns)
	assert.Equal(t, [][]string{
		{"First paragraph"},
		{"Line\nbreak\ttab"},
	}, table.StringRows())
	assert.Equal(t, "First paragraph\n\nLine\nbreak\ttab", preview)
}

const testDocumentWithTextBox = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"
	xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"
	xmlns:v="urn:schemas-microsoft-com:vml">
<w:body>
	<w:p>
		<w:r><w:t>Body</w:t></w:r>
		<w:r><mc:AlternateContent>
			<mc:Choice Requires="wps"><w:drawing><wps:wsp><wps:txbx><w:txbxContent>
				<w:p><w:r><w:t>BOX</w:t></w:r></w:p>
			</w:txbxContent></wps:txbx></wps:wsp></w:drawing></mc:Choice>
			<mc:Fallback><w:pict><v:shape><v:textbox><w:txbxContent>
				<w:p><w:r><w:t>BOX</w:t></w:r></w:p>
			</w:txbxContent></v:textbox></v:shape></w:pict></mc:Fallback>
		</mc:AlternateContent></w:r>
		<w:r><w:t> text</w:t></w:r>
	</w:p>
</w:body>
</w:document>`

func TestNormalizeDocxSkipsTextBoxes(t *testing.T) {
	data := zipFixture(t, "word/document.xml", testDocumentWithTextBox)

	table, _, err := Normalize(data, types.FormatWord)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Body text"}}, table.StringRows())
}

func TestNormalizeDocxErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Not a zip", []byte("PK?")},
		{"Missing document part", zipFixture(t, "word/styles.xml", "<w:styles/>")},
		{"Broken XML", zipFixture(t, "word/document.xml", "<w:document><w:body>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.data, types.FormatWord)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

const testPresentation = `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
	xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<p:sldIdLst><p:sldId id="256" r:id="rId7"/><p:sldId id="257" r:id="rId3"/></p:sldIdLst>
</p:presentation>`

const testPresentationRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="/ppt/slides/slide2.xml"/>
</Relationships>`

func slideXML(tree string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
	xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>
	<p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:grpSpPr/>` + tree + `
</p:spTree></p:cSld></p:sld>`
}

func textBox(paragraphs ...string) string {
	s := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Box"/></p:nvSpPr><p:txBody><a:bodyPr/>`
	for _, p := range paragraphs {
		s += `<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`
	}
	return s + `</p:txBody></p:sp>`
}

func TestNormalizePptx(t *testing.T) {
	picture := `<p:pic><p:nvPicPr><p:cNvPr id="3" name="Pic"/></p:nvPicPr></p:pic>`
	group := `<p:grpSp><p:nvGrpSpPr/><p:grpSpPr/>` + textBox("grouped") + `</p:grpSp>`
	frame := `<p:graphicFrame><a:graphic><a:graphicData><a:tbl><a:tr><a:tc><a:txBody><a:p><a:r><a:t>cell</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl></a:graphicData></a:graphic></p:graphicFrame>`

	data := zipFixture(t,
		"ppt/presentation.xml", testPresentation,
		"ppt/_rels/presentation.xml.rels", testPresentationRels,
		"ppt/slides/slide1.xml", slideXML(textBox("Second deck slide")),
		"ppt/slides/slide2.xml", slideXML(textBox("Title", "Subtitle")+picture+group+frame+textBox("Footer")),
	)

	table, preview, err := Normalize(data, types.FormatSlides)
	require.NoError(t, err)

	assert.Equal(t, []string{ColumnSlides}, table.Columns)
	// Deck order follows the slide id list, not the part names.
	assert.Equal(t, [][]string{
		{"Title\nSubtitle\nFooter"},
		{"Second deck slide"},
	}, table.StringRows())
	assert.Equal(t, "Title\nSubtitle\nFooter\n\n--- Slide Break ---\n\nSecond deck slide", preview)
}

func TestNormalizePptxWithoutSlides(t *testing.T) {
	data := zipFixture(t, "ppt/presentation.xml", `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`)

	table, preview, err := Normalize(data, types.FormatSlides)
	require.NoError(t, err)

	assert.Equal(t, []string{ColumnSlides}, table.Columns)
	assert.Zero(t, table.NumRows())
	assert.Empty(t, preview)
}

func TestNormalizePptxErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Missing presentation", zipFixture(t, "ppt/slides/slide1.xml", slideXML(""))},
		{"Missing relationships", zipFixture(t, "ppt/presentation.xml", testPresentation)},
		{"Dangling slide", zipFixture(t,
			"ppt/presentation.xml", testPresentation,
			"ppt/_rels/presentation.xml.rels", testPresentationRels,
			"ppt/slides/slide1.xml", slideXML(""),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.data, types.FormatSlides)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestRelationshipsResolvePartNames(t *testing.T) {
	pkg, err := openPackage(zipFixture(t,
		"ppt/slides/_rels/slide1.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Target="../slideLayouts/slideLayout1.xml"/>
<Relationship Id="rId2" Target="/ppt/media/image1.png"/>
</Relationships>`,
	))
	require.NoError(t, err)

	targets, err := pkg.relationships("ppt/slides/slide1.xml")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"rId1": "ppt/slideLayouts/slideLayout1.xml",
		"rId2": "ppt/media/image1.png",
	}, targets)
}
