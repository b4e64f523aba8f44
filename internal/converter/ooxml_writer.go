package converter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	relOfficeDocument = nsRelationship + "/officeDocument"
	relStyles         = nsRelationship + "/styles"
	relSlide          = nsRelationship + "/slide"
	relSlideLayout    = nsRelationship + "/slideLayout"
	relSlideMaster    = nsRelationship + "/slideMaster"
	relTheme          = nsRelationship + "/theme"
)

type part struct {
	name    string
	content string
}

// writePackage zips parts in order into an Office Open XML package.
func writePackage(parts []part) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func contentTypes(overrides map[string]string, order []string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, name := range order {
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, name, overrides[name])
	}
	b.WriteString(`</Types>`)
	return b.String()
}

// rels renders a relationships part; each entry is {id, type, target}.
func rels(entries ...[3]string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPackageRels)
	for _, e := range entries {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, e[0], e[1], e[2])
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// writeDocx builds a document holding a "Data Export" heading followed by
// one table: the column names, then every row as text.
func writeDocx(t *types.Table) ([]byte, error) {
	var doc strings.Builder
	doc.WriteString(xmlHeader)
	fmt.Fprintf(&doc, `<w:document xmlns:w="%s"><w:body>`, nsWord)
	doc.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Data Export</w:t></w:r></w:p>`)

	if len(t.Columns) > 0 {
		// Letter width minus margins, in twentieths of a point.
		colWidth := 9360 / len(t.Columns)

		doc.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
		for range t.Columns {
			fmt.Fprintf(&doc, `<w:gridCol w:w="%d"/>`, colWidth)
		}
		doc.WriteString(`</w:tblGrid>`)

		writeTableRow := func(values []string) {
			doc.WriteString(`<w:tr>`)
			for _, v := range values {
				fmt.Fprintf(&doc, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr><w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`,
					colWidth, escapeXML(v))
			}
			doc.WriteString(`</w:tr>`)
		}
		writeTableRow(t.Columns)
		for _, row := range t.StringRows() {
			writeTableRow(row)
		}
		doc.WriteString(`</w:tbl>`)
	}

	// Word expects a paragraph between a trailing table and the section.
	doc.WriteString(`<w:p/>`)
	doc.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`)
	doc.WriteString(`</w:body></w:document>`)

	return writePackage([]part{
		{"[Content_Types].xml", contentTypes(map[string]string{
			"word/document.xml": "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml",
			"word/styles.xml":   "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml",
		}, []string{"word/document.xml", "word/styles.xml"})},
		{"_rels/.rels", rels([3]string{"rId1", relOfficeDocument, "word/document.xml"})},
		{"word/document.xml", doc.String()},
		{"word/_rels/document.xml.rels", rels([3]string{"rId1", relStyles, "styles.xml"})},
		{"word/styles.xml", docxStyles},
	})
}

// writePptx builds a one-slide deck with a single text box: the column
// names on the first line, then one line per row, values joined by " | ".
func writePptx(t *types.Table) ([]byte, error) {
	lines := make([]string, 0, t.NumRows()+1)
	lines = append(lines, strings.Join(t.Columns, " | "))
	for _, row := range t.StringRows() {
		lines = append(lines, strings.Join(row, " | "))
	}

	var slide strings.Builder
	slide.WriteString(xmlHeader)
	fmt.Fprintf(&slide, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld>`, nsDrawing, nsRelationship, nsPresentation)
	slide.WriteString(`<p:spTree>` + emptyGroupProps)
	slide.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="TextBox 1"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	slide.WriteString(`<p:spPr><a:xfrm><a:off x="457200" y="457200"/><a:ext cx="8229600" cy="5943600"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	slide.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	for _, line := range lines {
		fmt.Fprintf(&slide, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, escapeXML(line))
	}
	slide.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)

	return writePackage([]part{
		{"[Content_Types].xml", contentTypes(map[string]string{
			"ppt/presentation.xml":              "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml",
			"ppt/slideMasters/slideMaster1.xml": "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml",
			"ppt/slideLayouts/slideLayout1.xml": "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml",
			"ppt/slides/slide1.xml":             "application/vnd.openxmlformats-officedocument.presentationml.slide+xml",
			"ppt/theme/theme1.xml":              "application/vnd.openxmlformats-officedocument.theme+xml",
		}, []string{
			"ppt/presentation.xml",
			"ppt/slideMasters/slideMaster1.xml",
			"ppt/slideLayouts/slideLayout1.xml",
			"ppt/slides/slide1.xml",
			"ppt/theme/theme1.xml",
		})},
		{"_rels/.rels", rels([3]string{"rId1", relOfficeDocument, "ppt/presentation.xml"})},
		{"ppt/presentation.xml", pptxPresentation},
		{"ppt/_rels/presentation.xml.rels", rels(
			[3]string{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
			[3]string{"rId2", relSlide, "slides/slide1.xml"},
			[3]string{"rId3", relTheme, "theme/theme1.xml"},
		)},
		{"ppt/slideMasters/slideMaster1.xml", pptxSlideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
			[3]string{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			[3]string{"rId2", relTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", pptxSlideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(
			[3]string{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/slides/slide1.xml", slide.String()},
		{"ppt/slides/_rels/slide1.xml.rels", rels(
			[3]string{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
		)},
		{"ppt/theme/theme1.xml", pptxTheme},
	})
}
