package converter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

// shape is one top-level entry of a slide's shape tree. Only text shapes
// contribute to the slide's text.
type shape interface {
	text() (string, bool)
}

// textShape is an autoshape or text box (p:sp).
type textShape struct {
	body string
}

func (s textShape) text() (string, bool) { return s.body, true }

// graphicShape covers pictures, graphic frames, groups and connectors.
type graphicShape struct {
	kind string
}

func (graphicShape) text() (string, bool) { return "", false }

type presentationXML struct {
	Slides []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// readPptx returns one row per slide, in deck order. A deck without slides
// still yields the Slides column.
func readPptx(data []byte) (*types.Table, string, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, "", err
	}

	const presentationPart = "ppt/presentation.xml"
	raw, err := pkg.read(presentationPart)
	if err != nil {
		return nil, "", err
	}
	var pres presentationXML
	if err := xml.Unmarshal(raw, &pres); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrMalformedInput, presentationPart, err)
	}

	slides := make([]string, 0, len(pres.Slides))
	if len(pres.Slides) > 0 {
		targets, err := pkg.relationships(presentationPart)
		if err != nil {
			return nil, "", err
		}

		for i, s := range pres.Slides {
			part, ok := targets[s.RelID]
			if !ok {
				return nil, "", fmt.Errorf("%w: slide %d references unknown relationship %q", ErrMalformedInput, i+1, s.RelID)
			}
			slideXML, err := pkg.read(part)
			if err != nil {
				return nil, "", err
			}
			shapes, err := slideShapes(slideXML)
			if err != nil {
				return nil, "", fmt.Errorf("%s: %w", part, err)
			}
			slides = append(slides, slideText(shapes))
		}
	}

	return singleColumn(ColumnSlides, slides), strings.Join(slides, slideBreak), nil
}

func slideText(shapes []shape) string {
	var parts []string
	for _, s := range shapes {
		if text, ok := s.text(); ok {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// slideShapes lists the direct children of the slide's shape tree.
func slideShapes(slide []byte) ([]shape, error) {
	d := xml.NewDecoder(bytes.NewReader(slide))

	var shapes []shape
	depth, treeDepth := 0, -1

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if treeDepth < 0 && isElement(t.Name, nsPresentation, "spTree") {
				treeDepth = depth
				continue
			}
			if treeDepth >= 0 && depth == treeDepth+1 {
				s, err := readShape(d, t)
				if err != nil {
					return nil, err
				}
				depth--
				if s != nil {
					shapes = append(shapes, s)
				}
			}

		case xml.EndElement:
			if depth == treeDepth {
				return shapes, nil
			}
			depth--
		}
	}

	return shapes, nil
}

// readShape consumes the element opened by start and classifies it.
func readShape(d *xml.Decoder, start xml.StartElement) (shape, error) {
	if start.Name.Space != nsPresentation {
		return graphicShape{kind: start.Name.Local}, d.Skip()
	}

	switch start.Name.Local {
	case "nvGrpSpPr", "grpSpPr", "extLst":
		// Properties of the tree itself.
		return nil, d.Skip()
	case "sp":
		body, err := textBody(d)
		if err != nil {
			return nil, err
		}
		return textShape{body: body}, nil
	default:
		return graphicShape{kind: start.Name.Local}, d.Skip()
	}
}

// textBody reads a shape's paragraphs up to the shape's end tag and joins
// them with newlines.
func textBody(d *xml.Decoder) (string, error) {
	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
		depth      = 1
	)

	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space != nsDrawing {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "br":
				current.WriteByte('\n')
			}

		case xml.EndElement:
			depth--
			if t.Name.Space != nsDrawing {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				}
			}

		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
