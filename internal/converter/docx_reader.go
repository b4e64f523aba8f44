package converter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

// readDocx returns the document's body paragraphs in order, one per row.
// Paragraphs nested in tables, headers or text boxes are not body
// paragraphs, and blank paragraphs are dropped.
func readDocx(data []byte) (*types.Table, string, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, "", err
	}
	doc, err := pkg.read("word/document.xml")
	if err != nil {
		return nil, "", err
	}

	paragraphs, err := bodyParagraphs(doc)
	if err != nil {
		return nil, "", err
	}

	kept := paragraphs[:0]
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}

	return singleColumn(ColumnParagraphs, kept), strings.Join(kept, "\n\n"), nil
}

func bodyParagraphs(doc []byte) ([]string, error) {
	d := xml.NewDecoder(bytes.NewReader(doc))

	var (
		stack      []xml.Name
		paragraphs []string
		current    strings.Builder
		paraDepth  = -1 // stack depth of the open body paragraph
		inText     bool
	)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: word/document.xml: %v", ErrMalformedInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if paraDepth < 0 && isElement(t.Name, nsWord, "p") &&
				len(stack) > 0 && isElement(stack[len(stack)-1], nsWord, "body") {
				paraDepth = len(stack)
				current.Reset()
			}
			// Text boxes are separate stories anchored in the run; Word
			// stores them again under mc:Fallback for older readers.
			if paraDepth >= 0 && (isElement(t.Name, nsWord, "txbxContent") || isElement(t.Name, nsMarkupCompat, "Fallback")) {
				if err := d.Skip(); err != nil {
					return nil, fmt.Errorf("%w: word/document.xml: %v", ErrMalformedInput, err)
				}
				continue
			}
			if paraDepth >= 0 && t.Name.Space == nsWord {
				switch t.Name.Local {
				case "t":
					inText = true
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, t.Name)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if isElement(t.Name, nsWord, "t") {
				inText = false
			}
			if paraDepth >= 0 && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				paraDepth = -1
			}

		case xml.CharData:
			if inText && paraDepth >= 0 {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
