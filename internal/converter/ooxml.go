package converter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	nsWord         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsMarkupCompat = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// ooxmlPackage is a read-only view over the parts of an Office Open XML zip.
type ooxmlPackage struct {
	parts map[string]*zip.File
}

func openPackage(data []byte) (*ooxmlPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not an Office Open XML package: %v", ErrMalformedInput, err)
	}
	pkg := &ooxmlPackage{parts: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.parts[strings.TrimPrefix(f.Name, "/")] = f
	}
	return pkg, nil
}

func (p *ooxmlPackage) read(name string) ([]byte, error) {
	f, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", ErrMalformedInput, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedInput, name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformedInput, name, err)
	}
	return b, nil
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Items []relationship `xml:"Relationship"`
}

// relationships loads the .rels part that belongs to partName and returns
// its targets keyed by relationship id, resolved to package part names.
func (p *ooxmlPackage) relationships(partName string) (map[string]string, error) {
	dir, file := path.Split(partName)
	relsName := dir + "_rels/" + file + ".rels"

	raw, err := p.read(relsName)
	if err != nil {
		return nil, err
	}

	var rels relationships
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, relsName, err)
	}

	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		if strings.HasPrefix(rel.Target, "/") {
			targets[rel.ID] = strings.TrimPrefix(rel.Target, "/")
		} else {
			targets[rel.ID] = path.Join(dir, rel.Target)
		}
	}
	return targets, nil
}

func isElement(name xml.Name, space, local string) bool {
	return name.Space == space && name.Local == local
}
