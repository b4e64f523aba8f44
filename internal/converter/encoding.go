package converter

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// cp1252Encoder re-encodes text for the PDF core fonts, which only know
// Windows-1252. A rune outside that set is replaced by the encodable parts of
// its compatibility decomposition ("ő" becomes "o"), or by '?' when nothing
// survives. In strict mode the first such rune is an error instead.
type cp1252Encoder struct {
	strict        bool
	substitutions int
}

func (e *cp1252Encoder) encode(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		if e.strict {
			return "", fmt.Errorf("%w: %q has no Windows-1252 form (in %q)", ErrEncoding, r, s)
		}
		e.substitutions++
		b.WriteString(transliterate(r))
	}
	return b.String(), nil
}

func transliterate(r rune) string {
	var b strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(d); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
