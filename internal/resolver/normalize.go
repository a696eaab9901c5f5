package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks descompone (NFKD) y elimina las marcas combinantes: así
// "Doomben Café" y "Doomben Cafe" normalizan igual.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize aplica la normalización del contrato del registro:
// sin acentos, sin puntuación, espacios colapsados, mayúsculas.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.ToUpper(strings.Join(strings.Fields(b.String()), " "))
}
