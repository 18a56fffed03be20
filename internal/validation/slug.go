package validation

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the url field of a publication from its title: the title
// is transliterated to ASCII, lowercased, spaces become underscores and
// anything outside [a-z0-9_] is dropped.
//
//	Slugify("Título com Acentos!") == "titulo_com_acentos"
//	Slugify("Привет мир") == "privet_mir"
func Slugify(title string) string {
	// decomposed input ("e" + U+0301) is recomposed before the table lookup
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	ascii := strings.ToLower(unidecode.Unidecode(folded))
	ascii = strings.ReplaceAll(ascii, " ", "_")

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
