package blog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify genera el slug desde el título: minúsculas, sin acentos,
// todo lo no alfanumérico colapsa a guiones.
// "Feira de Adoção 2024!" => "feira-de-adocao-2024"
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(title)))
	if err != nil {
		s = strings.ToLower(strings.TrimSpace(title))
	}

	var b strings.Builder
	lastHyphen := true // evita guión inicial
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
