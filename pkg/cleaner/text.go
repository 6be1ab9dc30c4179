package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

var (
	monserratPattern  = regexp.MustCompile(`(?i)monserrat`)
	secretariaPattern = regexp.MustCompile(`(?i)secretari a`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// normalizeCatalogText canonicalizes a catalog-bound value. The steps run in a
// fixed order: the typo fix matches title-cased text and the word fix matches
// text whose accents were already stripped. The boolean is false when nothing
// is left of the value.
func normalizeCatalogText(field model.Field, value string) (string, bool) {
	s := strings.TrimSpace(value)
	s = cases.Title(language.Und).String(s)
	if field == model.FieldNeighborhood {
		s = monserratPattern.ReplaceAllString(s, "Montserrat")
	}
	s = stripDiacritics(s)
	s = secretariaPattern.ReplaceAllString(s, "Secretaria")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" || s == "None" {
		return "", false
	}
	return s, true
}

// stripDiacritics decomposes s and drops every non-ASCII rune
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IsASCII reports whether s holds only ASCII runes
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
