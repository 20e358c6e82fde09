package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and strips combining marks, so
// "Café Motoré" folds to "Cafe Motore" before domain guessing.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// legalSuffixes are trailing corporate designators dropped during
// normalization. Keys are lowercase with punctuation removed.
var legalSuffixes = map[string]bool{
	"inc":     true,
	"llc":     true,
	"llp":     true,
	"ltd":     true,
	"corp":    true,
	"co":      true,
	"company": true,
	"gmbh":    true,
	"plc":     true,
	"sa":      true,
}

// NormalizeName lowercases, ASCII-folds, and strips legal suffixes and
// non-alphanumeric characters from a company name.
func NormalizeName(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	words := strings.Fields(folded)
	for len(words) > 0 {
		last := strings.Trim(words[len(words)-1], ".,")
		if !legalSuffixes[last] {
			break
		}
		words = words[:len(words)-1]
	}

	var b strings.Builder
	for _, w := range words {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// GuessDomain derives a likely domain from a company name. Returns "" when
// nothing usable remains after normalization.
func GuessDomain(name string) string {
	n := NormalizeName(name)
	if n == "" {
		return ""
	}
	return n + ".com"
}
