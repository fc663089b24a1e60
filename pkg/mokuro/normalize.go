package mokuro

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeTitle normalizes a series or volume name for identity purposes.
// Scanned manga names mix full-width and half-width forms ("Ｖｏｌ．０１" vs
// "Vol.01"), accented romanizations, and inconsistent separators; two names
// that differ only in those ways must normalize to the same string so that
// derived identifiers stay stable.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)

	// Fold full-width latin and digits to their half-width forms.
	s = width.Fold.String(s)

	// Remove accents.
	s = removeAccents(s)

	// Separators become spaces so "vol_01", "vol-01" and "vol 01" agree.
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")

	// Drop everything that is not a letter, digit, or space.
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	// Collapse whitespace.
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
