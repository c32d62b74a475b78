// Package textutils provides text normalization utilities shared by the
// resolver, the filter search and the reference data store.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into a base letter plus combining marks
var transliterations = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ı", "i",
	"’", "'", "‘", "'", "`", "'",
	"“", "\"", "”", "\"",
	"–", "-", "—", "-",
)

// StripDiacritics transliterates s to base Latin letters, keeping case:
// "Côte d’Ivoire" becomes "Cote d'Ivoire".
func StripDiacritics(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps internal state; build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return transliterations.Replace(out)
}

// Slug returns the lookup key form of s: trimmed, lower case, without
// diacritics.
func Slug(s string) string {
	return StripDiacritics(strings.ToLower(strings.TrimSpace(s)))
}

// Fold returns s trimmed, without diacritics and with inner whitespace
// collapsed, in lower case. It is the comparison form used for name matching.
func Fold(s string) string {
	return strings.Join(strings.Fields(Slug(s)), " ")
}

// ContainsFold reports whether needle occurs in haystack once both are
// slugged. An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	n := Slug(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Slug(haystack), n)
}
