package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenQualifierRe = regexp.MustCompile(`\s*\(.*\)`)
	parenGroupRe     = regexp.MustCompile(`\([^)]*\)`)
	multiSpaceRe     = regexp.MustCompile(`\s{2,}`)
	digitsRe         = regexp.MustCompile(`^\d+$`)
)

// missingMarkers are cell values that carry no information.
var missingMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"<na>": true,
	"nat":  true,
	"n/a":  true,
}

// IsMissing reports whether a raw cell is empty or a missing-value marker.
func IsMissing(raw string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(raw))]
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// A Caser is stateful, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// Fold lower-cases s and strips combining marks, so "São Paulo" and
// "SAO PAULO" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = multiSpaceRe.ReplaceAllString(out, " ")
	return strings.ToLower(strings.TrimSpace(out))
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
