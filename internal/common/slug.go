package common

import (
	"regexp"
	"strings"
)

var (
	slugSeparators = regexp.MustCompile(`[\s\-_]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\-]`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

var accentMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ñ': 'n', 'ç': 'c',
	'ß': 's',
}

// Slugify converts a display name into a tenant slug, e.g. "Café Events" -> "cafe-events"
func Slugify(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		if repl, ok := accentMap[r]; ok {
			r = repl
		}
		b.WriteRune(r)
	}
	s = b.String()

	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > 100 {
		s = strings.TrimRight(s[:100], "-")
	}
	return s
}
