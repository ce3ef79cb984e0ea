package sanitizer

import (
	"strings"
	"unicode"
)

// ToKebabCase converts a string to kebab-case by replacing non-alphanumeric
// characters with hyphens and normalizing multiple hyphens.
func ToKebabCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	prevDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteRune('-')
			prevDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// ToASCII drops every rune outside printable ASCII. Object storage metadata
// only carries ASCII header values.
func ToASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)
}
