package sanitizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var camelBoundaryRegex = regexp.MustCompile(`([a-z])([A-Z])`)

// SplitUnderscores turns underscores into spaces.
func SplitUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// SplitCamelCase inserts a space at every lower-to-upper boundary.
func SplitCamelCase(s string) string {
	return camelBoundaryRegex.ReplaceAllString(s, "$1 $2")
}

// TitleWords capitalizes the first letter of every word and leaves the rest
// untouched, so acronyms survive.
func TitleWords(s string) string {
	// A Caser keeps state; one per call.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// HumanizeName turns a field name into a label:
//
//	HumanizeName("first_name") // "First Name"
//	HumanizeName("phoneNumber") // "Phone Number"
var HumanizeName = Compose(SplitUnderscores, SplitCamelCase, TitleWords)
