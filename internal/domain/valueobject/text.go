// Package valueobject contains domain value objects for the Advisory Portal system.
package valueobject

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText strips HTML markup and unprintable characters from free text entered by staff,
// and trims surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(StripUnprintable(s)))
}

// StripUnprintable removes non-printable characters, keeping tabs and line breaks.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SafeSpreadsheetCell prefixes a single quote to text that a spreadsheet would evaluate as a formula.
// Only apply it to text cells; signed numeric cells must stay numeric.
func SafeSpreadsheetCell(s string) string {
	if s == "" {
		return s
	}
	if isFormulaTrigger(rune(s[0])) {
		return "'" + s
	}
	trimmed := strings.TrimSpace(s)
	if trimmed != "" && isFormulaTrigger(rune(trimmed[0])) {
		return "'" + s
	}
	return s
}

func isFormulaTrigger(r rune) bool {
	switch r {
	case '=', '+', '-', '@', '\t', '\r':
		return true
	}
	return false
}
