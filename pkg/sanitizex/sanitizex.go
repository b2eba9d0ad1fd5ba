package sanitizex

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanSingleLine sanitizes a single-line string by normalizing Unicode, trimming whitespace,
// removing control characters, and collapsing internal whitespace to a single ASCII space.
func CleanSingleLine(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if r == '\u007f' || unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

// Email normalizes an email address for storage and comparison: NFC, trimmed,
// with the domain part lowercased. The local part keeps its case since some
// providers treat it as significant.
func Email(s string) string {
	s = CleanSingleLine(s)
	if s == "" {
		return ""
	}

	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return s
	}

	return s[:at+1] + strings.ToLower(s[at+1:])
}
