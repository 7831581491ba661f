package game

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Default length caps for sanitized user text.
const (
	MaxGoalTextLen = 200
	MaxTitleLen    = 80
)

// Sanitize normalizes free-text goal and title input.
//
// The transform, in order:
//  1. NFC normalization so visually identical strings compare equal
//  2. removal of ASCII control characters (0x00-0x1F, 0x7F)
//  3. collapse of any whitespace run to a single space
//  4. trim of leading/trailing whitespace
//  5. truncation to maxLen runes
//
// Sanitize is pure and total; an empty result is valid and callers must
// treat it as "reject" wherever a non-empty goal or title is required.
func Sanitize(input string, maxLen int) string {
	s := norm.NFC.String(input)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}

	fields := strings.Fields(b.String())
	s = strings.Join(fields, " ")

	if maxLen >= 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return s
}
