package game

import "strings"

// Key canonicalizes a (frequency, text) pair into the deduplication key used
// throughout pool aggregation, selection and matching.
//
// Two goals with the same key are the same logical goal regardless of ID or
// pool origin - "weekly:run 3 miles" matches a custom template, a suggested
// catalog entry and an incomplete cell mined from board history alike.
func Key(freq Frequency, text string) string {
	return string(freq) + ":" + strings.ToLower(strings.TrimSpace(text))
}
