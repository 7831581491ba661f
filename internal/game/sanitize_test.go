package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"plain", "Run 3 miles", 100, "Run 3 miles"},
		{"trims", "  Run 3 miles  ", 100, "Run 3 miles"},
		{"collapses whitespace", "Run\t 3 \n miles", 100, "Run 3 miles"},
		{"strips control chars", "Run\x003 mi\x1fles\x7f", 100, "Run3 miles"},
		{"truncates", "abcdefghij", 4, "abcd"},
		{"truncates runes not bytes", "ééééé", 3, "ééé"},
		{"trim after truncate", "abc defg", 4, "abc"},
		{"empty", "", 100, ""},
		{"whitespace only", " \t\n ", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input, tt.maxLen))
		})
	}
}

func TestSanitize_NFCNormalization(t *testing.T) {
	// "é" composed vs "e" + combining acute accent.
	composed := "café"
	decomposed := "café"

	assert.Equal(t, Sanitize(composed, 100), Sanitize(decomposed, 100))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "weekly:run 3 miles", Key(Weekly, "Run 3 miles"))

	// Case and surrounding whitespace never split a logical goal.
	assert.Equal(t,
		Key(Weekly, "Run 3 miles"),
		Key(Weekly, "  RUN 3 miles  "))

	// Frequency scopes the key.
	assert.NotEqual(t, Key(Daily, "stretch"), Key(Weekly, "stretch"))
}
