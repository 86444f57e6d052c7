package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"default on zero", 0, DefaultKeywordLength},
		{"default on negative", -3, DefaultKeywordLength},
		{"short", 4, 4},
		{"long", 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GenerateRandomString(tt.length)
			assert.Len(t, s, tt.want)
			assert.True(t, InAlphabet(s), "unexpected character in %q", s)
		})
	}
}

func TestGenerateRandomString_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateRandomString(8)] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestReplaceSpaces(t *testing.T) {
	assert.Equal(t, "drop-prod-db", ReplaceSpaces("drop prod db"))
	assert.Equal(t, "a--b", ReplaceSpaces("a \tb"))
	assert.Equal(t, "DELETE", ReplaceSpaces("DELETE"))
}

func TestInAlphabet(t *testing.T) {
	assert.True(t, InAlphabet("abcXYZ019"))
	assert.False(t, InAlphabet("abc-1"))
	assert.True(t, InAlphabet(""))
}
