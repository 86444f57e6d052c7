package utils

import (
	"math/rand"
	"strings"
	"unicode"
)

// KeywordAlphabet is the character set random keywords and linkage ids are drawn from.
const KeywordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultKeywordLength is used whenever a length of zero or less is requested.
const DefaultKeywordLength = 8

// GenerateRandomString returns a uniformly random alphanumeric string.
func GenerateRandomString(length int) string {
	if length <= 0 {
		length = DefaultKeywordLength
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(KeywordAlphabet[rand.Intn(len(KeywordAlphabet))])
	}
	return b.String()
}

// ReplaceSpaces swaps every whitespace rune for a dash, so "drop prod db"
// becomes "drop-prod-db".
func ReplaceSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
}

// InAlphabet reports whether every byte of s belongs to KeywordAlphabet.
func InAlphabet(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(KeywordAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
