package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc...", TruncateString("abcdef", 3))
	assert.Equal(t, "", TruncateString("abcdef", 0))

	// Truncation counts runes, not bytes.
	assert.Equal(t, "₹₹...", TruncateString("₹₹₹₹", 2))
}

func TestCleanToValidUTF8(t *testing.T) {
	assert.Equal(t, "plain", CleanToValidUTF8("plain"))
	assert.Equal(t, "ab", CleanToValidUTF8("a\x00b"))
	assert.Equal(t, "ab", CleanToValidUTF8("a\xffb"))
}

func TestContainsString(t *testing.T) {
	list := []string{"moneycontrol.com", "livemint.com"}
	assert.True(t, ContainsString(list, "livemint.com"))
	assert.False(t, ContainsString(list, "example.com"))
	assert.False(t, ContainsString(nil, "anything"))
}
