package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", sanitizeString("  hello  ", 100))
	assert.Equal(t, "hello", sanitizeString("he\x00l\x1flo", 100))
	assert.Equal(t, "abc", sanitizeString("abcdef", 3))
	assert.Equal(t, "", sanitizeString("   ", 100))
	assert.Equal(t, "", sanitizeString("\x00\x01\x02", 100))
}

func TestBoundedInt(t *testing.T) {
	assert.Equal(t, 10, boundedInt(0, 10, 1, 100))
	assert.Equal(t, 5, boundedInt(5, 10, 1, 100))
	assert.Equal(t, 10, boundedInt(-1, 10, 1, 100))
	assert.Equal(t, 10, boundedInt(101, 10, 1, 100))
	assert.Equal(t, 100, boundedInt(100, 10, 1, 100))
}
