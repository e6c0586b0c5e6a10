package server

import (
	"regexp"
	"strings"
)

// controlChars matches control characters that must never survive
// sanitization: C0, DEL and C1 ranges.
var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// sanitizeString trims whitespace, strips control characters and caps the
// length of a client-supplied string. Returns "" for unusable input.
func sanitizeString(input string, maxLength int) string {
	sanitized := controlChars.ReplaceAllString(strings.TrimSpace(input), "")
	if maxLength > 0 && len(sanitized) > maxLength {
		sanitized = sanitized[:maxLength]
	}
	return sanitized
}

// boundedInt clamps a client-supplied integer into [minValue, maxValue],
// substituting defaultValue when the input is out of range or unset (zero).
func boundedInt(value, defaultValue, minValue, maxValue int) int {
	if value == 0 {
		return defaultValue
	}
	if value < minValue || value > maxValue {
		return defaultValue
	}
	return value
}
