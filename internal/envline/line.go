// Package envline provides line-level helpers for the .env file format.
package envline

import "strings"

// Split splits a line on the first '=' into key and value, both trimmed.
// Reports false for lines without '=' or with an empty key.
// The first '=' is always the split point; values are never escaped.
func Split(line string) (key, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// IsBlank reports whether a line is empty after trimming.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsComment reports whether a line is a full-line comment.
// Comments begin with '#' or ';' at line start (after leading whitespace).
// A ';'-prefixed key also reads as a comment here: disabled entries stay out
// of the runtime on load.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";")
}

// Unquote strips one pair of matching surrounding single or double quotes.
// Unmatched or single-character strings are returned unchanged.
func Unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
