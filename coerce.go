package ballast

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ballastdev/ballast/internal/envline"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// Coerce infers a typed Value from raw file or environment text.
// The patterns are tried in order:
//
//  1. Numeric strings become KindInt or KindFloat.
//  2. The keywords true/enable, false/disable, null, and blank
//     (case-insensitive) become true, false, null, and "" respectively.
//  3. "[]" becomes an empty list.
//  4. "[a,b,c]" becomes a list of coerced scalars; items may be quoted.
//  5. Anything else is kept as the trimmed string.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)

	if v, ok := coerceNumber(s); ok {
		return v
	}

	switch strings.ToLower(s) {
	case "true", "enable":
		return BoolValue(true)
	case "false", "disable":
		return BoolValue(false)
	case "null":
		return NullValue()
	case "blank":
		return StringValue("")
	}

	if s == "[]" {
		return ListValue()
	}
	if len(s) >= 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return coerceList(s[1 : len(s)-1])
	}

	return StringValue(s)
}

// coerceNumber converts a purely numeric string to an Int or Float value.
// Integers that overflow int64 fall back to float.
func coerceNumber(s string) (Value, bool) {
	if !numericPattern.MatchString(s) {
		return Value{}, false
	}
	if integerPattern.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(n), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f), true
	}
	return Value{}, false
}

// coerceList splits bracket-syntax inner content on commas and coerces each
// item. Surrounding quotes and whitespace are stripped per item.
func coerceList(inner string) Value {
	parts := strings.Split(inner, ",")
	items := make([]Value, 0, len(parts))
	for _, part := range parts {
		item := envline.Unquote(strings.TrimSpace(part))
		items = append(items, coerceListItem(item))
	}
	return ListValue(items...)
}

// coerceListItem applies the narrower scalar coercion used inside lists:
// numbers and the true/false/null literals become typed, everything else
// stays a string.
func coerceListItem(s string) Value {
	if v, ok := coerceNumber(s); ok {
		return v
	}
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "null":
		return NullValue()
	}
	return StringValue(s)
}
