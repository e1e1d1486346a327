package ballast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is the typed form of a configuration entry. The zero Value is the
// empty string. Values are immutable once constructed.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	b    bool
	list []Value
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue wraps an integer.
func IntValue(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// FloatValue wraps a float.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NullValue returns the null variant.
func NullValue() Value {
	return Value{kind: KindNull}
}

// ListValue wraps an ordered list of values. The items slice is copied.
func ListValue(items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{kind: KindList, list: list}
}

// Kind returns the variant discriminator.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns the wrapped string and whether v holds one.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the wrapped integer and whether v holds one.
func (v Value) AsInt() (int64, bool) {
	return v.num, v.kind == KindInt
}

// AsFloat returns v as a float. Integers convert; other kinds report false.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		return float64(v.num), true
	default:
		return 0, false
	}
}

// AsBool returns the wrapped boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsList returns a copy of the wrapped list and whether v holds one.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	list := make([]Value, len(v.list))
	copy(list, v.list)
	return list, true
}

// Interface returns the value as a plain Go type: string, int64, float64,
// bool, nil, or []any for lists. Useful for serialization.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.b
	case KindNull:
		return nil
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	default:
		return nil
	}
}

// Equal reports deep equality of two values, including list contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.flt == other.flt
	case KindBool:
		return v.b == other.b
	case KindNull:
		return true
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Encode returns the canonical file encoding of v, chosen so that
// Coerce(v.Encode()) yields a value equal to v. The empty string encodes as
// the "blank" keyword; strings that would otherwise coerce to another kind
// (e.g. "true", "42") are not protected and re-coerce on read.
func (v Value) Encode() string {
	switch v.kind {
	case KindString:
		if v.str == "" {
			return "blank"
		}
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	case KindList:
		items := make([]string, len(v.list))
		for i, item := range v.list {
			items[i] = item.encodeListItem()
		}
		return "[" + strings.Join(items, ",") + "]"
	default:
		return ""
	}
}

// encodeListItem encodes a list element. Empty and whitespace-padded strings
// are quoted so they survive item trimming. The format has no escaping, so a
// string containing a comma cannot be represented inside a list faithfully.
func (v Value) encodeListItem() string {
	if v.kind != KindString {
		return v.Encode()
	}
	s := v.str
	if s == "" || strings.TrimSpace(s) != s {
		return `"` + s + `"`
	}
	return s
}

// String returns a human-readable rendering for logs and CLI output.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindNull:
		return "null"
	default:
		return v.Encode()
	}
}
