package ballast

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// bindTag holds parsed directives from a struct field's `env` tag.
// Tag format: "KEY,directive..." — the key may be empty to keep the derived
// name. Supported directives: default:<value>, required. A bare "-" skips
// the field. Default values cannot contain commas.
type bindTag struct {
	key        string
	defValue   string
	required   bool
	hasDefault bool
	skip       bool
}

func parseBindTag(tag string) bindTag {
	cfg := bindTag{}
	if tag == "" {
		return cfg
	}
	if tag == "-" {
		cfg.skip = true
		return cfg
	}

	parts := strings.Split(tag, ",")
	cfg.key = strings.TrimSpace(parts[0])

	for _, directive := range parts[1:] {
		directive = strings.TrimSpace(directive)
		name, value, _ := strings.Cut(directive, ":")
		switch name {
		case "default":
			cfg.defValue = value
			cfg.hasDefault = true
		case "required":
			cfg.required = value == "" || value == "true"
		}
	}
	return cfg
}

var valueType = reflect.TypeOf(Value{})

// Bind populates dst, a non-nil pointer to struct, from the store.
//
// Lookup keys come from the `env` tag's first element, or from the field
// name converted to UPPER_SNAKE (MaxConns → MAX_CONNS). Nested structs
// recurse with the parent key joined by '_', so Database.Host binds
// DATABASE_HOST. Missing keys fall back to the default directive; required
// fields without a value or default fail.
//
// Supported field types: string, bool, integer and float kinds,
// time.Duration (parsed from duration strings), []string, and Value for a
// raw typed entry. All failures are aggregated into a *BindError.
func (s *Store) Bind(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ballast: Bind requires a non-nil pointer to struct, got %T", dst)
	}

	var fieldErrors []FieldError
	s.bindStruct(rv.Elem(), "", "", &fieldErrors)

	if len(fieldErrors) > 0 {
		return &BindError{FieldErrors: fieldErrors}
	}
	return nil
}

func (s *Store) bindStruct(v reflect.Value, fieldPrefix, keyPrefix string, fieldErrors *[]FieldError) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := parseBindTag(field.Tag.Get("env"))
		if tag.skip {
			continue
		}

		name := tag.key
		if name == "" {
			name = deriveKey(field.Name)
		}
		key := name
		if keyPrefix != "" {
			key = keyPrefix + "_" + name
		}

		fieldPath := field.Name
		if fieldPrefix != "" {
			fieldPath = fieldPrefix + "." + field.Name
		}

		fieldValue := v.Field(i)

		// Nested structs recurse; Value fields take the entry directly.
		if fieldValue.Kind() == reflect.Struct && field.Type != valueType {
			s.bindStruct(fieldValue, fieldPath, key, fieldErrors)
			continue
		}

		val, found := s.Get(key)
		if !found && tag.hasDefault {
			val = Coerce(tag.defValue)
			found = true
		}
		if !found {
			if tag.required {
				*fieldErrors = append(*fieldErrors, FieldError{
					Field:   fieldPath,
					Key:     key,
					Code:    ErrCodeRequired,
					Message: "key not set and no default provided",
				})
			}
			continue
		}

		if err := assignValue(fieldValue, val); err != nil {
			*fieldErrors = append(*fieldErrors, FieldError{
				Field:   fieldPath,
				Key:     key,
				Code:    ErrCodeInvalidType,
				Message: err.Error(),
			})
		}
	}
}

// assignValue converts a typed entry into a struct field.
func assignValue(fieldValue reflect.Value, val Value) error {
	if fieldValue.Type() == valueType {
		fieldValue.Set(reflect.ValueOf(val))
		return nil
	}

	switch fieldValue.Kind() {
	case reflect.String:
		str, ok := val.AsString()
		if !ok {
			return fmt.Errorf("cannot assign %s value to string field", val.Kind())
		}
		fieldValue.SetString(str)
		return nil

	case reflect.Bool:
		b, ok := val.AsBool()
		if !ok {
			return fmt.Errorf("cannot assign %s value to bool field", val.Kind())
		}
		fieldValue.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fieldValue.Type() == reflect.TypeOf(time.Duration(0)) {
			str, ok := val.AsString()
			if !ok {
				return fmt.Errorf("cannot assign %s value to duration field", val.Kind())
			}
			d, err := time.ParseDuration(str)
			if err != nil {
				return fmt.Errorf("invalid duration %q", str)
			}
			fieldValue.SetInt(int64(d))
			return nil
		}
		n, ok := val.AsInt()
		if !ok {
			return fmt.Errorf("cannot assign %s value to integer field", val.Kind())
		}
		if fieldValue.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, fieldValue.Type())
		}
		fieldValue.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := val.AsInt()
		if !ok {
			return fmt.Errorf("cannot assign %s value to unsigned field", val.Kind())
		}
		if n < 0 || fieldValue.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d out of range for %s", n, fieldValue.Type())
		}
		fieldValue.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := val.AsFloat()
		if !ok {
			return fmt.Errorf("cannot assign %s value to float field", val.Kind())
		}
		fieldValue.SetFloat(f)
		return nil

	case reflect.Slice:
		if fieldValue.Type().Elem() != reflect.TypeOf("") {
			return fmt.Errorf("unsupported slice element type %s", fieldValue.Type().Elem())
		}
		items, err := stringItems(val)
		if err != nil {
			return err
		}
		fieldValue.Set(reflect.ValueOf(items).Convert(fieldValue.Type()))
		return nil

	default:
		return fmt.Errorf("unsupported field type %s", fieldValue.Type())
	}
}

// stringItems renders a List's elements as strings. A plain string splits on
// commas for convenience.
func stringItems(val Value) ([]string, error) {
	if items, ok := val.AsList(); ok {
		out := make([]string, len(items))
		for i, item := range items {
			if str, ok := item.AsString(); ok {
				out[i] = str
			} else {
				out[i] = item.Encode()
			}
		}
		return out, nil
	}
	if str, ok := val.AsString(); ok {
		parts := strings.Split(str, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
	return nil, fmt.Errorf("cannot assign %s value to string slice field", val.Kind())
}

// deriveKey converts a Go field name to UPPER_SNAKE: an underscore is
// inserted where a lower-to-upper boundary occurs and before the last
// capital of an acronym run followed by a lowercase letter (APIKey →
// API_KEY).
func deriveKey(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
