package ballast

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrMissingFile is returned by Load when the environment file does not
	// exist. MustOpen turns it into a fatal exit.
	ErrMissingFile = errors.New("ballast: environment file not found")

	// ErrNoPath is returned when an operation needs a backing file but the
	// store was created without one.
	ErrNoPath = errors.New("ballast: store has no backing file")
)

// Error codes for binding failures.
const (
	ErrCodeRequired    = "required"
	ErrCodeInvalidType = "invalid_type"
	ErrCodeUnsupported = "unsupported_field"
)

// BindError aggregates field-level binding failures.
type BindError struct {
	FieldErrors []FieldError
}

// Error formats binding errors as a multi-line message.
func (e *BindError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "ballast: binding failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("ballast: binding failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "ballast: binding failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s [%s]: %s (%s)\n", fe.Field, fe.Key, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single field binding failure.
type FieldError struct {
	Field   string // Struct field name (e.g., "Database.Host")
	Key     string // Environment key looked up (e.g., "DATABASE_HOST")
	Code    string // Error code (e.g., "required", "invalid_type")
	Message string // Human-readable description
}
