package validate

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"roster-sync/internal/domain"
)

const (
	MinNameLength = 2
	MinAge        = 0
	MaxAge        = 120
)

// FieldError names one failing field of a draft.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError blocks a submission locally. It never reaches the remote.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the failing ones.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NameLength counts UTF-16 code units, the unit browser form inputs use for
// their length: "Ñö" is 2, a single emoji outside the BMP such as "😀" is
// also 2.
func NameLength(name string) int {
	n := 0
	for _, r := range name {
		n += utf16.RuneLen(r)
	}
	return n
}

// IsValid gates the submit actions of both forms.
func IsValid(d domain.Draft) bool {
	return NameLength(d.Name) >= MinNameLength && d.Age >= MinAge && d.Age <= MaxAge
}

// Check returns a *ValidationError listing every failing field, or nil.
func Check(d domain.Draft) error {
	var fields []FieldError
	if n := NameLength(d.Name); n < MinNameLength {
		fields = append(fields, FieldError{Field: "name", Message: fmt.Sprintf("must be at least %d characters, got %d", MinNameLength, n)})
	}
	if d.Age < MinAge || d.Age > MaxAge {
		fields = append(fields, FieldError{Field: "age", Message: fmt.Sprintf("must be between %d and %d, got %d", MinAge, MaxAge, d.Age)})
	}
	if d.IsActive != 0 && d.IsActive != 1 {
		fields = append(fields, FieldError{Field: "isActive", Message: fmt.Sprintf("must be 0 or 1, got %d", d.IsActive)})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
