package common

import (
	"fmt"
	"strings"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationRule checks a single field and returns nil when it passes.
type ValidationRule func(field string, value any) *ValidationError

// Validator collects rule failures across several fields so callers can
// report them together.
type Validator struct {
	failures []ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Field applies rules to value in order. Every failing rule is recorded.
func (v *Validator) Field(name string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if f := rule(name, value); f != nil {
			v.failures = append(v.failures, *f)
		}
	}
	return v
}

func (v *Validator) HasErrors() bool { return len(v.failures) > 0 }

func (v *Validator) Errors() []ValidationError { return v.failures }

// ErrorMessage joins every failure with "; ".
func (v *Validator) ErrorMessage() string {
	parts := make([]string, len(v.failures))
	for i, f := range v.failures {
		parts[i] = f.Error()
	}
	return strings.Join(parts, "; ")
}

// Error wraps ErrValidation, or returns nil when every rule passed.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, v.ErrorMessage())
}

// ValidateAndReturnError converts failures into a gRPC InvalidArgument status.
func ValidateAndReturnError(v *Validator) error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgumentError(v.ErrorMessage())
}

// Required rejects nil, blank strings and empty string slices.
func Required(field string, value any) *ValidationError {
	missing := value == nil
	switch x := value.(type) {
	case string:
		missing = strings.TrimSpace(x) == ""
	case []string:
		missing = len(x) == 0
	}
	if missing {
		return &ValidationError{Field: field, Value: value, Message: "is required"}
	}
	return nil
}

// OneOf accepts a string equal to one of allowed.
func OneOf(allowed ...string) ValidationRule {
	return func(field string, value any) *ValidationError {
		if s, ok := value.(string); ok {
			for _, a := range allowed {
				if s == a {
					return nil
				}
			}
		}
		return &ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be one of " + strings.Join(allowed, ", "),
		}
	}
}
