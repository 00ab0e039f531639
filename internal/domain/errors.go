package domain

import "fmt"

// ValidationError reports an input record that cannot be projected
type ValidationError struct {
	Field   string
	Year    int // 0 when the problem is not tied to a schedule year
	Message string
}

func (e *ValidationError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("invalid %s (year %d): %s", e.Field, e.Year, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, year int, message string) *ValidationError {
	return &ValidationError{Field: field, Year: year, Message: message}
}
