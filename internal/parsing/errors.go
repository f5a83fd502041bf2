package parsing

import "fmt"

// FieldError reports a single field that could not be located in otherwise
// valid markup. It is never fatal: the field is left absent and parsing continues.
type FieldError struct {
	Field   string
	Message string
	Cause   error
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Message: "not found"}
}
