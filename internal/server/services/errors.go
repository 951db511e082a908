package services

import (
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned by Login for unknown emails and wrong
// passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors lists every field that failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
