package service

import (
	"errors"
	"fmt"
	"strings"

	"backend/pkg/response"
)

// Sentinel business errors; handlers map these onto HTTP status codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInsufficientStock = errors.New("insufficient inventory")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("insufficient role")
)

// fieldErr keeps service signatures short
type fieldErr = response.FieldError

// ValidationError carries a field-indexed error list so the UI can highlight
// the offending inputs. Rejected before any persistence happens.
type ValidationError struct {
	Fields []response.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// fieldError is a small builder used by the services
func fieldError(field, message string) response.FieldError {
	return response.FieldError{Field: field, Message: message}
}
