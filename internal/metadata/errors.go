package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	ErrTransport  = errors.New("transport error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// APIError describes a failed gateway call.
type APIError struct {
	Kind    error  // one of ErrTransport, ErrValidation, ErrNotFound
	Op      string // "save field", "delete field", ...
	Status  int    // HTTP status, zero when the request never completed
	Message string // server-provided message, if any
	Err     error  // underlying cause
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	case e.Kind != nil:
		b.WriteString(e.Kind.Error())
	}
	if e.Status > 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *APIError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ErrorKind classifies the error as "transport", "validation" or "not_found".
func (e *APIError) ErrorKind() string {
	switch {
	case errors.Is(e.Kind, ErrValidation):
		return "validation"
	case errors.Is(e.Kind, ErrNotFound):
		return "not_found"
	default:
		return "transport"
	}
}

// UserMessage returns the text shown to a user for err. Server messages are
// preferred over wrapped transport detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
