package quiz

import (
	"fmt"
	"strings"
)

// ValidationError is raised client-side before any request is made,
// e.g. for an empty topic or an incomplete answer sheet.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServiceError collapses every quiz service failure (transport,
// non-success status, malformed payload) into one kind.
type ServiceError struct {
	// Op is the service operation, "generate" or "submit".
	Op string

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	// Message is a human-readable description safe to show to the user.
	Message string

	Err error
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ServiceError) Unwrap() error { return e.Err }
