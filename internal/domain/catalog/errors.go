package catalog

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned (wrapped in a TransportError) when the catalog
// service reports that the targeted product no longer exists.
var ErrNotFound = errors.New("product not found")

// TransportError indicates that a call to the catalog service failed,
// either because the request never completed or because the service
// answered with a non-2xx status.
type TransportError struct {
	// Op is the failed operation: "list", "create", "update" or "delete".
	Op string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Err is the underlying cause. For a 404 on update/delete it wraps
	// ErrNotFound so callers can test with errors.Is.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a transport failure caused by the
// target product being unknown to the catalog service.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// FieldError describes why a single draft field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports locally detected bad input. It is raised before
// any network call is made; a flow that returns it has not touched the
// store or the catalog service.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Reason
	}
	return "invalid draft: " + strings.Join(parts, ", ")
}
