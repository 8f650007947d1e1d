package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the engine and the mutation coordinator.
// Match them with errors.Is.
var (
	// ErrInvalidArgument indicates malformed input, an out-of-range field,
	// a malformed id or an inverted price range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates the product id is not present.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate sku.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates the document store could not serve the request.
	ErrUnavailable = errors.New("dependency unavailable")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries an error kind plus context for the boundary layer.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s %s", f.Field, f.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidArgument(msg string, fields ...FieldError) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: msg, Fields: fields}
}

func notFound(id string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("product %s not found", id)}
}

func conflict(sku string) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf("product with sku %q already exists", sku)}
}

// storeError classifies a document store failure. Not-found and conflict
// errors raised by the store keep their kind, everything else becomes
// ErrUnavailable.
func storeError(op string, err error) error {
	var catErr *Error
	if errors.As(err, &catErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return &Error{Kind: ErrNotFound, Message: op, Err: err}
	case errors.Is(err, ErrConflict):
		return &Error{Kind: ErrConflict, Message: op, Err: err}
	default:
		return &Error{Kind: ErrUnavailable, Message: op, Err: err}
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
