package repositories

import "fmt"

// Error implements RepositoryError for in-process repository backends.
type Error struct {
	op          string
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.op
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsNotFound reports whether the error represents a missing record.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsConflict reports whether the error represents a conflicting update.
func (e *Error) IsConflict() bool {
	return e != nil && e.conflict
}

// IsUnavailable reports whether the error represents a backend outage.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

// NewNotFound constructs a not-found repository error for the given operation.
func NewNotFound(op string) *Error {
	return &Error{op: op, notFound: true}
}

// NewConflict constructs a conflict repository error for the given operation.
func NewConflict(op string) *Error {
	return &Error{op: op, conflict: true}
}

// NewUnavailable wraps a backend failure as an unavailable repository error.
func NewUnavailable(op string, err error) *Error {
	return &Error{op: op, err: err, unavailable: true}
}
