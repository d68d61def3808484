package paged

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoData is the signal a Source gives when nothing exists at or after the
// requested offset. Returning zero rows means the same.
var ErrNoData = errors.New("no data at offset")

// ErrReadOnly is returned by InsertRow when the source can not take new rows.
var ErrReadOnly = errors.New("source does not support row insertion")

// ErrDuplicateRow is returned by InsertRow when the key is already present.
var ErrDuplicateRow = errors.New("row already present")

// InvariantViolation is the panic value raised when a source or a caller breaks
// the page ordering contract. It is never returned as an error.
type InvariantViolation string

func (v InvariantViolation) Error() string {
	return "paged: invariant violation: " + string(v)
}

func violation(format string, args ...interface{}) {
	panic(InvariantViolation(fmt.Sprintf(format, args...)))
}
