package txn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyCommitted is returned when staging or committing a WriteSet a
// second time.
var ErrAlreadyCommitted = errors.New("write set already committed")

// CommitError reports the action that failed and the ones applied before it.
type CommitError struct {
	Failed  string
	Applied []string
	Cause   error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	if len(e.Applied) == 0 {
		return fmt.Sprintf("action %q failed: %v", e.Failed, e.Cause)
	}

	return fmt.Sprintf("action %q failed after [%s]: %v",
		e.Failed, strings.Join(e.Applied, ", "), e.Cause)
}

// Unwrap returns the cause for errors.Is/As support.
func (e *CommitError) Unwrap() error {
	return e.Cause
}

// Partial reports whether some writes were applied before the failure.
func (e *CommitError) Partial() bool {
	return len(e.Applied) > 0
}
