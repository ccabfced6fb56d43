package words

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a record (or an external dictionary entry) does
// not exist. Callers treat it as a normal branch, not a failure.
var ErrNotFound = errors.New("not found")

// TransportError wraps a network or HTTP failure talking to the store or the
// lookup service. Status is the HTTP status code when one was received.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return e.Op + ": transport failure"
}

func (e *TransportError) Unwrap() error { return e.Err }
