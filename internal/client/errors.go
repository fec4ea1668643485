package client

import (
	"errors"
	"fmt"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// Sentinel errors for the failure classes callers are expected to branch on.
var (
	// ErrExistingName reports a pipeline_create against a name that is
	// already registered.
	ErrExistingName = errors.New("pipeline name already exists")
	// ErrBadDescription reports a pipeline description the daemon could
	// not parse.
	ErrBadDescription = errors.New("bad pipeline description")
	// ErrNoPipeline reports a command against a name that was never
	// created or was already deleted.
	ErrNoPipeline = errors.New("pipeline does not exist")
)

// TransportError wraps a failure to reach the daemon or to complete the
// round trip. The command may or may not have been executed remotely.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a nonzero status code with no dedicated sentinel.
type RemoteError struct {
	Verb        string
	Code        protocol.Status
	Description string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Verb, e.Code)
}

// statusError maps a daemon status code onto the error taxonomy. StatusOK
// maps to nil.
func statusError(verb string, code protocol.Status, subject string) error {
	switch code {
	case protocol.StatusOK:
		return nil
	case protocol.StatusExistingName, protocol.StatusExistingResource:
		return fmt.Errorf("%s %q: %w", verb, subject, ErrExistingName)
	case protocol.StatusBadDescription:
		return fmt.Errorf("%s %q: %w", verb, subject, ErrBadDescription)
	case protocol.StatusNoPipeline:
		return fmt.Errorf("%s %q: %w", verb, subject, ErrNoPipeline)
	default:
		return &RemoteError{Verb: verb, Code: code, Description: code.Description()}
	}
}
