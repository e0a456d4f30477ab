package p6

import (
	"errors"
	"fmt"
	"p6export/soap"
)

// RemoteReadError reports a failed read of one entity type. Nothing from the
// failed read is returned alongside it.
type RemoteReadError struct {
	Entity Kind
	Err    error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Entity, e.Err)
}

func (e *RemoteReadError) Unwrap() error {
	return e.Err
}

// Retryable reports a transient transport condition. The reader itself never
// retries.
func (e *RemoteReadError) Retryable() bool {
	return soap.IsRetryable(e.Err)
}

// AuthRejected reports that the service refused the credentials.
func (e *RemoteReadError) AuthRejected() bool {
	return soap.IsAuthFailure(e.Err)
}

// FailedEntity returns the entity kind of the first RemoteReadError in err.
func FailedEntity(err error) (Kind, bool) {
	var readErr *RemoteReadError
	if errors.As(err, &readErr) {
		return readErr.Entity, true
	}
	return "", false
}
