package engine

import "errors"

// Error is a failed engine call. Op names the call, Status carries the
// engine's code so callers can tell a busy channel from a declined
// request or an invalid signature.
type Error struct {
	Op     string
	Status StatusCode
}

func NewError(op string, status StatusCode) *Error {
	return &Error{
		Op:     op,
		Status: status,
	}
}

func (e *Error) Error() string {
	return e.Op + " failed (" + e.Status.String() + ")"
}

// StatusOf extracts the engine status code from err, unwrapping as
// needed. The second return is false when err carries no engine status.
func StatusOf(err error) (StatusCode, bool) {
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Status, true
	}
	return StatusOK, false
}
