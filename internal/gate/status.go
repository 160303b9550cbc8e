// Package gate owns the manager session: lifecycle ordering, the
// connect/login state machine, and the façade that translates every remote
// outcome into the local status taxonomy. No remote fault crosses this
// package boundary; callers see a numeric status plus LastError text.
package gate

import "errors"

// Status is the numeric result code of a gateway operation. The values match
// the host-side ABI and must not be renumbered.
type Status int

const (
	OK                       Status = 0
	StatusNotInitialized     Status = -1
	StatusAlreadyInitialized Status = -2
	StatusConnectionFailed   Status = -3
	StatusLoginFailed        Status = -4
	StatusNotConnected       Status = -5
	StatusInvalidParameter   Status = -6
	StatusBufferTooSmall     Status = -7
	StatusInternal           Status = -99
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case StatusNotInitialized:
		return "not initialized"
	case StatusAlreadyInitialized:
		return "already initialized"
	case StatusConnectionFailed:
		return "connection failed"
	case StatusLoginFailed:
		return "login failed"
	case StatusNotConnected:
		return "not connected"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusBufferTooSmall:
		return "buffer too small"
	default:
		return "internal error"
	}
}

// Error is a typed gateway failure: a status code plus the human-readable
// text that LastError exposes.
type Error struct {
	Status Status
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Status.String()
}

// StatusOf maps any error to its status code. Non-gateway errors count as
// internal faults.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Status
	}
	return StatusInternal
}
