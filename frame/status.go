/*
NAME
  status.go

DESCRIPTION
  status.go provides the common return-code/error model used across the
  scaler, encoder, tiler, stream and tracker packages, per §7 of the design:
  the core never panics across an exported API boundary, and device-fatal
  conditions surface as a plain Status rather than a language exception.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import "fmt"

// Status is the common return code shared by the Encoder and Sink contracts.
type Status int

const (
	StatusSuccess Status = 0
	StatusFailed  Status = -1
	StatusState   Status = -2
	StatusParams  Status = -3
	StatusTimeout Status = -4
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusState:
		return "state"
	case StatusParams:
		return "parameters"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown status"
	}
}

// Error pairs a Status with an optional wrapped cause, so callers may use
// errors.Is/errors.As while legacy call sites can still switch on the
// numeric Status.
type Error struct {
	Status Status
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError returns an *Error, wrapping err (which may be nil).
func NewError(op string, status Status, err error) *Error {
	return &Error{Op: op, Status: status, Err: err}
}
