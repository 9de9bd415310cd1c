package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrUnavailable  = errors.New("domain: store unavailable")
	ErrUnauthorized = errors.New("domain: unauthorized")
)

// ConflictError is returned when a compare-and-swap loses the race: the
// stored version no longer matches the caller's expected version. It carries
// the authoritative current state so the caller can re-render and retry with
// a fresh version instead of resending a stale one.
type ConflictError struct {
	AppointmentID  uuid.UUID
	CurrentStatus  Status
	CurrentVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("domain: version conflict on appointment %s: current status=%s version=%d",
		e.AppointmentID, e.CurrentStatus, e.CurrentVersion)
}

// TransitionError is returned when the requested status change is not an
// edge of the state machine. No write is attempted.
type TransitionError struct {
	From   Status
	To     Status
	Reason DenyReason
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("domain: invalid transition %s -> %s (%s)", e.From, e.To, e.Reason)
}
