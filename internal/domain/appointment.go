package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every appointment status in board column order.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusInProgress, StatusReady, StatusCompleted, StatusCancelled}
}

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusReady, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DenyReason explains why a status transition was refused.
type DenyReason string

const (
	ReasonUnknownTransition DenyReason = "unknown_transition"
	ReasonTerminalState     DenyReason = "terminal_state"
)

// transitions is the full edge set of the appointment state machine.
// scheduled -> in_progress | cancelled
// in_progress -> ready | cancelled
// ready -> completed | in_progress (reopen)
// completed, cancelled are terminal.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusInProgress},
}

// Decision is the outcome of validating a single-hop transition.
type Decision struct {
	Allowed bool
	Reason  DenyReason // set only when Allowed is false
}

// Decide reports whether from -> to is a legal single-hop transition.
// Pure and deterministic: no I/O, no stored state consulted.
func Decide(from, to Status) Decision {
	if from.Terminal() {
		return Decision{Reason: ReasonTerminalState}
	}
	for _, next := range transitions[from] {
		if next == to {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: ReasonUnknownTransition}
}

// ValidTransition checks if an appointment status transition is allowed.
func (s Status) ValidTransition(to Status) bool {
	return Decide(s, to).Allowed
}

// Appointment is the scheduling aggregate. The (Status, Version) pair is
// owned exclusively by the appointment store and mutated only through
// CompareAndSwapStatus; Version increments by exactly 1 per accepted
// transition, starting at 1 on creation.
type Appointment struct {
	ID             uuid.UUID `json:"id"`
	CustomerName   string    `json:"customer_name"`
	Vehicle        string    `json:"vehicle"`
	Service        string    `json:"service"`
	EstimatedTotal float64   `json:"estimated_total"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Status         Status    `json:"status"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BoardFilter narrows board reads to a scheduling window.
// Zero times mean unbounded on that side.
type BoardFilter struct {
	From time.Time
	To   time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, f BoardFilter) ([]*Appointment, error)

	// CompareAndSwapStatus persists status and version+1 iff the stored
	// version equals expectedVersion, as a single atomic write. On a version
	// mismatch it returns a *ConflictError carrying the authoritative current
	// record so callers can resync without another read.
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status Status) (*Appointment, error)
}
