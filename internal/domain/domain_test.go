package domain_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. Decide — full 5x5 state-machine matrix.
// ---------------------------------------------------------------------------

func TestDecide_Matrix(t *testing.T) {
	t.Parallel()

	allowed := map[domain.Status][]domain.Status{
		domain.StatusScheduled:  {domain.StatusInProgress, domain.StatusCancelled},
		domain.StatusInProgress: {domain.StatusReady, domain.StatusCancelled},
		domain.StatusReady:      {domain.StatusCompleted, domain.StatusInProgress},
	}

	for _, from := range domain.Statuses() {
		for _, to := range domain.Statuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}

			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				t.Parallel()

				got := domain.Decide(from, to)
				assert.Equal(t, want, got.Allowed)
				assert.Equal(t, want, from.ValidTransition(to))
			})
		}
	}
}

func TestDecide_DenyReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from domain.Status
		to   domain.Status
		want domain.DenyReason
	}{
		{domain.StatusCompleted, domain.StatusInProgress, domain.ReasonTerminalState},
		{domain.StatusCompleted, domain.StatusScheduled, domain.ReasonTerminalState},
		{domain.StatusCancelled, domain.StatusScheduled, domain.ReasonTerminalState},
		{domain.StatusCancelled, domain.StatusReady, domain.ReasonTerminalState},
		{domain.StatusScheduled, domain.StatusReady, domain.ReasonUnknownTransition},
		{domain.StatusScheduled, domain.StatusCompleted, domain.ReasonUnknownTransition},
		{domain.StatusInProgress, domain.StatusScheduled, domain.ReasonUnknownTransition},
		{domain.StatusReady, domain.StatusCancelled, domain.ReasonUnknownTransition},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			t.Parallel()

			got := domain.Decide(tt.from, tt.to)
			require.False(t, got.Allowed)
			assert.Equal(t, tt.want, got.Reason)
		})
	}
}

// TestDecide_Deterministic verifies the validator is pure: repeated calls
// with identical inputs always return identical decisions.
func TestDecide_Deterministic(t *testing.T) {
	t.Parallel()

	for _, from := range domain.Statuses() {
		for _, to := range domain.Statuses() {
			first := domain.Decide(from, to)
			for range 100 {
				assert.Equal(t, first, domain.Decide(from, to))
			}
		}
	}
}

// TestDecide_UnknownStatus verifies an unrecognised status never transitions
// anywhere, in either position.
func TestDecide_UnknownStatus(t *testing.T) {
	t.Parallel()

	unknown := domain.Status("waitlisted")
	for _, s := range domain.Statuses() {
		t.Run("waitlisted->"+string(s), func(t *testing.T) {
			t.Parallel()

			got := domain.Decide(unknown, s)
			assert.False(t, got.Allowed)
			assert.Equal(t, domain.ReasonUnknownTransition, got.Reason)
		})
		t.Run(string(s)+"->waitlisted", func(t *testing.T) {
			t.Parallel()

			assert.False(t, domain.Decide(s, unknown).Allowed)
		})
	}
}

// ---------------------------------------------------------------------------
// 2. Status helpers.
// ---------------------------------------------------------------------------

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status domain.Status
		want   bool
	}{
		{domain.StatusScheduled, false},
		{domain.StatusInProgress, false},
		{domain.StatusReady, false},
		{domain.StatusCompleted, true},
		{domain.StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.Terminal())
		})
	}
}

func TestStatus_Known(t *testing.T) {
	t.Parallel()

	for _, s := range domain.Statuses() {
		assert.True(t, s.Known(), s)
	}
	assert.False(t, domain.Status("waitlisted").Known())
	assert.False(t, domain.Status("").Known())
}

func TestStatusConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  domain.Status
		want string
	}{
		{"scheduled", domain.StatusScheduled, "scheduled"},
		{"in_progress", domain.StatusInProgress, "in_progress"},
		{"ready", domain.StatusReady, "ready"},
		{"completed", domain.StatusCompleted, "completed"},
		{"cancelled", domain.StatusCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, string(tt.got))
		})
	}
}

// ---------------------------------------------------------------------------
// 3. Errors — identity, wrapping, and carried state.
// ---------------------------------------------------------------------------

func TestSentinelErrors_WrappingPreservesIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", domain.ErrNotFound},
		{"ErrUnavailable", domain.ErrUnavailable},
		{"ErrUnauthorized", domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("outer: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestConflictError_CarriesCurrentState(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var err error = fmt.Errorf("moveService: %w", &domain.ConflictError{
		AppointmentID:  id,
		CurrentStatus:  domain.StatusInProgress,
		CurrentVersion: 7,
	})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, id, conflict.AppointmentID)
	assert.Equal(t, domain.StatusInProgress, conflict.CurrentStatus)
	assert.Equal(t, int64(7), conflict.CurrentVersion)
	assert.Contains(t, conflict.Error(), "version conflict")
}

func TestTransitionError_CarriesReason(t *testing.T) {
	t.Parallel()

	var err error = fmt.Errorf("moveService: %w", &domain.TransitionError{
		From:   domain.StatusCompleted,
		To:     domain.StatusInProgress,
		Reason: domain.ReasonTerminalState,
	})

	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.ReasonTerminalState, te.Reason)
	assert.Contains(t, te.Error(), "completed -> in_progress")
}
