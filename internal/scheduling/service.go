package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edgarsautoshop/statusboard/internal/domain"
	redisstore "github.com/edgarsautoshop/statusboard/internal/store/redis"
)

const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 50 * time.Millisecond
)

// Invalidator marks the board read model stale after an accepted move.
// *board.Model satisfies this interface.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Publisher fans move events out to live board subscribers.
// *redis.PubSub satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// MoveEvent is the payload published on the moves channel per accepted move.
type MoveEvent struct {
	AppointmentID uuid.UUID     `json:"appointment_id"`
	Status        domain.Status `json:"status"`
	Version       int64         `json:"version"`
}

// Service owns the move operation: validate the transition, then win or
// lose a single compare-and-swap against the appointment store.
//
// Conflicts are first-class outcomes, not retried: a caller holding a stale
// version must resync before trying again, otherwise N callers racing on the
// same version would each spin forever on the same doomed write. Only
// transient store failures are retried here, bounded with exponential
// backoff, because retrying them cannot change the semantic outcome.
type Service struct {
	appointments domain.AppointmentRepository
	board        Invalidator
	pubsub       Publisher

	maxAttempts int
	baseBackoff time.Duration
}

func NewService(appointments domain.AppointmentRepository, board Invalidator, pubsub Publisher) *Service {
	return &Service{
		appointments: appointments,
		board:        board,
		pubsub:       pubsub,
		maxAttempts:  defaultMaxAttempts,
		baseBackoff:  defaultBaseBackoff,
	}
}

// Move transitions appointment id to target iff the caller's expectedVersion
// still matches the stored version.
//
// Outcomes:
//   - success: the updated record, version exactly expectedVersion+1.
//   - domain.ErrNotFound: no such appointment.
//   - *domain.TransitionError: target unreachable from the current status;
//     no write attempted.
//   - *domain.ConflictError: another writer won this version; carries the
//     authoritative current (status, version) for resync.
//   - domain.ErrUnavailable: the store failed or timed out and the write's
//     outcome is unknown; the caller must re-read before retrying.
func (s *Service) Move(ctx context.Context, id uuid.UUID, target domain.Status, expectedVersion int64) (*domain.Appointment, error) {
	if !target.Known() {
		return nil, fmt.Errorf("moveService.Move: %w", &domain.TransitionError{
			To:     target,
			Reason: domain.ReasonUnknownTransition,
		})
	}

	current, err := s.getCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cheap precondition before touching the row: an illegal transition
	// never reaches the store, so it cannot add write contention.
	if decision := domain.Decide(current.Status, target); !decision.Allowed {
		return nil, fmt.Errorf("moveService.Move: %w", &domain.TransitionError{
			From:   current.Status,
			To:     target,
			Reason: decision.Reason,
		})
	}

	updated, err := s.swap(ctx, id, expectedVersion, target)
	if err != nil {
		return nil, err
	}

	// The move is durable at this point; projection upkeep is best-effort.
	if invErr := s.board.Invalidate(ctx); invErr != nil {
		log.Warn().Err(invErr).Stringer("appointment_id", id).Msg("move: board invalidation failed")
	}
	s.publishMove(ctx, updated)

	return updated, nil
}

func (s *Service) getCurrent(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var lastErr error

	for attempt := range s.maxAttempts {
		if err := s.sleep(ctx, attempt); err != nil {
			return nil, err
		}

		current, err := s.appointments.GetByID(ctx, id)
		if err == nil {
			return current, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("moveService.Move: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("moveService.Move: %w: %v", domain.ErrUnavailable, lastErr)
}

// swap runs the compare-and-swap, retrying only transient store failures.
// NotFound and version conflicts are terminal for the request.
func (s *Service) swap(ctx context.Context, id uuid.UUID, expectedVersion int64, target domain.Status) (*domain.Appointment, error) {
	var lastErr error

	for attempt := range s.maxAttempts {
		if err := s.sleep(ctx, attempt); err != nil {
			return nil, err
		}

		updated, err := s.appointments.CompareAndSwapStatus(ctx, id, expectedVersion, target)
		if err == nil {
			return updated, nil
		}

		var conflict *domain.ConflictError
		if errors.As(err, &conflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("moveService.Move: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("moveService.Move: %w: %v", domain.ErrUnavailable, lastErr)
}

// sleep applies exponential backoff before retry attempts. A context that
// expires while waiting surfaces as Unavailable, never as conflict or
// success: the outcome of any in-flight write is unknown at timeout.
func (s *Service) sleep(ctx context.Context, attempt int) error {
	if attempt == 0 {
		return nil
	}

	backoff := s.baseBackoff << (attempt - 1)
	select {
	case <-ctx.Done():
		return fmt.Errorf("moveService.Move: %w: %v", domain.ErrUnavailable, ctx.Err())
	case <-time.After(backoff):
		return nil
	}
}

func (s *Service) publishMove(ctx context.Context, a *domain.Appointment) {
	if s.pubsub == nil {
		return
	}

	payload, err := json.Marshal(MoveEvent{
		AppointmentID: a.ID,
		Status:        a.Status,
		Version:       a.Version,
	})
	if err != nil {
		return
	}

	if pubErr := s.pubsub.Publish(ctx, redisstore.MovesChannel, payload); pubErr != nil {
		log.Warn().Err(pubErr).Stringer("appointment_id", a.ID).Msg("move: event publish failed")
	}
}
