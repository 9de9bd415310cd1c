package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// mockAppointmentRepo implements domain.AppointmentRepository with
// configurable function fields for error-path testing.
type mockAppointmentRepo struct {
	createFn  func(ctx context.Context, a *domain.Appointment) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	listFn    func(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error)
	casFn     func(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error)

	mu       sync.Mutex
	casCalls int
	getCalls int
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	return m.createFn(ctx, a)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	m.mu.Lock()
	m.getCalls++
	m.mu.Unlock()
	return m.getByIDFn(ctx, id)
}

func (m *mockAppointmentRepo) List(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error) {
	return m.listFn(ctx, f)
}

func (m *mockAppointmentRepo) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error) {
	m.mu.Lock()
	m.casCalls++
	m.mu.Unlock()
	return m.casFn(ctx, id, expectedVersion, status)
}

func (m *mockAppointmentRepo) casCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.casCalls
}

// memRepo is an in-memory repository with real compare-and-swap semantics,
// used for concurrency and sequencing tests.
type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Appointment
}

func newMemRepo(seed ...*domain.Appointment) *memRepo {
	rows := make(map[uuid.UUID]*domain.Appointment, len(seed))
	for _, a := range seed {
		cp := *a
		rows[a.ID] = &cp
	}
	return &memRepo{rows: rows}
}

func (m *memRepo) Create(_ context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("memRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, _ domain.BoardFilter) ([]*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Appointment, 0, len(m.rows))
	for _, a := range m.rows {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) CompareAndSwapStatus(_ context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("memRepo.CompareAndSwapStatus: %w", domain.ErrNotFound)
	}
	if a.Version != expectedVersion {
		return nil, fmt.Errorf("memRepo.CompareAndSwapStatus: %w", &domain.ConflictError{
			AppointmentID:  a.ID,
			CurrentStatus:  a.Status,
			CurrentVersion: a.Version,
		})
	}

	a.Status = status
	a.Version++
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

// mockInvalidator counts board invalidations.
type mockInvalidator struct {
	invalidateFn func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	return nil
}

func (m *mockInvalidator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPublisher records published payloads per channel.
type mockPublisher struct {
	publishFn func(ctx context.Context, channel string, payload []byte) error

	mu       sync.Mutex
	payloads [][]byte
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, channel, payload)
	}
	return nil
}

func (m *mockPublisher) published() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payloads
}

// newTestService builds a Service with a short backoff so retry tests
// finish quickly.
func newTestService(repo domain.AppointmentRepository, inv Invalidator, pub Publisher) *Service {
	s := NewService(repo, inv, pub)
	s.baseBackoff = time.Millisecond
	return s
}

// scheduledAppointment returns a fresh appointment in the initial state.
func scheduledAppointment() *domain.Appointment {
	now := time.Now()
	return &domain.Appointment{
		ID:             uuid.New(),
		CustomerName:   "Dana Whitfield",
		Vehicle:        "2019 Subaru Outback",
		Service:        "Brake pad replacement",
		EstimatedTotal: 420.50,
		ScheduledAt:    now.Add(2 * time.Hour),
		Status:         domain.StatusScheduled,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
