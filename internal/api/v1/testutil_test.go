package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/board"
	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	appointments domain.AppointmentRepository
}

func (m *mockDataStore) Appointments() domain.AppointmentRepository { return m.appointments }

// ---------------------------------------------------------------------------
// Mock AppointmentRepository
// ---------------------------------------------------------------------------

type mockAppointmentRepo struct {
	createFunc  func(ctx context.Context, a *domain.Appointment) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	listFunc    func(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error)
	casFunc     func(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	return m.createFunc(ctx, a)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockAppointmentRepo) List(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error) {
	return m.listFunc(ctx, f)
}

func (m *mockAppointmentRepo) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error) {
	return m.casFunc(ctx, id, expectedVersion, status)
}

// ---------------------------------------------------------------------------
// Mock Mover
// ---------------------------------------------------------------------------

type mockMover struct {
	moveFunc func(ctx context.Context, id uuid.UUID, target domain.Status, expectedVersion int64) (*domain.Appointment, error)
}

func (m *mockMover) Move(ctx context.Context, id uuid.UUID, target domain.Status, expectedVersion int64) (*domain.Appointment, error) {
	return m.moveFunc(ctx, id, target, expectedVersion)
}

// ---------------------------------------------------------------------------
// Mock BoardReader
// ---------------------------------------------------------------------------

type mockBoardReader struct {
	queryFunc func(ctx context.Context, f domain.BoardFilter) (*board.Snapshot, error)
}

func (m *mockBoardReader) Query(ctx context.Context, f domain.BoardFilter) (*board.Snapshot, error) {
	return m.queryFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func testAppointment(status domain.Status, version int64) *domain.Appointment {
	now := time.Now().Truncate(time.Second)
	return &domain.Appointment{
		ID:             uuid.New(),
		CustomerName:   "Priya Raman",
		Vehicle:        "2021 Honda Civic",
		Service:        "Timing belt replacement",
		EstimatedTotal: 890,
		ScheduledAt:    now.Add(time.Hour),
		Status:         status,
		Version:        version,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
