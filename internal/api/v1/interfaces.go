package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/board"
	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Appointments() domain.AppointmentRepository
}

// Mover abstracts the move operation for handler testing.
// *scheduling.Service satisfies this interface.
type Mover interface {
	Move(ctx context.Context, id uuid.UUID, target domain.Status, expectedVersion int64) (*domain.Appointment, error)
}

// BoardReader abstracts the board read model for handler testing.
// *board.Model satisfies this interface.
type BoardReader interface {
	Query(ctx context.Context, f domain.BoardFilter) (*board.Snapshot, error)
}
