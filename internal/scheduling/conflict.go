package scheduling

import (
	"errors"

	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// ConflictReport is the client-facing shape of a lost compare-and-swap.
// It always carries enough state to recover in one round trip: re-render the
// card at its true position, or re-attempt the move with CurrentVersion.
type ConflictReport struct {
	AppointmentID  uuid.UUID     `json:"appointment_id"`
	CurrentStatus  domain.Status `json:"current_status"`
	CurrentVersion int64         `json:"current_version"`
}

// ReportConflict extracts a ConflictReport from an error chain.
// Returns false when err is not a version conflict.
func ReportConflict(err error) (*ConflictReport, bool) {
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		return nil, false
	}

	return &ConflictReport{
		AppointmentID:  conflict.AppointmentID,
		CurrentStatus:  conflict.CurrentStatus,
		CurrentVersion: conflict.CurrentVersion,
	}, true
}
