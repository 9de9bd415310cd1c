package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/domain"
	"github.com/edgarsautoshop/statusboard/internal/scheduling"
)

type MoveAppointmentInput struct {
	ID   uuid.UUID `path:"id" doc:"Appointment ID"`
	Body struct {
		Status          string `json:"status" minLength:"1" doc:"Target status"`
		ExpectedVersion int64  `json:"expected_version" minimum:"1" doc:"Version the caller last observed"`
	}
}

type MoveAppointmentOutput struct {
	Body *domain.Appointment
}

// RegisterMoveRoutes wires the status board move operation.
//
// A 409 always carries the authoritative current status and version in its
// error details, so the client can re-render the card or retry with the
// corrected version in one round trip. The service never resolves conflicts
// by retrying internally; resync is the caller's responsibility.
func RegisterMoveRoutes(api huma.API, mover Mover) {
	huma.Register(api, huma.Operation{
		OperationID: "move-appointment",
		Method:      http.MethodPatch,
		Path:        "/appointments/{id}/status",
		Summary:     "Move an appointment to a new status",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *MoveAppointmentInput) (*MoveAppointmentOutput, error) {
		target := domain.Status(input.Body.Status)

		updated, err := mover.Move(ctx, input.ID, target, input.Body.ExpectedVersion)
		if err != nil {
			return nil, moveError(err)
		}

		return &MoveAppointmentOutput{Body: updated}, nil
	})
}

// moveError maps move outcomes onto HTTP statuses:
// 404 unknown appointment, 409 version conflict, 422 illegal transition,
// 503 store unavailable.
func moveError(err error) error {
	if report, ok := scheduling.ReportConflict(err); ok {
		return huma.Error409Conflict("appointment was modified by another request",
			&huma.ErrorDetail{Message: "current_status", Location: "appointment.status", Value: report.CurrentStatus},
			&huma.ErrorDetail{Message: "current_version", Location: "appointment.version", Value: report.CurrentVersion},
		)
	}

	var transition *domain.TransitionError
	if errors.As(err, &transition) {
		return huma.Error422UnprocessableEntity("invalid status transition",
			&huma.ErrorDetail{Message: string(transition.Reason), Location: "body.status", Value: transition.To},
		)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound("appointment not found")
	}

	if errors.Is(err, domain.ErrUnavailable) {
		return huma.Error503ServiceUnavailable("appointment store unavailable, re-read before retrying")
	}

	return huma.Error500InternalServerError("failed to move appointment", err)
}
