package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

type CreateAppointmentInput struct {
	Body struct {
		CustomerName   string    `json:"customer_name" minLength:"1" maxLength:"200" doc:"Customer display name"`
		Vehicle        string    `json:"vehicle" minLength:"1" maxLength:"200" doc:"Vehicle description (year make model)"`
		Service        string    `json:"service" minLength:"1" maxLength:"500" doc:"Requested service"`
		EstimatedTotal float64   `json:"estimated_total,omitempty" minimum:"0" doc:"Estimated total in dollars"`
		ScheduledAt    time.Time `json:"scheduled_at" doc:"Scheduled visit time"`
	}
}

type CreateAppointmentOutput struct {
	Body *domain.Appointment
}

type GetAppointmentInput struct {
	ID uuid.UUID `path:"id" doc:"Appointment ID"`
}

type GetAppointmentOutput struct {
	Body *domain.Appointment
}

func RegisterAppointmentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-appointment",
		Method:      http.MethodPost,
		Path:        "/appointments",
		Summary:     "Schedule a new appointment",
		Tags:        []string{"Appointments"},
	}, func(ctx context.Context, input *CreateAppointmentInput) (*CreateAppointmentOutput, error) {
		now := time.Now()
		a := &domain.Appointment{
			ID:             uuid.New(),
			CustomerName:   input.Body.CustomerName,
			Vehicle:        input.Body.Vehicle,
			Service:        input.Body.Service,
			EstimatedTotal: input.Body.EstimatedTotal,
			ScheduledAt:    input.Body.ScheduledAt,
			Status:         domain.StatusScheduled,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := store.Appointments().Create(ctx, a); err != nil {
			return nil, huma.Error500InternalServerError("failed to create appointment", err)
		}

		return &CreateAppointmentOutput{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-appointment",
		Method:      http.MethodGet,
		Path:        "/appointments/{id}",
		Summary:     "Get an appointment by ID",
		Description: "Returns the authoritative record, including the current version for optimistic moves.",
		Tags:        []string{"Appointments"},
	}, func(ctx context.Context, input *GetAppointmentInput) (*GetAppointmentOutput, error) {
		a, err := store.Appointments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("appointment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get appointment", err)
		}

		return &GetAppointmentOutput{Body: a}, nil
	})
}
