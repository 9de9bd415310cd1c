package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

const appointmentColumns = `id, customer_name, vehicle, service, estimated_total, scheduled_at, status, version, created_at, updated_at`

type AppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepo(pool *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{pool: pool}
}

func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.CustomerName, a.Vehicle, a.Service, a.EstimatedTotal,
		a.ScheduledAt, a.Status, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointmentRepo.Create: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var a domain.Appointment

	err := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`,
		id,
	).Scan(
		&a.ID, &a.CustomerName, &a.Vehicle, &a.Service, &a.EstimatedTotal,
		&a.ScheduledAt, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointmentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("appointmentRepo.GetByID: %w", err)
	}

	return &a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE ($1::timestamptz IS NULL OR scheduled_at >= $1)
		   AND ($2::timestamptz IS NULL OR scheduled_at < $2)
		 ORDER BY scheduled_at, created_at
		 LIMIT 1000`,
		nullableTime(f.From), nullableTime(f.To),
	)
	if err != nil {
		return nil, fmt.Errorf("appointmentRepo.List: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows, "appointmentRepo.List")
}

// CompareAndSwapStatus is the single serialization point for status moves.
// The conditional UPDATE keyed on (id, version) executes as one atomic
// statement; it is never split into read-then-write from the application.
func (r *AppointmentRepo) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.Status) (*domain.Appointment, error) {
	var a domain.Appointment

	err := r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET status = $1, version = version + 1, updated_at = now()
		 WHERE id = $2 AND version = $3
		 RETURNING `+appointmentColumns,
		status, id, expectedVersion,
	).Scan(
		&a.ID, &a.CustomerName, &a.Vehicle, &a.Service, &a.EstimatedTotal,
		&a.ScheduledAt, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the row is gone or the version moved. Re-read to tell the
		// two apart and to hand the caller the authoritative record.
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, fmt.Errorf("appointmentRepo.CompareAndSwapStatus: %w", getErr)
		}
		return nil, fmt.Errorf("appointmentRepo.CompareAndSwapStatus: %w", &domain.ConflictError{
			AppointmentID:  current.ID,
			CurrentStatus:  current.Status,
			CurrentVersion: current.Version,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("appointmentRepo.CompareAndSwapStatus: %w", err)
	}

	return &a, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanAppointments(rows pgx.Rows, caller string) ([]*domain.Appointment, error) {
	var appts []*domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.CustomerName, &a.Vehicle, &a.Service, &a.EstimatedTotal,
			&a.ScheduledAt, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		appts = append(appts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return appts, nil
}
