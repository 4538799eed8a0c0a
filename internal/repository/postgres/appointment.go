package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
)

const appointmentColumns = `
	id, user_id, doctor_id, date_time, duration,
	status, type, payment_status, created_at, updated_at
`

// CreateWithDoctorLock serializes bookings per doctor: the advisory lock
// closes the race where two requests both read "no conflict" before
// either writes.
func (r *appointmentRepository) CreateWithDoctorLock(ctx context.Context, apt *model.Appointment, check func(existing []*model.Appointment) error) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
			apt.DoctorID,
		); err != nil {
			return fmt.Errorf("failed to acquire doctor lock: %w", err)
		}

		existingQuery := `
			SELECT ` + appointmentColumns + `
			FROM appointments
			WHERE doctor_id = $1 AND status != 'canceled'
			ORDER BY date_time ASC
		`
		var existing []*model.Appointment
		if err := tx.SelectContext(ctx, &existing, existingQuery, apt.DoctorID); err != nil {
			return fmt.Errorf("failed to load doctor appointments: %w", err)
		}

		if err := check(existing); err != nil {
			return err
		}

		insertQuery := `
			INSERT INTO appointments (` + appointmentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			apt.ID,
			apt.UserID,
			apt.DoctorID,
			apt.DateTime,
			apt.Duration,
			apt.Status,
			apt.Type,
			apt.PaymentStatus,
			apt.CreatedAt,
			apt.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`

	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date_time = $1, duration = $2, status = $3, type = $4,
			payment_status = $5, updated_at = $6
		WHERE id = $7
	`

	apt.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		apt.DateTime,
		apt.Duration,
		apt.Status,
		apt.Type,
		apt.PaymentStatus,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE user_id = $1
		ORDER BY date_time ASC
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY date_time ASC
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}
