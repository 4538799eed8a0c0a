package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
)

const slotColumns = `
	doctor_id, date, start_time, end_time, session_duration,
	slots, created_at, updated_at
`

// Upsert replaces the whole slot document for a doctor/date, discarding
// any prior booking state for that day.
func (r *slotRepository) Upsert(ctx context.Context, day *model.SlotDay) error {
	query := `
		INSERT INTO slot_days (` + slotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (doctor_id, date) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			session_duration = EXCLUDED.session_duration,
			slots = EXCLUDED.slots,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query,
		day.DoctorID,
		day.Date,
		day.StartTime,
		day.EndTime,
		day.SessionDuration,
		day.Slots,
		day.CreatedAt,
		day.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert slot day: %w", err)
	}
	return nil
}

func (r *slotRepository) Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.SlotDay, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slot_days
		WHERE doctor_id = $1 AND date = $2
	`

	var day model.SlotDay
	if err := r.db.GetContext(ctx, &day, query, doctorID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot day: %w", err)
	}
	return &day, nil
}

func (r *slotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotDay, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slot_days
		WHERE doctor_id = $1
		ORDER BY date ASC
	`

	var days []*model.SlotDay
	if err := r.db.SelectContext(ctx, &days, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list slot days: %w", err)
	}
	return days, nil
}

// UpdateSlots writes the slot sequence guarded by the updated_at value
// the caller read, so a concurrent writer loses instead of being
// silently overwritten.
func (r *slotRepository) UpdateSlots(ctx context.Context, day *model.SlotDay) error {
	query := `
		UPDATE slot_days
		SET slots = $1, updated_at = $2
		WHERE doctor_id = $3 AND date = $4 AND updated_at = $5
	`

	previous := day.UpdatedAt
	day.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		day.Slots,
		day.UpdatedAt,
		day.DoctorID,
		day.Date,
		previous,
	)
	if err != nil {
		return fmt.Errorf("failed to update slots: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrStaleDocument
	}

	return nil
}
