package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
		PhoneExists(ctx context.Context, phone string, excludeID *uuid.UUID) (bool, error)
		ListSpecializations(ctx context.Context) ([]string, error)
	}

	AppointmentRepository interface {
		// CreateWithDoctorLock inserts the appointment inside a
		// transaction holding a per-doctor advisory lock. check receives
		// the doctor's non-canceled appointments as seen by that
		// transaction; returning an error aborts the insert.
		CreateWithDoctorLock(ctx context.Context, apt *model.Appointment, check func(existing []*model.Appointment) error) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	}

	SlotRepository interface {
		Upsert(ctx context.Context, day *model.SlotDay) error
		Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.SlotDay, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotDay, error)
		// UpdateSlots replaces the slot sequence only if the document has
		// not changed since it was read (compare-and-swap on updated_at).
		UpdateSlots(ctx context.Context, day *model.SlotDay) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// GetPendingEventsWithLock atomically claims up to limit pending
		// events (they leave PENDING before the call returns), so two
		// pollers never receive the same event.
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
	}
)

// ErrNotFound reports row absence without leaking database/sql to services.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "record not found" }

// ErrStaleDocument reports a lost compare-and-swap on a slot document.
var ErrStaleDocument = errStaleDocument{}

type errStaleDocument struct{}

func (errStaleDocument) Error() string { return "document was modified concurrently" }
