package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/email"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

// Outbox event types emitted on appointment lifecycle transitions.
const (
	EventAppointmentCreated  = "APPOINTMENT_CREATED"
	EventAppointmentUpdated  = "APPOINTMENT_UPDATED"
	EventAppointmentCanceled = "APPOINTMENT_CANCELED"
)

// dateTimeLayouts are the accepted wire formats for dateTime, tried in order.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type Service struct {
	repo     repository.AppointmentRepository
	users    repository.UserRepository
	outbox   repository.OutboxRepository
	emails   email.Service
	validate *validator.Validator
	logger   *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	emails email.Service,
	validate *validator.Validator,
	l *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		outbox:   outbox,
		emails:   emails,
		validate: validate,
		logger:   l,
	}
}

// Create books an appointment. The conflict check and the insert run
// under the doctor's lock in the repository, so two overlapping requests
// for the same doctor cannot both pass the check.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	msgs := s.validate.Struct(req)

	var at time.Time
	if req.DateTime != "" {
		var err error
		at, err = parseDateTime(req.DateTime)
		if err != nil {
			msgs = append(msgs, "Invalid dateTime format")
		}
	}
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid userId")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid doctorId")
	}

	patient, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("User not found")
		}
		return nil, apperrors.Internal(err)
	}

	doctor, err := s.users.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("Doctor not found")
		}
		return nil, apperrors.Internal(err)
	}
	if doctor.Role != model.UserRoleDoctor {
		return nil, apperrors.BadRequest("Selected user is not a doctor")
	}

	now := time.Now().UTC()
	apt := &model.Appointment{
		ID:            uuid.New(),
		UserID:        userID,
		DoctorID:      doctorID,
		DateTime:      at.UTC(),
		Duration:      model.DefaultAppointmentDuration,
		Status:        model.AppointmentStatusScheduled,
		Type:          model.AppointmentTypeGeneral,
		PaymentStatus: model.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Duration != nil {
		apt.Duration = *req.Duration
	}
	if req.Status != "" {
		apt.Status = model.AppointmentStatus(req.Status)
	}
	if req.Type != "" {
		apt.Type = model.AppointmentType(req.Type)
	}
	if req.PaymentStatus != "" {
		apt.PaymentStatus = model.PaymentStatus(req.PaymentStatus)
	}

	err = s.repo.CreateWithDoctorLock(ctx, apt, func(existing []*model.Appointment) error {
		if hasConflict(existing, apt.DateTime, apt.Duration) {
			return apperrors.SchedulingConflict()
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal(err)
	}

	s.emitEvent(ctx, EventAppointmentCreated, apt)
	if err := s.emails.SendBookingConfirmation(ctx, patient.Email, apt); err != nil {
		s.logger.Error(err, "failed to send booking confirmation", "appointment_id", apt.ID)
	}

	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment")
		}
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

// Update applies a partial patch. Changing dateTime or duration does not
// re-run the conflict check; reschedules go through Create semantics only
// when the client books a fresh appointment.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	msgs := s.validate.Struct(req)

	var at time.Time
	if req.DateTime != nil {
		var err error
		at, err = parseDateTime(*req.DateTime)
		if err != nil {
			msgs = append(msgs, "Invalid dateTime format")
		}
	}
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DateTime != nil {
		apt.DateTime = at.UTC()
	}
	if req.Duration != nil {
		apt.Duration = *req.Duration
	}
	if req.Status != nil {
		apt.Status = model.AppointmentStatus(*req.Status)
	}
	if req.Type != nil {
		apt.Type = model.AppointmentType(*req.Type)
	}
	if req.PaymentStatus != nil {
		apt.PaymentStatus = model.PaymentStatus(*req.PaymentStatus)
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment")
		}
		return nil, apperrors.Internal(err)
	}

	s.emitEvent(ctx, EventAppointmentUpdated, apt)
	return apt, nil
}

// Cancel transitions the appointment to canceled. Canceling an already
// canceled appointment is an error, not a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCanceled {
		return nil, apperrors.AlreadyCanceled()
	}

	apt.Status = model.AppointmentStatusCanceled
	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment")
		}
		return nil, apperrors.Internal(err)
	}

	s.emitEvent(ctx, EventAppointmentCanceled, apt)
	if patient, err := s.users.Get(ctx, apt.UserID); err == nil {
		if err := s.emails.SendCancellation(ctx, patient.Email, apt); err != nil {
			s.logger.Error(err, "failed to send cancellation notice", "appointment_id", apt.ID)
		}
	}

	return apt, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// hasConflict reports whether any live appointment starts within the
// candidate's duration of the candidate's start. The window comes from
// the candidate alone; existing appointments' durations are not read.
func hasConflict(existing []*model.Appointment, at time.Time, durationMinutes int) bool {
	window := time.Duration(durationMinutes) * time.Minute
	for _, apt := range existing {
		if apt.Status == model.AppointmentStatusCanceled {
			continue
		}
		diff := apt.DateTime.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff < window {
			return true
		}
	}
	return false
}

func parseDateTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// emitEvent records the transition in the outbox. Failures are logged
// and do not fail the request; the write already committed.
func (s *Service) emitEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}
