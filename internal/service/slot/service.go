package slot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

// casRetries bounds how often a lost compare-and-swap on the slot
// document is retried before giving up.
const casRetries = 3

type Service struct {
	repo     repository.SlotRepository
	users    repository.UserRepository
	validate *validator.Validator
}

func NewService(repo repository.SlotRepository, users repository.UserRepository, validate *validator.Validator) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		validate: validate,
	}
}

// Generate builds the slot sequence for a doctor's day and stores it,
// replacing any existing document for that doctor and date. Booking
// state from a previous generation is discarded.
func (s *Service) Generate(ctx context.Context, req *model.CreateSlotsRequest) (*model.SlotDay, error) {
	msgs := s.validate.Struct(req)
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	startMin, err := model.MinutesOfDay(req.StartTime)
	if err != nil {
		return nil, apperrors.Validation([]string{"Invalid startTime time format. Use 24-hour format (HH:mm)"})
	}
	endMin, err := model.MinutesOfDay(req.EndTime)
	if err != nil {
		return nil, apperrors.Validation([]string{"Invalid endTime time format. Use 24-hour format (HH:mm)"})
	}
	if startMin >= endMin {
		return nil, apperrors.Validation([]string{"endTime must be after startTime"})
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid doctorId")
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

	day := &model.SlotDay{
		DoctorID:        doctorID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SessionDuration: req.SessionDuration,
		Slots:           generate(startMin, endMin, req.SessionDuration),
	}

	if err := s.repo.Upsert(ctx, day); err != nil {
		return nil, apperrors.Internal(err)
	}
	return day, nil
}

func (s *Service) Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.SlotDay, error) {
	day, err := s.repo.Get(ctx, doctorID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Slots")
		}
		return nil, apperrors.Internal(err)
	}
	return day, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotDay, error) {
	days, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return days, nil
}

// UpdateBooking sets the isBooked flag of exactly one slot, matched by
// its exact HH:mm string. The write is a compare-and-swap on the
// document; a concurrent writer triggers a re-read and retry, so only
// the targeted entry ever changes.
func (s *Service) UpdateBooking(ctx context.Context, doctorID uuid.UUID, date string, req *model.UpdateSlotBookingRequest) (*model.SlotDay, error) {
	msgs := s.validate.Struct(req)
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	booked := false
	if req.IsBooked != nil {
		booked = *req.IsBooked
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		day, err := s.Get(ctx, doctorID, date)
		if err != nil {
			return nil, err
		}

		idx := -1
		for i, slot := range day.Slots {
			if slot.Time == req.Time {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, apperrors.InvalidSlotTime()
		}

		day.Slots[idx].IsBooked = booked

		err = s.repo.UpdateSlots(ctx, day)
		if err == nil {
			return day, nil
		}
		if !errors.Is(err, repository.ErrStaleDocument) {
			return nil, apperrors.Internal(err)
		}
		select {
		case <-ctx.Done():
			return nil, apperrors.Internal(ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}

	return nil, apperrors.Internal(repository.ErrStaleDocument)
}

// generate emits a slot at every sessionDuration stride from startMin,
// keeping only starts strictly before endMin. A final slot may run past
// endMin; the end bound constrains starts, not completions.
func generate(startMin, endMin, sessionDuration int) model.SlotList {
	slots := make(model.SlotList, 0, (endMin-startMin)/sessionDuration+1)
	for t := startMin; t < endMin; t += sessionDuration {
		slots = append(slots, model.Slot{Time: model.ClockOfMinutes(t), IsBooked: false})
	}
	return slots
}
