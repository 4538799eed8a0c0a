package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/email"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filters *model.UserFilters) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if filters == nil || filters.Role == "" || u.Role == filters.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if excludeID != nil && u.ID == *excludeID {
			continue
		}
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) PhoneExists(_ context.Context, phone string, excludeID *uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if excludeID != nil && u.ID == *excludeID {
			continue
		}
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListSpecializations(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, u := range r.users {
		if u.Role == model.UserRoleDoctor && u.Specialization != nil && !seen[*u.Specialization] {
			seen[*u.Specialization] = true
			out = append(out, *u.Specialization)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (r *fakeAppointmentRepo) CreateWithDoctorLock(_ context.Context, apt *model.Appointment, check func([]*model.Appointment) error) error {
	var existing []*model.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == apt.DoctorID && a.Status != model.AppointmentStatusCanceled {
			existing = append(existing, a)
		}
	}
	if err := check(existing); err != nil {
		return err
	}
	r.appointments = append(r.appointments, apt)
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range r.appointments {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	for i, a := range r.appointments {
		if a.ID == apt.ID {
			r.appointments[i] = apt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.UserID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit > len(r.events) {
		limit = len(r.events)
	}
	return r.events[:limit], nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ string, _ *string) error {
	return nil
}

type fixture struct {
	svc     *Service
	repo    *fakeAppointmentRepo
	users   *fakeUserRepo
	outbox  *fakeOutboxRepo
	patient *model.User
	doctor  *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newFakeUserRepo()
	patient := &model.User{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      model.UserRolePatient,
		Phone:     "+15550000001",
	}
	spec := "cardiology"
	doctor := &model.User{
		ID:             uuid.New(),
		FirstName:      "Gregory",
		LastName:       "House",
		Email:          "house@example.com",
		Role:           model.UserRoleDoctor,
		Phone:          "+15550000002",
		Specialization: &spec,
	}
	users.users[patient.ID] = patient
	users.users[doctor.ID] = doctor

	repo := &fakeAppointmentRepo{}
	outbox := &fakeOutboxRepo{}

	cfg := &logger.Config{Level: logger.ErrorLevel, Output: testWriter{}}
	svc := NewService(repo, users, outbox, noopEmail{}, validator.New(), logger.NewLogger(cfg))

	return &fixture{svc: svc, repo: repo, users: users, outbox: outbox, patient: patient, doctor: doctor}
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

type noopEmail struct{}

func (noopEmail) SendBookingConfirmation(context.Context, string, *model.Appointment) error {
	return nil
}

func (noopEmail) SendCancellation(context.Context, string, *model.Appointment) error {
	return nil
}

var _ email.Service = noopEmail{}

func (f *fixture) createReq(dateTime string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		UserID:   f.patient.ID.String(),
		DoctorID: f.doctor.ID.String(),
		DateTime: dateTime,
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultAppointmentDuration, apt.Duration)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, model.AppointmentTypeGeneral, apt.Type)
	assert.Equal(t, model.PaymentStatusPending, apt.PaymentStatus)
	assert.NotEqual(t, uuid.Nil, apt.ID)
	assert.False(t, apt.CreatedAt.IsZero())

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, EventAppointmentCreated, f.outbox.events[0].EventType)
}

func TestCreateHonorsExplicitFields(t *testing.T) {
	f := newFixture(t)

	duration := 45
	req := f.createReq("2026-09-01T10:00:00Z")
	req.Duration = &duration
	req.Type = "follow-up"
	req.PaymentStatus = "paid"

	apt, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 45, apt.Duration)
	assert.Equal(t, model.AppointmentTypeFollowUp, apt.Type)
	assert.Equal(t, model.PaymentStatusPaid, apt.PaymentStatus)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.createReq("2026-09-01T10:20:00Z"))
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrSchedulingConflict, appErr.Code)
	assert.Equal(t, "Doctor is not available at this time", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus())
}

func TestCreateWindowComesFromCandidateOnly(t *testing.T) {
	f := newFixture(t)

	// Existing appointment runs 10:00 for 60 minutes.
	duration := 60
	req := f.createReq("2026-09-01T10:00:00Z")
	req.Duration = &duration
	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	// A 30-minute booking at 10:45 sits inside the existing hour but 45
	// minutes from its start, so it is accepted.
	short := 30
	req2 := f.createReq("2026-09-01T10:45:00Z")
	req2.Duration = &short
	_, err = f.svc.Create(context.Background(), req2)
	assert.NoError(t, err)
}

func TestCreateAllowsExactWindowBoundary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	// Gap equal to the candidate's duration is not a conflict.
	_, err = f.svc.Create(context.Background(), f.createReq("2026-09-01T10:30:00Z"))
	assert.NoError(t, err)
}

func TestCreateIgnoresCanceledAppointments(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), apt.ID)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	assert.NoError(t, err)
}

func TestCreateRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)

	req := f.createReq("2026-09-01T10:00:00Z")
	req.UserID = uuid.NewString()
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "User not found", err.(*apperrors.AppError).Message)

	req = f.createReq("2026-09-01T10:00:00Z")
	req.DoctorID = uuid.NewString()
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Doctor not found", err.(*apperrors.AppError).Message)
}

func TestCreateRejectsNonDoctorAsDoctor(t *testing.T) {
	f := newFixture(t)

	req := f.createReq("2026-09-01T10:00:00Z")
	req.DoctorID = f.patient.ID.String()

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Selected user is not a doctor", err.(*apperrors.AppError).Message)
}

func TestCreateCollectsValidationFailures(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{})
	require.Error(t, err)

	appErr := err.(*apperrors.AppError)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "userId is required")
	assert.Contains(t, appErr.Details, "doctorId is required")
	assert.Contains(t, appErr.Details, "dateTime is required")
}

func TestCreateRejectsMalformedDateTime(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.createReq("next tuesday"))
	require.Error(t, err)
	assert.Contains(t, err.(*apperrors.AppError).Details, "Invalid dateTime format")
}

func TestCancelIsNotIdempotent(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	canceled, err := f.svc.Cancel(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, canceled.Status)

	_, err = f.svc.Cancel(context.Background(), apt.ID)
	require.Error(t, err)

	appErr := err.(*apperrors.AppError)
	assert.Equal(t, apperrors.ErrAlreadyCanceled, appErr.Code)
	assert.Equal(t, "Appointment is already canceled", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus())
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, err.(*apperrors.AppError).HTTPStatus())
}

func TestUpdateMergesPatch(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)

	status := "completed"
	payment := "paid"
	updated, err := f.svc.Update(context.Background(), apt.ID, &model.UpdateAppointmentRequest{
		Status:        &status,
		PaymentStatus: &payment,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	// Untouched fields survive the patch.
	assert.Equal(t, apt.DateTime, updated.DateTime)
	assert.Equal(t, apt.Duration, updated.Duration)
}

func TestUpdateSkipsConflictCheck(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.createReq("2026-09-01T11:00:00Z"))
	require.NoError(t, err)

	// Moving the first booking onto the second is allowed; only Create
	// runs conflict detection.
	onto := "2026-09-01T11:00:00Z"
	_, err = f.svc.Update(context.Background(), first.ID, &model.UpdateAppointmentRequest{DateTime: &onto})
	assert.NoError(t, err)
}

func TestListByPatientAndDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.createReq("2026-09-01T10:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.createReq("2026-09-01T11:00:00Z"))
	require.NoError(t, err)

	byPatient, err := f.svc.ListByPatient(context.Background(), f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, byPatient, 2)

	byDoctor, err := f.svc.ListByDoctor(context.Background(), f.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, byDoctor, 2)

	none, err := f.svc.ListByPatient(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHasConflict(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	existing := []*model.Appointment{
		{DateTime: base, Duration: 60, Status: model.AppointmentStatusScheduled},
	}

	tests := []struct {
		name     string
		at       time.Time
		duration int
		want     bool
	}{
		{"same instant", base, 30, true},
		{"just inside window", base.Add(29 * time.Minute), 30, true},
		{"exactly at window", base.Add(30 * time.Minute), 30, false},
		{"before existing inside window", base.Add(-15 * time.Minute), 30, true},
		{"inside existing but outside candidate window", base.Add(45 * time.Minute), 30, false},
		{"wider candidate window", base.Add(45 * time.Minute), 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasConflict(existing, tt.at, tt.duration))
		})
	}

	canceled := []*model.Appointment{
		{DateTime: base, Duration: 60, Status: model.AppointmentStatusCanceled},
	}
	assert.False(t, hasConflict(canceled, base, 30))
}
