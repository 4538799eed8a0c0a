package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/security"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

const dobLayout = "2006-01-02"

type Service struct {
	repo     repository.UserRepository
	hasher   security.PasswordHasher
	validate *validator.Validator
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, validate *validator.Validator) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		validate: validate,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	msgs := s.validate.Struct(req)
	if req.Role == string(model.UserRoleDoctor) && req.StartAt != "" && req.EndAt != "" {
		startMin, startErr := model.MinutesOfDay(req.StartAt)
		endMin, endErr := model.MinutesOfDay(req.EndAt)
		if startErr == nil && endErr == nil && startMin >= endMin {
			msgs = append(msgs, "endAt must be after startAt")
		}
	}
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	if exists, err := s.repo.EmailExists(ctx, req.Email, nil); err != nil {
		return nil, apperrors.Internal(err)
	} else if exists {
		return nil, apperrors.BadRequest("Email already exists")
	}
	if exists, err := s.repo.PhoneExists(ctx, req.Phone, nil); err != nil {
		return nil, apperrors.Internal(err)
	} else if exists {
		return nil, apperrors.BadRequest("Phone number already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dob, err := time.Parse(dobLayout, req.DOB)
	if err != nil {
		return nil, apperrors.Validation([]string{"Invalid dob format. Use YYYY-MM-DD"})
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.UserRole(req.Role),
		Phone:        req.Phone,
		DOB:          dob,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Gender != "" {
		user.Gender = &req.Gender
	}
	if req.Department != "" {
		user.Department = &req.Department
	}

	if user.Role == model.UserRoleDoctor {
		user.Specialization = &req.Specialization
		user.Experience = req.Experience
		user.Education = req.Education
		user.StartAt = &req.StartAt
		user.EndAt = &req.EndAt
		user.SessionDuration = req.SessionDuration
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	users, err := s.repo.List(ctx, &model.UserFilters{Role: role})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

// Update merges the supplied fields into the stored record. Email and
// phone changes re-check uniqueness against everyone else.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	msgs := s.validate.Struct(req)
	if len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.repo.EmailExists(ctx, *req.Email, &id)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if exists {
			return nil, apperrors.BadRequest("Email already exists")
		}
		user.Email = *req.Email
	}
	if req.Phone != nil && *req.Phone != user.Phone {
		exists, err := s.repo.PhoneExists(ctx, *req.Phone, &id)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if exists {
			return nil, apperrors.BadRequest("Phone number already exists")
		}
		user.Phone = *req.Phone
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		user.PasswordHash = hash
	}
	if req.DOB != nil {
		dob, err := time.Parse(dobLayout, *req.DOB)
		if err != nil {
			return nil, apperrors.Validation([]string{"Invalid dob format. Use YYYY-MM-DD"})
		}
		user.DOB = dob
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Specialization != nil {
		user.Specialization = req.Specialization
	}
	if req.Experience != nil {
		user.Experience = req.Experience
	}
	if req.Education != nil {
		user.Education = req.Education
	}
	if req.StartAt != nil {
		user.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		user.EndAt = req.EndAt
	}
	if req.SessionDuration != nil {
		user.SessionDuration = req.SessionDuration
	}

	if user.StartAt != nil && user.EndAt != nil {
		startMin, startErr := model.MinutesOfDay(*user.StartAt)
		endMin, endErr := model.MinutesOfDay(*user.EndAt)
		if startErr == nil && endErr == nil && startMin >= endMin {
			return nil, apperrors.Validation([]string{"endAt must be after startAt"})
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// ListSpecializations returns the distinct specializations across all
// doctors, for the specialist directory endpoint.
func (s *Service) ListSpecializations(ctx context.Context) ([]string, error) {
	specs, err := s.repo.ListSpecializations(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return specs, nil
}
