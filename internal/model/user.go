package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleDoctor  UserRole = "doctor"
	UserRoleAdmin   UserRole = "admin"
)

// User covers all three roles. Doctor-specific columns are nullable and
// only populated when role is doctor.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Phone        string     `db:"phone" json:"phone"`
	DOB          time.Time  `db:"dob" json:"dob"`
	Gender       *string    `db:"gender" json:"gender,omitempty"`
	Department   *string    `db:"department" json:"department,omitempty"`

	Specialization  *string    `db:"specialization" json:"specialization,omitempty"`
	Experience      *int       `db:"experience" json:"experience,omitempty"`
	Education       StringList `db:"education" json:"education,omitempty"`
	StartAt         *string    `db:"start_at" json:"startAt,omitempty"`
	EndAt           *string    `db:"end_at" json:"endAt,omitempty"`
	SessionDuration *int       `db:"session_duration" json:"sessionDuration,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CreateUserRequest is validated with pkg/validator; doctor-only fields
// become required when Role is doctor.
type CreateUserRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=patient doctor admin"`
	Phone      string `json:"phone" validate:"required,e164"`
	DOB        string `json:"dob" validate:"required,datetime=2006-01-02"`
	Gender     string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Department string `json:"department" validate:"omitempty,oneof=cardiology radiology general billing pharmacy"`

	Specialization  string   `json:"specialization" validate:"required_if=Role doctor"`
	Experience      *int     `json:"experience" validate:"required_if=Role doctor,omitempty,min=0"`
	Education       []string `json:"education" validate:"required_if=Role doctor"`
	StartAt         string   `json:"startAt" validate:"required_if=Role doctor,omitempty,hhmm"`
	EndAt           string   `json:"endAt" validate:"required_if=Role doctor,omitempty,hhmm"`
	SessionDuration *int     `json:"sessionDuration" validate:"required_if=Role doctor,omitempty,gt=0"`
}

// UpdateUserRequest is a partial patch; only supplied fields are merged.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=8"`
	Phone      *string `json:"phone" validate:"omitempty,e164"`
	DOB        *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender     *string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Department *string `json:"department" validate:"omitempty,oneof=cardiology radiology general billing pharmacy"`

	Specialization  *string  `json:"specialization"`
	Experience      *int     `json:"experience" validate:"omitempty,min=0"`
	Education       []string `json:"education"`
	StartAt         *string  `json:"startAt" validate:"omitempty,hhmm"`
	EndAt           *string  `json:"endAt" validate:"omitempty,hhmm"`
	SessionDuration *int     `json:"sessionDuration" validate:"omitempty,gt=0"`
}

type UserFilters struct {
	Role UserRole
}
