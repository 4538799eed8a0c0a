package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCanceled    AppointmentStatus = "canceled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

type AppointmentType string

const (
	AppointmentTypeGeneral  AppointmentType = "general"
	AppointmentTypeFollowUp AppointmentType = "follow-up"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
)

// DefaultAppointmentDuration applies when a booking omits duration.
const DefaultAppointmentDuration = 30

type Appointment struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	UserID        uuid.UUID         `db:"user_id" json:"userId"`
	DoctorID      uuid.UUID         `db:"doctor_id" json:"doctorId"`
	DateTime      time.Time         `db:"date_time" json:"dateTime"`
	Duration      int               `db:"duration" json:"duration"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Type          AppointmentType   `db:"type" json:"type"`
	PaymentStatus PaymentStatus     `db:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	UserID        string `json:"userId" validate:"required,uuid"`
	DoctorID      string `json:"doctorId" validate:"required,uuid"`
	DateTime      string `json:"dateTime" validate:"required"`
	Duration      *int   `json:"duration" validate:"omitempty,gt=0"`
	Status        string `json:"status" validate:"omitempty,oneof=scheduled completed canceled rescheduled"`
	Type          string `json:"type" validate:"omitempty,oneof=general follow-up"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=paid unpaid pending"`
}

type UpdateAppointmentRequest struct {
	DateTime      *string `json:"dateTime"`
	Duration      *int    `json:"duration" validate:"omitempty,gt=0"`
	Status        *string `json:"status" validate:"omitempty,oneof=scheduled completed canceled rescheduled"`
	Type          *string `json:"type" validate:"omitempty,oneof=general follow-up"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=paid unpaid pending"`
}
