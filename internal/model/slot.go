package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Slot is one bookable window inside a doctor's day.
type Slot struct {
	Time     string `json:"time"`
	IsBooked bool   `json:"isBooked"`
}

// SlotList stores the ordered slot sequence as a JSONB column.
type SlotList []Slot

func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *SlotList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for SlotList: %T", src)
	}
}

// SlotDay is the slot document for one doctor on one calendar date.
// Its wire key is "<doctorId>_<date>".
type SlotDay struct {
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctorId"`
	Date            string    `db:"date" json:"date"`
	StartTime       string    `db:"start_time" json:"startTime"`
	EndTime         string    `db:"end_time" json:"endTime"`
	SessionDuration int       `db:"session_duration" json:"sessionDuration"`
	Slots           SlotList  `db:"slots" json:"slots"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Key returns the document key callers address the day by.
func (d *SlotDay) Key() string {
	return fmt.Sprintf("%s_%s", d.DoctorID, d.Date)
}

// MinutesOfDay converts an HH:mm clock string to minutes since midnight.
func MinutesOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockOfMinutes formats minutes since midnight as zero-padded HH:mm.
func ClockOfMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type CreateSlotsRequest struct {
	DoctorID        string `json:"doctorId" validate:"required,uuid"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"startTime" validate:"required,hhmm"`
	EndTime         string `json:"endTime" validate:"required,hhmm"`
	SessionDuration int    `json:"sessionDuration" validate:"required,gt=0"`
}

// UpdateSlotBookingRequest toggles one slot's isBooked flag; the flag
// defaults to false when omitted.
type UpdateSlotBookingRequest struct {
	Time     string `json:"time" validate:"required,hhmm"`
	IsBooked *bool  `json:"isBooked"`
}
