package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
	Start string `json:"startTime" validate:"omitempty,hhmm"`
	Count int    `json:"count" validate:"omitempty,gt=0"`
}

func TestStructReportsEveryFailure(t *testing.T) {
	v := New()

	msgs := v.Struct(&sample{Email: "nope", Phone: "555-1234", Start: "9:00", Count: -1})

	assert.Contains(t, msgs, "Invalid email format")
	assert.Contains(t, msgs, "Invalid phone number format (E.164)")
	assert.Contains(t, msgs, "Invalid startTime time format. Use 24-hour format (HH:mm)")
	assert.Contains(t, msgs, "count must be a positive number")
	assert.Len(t, msgs, 4)
}

func TestStructValid(t *testing.T) {
	v := New()

	msgs := v.Struct(&sample{Email: "ada@example.com", Phone: "+15550000001", Start: "09:00", Count: 3})
	assert.Nil(t, msgs)
}

func TestFieldNamesUseWireForm(t *testing.T) {
	v := New()

	msgs := v.Struct(&sample{})
	assert.Equal(t, []string{"email is required"}, msgs)
}

func TestHHMMBoundaries(t *testing.T) {
	v := New()

	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.Nil(t, v.Struct(&sample{Email: "a@b.co", Start: ok}), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "09:60", "0900"} {
		assert.NotNil(t, v.Struct(&sample{Email: "a@b.co", Start: bad}), bad)
	}
}
