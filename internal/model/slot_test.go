package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesOfDay(t *testing.T) {
	m, err := MinutesOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = MinutesOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = MinutesOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	_, err = MinutesOfDay("24:00")
	assert.Error(t, err)
	_, err = MinutesOfDay("not a clock")
	assert.Error(t, err)
}

func TestClockOfMinutes(t *testing.T) {
	assert.Equal(t, "00:00", ClockOfMinutes(0))
	assert.Equal(t, "09:05", ClockOfMinutes(545))
	assert.Equal(t, "23:59", ClockOfMinutes(1439))
}

func TestSlotDayKey(t *testing.T) {
	id := uuid.New()
	day := &SlotDay{DoctorID: id, Date: "2026-09-01"}
	assert.Equal(t, id.String()+"_2026-09-01", day.Key())
}

func TestSlotListRoundTrip(t *testing.T) {
	list := SlotList{{Time: "09:00"}, {Time: "09:30", IsBooked: true}}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned SlotList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	var empty SlotList
	value, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}
