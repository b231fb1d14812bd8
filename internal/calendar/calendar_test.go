package calendar

import (
	"testing"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	cases := map[string]model.Weekday{
		"2024-09-02": model.Monday,
		"2024-09-03": model.Tuesday,
		"2024-09-04": model.Wednesday,
		"2024-09-07": model.Saturday,
		"2024-09-08": model.Sunday,
	}

	for value, want := range cases {
		date, err := ParseDate(value)
		require.NoError(t, err)
		assert.Equal(t, want, WeekdayOf(date), value)
	}
}

func TestWeekdayOfIgnoresTimeOfDay(t *testing.T) {
	sunday := time.Date(2024, 9, 8, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, model.Weekday(7), WeekdayOf(sunday))
	assert.Equal(t, model.Weekday(7), WeekdayOf(DateOf(sunday)))
}

func TestInterval(t *testing.T) {
	c := MustDefault()

	slot, err := c.Interval(2)
	require.NoError(t, err)
	assert.Equal(t, "09:50-10:40", slot.Label())

	_, err = c.Interval(5)
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	_, err = c.Interval(0)
	assert.ErrorIs(t, err, model.ErrInvalidSlot)
}

func TestSlotsOrdered(t *testing.T) {
	c, err := New([]SlotDef{
		{ID: 3, Start: "13:00", End: "14:00"},
		{ID: 1, Start: "09:00", End: "10:00"},
		{ID: 2, Start: "10:00", End: "11:00"},
	})
	require.NoError(t, err)

	var ids []int
	for _, s := range c.Slots() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.True(t, c.Has(3))
	assert.False(t, c.Has(4))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]SlotDef{{ID: 1, Start: "09:00", End: "09:50"}, {ID: 1, Start: "10:00", End: "10:50"}})
	assert.Error(t, err)

	_, err = New([]SlotDef{{ID: 1, Start: "10:00", End: "09:00"}})
	assert.Error(t, err)

	_, err = New([]SlotDef{{ID: -1, Start: "09:00", End: "10:00"}})
	assert.Error(t, err)

	_, err = New([]SlotDef{{ID: 1, Start: "9am", End: "10:00"}})
	assert.Error(t, err)
}

func TestSlotAt(t *testing.T) {
	c := MustDefault()

	s, ok := c.SlotAt(time.Date(2024, 9, 2, 9, 50, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 2, s.ID)

	_, ok = c.SlotAt(time.Date(2024, 9, 2, 10, 45, 0, 0, time.UTC))
	assert.False(t, ok, "break between slot 2 and 3")

	_, ok = c.SlotAt(time.Date(2024, 9, 2, 12, 30, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestSlotOn(t *testing.T) {
	s, err := MustDefault().Interval(1)
	require.NoError(t, err)

	start, end := s.On(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 9, 2, 9, 50, 0, 0, time.UTC), end)
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("02.09.2024")
	assert.Error(t, err)

	date, err := ParseDate("2024-09-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-09-02", FormatDate(date))
}
