package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFixedClassWithoutBookings(t *testing.T) {
	e := newEnv(t)

	for _, date := range []int{0, 7, 14} {
		verdicts, err := e.availability.Check(context.Background(), wednesday.AddDate(0, 0, date), 1, "B203")
		require.NoError(t, err)
		require.Len(t, verdicts, 1)
		assert.Equal(t, model.OccupancyOccupied, verdicts[0].Status)
		assert.Equal(t, "fixed class: Algorithms (Dr. Rao)", verdicts[0].Reason)
	}

	verdicts, err := e.availability.Check(context.Background(), wednesday, 2, "B203")
	require.NoError(t, err)
	assert.Equal(t, model.OccupancyFree, verdicts[0].Status)
	assert.Equal(t, "available", verdicts[0].Reason)
}

func TestCheckTimetableTakesPrecedenceOverBooking(t *testing.T) {
	e := newEnv(t)

	// Одобренная запись поверх постоянного занятия могла появиться в обход движка
	e.store.ImportBooking(model.Booking{
		TeacherID: e.alice.ID,
		RoomID:    e.b203.ID,
		Date:      wednesday,
		Slot:      1,
		Weekday:   model.Wednesday,
		Status:    model.BookingStatusApproved,
	})

	verdicts, err := e.availability.Check(context.Background(), wednesday, 1, "B203")
	require.NoError(t, err)
	assert.Equal(t, "fixed class: Algorithms (Dr. Rao)", verdicts[0].Reason)
	assert.Empty(t, verdicts[0].BookingID)
}

func TestCheckAllRoomsOrdered(t *testing.T) {
	e := newEnv(t)

	verdicts, err := e.availability.Check(context.Background(), wednesday, 1, "")
	require.NoError(t, err)
	require.Len(t, verdicts, 2)

	assert.Equal(t, "A101", verdicts[0].RoomNo)
	assert.True(t, verdicts[0].IsFree())
	assert.Equal(t, "B203", verdicts[1].RoomNo)
	assert.False(t, verdicts[1].IsFree())
}

func TestCheckErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.availability.Check(ctx, tuesday, 9, "")
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	_, err = e.availability.Check(ctx, tuesday, 1, "Z999")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCheckSurfacesIntegrityViolation(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 2; i++ {
		e.store.ImportBooking(model.Booking{
			TeacherID: e.alice.ID,
			RoomID:    e.a101.ID,
			Date:      tuesday,
			Slot:      2,
			Status:    model.BookingStatusApproved,
		})
	}

	_, err := e.availability.Check(context.Background(), tuesday, 2, "A101")
	assert.ErrorIs(t, err, model.ErrIntegrityViolation)

	_, err = e.availability.Check(context.Background(), tuesday, 2, "")
	assert.ErrorIs(t, err, model.ErrIntegrityViolation)
}

func TestCheckIsRepeatable(t *testing.T) {
	e := newEnv(t)
	booking := e.submit(t, e.alice, "A101", tuesday, 2)
	_, err := e.bookings.Approve(context.Background(), booking.ID)
	require.NoError(t, err)

	first, err := e.availability.Check(context.Background(), tuesday, 2, "")
	require.NoError(t, err)
	second, err := e.availability.Check(context.Background(), tuesday, 2, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSundayMapsConsistently(t *testing.T) {
	e := newEnv(t)

	_, err := e.store.AddTimetableEntry(model.TimetableEntry{
		RoomID:  e.a101.ID,
		Weekday: model.Sunday,
		Slot:    3,
		Subject: "Weekend Robotics",
	})
	require.NoError(t, err)

	booking := e.submit(t, e.bob, "A101", sunday, 3)
	assert.Equal(t, model.Weekday(7), booking.Weekday)

	verdicts, err := e.availability.Check(context.Background(), sunday, 3, "A101")
	require.NoError(t, err)
	assert.Equal(t, "fixed class: Weekend Robotics", verdicts[0].Reason)

	_, err = e.bookings.Approve(context.Background(), booking.ID)
	assert.ErrorIs(t, err, model.ErrConflict)
}
