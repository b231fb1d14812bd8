package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "Понедельник", GetWeekdayName(model.Monday))
	assert.Equal(t, "Воскресенье", GetWeekdayName(model.Sunday))
	assert.Equal(t, "Неизвестно", GetWeekdayName(0))
	assert.Equal(t, "Неизвестно", GetWeekdayName(8))

	assert.Equal(t, "Ср", GetWeekdayShortName(model.Wednesday))
	assert.Equal(t, "?", GetWeekdayShortName(0))
}

func TestPluralize(t *testing.T) {
	tests := map[int]string{
		1:  "заявка",
		2:  "заявки",
		5:  "заявок",
		11: "заявок",
		21: "заявка",
		24: "заявки",
		0:  "заявок",
	}
	for count, want := range tests {
		assert.Equal(t, want, PluralizeBookings(count), count)
	}
	assert.Equal(t, "аудитории", PluralizeRooms(3))
}

func TestStatusDisplays(t *testing.T) {
	assert.Equal(t, "✅", GetBookingStatusDisplay(model.BookingStatusApproved).Emoji)
	assert.Equal(t, "Неизвестно", GetBookingStatusDisplay("cancelled").Text)
	assert.Equal(t, "🔴", GetOccupancyDisplay(model.OccupancyOccupied).Emoji)
}

func TestFormatBooking(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-6f0a-4c53-9b7e-3c1f2d9a8b70")
	booking := &model.Booking{
		ID:      id,
		RoomID:  1,
		Date:    time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC),
		Slot:    2,
		Weekday: model.Tuesday,
		Purpose: "guest lecture",
		Status:  model.BookingStatusPending,
		Teacher: &model.Teacher{Name: "Alice Ivanova"},
		Room:    &model.Room{RoomNo: "A101"},
	}

	text := FormatBooking(booking, "09:50-10:40")
	assert.Contains(t, text, "⏳ Заявка "+id.String())
	assert.Contains(t, text, "Аудитория: A101")
	assert.Contains(t, text, "03.09.2024 (Вт)")
	assert.Contains(t, text, "Слот: 2 (09:50-10:40)")
	assert.Contains(t, text, "Alice Ivanova")

	booking.Room = nil
	assert.Contains(t, FormatBooking(booking, ""), "Аудитория: #1")
}

func TestFormatVerdicts(t *testing.T) {
	text := FormatVerdicts(
		time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC), model.Wednesday, 1, "09:00-09:50",
		[]model.Verdict{
			{RoomNo: "A101", Status: model.OccupancyFree, Reason: "available"},
			{RoomNo: "B203", Status: model.OccupancyOccupied, Reason: "fixed class: Algorithms (Dr. Rao)"},
		},
	)

	assert.Contains(t, text, "04.09.2024 (Ср), слот 1 (09:00-09:50)")
	assert.Contains(t, text, "🟢 A101\n")
	assert.Contains(t, text, "🔴 B203: fixed class: Algorithms (Dr. Rao)")
	assert.Contains(t, text, "Свободно: 1 аудитория из 2")
}
