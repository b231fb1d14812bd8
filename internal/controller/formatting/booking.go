package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
)

// FormatBooking форматирует бронирование для отображения.
// slotLabel - диапазон времени слота, может быть пустым
func FormatBooking(booking *model.Booking, slotLabel string) string {
	display := GetBookingStatusDisplay(booking.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Заявка %s\n", display.Emoji, booking.ID)

	room := fmt.Sprintf("#%d", booking.RoomID)
	if booking.Room != nil {
		room = booking.Room.RoomNo
	}
	fmt.Fprintf(&sb, "🏫 Аудитория: %s\n", room)
	fmt.Fprintf(&sb, "📅 Дата: %s\n", FormatDateWithWeekday(booking.Date, booking.Weekday))

	if slotLabel != "" {
		fmt.Fprintf(&sb, "🕐 Слот: %d (%s)\n", booking.Slot, slotLabel)
	} else {
		fmt.Fprintf(&sb, "🕐 Слот: %d\n", booking.Slot)
	}

	if booking.Teacher != nil {
		fmt.Fprintf(&sb, "👤 Преподаватель: %s\n", booking.Teacher.Name)
	}
	if booking.Purpose != "" {
		fmt.Fprintf(&sb, "📝 Цель: %s\n", booking.Purpose)
	}
	fmt.Fprintf(&sb, "📊 Статус: %s", display.Text)

	return sb.String()
}

// FormatVerdicts форматирует отчёт о занятости аудиторий на дату и слот
func FormatVerdicts(date time.Time, weekday model.Weekday, slot int, slotLabel string, verdicts []model.Verdict) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s, слот %d (%s)\n\n", FormatDateWithWeekday(date, weekday), slot, slotLabel)

	free := 0
	for _, v := range verdicts {
		display := GetOccupancyDisplay(v.Status)
		if v.IsFree() {
			free++
			fmt.Fprintf(&sb, "%s %s\n", display.Emoji, v.RoomNo)
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", display.Emoji, v.RoomNo, v.Reason)
	}

	fmt.Fprintf(&sb, "\nСвободно: %d %s из %d", free, PluralizeRooms(free), len(verdicts))
	return sb.String()
}
