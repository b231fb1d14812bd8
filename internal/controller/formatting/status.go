package formatting

import "github.com/Freeeeeet/room_scheduler/internal/model"

// StatusDisplay emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	displays := map[model.BookingStatus]StatusDisplay{
		model.BookingStatusPending:  {"⏳", "Ожидает решения"},
		model.BookingStatusApproved: {"✅", "Одобрена"},
		model.BookingStatusRejected: {"🚫", "Отклонена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetOccupancyDisplay возвращает emoji и текст для занятости аудитории
func GetOccupancyDisplay(status model.OccupancyStatus) StatusDisplay {
	switch status {
	case model.OccupancyFree:
		return StatusDisplay{"🟢", "Свободна"}
	case model.OccupancyOccupied:
		return StatusDisplay{"🔴", "Занята"}
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
