package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDateWithWeekday форматирует дату с кратким днём недели: "03.09.2024 (Вт)"
func FormatDateWithWeekday(date time.Time, weekday model.Weekday) string {
	return fmt.Sprintf("%s (%s)", FormatDate(date), GetWeekdayShortName(weekday))
}

// GetWeekdayName возвращает название дня недели на русском, 1 = понедельник
func GetWeekdayName(weekday model.Weekday) string {
	names := []string{
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
		"Воскресенье",
	}
	if weekday.IsValid() {
		return names[weekday-1]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday model.Weekday) string {
	names := []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	if weekday.IsValid() {
		return names[weekday-1]
	}
	return "?"
}
