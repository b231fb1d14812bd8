package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"go.uber.org/zap"
)

// userMessage переводит ошибку сервиса в текст для пользователя.
// Неожиданные ошибки логируются
func (h *Handlers) userMessage(err error) string {
	var conflict *model.ConflictError
	var validation *model.ValidationError

	switch {
	case errors.As(err, &conflict):
		return fmt.Sprintf("⛔ Слот уже занят: %s", conflict.Verdict.Reason)
	case errors.As(err, &validation):
		return fmt.Sprintf("❌ Некорректные данные: %s %s", validation.Field, validation.Reason)
	case errors.Is(err, model.ErrInvalidSlot):
		return "❌ Такого слота нет.\n\n" + h.slotsHelp()
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено."
	case errors.Is(err, model.ErrAlreadyDecided):
		return "ℹ️ Заявка уже рассмотрена."
	case errors.Is(err, model.ErrLockTimeout):
		return "⏳ Слот сейчас обрабатывается другим запросом. Попробуйте ещё раз."
	case errors.Is(err, errUsage):
		return "❌ Неверный формат команды. Смотрите /help"
	}

	h.logger.Error("Command failed", zap.Error(err))
	return "❌ Произошла ошибка. Попробуйте позже."
}

// slotsHelp список слотов для справки
func (h *Handlers) slotsHelp() string {
	var sb strings.Builder
	sb.WriteString("🕐 Слоты:\n")
	for _, slot := range h.calendar.Slots() {
		fmt.Fprintf(&sb, "%d: %s\n", slot.ID, slot.Label())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handlers) slotLabel(slot int) string {
	interval, err := h.calendar.Interval(slot)
	if err != nil {
		return ""
	}
	return interval.Label()
}

// formatBookingList форматирует список заявок с ограничением длины
func (h *Handlers) formatBookingList(title string, bookings []*model.Booking) string {
	if len(bookings) == 0 {
		return title + "\n\nЗаявок нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d %s\n", title, len(bookings), formatting.PluralizeBookings(len(bookings)))

	for i, booking := range bookings {
		if i == MaxListedBookings {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(bookings)-MaxListedBookings)
			break
		}
		sb.WriteString("\n")
		sb.WriteString(formatting.FormatBooking(booking, h.slotLabel(booking.Slot)))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
