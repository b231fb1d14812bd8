package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.startReply(ctx, update.Message.From.ID, update.Message.From.FirstName))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.helpReply())
}

// HandleFree обрабатывает команду /free <дата> <слот> [аудитория]
func (h *Handlers) HandleFree(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.freeReply(ctx, update.Message.Text))
}

// HandleBook обрабатывает команду /book <аудитория> <дата> <слот> <цель>
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	teacher, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.bookReply(ctx, teacher, update.Message.Text))
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	teacher, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.myBookingsReply(ctx, teacher))
}

// HandlePending обрабатывает команду /pending (администратор)
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.pendingReply(ctx))
}

// HandleApprove обрабатывает команду /approve <id> (администратор)
func (h *Handlers) HandleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.logger.Info("Approve requested via bot",
		zap.Int64("admin_id", update.Message.From.ID),
		zap.String("text", update.Message.Text))

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.approveReply(ctx, update.Message.Text))
}

// HandleReject обрабатывает команду /reject <id> (администратор)
func (h *Handlers) HandleReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.logger.Info("Reject requested via bot",
		zap.Int64("admin_id", update.Message.From.ID),
		zap.String("text", update.Message.Text))

	h.sendMessage(ctx, b, update.Message.Chat.ID, h.rejectReply(ctx, update.Message.Text))
}

func (h *Handlers) startReply(ctx context.Context, telegramID int64, firstName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Привет, %s!\n\n", firstName)
	sb.WriteString("Бот показывает занятость аудиторий и принимает заявки на бронирование.\n\n")

	teacher, err := h.userService.TeacherByTelegramID(ctx, telegramID)
	switch {
	case err != nil:
		h.logger.Error("Failed to get teacher", zap.Int64("telegram_id", telegramID), zap.Error(err))
	case teacher != nil:
		fmt.Fprintf(&sb, "👤 Вы вошли как преподаватель %s.\n", teacher.Name)
	default:
		fmt.Fprintf(&sb, "Ваш Telegram ID: %d\nПередайте его администратору, чтобы бронировать аудитории.\n", telegramID)
	}

	if h.userService.IsAdmin(telegramID) {
		sb.WriteString("🛡 У вас права администратора.\n")
	}

	sb.WriteString("\nСправка: /help")
	return sb.String()
}

func (h *Handlers) helpReply() string {
	return "📚 Справка по командам:\n\n" +
		"/free <дата> <слот> [аудитория] - Свободные аудитории\n" +
		"/book <аудитория> <дата> <слот> <цель> - Заявка на бронирование\n" +
		"/mybookings - Мои заявки\n\n" +
		"Для администраторов:\n" +
		"/pending - Заявки на рассмотрении\n" +
		"/approve <id> - Одобрить заявку\n" +
		"/reject <id> - Отклонить заявку\n\n" +
		"Дата: ГГГГ-ММ-ДД, ДД.ММ.ГГГГ, сегодня или завтра\n\n" +
		h.slotsHelp()
}

func (h *Handlers) freeReply(ctx context.Context, text string) string {
	args, err := ParseFreeArgs(text, h.today())
	if err != nil {
		return h.argsMessage(err, "/free 2024-09-03 2 [A101]")
	}

	verdicts, err := h.availabilityService.Check(ctx, args.Date, args.Slot, args.RoomNo)
	if err != nil {
		return h.userMessage(err)
	}

	return formatting.FormatVerdicts(args.Date, calendar.WeekdayOf(args.Date), args.Slot, h.slotLabel(args.Slot), verdicts)
}

func (h *Handlers) bookReply(ctx context.Context, teacher *model.Teacher, text string) string {
	args, err := ParseBookArgs(text, h.today())
	if err != nil {
		return h.argsMessage(err, "/book A101 2024-09-03 2 Гостевая лекция")
	}

	booking, err := h.bookingService.Submit(ctx, service.SubmitRequest{
		TeacherID: teacher.ID,
		RoomNo:    args.RoomNo,
		Date:      args.Date,
		Slot:      args.Slot,
		Purpose:   args.Purpose,
	})
	if err != nil {
		return h.userMessage(err)
	}

	return "📨 Заявка отправлена администратору.\n\n" + formatting.FormatBooking(booking, h.slotLabel(booking.Slot))
}

func (h *Handlers) myBookingsReply(ctx context.Context, teacher *model.Teacher) string {
	bookings, err := h.bookingService.List(ctx, model.BookingFilter{TeacherID: teacher.ID})
	if err != nil {
		return h.userMessage(err)
	}
	return h.formatBookingList("📅 Ваши заявки", bookings)
}

func (h *Handlers) pendingReply(ctx context.Context) string {
	bookings, err := h.bookingService.List(ctx, model.BookingFilter{Status: model.BookingStatusPending})
	if err != nil {
		return h.userMessage(err)
	}
	return h.formatBookingList("⏳ На рассмотрении", bookings)
}

func (h *Handlers) approveReply(ctx context.Context, text string) string {
	id, err := ParseIDArg(text)
	if err != nil {
		return h.argsMessage(err, "/approve <id>")
	}

	result, err := h.bookingService.Approve(ctx, id)
	if err != nil {
		return h.userMessage(err)
	}

	reply := "✅ Заявка одобрена.\n\n" + formatting.FormatBooking(result.Booking, h.slotLabel(result.Booking.Slot))
	if result.Warning != "" {
		reply += "\n\n⚠️ " + result.Warning
	}
	return reply
}

func (h *Handlers) rejectReply(ctx context.Context, text string) string {
	id, err := ParseIDArg(text)
	if err != nil {
		return h.argsMessage(err, "/reject <id>")
	}

	booking, err := h.bookingService.Reject(ctx, id)
	if err != nil {
		return h.userMessage(err)
	}

	return "🚫 Заявка отклонена.\n\n" + formatting.FormatBooking(booking, h.slotLabel(booking.Slot))
}

// argsMessage текст ошибки разбора аргументов с примером
func (h *Handlers) argsMessage(err error, example string) string {
	if err == errUsage {
		return "❌ Неверный формат команды.\n\nПример: " + example
	}
	return "❌ " + err.Error() + "\n\nПример: " + example
}
