package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Timeout ограничивает время обработки одного обновления
func Timeout(d time.Duration) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			next(ctx, b, update)
		}
	}
}

// requireTeacher проверяет что Telegram пользователь привязан к учителю
// Возвращает teacher и true если OK, nil и false если нет
func (h *Handlers) requireTeacher(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Teacher, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	teacher, err := h.userService.TeacherByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get teacher", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if teacher == nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Ваш Telegram аккаунт не привязан к преподавателю.\n\nИспользуйте /start, чтобы узнать свой ID.")
		return nil, false
	}

	return teacher, true
}

// requireAdmin проверяет что пользователь входит в список администраторов
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	if !h.userService.IsAdmin(update.Message.From.ID) {
		h.logger.Warn("Admin command denied", zap.Int64("telegram_id", update.Message.From.ID))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администраторам.")
		return false
	}

	return true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
