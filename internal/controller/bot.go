package controller

import (
	"context"
	"regexp"

	"github.com/Freeeeeet/room_scheduler/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.handle("start", c.handlers.HandleStart)
	c.handle("help", c.handlers.HandleHelp)

	// Команды с аргументами
	c.handle("free", c.handlers.HandleFree)
	c.handle("book", c.handlers.HandleBook)
	c.handle("mybookings", c.handlers.HandleMyBookings)

	// Команды для администраторов
	c.handle("pending", c.handlers.HandlePending)
	c.handle("approve", c.handlers.HandleApprove)
	c.handle("reject", c.handlers.HandleReject)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

func (c *BotController) handle(command string, handler bot.HandlerFunc) {
	c.bot.RegisterHandlerRegexp(bot.HandlerTypeMessageText, commandPattern(command), handler)
}

// commandPattern совпадает с командой целиком: /free, /free@room_bot, /free 2024-09-03 1,
// но не с /freeze
func commandPattern(command string) *regexp.Regexp {
	return regexp.MustCompile(`^/` + regexp.QuoteMeta(command) + `(@\w+)?(\s|$)`)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "free", Description: "🟢 Свободные аудитории"},
		{Command: "book", Description: "📨 Заявка на бронирование"},
		{Command: "mybookings", Description: "📅 Мои заявки"},
		{Command: "pending", Description: "⏳ Заявки на рассмотрении (админ)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокирует до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
