package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"go.uber.org/zap"
)

// UserService сопоставляет пользователей Telegram с учителями и админами.
// Аутентификация выполняется вне движка, здесь только поиск
type UserService struct {
	teachers TeacherStore
	admins   map[int64]struct{}
	logger   *zap.Logger
}

func NewUserService(teachers TeacherStore, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = struct{}{}
	}
	return &UserService{
		teachers: teachers,
		admins:   admins,
		logger:   logger,
	}
}

// TeacherByTelegramID находит учителя, привязанного к Telegram ID, или nil
func (s *UserService) TeacherByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get teacher by telegram id: %w", err)
	}
	if teacher == nil {
		s.logger.Debug("Telegram user is not a teacher", zap.Int64("telegram_id", telegramID))
	}
	return teacher, nil
}

// IsAdmin проверяет что Telegram ID входит в список администраторов
func (s *UserService) IsAdmin(telegramID int64) bool {
	_, ok := s.admins[telegramID]
	return ok
}
