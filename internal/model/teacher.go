package model

import (
	"time"

	"github.com/google/uuid"
)

type Teacher struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	TelegramID *int64    `json:"telegram_id,omitempty"` // указатель - может быть nil
	CreatedAt  time.Time `json:"created_at"`
}
