package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `
		SELECT id, name, email, telegram_id, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.Email,
		&teacher.TelegramID,
		&teacher.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Учитель не найден
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// GetByTelegramID получает учителя по Telegram ID
func (r *TeacherRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error) {
	query := `
		SELECT id, name, email, telegram_id, created_at
		FROM teachers
		WHERE telegram_id = $1
	`

	var teacher model.Teacher
	err := r.QueryRow(ctx, query, telegramID).Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.Email,
		&teacher.TelegramID,
		&teacher.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by telegram id: %w", err)
	}

	return &teacher, nil
}
