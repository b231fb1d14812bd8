package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(pool)}
}

// List получает все аудитории, упорядоченные по номеру
func (r *RoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, room_no, building, capacity, status
		FROM rooms
		ORDER BY room_no
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		var room model.Room
		err := rows.Scan(
			&room.ID,
			&room.RoomNo,
			&room.Building,
			&room.Capacity,
			&room.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

// GetByRoomNo получает аудиторию по номеру
func (r *RoomRepository) GetByRoomNo(ctx context.Context, roomNo string) (*model.Room, error) {
	query := `
		SELECT id, room_no, building, capacity, status
		FROM rooms
		WHERE room_no = $1
	`

	var room model.Room
	err := r.QueryRow(ctx, query, roomNo).Scan(
		&room.ID,
		&room.RoomNo,
		&room.Building,
		&room.Capacity,
		&room.Status,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by number: %w", err)
	}

	return &room, nil
}

// UpdateStatus обновляет кэшируемый статус аудитории
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status model.RoomStatus) error {
	affected, err := r.ExecAffected(ctx, `UPDATE rooms SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("room %d: %w", id, model.ErrNotFound)
	}

	return nil
}
