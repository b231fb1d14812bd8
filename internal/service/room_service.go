package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"go.uber.org/zap"
)

// RoomService список аудиторий и синхронизация кэшируемого статуса
type RoomService struct {
	calendar     *calendar.Calendar
	rooms        RoomStore
	availability *AvailabilityService
	location     *time.Location
	logger       *zap.Logger
}

func NewRoomService(
	cal *calendar.Calendar,
	rooms RoomStore,
	availability *AvailabilityService,
	location *time.Location,
	logger *zap.Logger,
) *RoomService {
	if location == nil {
		location = time.UTC
	}
	return &RoomService{
		calendar:     cal,
		rooms:        rooms,
		availability: availability,
		location:     location,
		logger:       logger,
	}
}

// List получает все аудитории
func (s *RoomService) List(ctx context.Context) ([]*model.Room, error) {
	return s.rooms.List(ctx)
}

// GetByRoomNo получает аудиторию по номеру
func (s *RoomService) GetByRoomNo(ctx context.Context, roomNo string) (*model.Room, error) {
	room, err := s.rooms.GetByRoomNo(ctx, roomNo)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomNo, model.ErrNotFound)
	}
	return room, nil
}

// SyncStatuses выставляет статус аудиторий по фактической занятости в
// момент now. Вне слотов все аудитории считаются свободными.
// Возвращает число изменённых аудиторий
func (s *RoomService) SyncStatuses(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.location)

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rooms: %w", err)
	}

	target := make(map[int64]model.RoomStatus, len(rooms))
	for _, room := range rooms {
		target[room.ID] = model.RoomStatusAvailable
	}

	if slot, ok := s.calendar.SlotAt(local); ok {
		verdicts, err := s.availability.Check(ctx, calendar.DateOf(local), slot.ID, "")
		if err != nil {
			return 0, fmt.Errorf("check availability: %w", err)
		}
		for _, v := range verdicts {
			if !v.IsFree() {
				target[v.RoomID] = model.RoomStatusOccupied
			}
		}
	}

	changed := 0
	for _, room := range rooms {
		status := target[room.ID]
		if room.Status == status {
			continue
		}
		if err := s.rooms.UpdateStatus(ctx, room.ID, status); err != nil {
			s.logger.Warn("Failed to sync room status",
				zap.String("room", room.RoomNo),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}
		changed++
	}

	return changed, nil
}
