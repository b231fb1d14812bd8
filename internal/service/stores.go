package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/google/uuid"
)

// RoomStore хранилище аудиторий
type RoomStore interface {
	List(ctx context.Context) ([]*model.Room, error)
	GetByRoomNo(ctx context.Context, roomNo string) (*model.Room, error)
	UpdateStatus(ctx context.Context, id int64, status model.RoomStatus) error
}

// TeacherStore хранилище учителей
type TeacherStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error)
}

// TimetableStore постоянное расписание, только чтение
type TimetableStore interface {
	Lookup(ctx context.Context, roomID int64, weekday model.Weekday, slot int) (*model.TimetableEntry, error)
	ListBySection(ctx context.Context, section string) ([]*model.TimetableEntry, error)
	ListSections(ctx context.Context) ([]string, error)
}

// BookingStore хранилище бронирований. InsertPending и Transition -
// одиночные атомарные записи
type BookingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ApprovedAt(ctx context.Context, roomID int64, date time.Time, slot int) (*model.Booking, error)
	InsertPending(ctx context.Context, booking *model.Booking) error
	Transition(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
}

// Locker взаимное исключение по ключу с ограниченным ожиданием
type Locker interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error)
}
