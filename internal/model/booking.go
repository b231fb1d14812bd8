package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"  // Ожидает решения администратора
	BookingStatusApproved BookingStatus = "approved" // Одобрено, слот занят
	BookingStatusRejected BookingStatus = "rejected" // Отклонено администратором
)

// IsValid проверяет что статус входит в допустимый набор
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// IsTerminal возвращает true для статусов, из которых нет переходов
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusApproved || s == BookingStatusRejected
}

type Booking struct {
	ID        uuid.UUID     `json:"id"`
	TeacherID uuid.UUID     `json:"teacher_id"`
	RoomID    int64         `json:"room_id"`
	Date      time.Time     `json:"date"`
	Slot      int           `json:"slot"`
	Weekday   Weekday       `json:"weekday"` // хранится избыточно для выборок
	Purpose   string        `json:"purpose"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`

	// Дополнительные поля для удобства (не из таблицы bookings)
	Teacher *Teacher `json:"teacher,omitempty"`
	Room    *Room    `json:"room,omitempty"`
}

// Key возвращает составной ключ занятости бронирования
func (b *Booking) Key() OccupancyKey {
	return OccupancyKey{RoomID: b.RoomID, Date: b.Date, Slot: b.Slot}
}

// BookingFilter фильтр для выборки бронирований, пустые поля не учитываются
type BookingFilter struct {
	Status    BookingStatus
	TeacherID uuid.UUID
	RoomID    int64
	Date      *time.Time
}

// BookingStats счётчики для дашборда
type BookingStats struct {
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
	Rooms         int64 `json:"rooms"`
	RoomsOccupied int64 `json:"rooms_occupied"`
}
