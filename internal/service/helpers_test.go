package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/lock"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	tuesday   = time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
)

type env struct {
	store        *memory.Store
	rooms        RoomStore
	availability *AvailabilityService
	bookings     *BookingService
	roomService  *RoomService
	a101         *model.Room
	b203         *model.Room
	alice        *model.Teacher
	bob          *model.Teacher
}

type envOption func(*envConfig)

type envConfig struct {
	rooms  func(RoomStore) RoomStore
	locker Locker
}

func withRoomStore(wrap func(RoomStore) RoomStore) envOption {
	return func(c *envConfig) { c.rooms = wrap }
}

func withLocker(l Locker) envOption {
	return func(c *envConfig) { c.locker = l }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	cfg := envConfig{locker: lock.NewKeyedMutex()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := memory.NewStore()
	a101, err := store.AddRoom(model.Room{RoomNo: "A101", Building: "Main Block", Capacity: 40})
	require.NoError(t, err)
	b203, err := store.AddRoom(model.Room{RoomNo: "B203", Building: "CSE Block", Capacity: 50})
	require.NoError(t, err)

	_, err = store.AddTimetableEntry(model.TimetableEntry{
		RoomID:      b203.ID,
		Weekday:     model.Wednesday,
		Slot:        1,
		Subject:     "Algorithms",
		FacultyName: "Dr. Rao",
		Section:     "CSE-A",
	})
	require.NoError(t, err)

	alice := store.AddTeacher(model.Teacher{Name: "Alice Ivanova", Email: "alice@example.com"})
	bob := store.AddTeacher(model.Teacher{Name: "Bob Sidorov", Email: "bob@example.com"})

	var rooms RoomStore = store.Rooms()
	if cfg.rooms != nil {
		rooms = cfg.rooms(rooms)
	}

	cal := calendar.MustDefault()
	logger := zap.NewNop()
	availability := NewAvailabilityService(cal, rooms, store.Timetable(), store.Bookings(), 4, logger)
	bookings := NewBookingService(cal, rooms, store.Teachers(), store.Bookings(), availability, cfg.locker, time.Second, logger)

	return &env{
		store:        store,
		rooms:        rooms,
		availability: availability,
		bookings:     bookings,
		roomService:  NewRoomService(cal, rooms, availability, time.UTC, logger),
		a101:         a101,
		b203:         b203,
		alice:        alice,
		bob:          bob,
	}
}

func (e *env) submit(t *testing.T, teacher *model.Teacher, roomNo string, date time.Time, slot int) *model.Booking {
	t.Helper()

	booking, err := e.bookings.Submit(context.Background(), SubmitRequest{
		TeacherID: teacher.ID,
		RoomNo:    roomNo,
		Date:      date,
		Slot:      slot,
		Purpose:   "guest lecture",
	})
	require.NoError(t, err)
	return booking
}

// failingRooms имитирует сбой записи статуса аудитории
type failingRooms struct {
	RoomStore
}

func (f failingRooms) UpdateStatus(context.Context, int64, model.RoomStatus) error {
	return errors.New("rooms table is read-only")
}

// busyLocker всегда отвечает таймаутом
type busyLocker struct{}

func (busyLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	return nil, errors.Join(model.ErrLockTimeout, errors.New(key))
}
