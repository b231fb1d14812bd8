package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultAvailabilityWorkers = 8

// AvailabilityService отвечает на вопрос "свободна ли аудитория".
// Только чтение, безопасен при любом уровне параллелизма
type AvailabilityService struct {
	calendar  *calendar.Calendar
	rooms     RoomStore
	timetable TimetableStore
	bookings  BookingStore
	workers   int
	logger    *zap.Logger
}

func NewAvailabilityService(
	cal *calendar.Calendar,
	rooms RoomStore,
	timetable TimetableStore,
	bookings BookingStore,
	workers int,
	logger *zap.Logger,
) *AvailabilityService {
	if workers <= 0 {
		workers = defaultAvailabilityWorkers
	}
	return &AvailabilityService{
		calendar:  cal,
		rooms:     rooms,
		timetable: timetable,
		bookings:  bookings,
		workers:   workers,
		logger:    logger,
	}
}

// Check строит отчёт по одной аудитории (roomNo) или по всем (roomNo == "").
// Отчёт упорядочен по номеру аудитории
func (s *AvailabilityService) Check(ctx context.Context, date time.Time, slot int, roomNo string) ([]model.Verdict, error) {
	if _, err := s.calendar.Interval(slot); err != nil {
		return nil, err
	}
	date = calendar.DateOf(date)

	var rooms []*model.Room
	if roomNo != "" {
		room, err := s.rooms.GetByRoomNo(ctx, roomNo)
		if err != nil {
			return nil, fmt.Errorf("get room: %w", err)
		}
		if room == nil {
			return nil, fmt.Errorf("room %s: %w", roomNo, model.ErrNotFound)
		}
		rooms = []*model.Room{room}
	} else {
		all, err := s.rooms.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		rooms = all
	}

	verdicts := make([]model.Verdict, len(rooms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, room := range rooms {
		g.Go(func() error {
			verdict, err := s.resolve(gctx, room, date, slot)
			if err != nil {
				return err
			}
			verdicts[i] = verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

// Resolve проверяет занятость одной аудитории на дату и слот
func (s *AvailabilityService) Resolve(ctx context.Context, room *model.Room, date time.Time, slot int) (model.Verdict, error) {
	if _, err := s.calendar.Interval(slot); err != nil {
		return model.Verdict{}, err
	}
	return s.resolve(ctx, room, calendar.DateOf(date), slot)
}

// resolve: сначала постоянное расписание, затем одобренные бронирования
func (s *AvailabilityService) resolve(ctx context.Context, room *model.Room, date time.Time, slot int) (model.Verdict, error) {
	verdict := model.Verdict{RoomID: room.ID, RoomNo: room.RoomNo}
	weekday := calendar.WeekdayOf(date)

	entry, err := s.timetable.Lookup(ctx, room.ID, weekday, slot)
	if err != nil {
		s.logIntegrity(err, room, date, slot)
		return verdict, fmt.Errorf("lookup timetable for room %s: %w", room.RoomNo, err)
	}
	if entry != nil {
		verdict.Status = model.OccupancyOccupied
		verdict.Reason = FixedClassReason(entry)
		return verdict, nil
	}

	booking, err := s.bookings.ApprovedAt(ctx, room.ID, date, slot)
	if err != nil {
		s.logIntegrity(err, room, date, slot)
		return verdict, fmt.Errorf("get approved booking for room %s: %w", room.RoomNo, err)
	}
	if booking != nil {
		verdict.Status = model.OccupancyOccupied
		verdict.Reason = BookedReason(booking)
		verdict.BookingID = booking.ID.String()
		return verdict, nil
	}

	verdict.Status = model.OccupancyFree
	verdict.Reason = "available"
	return verdict, nil
}

func (s *AvailabilityService) logIntegrity(err error, room *model.Room, date time.Time, slot int) {
	if !errors.Is(err, model.ErrIntegrityViolation) {
		return
	}
	s.logger.Error("Occupancy data integrity violation",
		zap.String("room", room.RoomNo),
		zap.String("date", calendar.FormatDate(date)),
		zap.Int("slot", slot),
		zap.Error(err),
	)
}

// FixedClassReason причина занятости из постоянного расписания
func FixedClassReason(entry *model.TimetableEntry) string {
	if entry.FacultyName == "" {
		return fmt.Sprintf("fixed class: %s", entry.Subject)
	}
	return fmt.Sprintf("fixed class: %s (%s)", entry.Subject, entry.FacultyName)
}

// BookedReason причина занятости из одобренного бронирования
func BookedReason(booking *model.Booking) string {
	name := booking.TeacherID.String()
	if booking.Teacher != nil && booking.Teacher.Name != "" {
		name = booking.Teacher.Name
	}
	return fmt.Sprintf("booked by %s", name)
}
