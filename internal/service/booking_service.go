package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLockTimeout = 5 * time.Second

// SubmitRequest заявка учителя на бронирование аудитории
type SubmitRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	RoomNo    string    `json:"room" validate:"required,max=32"`
	Date      time.Time `json:"date" validate:"required"`
	Slot      int       `json:"slot" validate:"required"`
	Purpose   string    `json:"purpose" validate:"required,max=500"`
}

// ApproveResult результат одобрения. Warning не пуст, если не удалось
// обновить статус аудитории: само одобрение при этом сохранено
type ApproveResult struct {
	Booking *model.Booking
	Warning string
}

// BookingService контроллер допуска бронирований
type BookingService struct {
	calendar     *calendar.Calendar
	rooms        RoomStore
	teachers     TeacherStore
	bookings     BookingStore
	availability *AvailabilityService
	locker       Locker
	lockTimeout  time.Duration
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewBookingService(
	cal *calendar.Calendar,
	rooms RoomStore,
	teachers TeacherStore,
	bookings BookingStore,
	availability *AvailabilityService,
	locker Locker,
	lockTimeout time.Duration,
	logger *zap.Logger,
) *BookingService {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &BookingService{
		calendar:     cal,
		rooms:        rooms,
		teachers:     teachers,
		bookings:     bookings,
		availability: availability,
		locker:       locker,
		lockTimeout:  lockTimeout,
		validate:     validate,
		logger:       logger,
	}
}

// Submit создаёт заявку в статусе pending. Занятость слота не проверяется:
// решение принимается при одобрении
func (s *BookingService) Submit(ctx context.Context, req SubmitRequest) (*model.Booking, error) {
	req.RoomNo = strings.TrimSpace(req.RoomNo)
	req.Purpose = strings.TrimSpace(req.Purpose)

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, &model.ValidationError{Field: fieldErrs[0].Field(), Reason: describeTag(fieldErrs[0])}
		}
		return nil, fmt.Errorf("validate booking request: %w", err)
	}

	if !s.calendar.Has(req.Slot) {
		return nil, &model.ValidationError{Field: "slot", Reason: fmt.Sprintf("%d does not exist", req.Slot)}
	}

	room, err := s.rooms.GetByRoomNo(ctx, req.RoomNo)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, &model.ValidationError{Field: "room", Reason: fmt.Sprintf("%s does not exist", req.RoomNo)}
	}

	teacher, err := s.teachers.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, &model.ValidationError{Field: "teacher_id", Reason: "unknown teacher"}
	}

	date := calendar.DateOf(req.Date)
	booking := &model.Booking{
		TeacherID: teacher.ID,
		RoomID:    room.ID,
		Date:      date,
		Slot:      req.Slot,
		Weekday:   calendar.WeekdayOf(date),
		Purpose:   req.Purpose,
	}

	if err := s.bookings.InsertPending(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	booking.Teacher = teacher
	booking.Room = room

	s.logger.Info("Booking submitted",
		zap.String("booking_id", booking.ID.String()),
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("room", room.RoomNo),
		zap.String("date", calendar.FormatDate(date)),
		zap.Int("slot", req.Slot),
	)

	return booking, nil
}

// Approve одобряет бронирование. Проверка занятости и запись статуса
// выполняются под блокировкой ключа (аудитория, дата, слот)
func (s *BookingService) Approve(ctx context.Context, id uuid.UUID) (*ApproveResult, error) {
	booking, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}

	key := booking.Key().String()
	release, err := s.locker.Acquire(ctx, key, s.lockTimeout)
	if err != nil {
		s.logger.Warn("Failed to acquire approval lock",
			zap.String("booking_id", id.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}
	defer release()

	// Пока ждали блокировку, состояние могло измениться
	booking, err = s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}

	room := booking.Room
	if room == nil {
		room = &model.Room{ID: booking.RoomID}
	}

	verdict, err := s.availability.Resolve(ctx, room, booking.Date, booking.Slot)
	if err != nil {
		return nil, fmt.Errorf("check occupancy: %w", err)
	}
	if !verdict.IsFree() {
		s.logger.Info("Booking approval conflict",
			zap.String("booking_id", id.String()),
			zap.String("key", key),
			zap.String("reason", verdict.Reason),
		)
		return nil, &model.ConflictError{Verdict: verdict}
	}

	approved, err := s.bookings.Transition(ctx, id, model.BookingStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("approve booking: %w", err)
	}
	approved.Teacher = booking.Teacher
	approved.Room = booking.Room

	s.logger.Info("Booking approved",
		zap.String("booking_id", id.String()),
		zap.String("key", key),
	)

	result := &ApproveResult{Booking: approved}

	if err := s.rooms.UpdateStatus(ctx, booking.RoomID, model.RoomStatusOccupied); err != nil {
		s.logger.Warn("Failed to update room status after approval",
			zap.String("booking_id", id.String()),
			zap.Int64("room_id", booking.RoomID),
			zap.Error(err),
		)
		result.Warning = fmt.Sprintf("room status was not updated: %v", err)
	}

	return result, nil
}

// Reject отклоняет бронирование. Проверка занятости не нужна
func (s *BookingService) Reject(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	rejected, err := s.bookings.Transition(ctx, id, model.BookingStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("reject booking: %w", err)
	}

	s.logger.Info("Booking rejected", zap.String("booking_id", id.String()))

	return rejected, nil
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
	}
	return booking, nil
}

// List получает бронирования по фильтру
func (s *BookingService) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// Stats счётчики для дашборда администратора
func (s *BookingService) Stats(ctx context.Context) (*model.BookingStats, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	stats := &model.BookingStats{
		Pending:  counts[model.BookingStatusPending],
		Approved: counts[model.BookingStatusApproved],
		Rejected: counts[model.BookingStatusRejected],
		Rooms:    int64(len(rooms)),
	}
	for _, room := range rooms {
		if room.Status == model.RoomStatusOccupied {
			stats.RoomsOccupied++
		}
	}

	return stats, nil
}

func (s *BookingService) loadPending(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is %s: %w", id, booking.Status, model.ErrAlreadyDecided)
	}
	return booking, nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
