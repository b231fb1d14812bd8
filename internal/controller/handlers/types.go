package handlers

import (
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService         *service.UserService
	bookingService      *service.BookingService
	availabilityService *service.AvailabilityService
	calendar            *calendar.Calendar
	location            *time.Location
	now                 func() time.Time
	logger              *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	availabilityService *service.AvailabilityService,
	cal *calendar.Calendar,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		userService:         userService,
		bookingService:      bookingService,
		availabilityService: availabilityService,
		calendar:            cal,
		location:            location,
		now:                 time.Now,
		logger:              logger,
	}
}

// today текущая дата в часовом поясе учреждения
func (h *Handlers) today() time.Time {
	return calendar.DateOf(h.now().In(h.location))
}
