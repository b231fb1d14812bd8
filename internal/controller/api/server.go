package api

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Services зависимости HTTP API
type Services struct {
	Calendar     *calendar.Calendar
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Rooms        *service.RoomService
	Timetable    *service.TimetableService
}

// Server HTTP JSON API поверх сервисов движка
type Server struct {
	app            *fiber.App
	svc            Services
	requestTimeout time.Duration
	logger         *zap.Logger
}

// NewServer создаёт API. Каждый запрос получает контекст со сроком requestTimeout
func NewServer(svc Services, requestTimeout time.Duration, logger *zap.Logger) *Server {
	s := &Server{
		svc:            svc,
		requestTimeout: requestTimeout,
		logger:         logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "Room Scheduler",
		CaseSensitive:         true,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.logRequest)
	s.app.Use(s.withDeadline)

	s.registerRoutes()

	return s
}

// App возвращает fiber приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen блокирует до остановки сервера
func (s *Server) Listen(addr string) error {
	s.logger.Info("Starting HTTP API", zap.String("addr", addr))
	if err := s.app.Listen(addr); err != nil {
		return err
	}
	return nil
}

// Shutdown дожидается завершения активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/api/v1")

	v1.Get("/availability", s.getAvailability)

	v1.Post("/bookings", s.submitBooking)
	v1.Get("/bookings", s.listBookings)
	v1.Get("/bookings/:id", s.getBooking)
	v1.Post("/bookings/:id/approve", s.approveBooking)
	v1.Post("/bookings/:id/reject", s.rejectBooking)

	v1.Get("/slots", s.listSlots)
	v1.Get("/rooms", s.listRooms)
	v1.Get("/timetable", s.getTimetable)
	v1.Get("/timetable/sections", s.listSections)
	v1.Get("/stats", s.getStats)
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if err != nil && errors.As(err, &fe) {
		status = fe.Code
	}

	s.logger.Debug("HTTP request",
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}

func (s *Server) withDeadline(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.requestTimeout)
	defer cancel()

	c.SetUserContext(ctx)
	return c.Next()
}
