package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// bookingRequest тело POST /bookings. Дата строкой "YYYY-MM-DD"
type bookingRequest struct {
	TeacherID string `json:"teacher_id"`
	Room      string `json:"room"`
	Date      string `json:"date"`
	Slot      int    `json:"slot"`
	Purpose   string `json:"purpose"`
}

type slotResponse struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type availabilityResponse struct {
	Date    string          `json:"date"`
	Weekday model.Weekday   `json:"weekday"`
	Slot    slotResponse    `json:"slot"`
	Rooms   []model.Verdict `json:"rooms"`
}

type approveResponse struct {
	Booking *model.Booking `json:"booking"`
	Warning string         `json:"warning,omitempty"`
}

func (s *Server) getAvailability(c *fiber.Ctx) error {
	date, err := parseDateParam("date", c.Query("date"))
	if err != nil {
		return err
	}
	slot, err := parseSlotParam(c.Query("slot"))
	if err != nil {
		return err
	}

	interval, err := s.svc.Calendar.Interval(slot)
	if err != nil {
		return err
	}

	verdicts, err := s.svc.Availability.Check(c.UserContext(), date, slot, strings.TrimSpace(c.Query("room")))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, availabilityResponse{
		Date:    calendar.FormatDate(date),
		Weekday: calendar.WeekdayOf(date),
		Slot:    toSlotResponse(interval),
		Rooms:   verdicts,
	})
}

func (s *Server) submitBooking(c *fiber.Ctx) error {
	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	submit := service.SubmitRequest{
		RoomNo:  req.Room,
		Slot:    req.Slot,
		Purpose: req.Purpose,
	}

	if req.TeacherID != "" {
		id, err := parseUUIDParam("teacher_id", req.TeacherID)
		if err != nil {
			return err
		}
		submit.TeacherID = id
	}

	if req.Date != "" {
		date, err := parseDateParam("date", req.Date)
		if err != nil {
			return err
		}
		submit.Date = date
	}

	booking, err := s.svc.Bookings.Submit(c.UserContext(), submit)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, booking)
}

func (s *Server) listBookings(c *fiber.Ctx) error {
	var filter model.BookingFilter

	if status := c.Query("status"); status != "" {
		filter.Status = model.BookingStatus(status)
		if !filter.Status.IsValid() {
			return &model.ValidationError{Field: "status", Reason: "must be pending, approved or rejected"}
		}
	}

	if teacherID := c.Query("teacher_id"); teacherID != "" {
		id, err := parseUUIDParam("teacher_id", teacherID)
		if err != nil {
			return err
		}
		filter.TeacherID = id
	}

	if date := c.Query("date"); date != "" {
		parsed, err := parseDateParam("date", date)
		if err != nil {
			return err
		}
		filter.Date = &parsed
	}

	if roomNo := strings.TrimSpace(c.Query("room")); roomNo != "" {
		room, err := s.svc.Rooms.GetByRoomNo(c.UserContext(), roomNo)
		if err != nil {
			return err
		}
		filter.RoomID = room.ID
	}

	bookings, err := s.svc.Bookings.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	return success(c, fiber.StatusOK, bookings)
}

func (s *Server) getBooking(c *fiber.Ctx) error {
	id, err := parseUUIDParam("id", c.Params("id"))
	if err != nil {
		return err
	}

	booking, err := s.svc.Bookings.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, booking)
}

func (s *Server) approveBooking(c *fiber.Ctx) error {
	id, err := parseUUIDParam("id", c.Params("id"))
	if err != nil {
		return err
	}

	result, err := s.svc.Bookings.Approve(c.UserContext(), id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, approveResponse{
		Booking: result.Booking,
		Warning: result.Warning,
	})
}

func (s *Server) rejectBooking(c *fiber.Ctx) error {
	id, err := parseUUIDParam("id", c.Params("id"))
	if err != nil {
		return err
	}

	booking, err := s.svc.Bookings.Reject(c.UserContext(), id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, booking)
}

func (s *Server) listSlots(c *fiber.Ctx) error {
	slots := s.svc.Calendar.Slots()
	result := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, toSlotResponse(slot))
	}
	return success(c, fiber.StatusOK, result)
}

func (s *Server) listRooms(c *fiber.Ctx) error {
	rooms, err := s.svc.Rooms.List(c.UserContext())
	if err != nil {
		return err
	}
	if rooms == nil {
		rooms = []*model.Room{}
	}
	return success(c, fiber.StatusOK, rooms)
}

func (s *Server) getTimetable(c *fiber.Ctx) error {
	entries, err := s.svc.Timetable.Grid(c.UserContext(), strings.TrimSpace(c.Query("section")))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*model.TimetableEntry{}
	}
	return success(c, fiber.StatusOK, entries)
}

func (s *Server) listSections(c *fiber.Ctx) error {
	sections, err := s.svc.Timetable.Sections(c.UserContext())
	if err != nil {
		return err
	}
	if sections == nil {
		sections = []string{}
	}
	return success(c, fiber.StatusOK, sections)
}

func (s *Server) getStats(c *fiber.Ctx) error {
	stats, err := s.svc.Bookings.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, stats)
}

func toSlotResponse(slot calendar.SlotInterval) slotResponse {
	return slotResponse{
		ID:    slot.ID,
		Start: slot.StartClock(),
		End:   slot.EndClock(),
		Label: slot.Label(),
	}
}

func parseDateParam(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &model.ValidationError{Field: field, Reason: "is required"}
	}
	date, err := calendar.ParseDate(value)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return date, nil
}

func parseSlotParam(value string) (int, error) {
	if value == "" {
		return 0, &model.ValidationError{Field: "slot", Reason: "is required"}
	}
	slot, err := strconv.Atoi(value)
	if err != nil {
		return 0, &model.ValidationError{Field: "slot", Reason: "must be a number"}
	}
	return slot, nil
}

func parseUUIDParam(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &model.ValidationError{Field: field, Reason: "must be a UUID"}
	}
	return id, nil
}
