package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/lock"
	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
	Verdict *model.Verdict  `json:"verdict"`
}

type testServer struct {
	server *Server
	alice  *model.Teacher
	bob    *model.Teacher
}

type stuckLocker struct{}

func (stuckLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, model.ErrLockTimeout
}

// waitingLocker ждёт блокировку, пока контекст не истечёт
type waitingLocker struct{}

func (waitingLocker) Acquire(ctx context.Context, _ string, _ time.Duration) (func(), error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestServer(t *testing.T, locker service.Locker) *testServer {
	return newTestServerWithTimeout(t, locker, 15*time.Second)
}

func newTestServerWithTimeout(t *testing.T, locker service.Locker, requestTimeout time.Duration) *testServer {
	t.Helper()

	store := memory.NewStore()
	_, err := store.AddRoom(model.Room{RoomNo: "A101", Building: "Main Block", Capacity: 40})
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

	alice := store.AddTeacher(model.Teacher{Name: "Alice Ivanova"})
	bob := store.AddTeacher(model.Teacher{Name: "Bob Sidorov"})

	if locker == nil {
		locker = lock.NewKeyedMutex()
	}

	cal := calendar.MustDefault()
	logger := zap.NewNop()
	availability := service.NewAvailabilityService(cal, store.Rooms(), store.Timetable(), store.Bookings(), 2, logger)

	server := NewServer(Services{
		Calendar:     cal,
		Availability: availability,
		Bookings: service.NewBookingService(cal, store.Rooms(), store.Teachers(), store.Bookings(),
			availability, locker, time.Second, logger),
		Rooms:     service.NewRoomService(cal, store.Rooms(), availability, time.UTC, logger),
		Timetable: service.NewTimetableService(store.Timetable()),
	}, requestTimeout, logger)

	return &testServer{server: server, alice: alice, bob: bob}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (ts *testServer) submit(t *testing.T, teacher *model.Teacher, room, date string, slot int) *model.Booking {
	t.Helper()

	code, env := ts.do(t, http.MethodPost, "/api/v1/bookings", bookingRequest{
		TeacherID: teacher.ID.String(),
		Room:      room,
		Date:      date,
		Slot:      slot,
		Purpose:   "guest lecture",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var booking model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	return &booking
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.server.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAvailabilityFixedClass(t *testing.T) {
	ts := newTestServer(t, nil)

	code, env := ts.do(t, http.MethodGet, "/api/v1/availability?date=2024-09-04&slot=1", nil)
	require.Equal(t, http.StatusOK, code)

	var report availabilityResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "2024-09-04", report.Date)
	assert.Equal(t, model.Wednesday, report.Weekday)
	assert.Equal(t, "09:00-09:50", report.Slot.Label)

	require.Len(t, report.Rooms, 2)
	assert.Equal(t, "A101", report.Rooms[0].RoomNo)
	assert.Equal(t, model.OccupancyFree, report.Rooms[0].Status)
	assert.Equal(t, "B203", report.Rooms[1].RoomNo)
	assert.Equal(t, "fixed class: Algorithms (Dr. Rao)", report.Rooms[1].Reason)
}

func TestAvailabilityBadInput(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name  string
		path  string
		code  int
		field string
	}{
		{"missing date", "/api/v1/availability?slot=1", http.StatusBadRequest, "date"},
		{"bad date", "/api/v1/availability?date=04.09.2024&slot=1", http.StatusBadRequest, "date"},
		{"bad slot", "/api/v1/availability?date=2024-09-04&slot=first", http.StatusBadRequest, "slot"},
		{"unknown slot", "/api/v1/availability?date=2024-09-04&slot=9", http.StatusBadRequest, ""},
		{"unknown room", "/api/v1/availability?date=2024-09-04&slot=1&room=Z999", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := ts.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.code, env.Code)
			assert.Equal(t, tt.field, env.Field)
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	first := ts.submit(t, ts.alice, "A101", "2024-09-03", 2)
	second := ts.submit(t, ts.bob, "A101", "2024-09-03", 2)
	assert.Equal(t, model.BookingStatusPending, first.Status)
	assert.Equal(t, model.Tuesday, first.Weekday)

	code, env := ts.do(t, http.MethodPost, "/api/v1/bookings/"+first.ID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var approved approveResponse
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, model.BookingStatusApproved, approved.Booking.Status)
	assert.Empty(t, approved.Warning)

	code, env = ts.do(t, http.MethodGet, "/api/v1/availability?date=2024-09-03&slot=2&room=A101", nil)
	require.Equal(t, http.StatusOK, code)
	var report availabilityResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.Len(t, report.Rooms, 1)
	assert.Equal(t, "booked by Alice Ivanova", report.Rooms[0].Reason)
	assert.Equal(t, first.ID.String(), report.Rooms[0].BookingID)

	code, env = ts.do(t, http.MethodPost, "/api/v1/bookings/"+second.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Verdict)
	assert.Equal(t, "booked by Alice Ivanova", env.Verdict.Reason)

	code, env = ts.do(t, http.MethodGet, "/api/v1/bookings/"+second.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var loser model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &loser))
	assert.Equal(t, model.BookingStatusPending, loser.Status)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/bookings/"+first.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/bookings/"+second.ID.String()+"/reject", nil)
	require.Equal(t, http.StatusOK, code)
	var rejected model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &rejected))
	assert.Equal(t, model.BookingStatusRejected, rejected.Status)

	code, env = ts.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats model.BookingStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, model.BookingStats{Approved: 1, Rejected: 1, Rooms: 2, RoomsOccupied: 1}, stats)
}

func TestSubmitValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name  string
		req   bookingRequest
		field string
	}{
		{"bad teacher id", bookingRequest{TeacherID: "alice", Room: "A101", Date: "2024-09-03", Slot: 1, Purpose: "x"}, "teacher_id"},
		{"bad date", bookingRequest{TeacherID: ts.alice.ID.String(), Room: "A101", Date: "tomorrow", Slot: 1, Purpose: "x"}, "date"},
		{"missing purpose", bookingRequest{TeacherID: ts.alice.ID.String(), Room: "A101", Date: "2024-09-03", Slot: 1}, "purpose"},
		{"unknown room", bookingRequest{TeacherID: ts.alice.ID.String(), Room: "Z999", Date: "2024-09-03", Slot: 1, Purpose: "x"}, "room"},
		{"unknown slot", bookingRequest{TeacherID: ts.alice.ID.String(), Room: "A101", Date: "2024-09-03", Slot: 7, Purpose: "x"}, "slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := ts.do(t, http.MethodPost, "/api/v1/bookings", tt.req)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.field, env.Field)
		})
	}
}

func TestBookingByIDErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	code, env := ts.do(t, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "id", env.Field)

	missing := "/api/v1/bookings/6f1c2a4e-6f0a-4c53-9b7e-3c1f2d9a8b70"
	code, _ = ts.do(t, http.MethodGet, missing, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodPost, missing+"/approve", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodPost, missing+"/reject", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApproveLockTimeout(t *testing.T) {
	ts := newTestServer(t, stuckLocker{})
	booking := ts.submit(t, ts.alice, "A101", "2024-09-03", 2)

	code, env := ts.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, env.Message, "timed out")
}

func TestRequestDeadlineBoundsApproval(t *testing.T) {
	ts := newTestServerWithTimeout(t, waitingLocker{}, 50*time.Millisecond)
	booking := ts.submit(t, ts.alice, "A101", "2024-09-03", 2)

	start := time.Now()
	code, env := ts.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", env.Status)
	assert.Less(t, time.Since(start), 5*time.Second)

	code, env = ts.do(t, http.MethodGet, "/api/v1/bookings/"+booking.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	var stored model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, model.BookingStatusPending, stored.Status)
}

func TestListBookingsFilters(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.submit(t, ts.alice, "A101", "2024-09-03", 2)
	ts.submit(t, ts.bob, "B203", "2024-09-03", 3)

	list := func(query string) []*model.Booking {
		code, env := ts.do(t, http.MethodGet, "/api/v1/bookings"+query, nil)
		require.Equal(t, http.StatusOK, code, env.Message)
		var bookings []*model.Booking
		require.NoError(t, json.Unmarshal(env.Data, &bookings))
		return bookings
	}

	assert.Len(t, list(""), 2)
	assert.Len(t, list("?status=pending"), 2)
	assert.Empty(t, list("?status=approved"))
	assert.Len(t, list("?room=B203"), 1)
	assert.Len(t, list("?teacher_id="+ts.alice.ID.String()), 1)
	assert.Len(t, list("?date=2024-09-03"), 2)
	assert.Empty(t, list("?date=2024-09-04"))

	code, env := ts.do(t, http.MethodGet, "/api/v1/bookings?status=cancelled", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "status", env.Field)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/bookings?room=Z999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReferenceEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	code, env := ts.do(t, http.MethodGet, "/api/v1/slots", nil)
	require.Equal(t, http.StatusOK, code)
	var slots []slotResponse
	require.NoError(t, json.Unmarshal(env.Data, &slots))
	require.Len(t, slots, 4)
	assert.Equal(t, slotResponse{ID: 3, Start: "10:50", End: "11:40", Label: "10:50-11:40"}, slots[2])

	code, env = ts.do(t, http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, code)
	var rooms []*model.Room
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	assert.Len(t, rooms, 2)

	code, env = ts.do(t, http.MethodGet, "/api/v1/timetable", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "section", env.Field)

	code, env = ts.do(t, http.MethodGet, "/api/v1/timetable?section=CSE-A", nil)
	require.Equal(t, http.StatusOK, code)
	var entries []*model.TimetableEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "B203", entries[0].RoomNo)

	code, env = ts.do(t, http.MethodGet, "/api/v1/timetable/sections", nil)
	require.Equal(t, http.StatusOK, code)
	var sections []string
	require.NoError(t, json.Unmarshal(env.Data, &sections))
	assert.Equal(t, []string{"CSE-A"}, sections)
}
