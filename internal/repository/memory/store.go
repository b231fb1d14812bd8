package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/google/uuid"
)

type timetableKey struct {
	roomID  int64
	weekday model.Weekday
	slot    int
}

// Store потокобезопасное хранилище в памяти с теми же гарантиями,
// что и схема PostgreSQL: одно одобренное бронирование на ключ
type Store struct {
	mu         sync.RWMutex
	rooms      map[int64]*model.Room
	teachers   map[uuid.UUID]*model.Teacher
	timetable  map[timetableKey][]*model.TimetableEntry
	bookings   map[uuid.UUID]*model.Booking
	nextRoomID int64
	nextTTID   int64
	now        func() time.Time
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{
		rooms:     make(map[int64]*model.Room),
		teachers:  make(map[uuid.UUID]*model.Teacher),
		timetable: make(map[timetableKey][]*model.TimetableEntry),
		bookings:  make(map[uuid.UUID]*model.Booking),
		now:       time.Now,
	}
}

// Rooms возвращает представление хранилища для аудиторий
func (s *Store) Rooms() *RoomStore { return &RoomStore{s} }

// Teachers возвращает представление хранилища для учителей
func (s *Store) Teachers() *TeacherStore { return &TeacherStore{s} }

// Timetable возвращает представление хранилища для расписания
func (s *Store) Timetable() *TimetableStore { return &TimetableStore{s} }

// Bookings возвращает представление хранилища для бронирований
func (s *Store) Bookings() *BookingStore { return &BookingStore{s} }

// AddRoom добавляет аудиторию. Номер должен быть уникальным
func (s *Store) AddRoom(room model.Room) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rooms {
		if existing.RoomNo == room.RoomNo {
			return nil, fmt.Errorf("room %s already exists", room.RoomNo)
		}
	}

	s.nextRoomID++
	room.ID = s.nextRoomID
	if room.Status == "" {
		room.Status = model.RoomStatusAvailable
	}
	s.rooms[room.ID] = &room

	copied := room
	return &copied, nil
}

// AddTeacher добавляет учителя
func (s *Store) AddTeacher(teacher model.Teacher) *model.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()

	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}
	teacher.CreatedAt = s.now()
	s.teachers[teacher.ID] = &teacher

	copied := teacher
	return &copied
}

// AddTimetableEntry добавляет занятие в расписание. Дубликаты ключа не
// отклоняются: так можно воспроизвести испорченные данные
func (s *Store) AddTimetableEntry(entry model.TimetableEntry) (*model.TimetableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[entry.RoomID]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", entry.RoomID, model.ErrNotFound)
	}

	s.nextTTID++
	entry.ID = s.nextTTID
	entry.RoomNo = room.RoomNo

	key := timetableKey{roomID: entry.RoomID, weekday: entry.Weekday, slot: entry.Slot}
	s.timetable[key] = append(s.timetable[key], &entry)

	copied := entry
	return &copied, nil
}

// ImportBooking кладёт бронирование как есть, минуя проверки.
// Используется сидером и для воспроизведения внешних изменений данных
func (s *Store) ImportBooking(booking model.Booking) *model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = s.now()
	}
	s.bookings[booking.ID] = &booking

	copied := booking
	return &copied
}

// RoomStore аудитории
type RoomStore struct{ s *Store }

// List получает все аудитории по номеру
func (r *RoomStore) List(_ context.Context) ([]*model.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rooms := make([]*model.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNo < rooms[j].RoomNo })

	return rooms, nil
}

// GetByRoomNo получает аудиторию по номеру или nil
func (r *RoomStore) GetByRoomNo(_ context.Context, roomNo string) (*model.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, room := range r.s.rooms {
		if room.RoomNo == roomNo {
			copied := *room
			return &copied, nil
		}
	}
	return nil, nil
}

// UpdateStatus обновляет кэшируемый статус аудитории
func (r *RoomStore) UpdateStatus(_ context.Context, id int64, status model.RoomStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return fmt.Errorf("room %d: %w", id, model.ErrNotFound)
	}
	room.Status = status
	return nil
}

// TeacherStore учителя
type TeacherStore struct{ s *Store }

// GetByID получает учителя по ID или nil
func (t *TeacherStore) GetByID(_ context.Context, id uuid.UUID) (*model.Teacher, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if teacher, ok := t.s.teachers[id]; ok {
		copied := *teacher
		return &copied, nil
	}
	return nil, nil
}

// GetByTelegramID получает учителя по Telegram ID или nil
func (t *TeacherStore) GetByTelegramID(_ context.Context, telegramID int64) (*model.Teacher, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, teacher := range t.s.teachers {
		if teacher.TelegramID != nil && *teacher.TelegramID == telegramID {
			copied := *teacher
			return &copied, nil
		}
	}
	return nil, nil
}

// TimetableStore постоянное расписание
type TimetableStore struct{ s *Store }

// Lookup возвращает занятие или nil, несколько записей - нарушение целостности
func (t *TimetableStore) Lookup(_ context.Context, roomID int64, weekday model.Weekday, slot int) (*model.TimetableEntry, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	entries := t.s.timetable[timetableKey{roomID: roomID, weekday: weekday, slot: slot}]
	switch len(entries) {
	case 0:
		return nil, nil
	case 1:
		copied := *entries[0]
		return &copied, nil
	default:
		return nil, fmt.Errorf("%w: %d timetable entries for room %d weekday %d slot %d",
			model.ErrIntegrityViolation, len(entries), roomID, weekday, slot)
	}
}

// ListBySection сетка расписания группы по дню и слоту
func (t *TimetableStore) ListBySection(_ context.Context, section string) ([]*model.TimetableEntry, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var result []*model.TimetableEntry
	for _, entries := range t.s.timetable {
		for _, entry := range entries {
			if entry.Section == section {
				copied := *entry
				result = append(result, &copied)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].RoomNo < result[j].RoomNo
	})

	return result, nil
}

// ListSections список групп
func (t *TimetableStore) ListSections(_ context.Context) ([]string, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	seen := make(map[string]struct{})
	var sections []string
	for _, entries := range t.s.timetable {
		for _, entry := range entries {
			if _, ok := seen[entry.Section]; ok {
				continue
			}
			seen[entry.Section] = struct{}{}
			sections = append(sections, entry.Section)
		}
	}
	sort.Strings(sections)

	return sections, nil
}

// BookingStore бронирования
type BookingStore struct{ s *Store }

// InsertPending создаёт заявку в статусе pending
func (b *BookingStore) InsertPending(_ context.Context, booking *model.Booking) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	booking.ID = uuid.New()
	booking.Status = model.BookingStatusPending
	booking.CreatedAt = b.s.now()
	booking.DecidedAt = nil

	stored := *booking
	stored.Teacher = nil
	stored.Room = nil
	b.s.bookings[stored.ID] = &stored

	return nil
}

// GetByID получает бронирование или nil
func (b *BookingStore) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	booking, ok := b.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return b.s.withNames(booking), nil
}

// ApprovedAt единственное одобренное бронирование на ключ или nil
func (b *BookingStore) ApprovedAt(_ context.Context, roomID int64, date time.Time, slot int) (*model.Booking, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	found := b.s.approvedAt(roomID, date, slot)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return b.s.withNames(found[0]), nil
	default:
		return nil, fmt.Errorf("%w: %d approved bookings for room %d on %s slot %d",
			model.ErrIntegrityViolation, len(found), roomID, date.Format("2006-01-02"), slot)
	}
}

// Transition переводит pending бронирование в конечный статус атомарно
func (b *BookingStore) Transition(_ context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	if !status.IsTerminal() {
		return nil, &model.ValidationError{Field: "status", Reason: fmt.Sprintf("cannot transition to %q", status)}
	}

	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	booking, ok := b.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
	}
	if booking.Status != model.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is %s: %w", id, booking.Status, model.ErrAlreadyDecided)
	}
	// Аналог частичного уникального индекса по одобренным бронированиям
	if status == model.BookingStatusApproved && len(b.s.approvedAt(booking.RoomID, booking.Date, booking.Slot)) > 0 {
		return nil, fmt.Errorf("transition booking %s: %w", id, model.ErrConflict)
	}

	decidedAt := b.s.now()
	booking.Status = status
	booking.DecidedAt = &decidedAt

	copied := *booking
	return &copied, nil
}

// List бронирования по фильтру, новые первыми
func (b *BookingStore) List(_ context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	var result []*model.Booking
	for _, booking := range b.s.bookings {
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if filter.TeacherID != uuid.Nil && booking.TeacherID != filter.TeacherID {
			continue
		}
		if filter.RoomID != 0 && booking.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != nil && !sameDate(booking.Date, *filter.Date) {
			continue
		}
		result = append(result, b.s.withNames(booking))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// CountByStatus считает бронирования по статусам
func (b *BookingStore) CountByStatus(_ context.Context) (map[model.BookingStatus]int64, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	counts := make(map[model.BookingStatus]int64)
	for _, booking := range b.s.bookings {
		counts[booking.Status]++
	}
	return counts, nil
}

// approvedAt вызывается под блокировкой
func (s *Store) approvedAt(roomID int64, date time.Time, slot int) []*model.Booking {
	var found []*model.Booking
	for _, booking := range s.bookings {
		if booking.Status == model.BookingStatusApproved &&
			booking.RoomID == roomID &&
			booking.Slot == slot &&
			sameDate(booking.Date, date) {
			found = append(found, booking)
		}
	}
	return found
}

// withNames вызывается под блокировкой
func (s *Store) withNames(booking *model.Booking) *model.Booking {
	copied := *booking
	if teacher, ok := s.teachers[booking.TeacherID]; ok {
		copied.Teacher = &model.Teacher{ID: teacher.ID, Name: teacher.Name}
	}
	if room, ok := s.rooms[booking.RoomID]; ok {
		copied.Room = &model.Room{ID: room.ID, RoomNo: room.RoomNo}
	}
	return &copied
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
