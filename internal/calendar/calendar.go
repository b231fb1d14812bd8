package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
)

const dateLayout = "2006-01-02"

// SlotDef описание слота из конфигурации: время в формате "15:04"
type SlotDef struct {
	ID    int
	Start string
	End   string
}

// SlotInterval границы слота, смещение от полуночи
type SlotInterval struct {
	ID    int           `json:"id"`
	Start time.Duration `json:"-"`
	End   time.Duration `json:"-"`
}

// Label возвращает диапазон в виде "09:00-09:50"
func (s SlotInterval) Label() string {
	return fmt.Sprintf("%s-%s", s.StartClock(), s.EndClock())
}

// StartClock время начала "15:04"
func (s SlotInterval) StartClock() string { return clock(s.Start) }

// EndClock время окончания "15:04"
func (s SlotInterval) EndClock() string { return clock(s.End) }

// On возвращает абсолютные границы слота для даты
func (s SlotInterval) On(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(s.Start), day.Add(s.End)
}

// DefaultSlots набор слотов по умолчанию
var DefaultSlots = []SlotDef{
	{ID: 1, Start: "09:00", End: "09:50"},
	{ID: 2, Start: "09:50", End: "10:40"},
	{ID: 3, Start: "10:50", End: "11:40"},
	{ID: 4, Start: "11:40", End: "12:30"},
}

// Calendar фиксированный набор слотов, общий для всех аудиторий
type Calendar struct {
	slots map[int]SlotInterval
	order []int
}

// New создаёт календарь и проверяет конфигурацию слотов
func New(defs []SlotDef) (*Calendar, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("slot set is empty")
	}

	c := &Calendar{slots: make(map[int]SlotInterval, len(defs))}
	for _, def := range defs {
		if def.ID <= 0 {
			return nil, fmt.Errorf("slot id must be positive, got %d", def.ID)
		}
		if _, exists := c.slots[def.ID]; exists {
			return nil, fmt.Errorf("duplicate slot id %d", def.ID)
		}

		start, err := parseClock(def.Start)
		if err != nil {
			return nil, fmt.Errorf("slot %d start: %w", def.ID, err)
		}
		end, err := parseClock(def.End)
		if err != nil {
			return nil, fmt.Errorf("slot %d end: %w", def.ID, err)
		}
		if start >= end {
			return nil, fmt.Errorf("slot %d: start %s is not before end %s", def.ID, def.Start, def.End)
		}

		c.slots[def.ID] = SlotInterval{ID: def.ID, Start: start, End: end}
		c.order = append(c.order, def.ID)
	}
	sort.Ints(c.order)

	return c, nil
}

// MustDefault календарь со слотами по умолчанию
func MustDefault() *Calendar {
	c, err := New(DefaultSlots)
	if err != nil {
		panic("default slots are invalid: " + err.Error())
	}
	return c
}

// WeekdayOf переводит дату в день недели 1..7.
// time.Sunday == 0 превращается в 7
func WeekdayOf(date time.Time) model.Weekday {
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7
	}
	return model.Weekday(wd)
}

// Interval возвращает границы слота
func (c *Calendar) Interval(slot int) (SlotInterval, error) {
	interval, ok := c.slots[slot]
	if !ok {
		return SlotInterval{}, fmt.Errorf("%w: %d", model.ErrInvalidSlot, slot)
	}
	return interval, nil
}

// Has проверяет существование слота
func (c *Calendar) Has(slot int) bool {
	_, ok := c.slots[slot]
	return ok
}

// Slots возвращает все слоты по возрастанию id
func (c *Calendar) Slots() []SlotInterval {
	result := make([]SlotInterval, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.slots[id])
	}
	return result
}

// SlotAt находит слот, который идёт в момент t (границы [start, end))
func (c *Calendar) SlotAt(t time.Time) (SlotInterval, bool) {
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	for _, id := range c.order {
		s := c.slots[id]
		if offset >= s.Start && offset < s.End {
			return s, true
		}
	}
	return SlotInterval{}, false
}

// ParseDate разбирает дату "YYYY-MM-DD" в полночь UTC
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return date, nil
}

// DateOf отбрасывает время и зону, оставляя календарную дату в UTC
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate форматирует дату в "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
