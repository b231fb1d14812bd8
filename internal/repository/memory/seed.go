package memory

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Seed начальные данные для хранилища в памяти
type Seed struct {
	Rooms     []SeedRoom      `yaml:"rooms"`
	Teachers  []SeedTeacher   `yaml:"teachers"`
	Timetable []SeedTimetable `yaml:"timetable"`
}

type SeedRoom struct {
	RoomNo   string `yaml:"room_no"`
	Building string `yaml:"building"`
	Capacity int    `yaml:"capacity"`
}

type SeedTeacher struct {
	ID         string `yaml:"id,omitempty"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	TelegramID *int64 `yaml:"telegram_id,omitempty"`
}

type SeedTimetable struct {
	Room        string `yaml:"room"`
	Weekday     int    `yaml:"weekday"`
	Slot        int    `yaml:"slot"`
	Subject     string `yaml:"subject"`
	FacultyName string `yaml:"faculty_name"`
	Section     string `yaml:"section"`
}

// LoadSeed читает YAML файл с начальными данными
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return &seed, nil
}

// Apply заполняет хранилище данными сида
func (s *Store) Apply(seed *Seed) error {
	roomIDs := make(map[string]int64, len(seed.Rooms))
	for _, r := range seed.Rooms {
		room, err := s.AddRoom(model.Room{RoomNo: r.RoomNo, Building: r.Building, Capacity: r.Capacity})
		if err != nil {
			return fmt.Errorf("seed room: %w", err)
		}
		roomIDs[room.RoomNo] = room.ID
	}

	for _, t := range seed.Teachers {
		teacher := model.Teacher{Name: t.Name, Email: t.Email, TelegramID: t.TelegramID}
		if t.ID != "" {
			id, err := uuid.Parse(t.ID)
			if err != nil {
				return fmt.Errorf("seed teacher %s: %w", t.Name, err)
			}
			teacher.ID = id
		}
		s.AddTeacher(teacher)
	}

	for _, e := range seed.Timetable {
		roomID, ok := roomIDs[e.Room]
		if !ok {
			return fmt.Errorf("seed timetable: unknown room %s", e.Room)
		}
		weekday := model.Weekday(e.Weekday)
		if !weekday.IsValid() {
			return fmt.Errorf("seed timetable: invalid weekday %d", e.Weekday)
		}
		_, err := s.AddTimetableEntry(model.TimetableEntry{
			RoomID:      roomID,
			Weekday:     weekday,
			Slot:        e.Slot,
			Subject:     e.Subject,
			FacultyName: e.FacultyName,
			Section:     e.Section,
		})
		if err != nil {
			return fmt.Errorf("seed timetable: %w", err)
		}
	}

	return nil
}
