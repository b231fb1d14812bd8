package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_scheduler/internal/model"
)

// TimetableService просмотр постоянного расписания по группам
type TimetableService struct {
	timetable TimetableStore
}

func NewTimetableService(timetable TimetableStore) *TimetableService {
	return &TimetableService{timetable: timetable}
}

// Grid получает расписание группы, упорядоченное по дню и слоту
func (s *TimetableService) Grid(ctx context.Context, section string) ([]*model.TimetableEntry, error) {
	if section == "" {
		return nil, &model.ValidationError{Field: "section", Reason: "is required"}
	}

	entries, err := s.timetable.ListBySection(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("get timetable grid: %w", err)
	}
	return entries, nil
}

// Sections получает список групп
func (s *TimetableService) Sections(ctx context.Context) ([]string, error) {
	return s.timetable.ListSections(ctx)
}
