package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TimetableRepository читает постоянное расписание. Запись ведётся вне движка
type TimetableRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewTimetableRepository создаёт новый репозиторий
func NewTimetableRepository(pool *pgxpool.Pool, logger *zap.Logger) *TimetableRepository {
	return &TimetableRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Lookup возвращает занятие в аудитории на день недели и слот или nil
func (r *TimetableRepository) Lookup(ctx context.Context, roomID int64, weekday model.Weekday, slot int) (*model.TimetableEntry, error) {
	query := `
		SELECT tt.id, tt.room_id, tt.weekday, tt.slot, tt.subject, tt.faculty_name, tt.section, rm.room_no
		FROM timetable tt
		JOIN rooms rm ON rm.id = tt.room_id
		WHERE tt.room_id = $1 AND tt.weekday = $2 AND tt.slot = $3
		LIMIT 2
	`

	entries, err := r.collect(ctx, query, roomID, weekday, slot)
	if err != nil {
		return nil, fmt.Errorf("lookup timetable: %w", err)
	}

	switch len(entries) {
	case 0:
		return nil, nil
	case 1:
		return entries[0], nil
	default:
		r.logger.Error("Duplicate timetable entries",
			zap.Int64("room_id", roomID),
			zap.Int("weekday", int(weekday)),
			zap.Int("slot", slot),
		)
		return nil, fmt.Errorf("%w: several timetable entries for room %d weekday %d slot %d",
			model.ErrIntegrityViolation, roomID, weekday, slot)
	}
}

// ListBySection получает сетку расписания группы
func (r *TimetableRepository) ListBySection(ctx context.Context, section string) ([]*model.TimetableEntry, error) {
	query := `
		SELECT tt.id, tt.room_id, tt.weekday, tt.slot, tt.subject, tt.faculty_name, tt.section, rm.room_no
		FROM timetable tt
		JOIN rooms rm ON rm.id = tt.room_id
		WHERE tt.section = $1
		ORDER BY tt.weekday, tt.slot
	`

	entries, err := r.collect(ctx, query, section)
	if err != nil {
		return nil, fmt.Errorf("list timetable by section: %w", err)
	}

	return entries, nil
}

// ListSections получает список групп, у которых есть расписание
func (r *TimetableRepository) ListSections(ctx context.Context) ([]string, error) {
	rows, err := r.Query(ctx, `SELECT DISTINCT section FROM timetable ORDER BY section`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []string
	for rows.Next() {
		var section string
		if err := rows.Scan(&section); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}

func (r *TimetableRepository) collect(ctx context.Context, query string, args ...interface{}) ([]*model.TimetableEntry, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.TimetableEntry
	for rows.Next() {
		var entry model.TimetableEntry
		err := rows.Scan(
			&entry.ID,
			&entry.RoomID,
			&entry.Weekday,
			&entry.Slot,
			&entry.Subject,
			&entry.FacultyName,
			&entry.Section,
			&entry.RoomNo,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timetable entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
