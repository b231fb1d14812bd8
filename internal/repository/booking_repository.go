package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/Freeeeeet/room_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `b.id, b.teacher_id, b.room_id, b.date, b.slot, b.weekday, b.purpose, b.status, b.created_at, b.decided_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// InsertPending создаёт новую заявку в статусе pending
func (r *BookingRepository) InsertPending(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (teacher_id, room_id, date, slot, weekday, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, status, created_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.TeacherID,
		booking.RoomID,
		booking.Date,
		booking.Slot,
		booking.Weekday,
		booking.Purpose,
	).Scan(&booking.ID, &booking.Status, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert pending booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID вместе с именем учителя
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, t.name, rm.room_no
		FROM bookings b
		JOIN teachers t ON t.id = b.teacher_id
		JOIN rooms rm ON rm.id = b.room_id
		WHERE b.id = $1
	`

	booking, err := scanBookingWithNames(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ApprovedAt возвращает единственное одобренное бронирование для ключа.
// Больше одной строки - нарушение целостности
func (r *BookingRepository) ApprovedAt(ctx context.Context, roomID int64, date time.Time, slot int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, t.name, rm.room_no
		FROM bookings b
		JOIN teachers t ON t.id = b.teacher_id
		JOIN rooms rm ON rm.id = b.room_id
		WHERE b.room_id = $1 AND b.date = $2 AND b.slot = $3 AND b.status = 'approved'
		LIMIT 2
	`

	rows, err := r.Query(ctx, query, roomID, date, slot)
	if err != nil {
		return nil, fmt.Errorf("get approved booking: %w", err)
	}
	defer rows.Close()

	var found []*model.Booking
	for rows.Next() {
		booking, err := scanBookingWithNames(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		found = append(found, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approved bookings: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: several approved bookings for room %d on %s slot %d",
			model.ErrIntegrityViolation, roomID, date.Format("2006-01-02"), slot)
	}
}

// Transition переводит pending бронирование в новый статус одной командой
func (r *BookingRepository) Transition(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	if !status.IsTerminal() {
		return nil, &model.ValidationError{Field: "status", Reason: fmt.Sprintf("cannot transition to %q", status)}
	}

	query := `
		UPDATE bookings b
		SET status = $1, decided_at = now()
		WHERE b.id = $2 AND b.status = 'pending'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.QueryRow(ctx, query, status, id))
	if err == nil {
		return booking, nil
	}

	if base.IsUniqueViolation(err) {
		return nil, fmt.Errorf("transition booking %s: %w", id, model.ErrConflict)
	}
	// Срабатывает при заданном lock_timeout, если строку держит другая транзакция
	if base.IsLockNotAvailable(err) {
		return nil, fmt.Errorf("transition booking %s: %w", id, model.ErrLockTimeout)
	}
	if !base.IsNotFound(err) {
		return nil, fmt.Errorf("transition booking: %w", err)
	}

	// Строка не обновилась: либо её нет, либо решение уже принято
	var current model.BookingStatus
	err = r.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get booking status: %w", err)
	}

	return nil, fmt.Errorf("booking %s is %s: %w", id, current, model.ErrAlreadyDecided)
}

// List получает бронирования по фильтру, новые первыми
func (r *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.TeacherID != uuid.Nil {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("b.teacher_id = $%d", len(args)))
	}
	if filter.RoomID != 0 {
		args = append(args, filter.RoomID)
		conditions = append(conditions, fmt.Sprintf("b.room_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conditions = append(conditions, fmt.Sprintf("b.date = $%d", len(args)))
	}

	query := `
		SELECT ` + bookingColumns + `, t.name, rm.room_no
		FROM bookings b
		JOIN teachers t ON t.id = b.teacher_id
		JOIN rooms rm ON rm.id = b.room_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.created_at DESC"

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBookingWithNames(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// CountByStatus считает бронирования по статусам
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	rows, err := r.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int64)
	for rows.Next() {
		var (
			status model.BookingStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TeacherID,
		&booking.RoomID,
		&booking.Date,
		&booking.Slot,
		&booking.Weekday,
		&booking.Purpose,
		&booking.Status,
		&booking.CreatedAt,
		&booking.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func scanBookingWithNames(row pgx.Row) (*model.Booking, error) {
	var (
		booking     model.Booking
		teacherName string
		roomNo      string
	)
	err := row.Scan(
		&booking.ID,
		&booking.TeacherID,
		&booking.RoomID,
		&booking.Date,
		&booking.Slot,
		&booking.Weekday,
		&booking.Purpose,
		&booking.Status,
		&booking.CreatedAt,
		&booking.DecidedAt,
		&teacherName,
		&roomNo,
	)
	if err != nil {
		return nil, err
	}

	booking.Teacher = &model.Teacher{ID: booking.TeacherID, Name: teacherName}
	booking.Room = &model.Room{ID: booking.RoomID, RoomNo: roomNo}
	return &booking, nil
}
