package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/google/uuid"
)

var errUsage = errors.New("wrong command usage")

// FreeArgs аргументы /free <дата> <слот> [аудитория]
type FreeArgs struct {
	Date   time.Time
	Slot   int
	RoomNo string
}

// BookArgs аргументы /book <аудитория> <дата> <слот> <цель>
type BookArgs struct {
	RoomNo  string
	Date    time.Time
	Slot    int
	Purpose string
}

// commandArgs отрезает команду (в том числе вида /free@room_bot) и
// возвращает оставшиеся слова
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return fields
	}
	return fields[1:]
}

// ParseFreeArgs разбирает аргументы команды /free
func ParseFreeArgs(text string, today time.Time) (FreeArgs, error) {
	args := commandArgs(text)
	if len(args) < 2 || len(args) > 3 {
		return FreeArgs{}, errUsage
	}

	date, err := parseDate(args[0], today)
	if err != nil {
		return FreeArgs{}, err
	}
	slot, err := parseSlot(args[1])
	if err != nil {
		return FreeArgs{}, err
	}

	result := FreeArgs{Date: date, Slot: slot}
	if len(args) == 3 {
		result.RoomNo = args[2]
	}
	return result, nil
}

// ParseBookArgs разбирает аргументы команды /book. Цель - весь остаток строки
func ParseBookArgs(text string, today time.Time) (BookArgs, error) {
	args := commandArgs(text)
	if len(args) < 4 {
		return BookArgs{}, errUsage
	}

	date, err := parseDate(args[1], today)
	if err != nil {
		return BookArgs{}, err
	}
	slot, err := parseSlot(args[2])
	if err != nil {
		return BookArgs{}, err
	}

	purpose := strings.Join(args[3:], " ")
	if len([]rune(purpose)) > PurposeMaxLength {
		return BookArgs{}, fmt.Errorf("цель длиннее %d символов", PurposeMaxLength)
	}

	return BookArgs{
		RoomNo:  args[0],
		Date:    date,
		Slot:    slot,
		Purpose: purpose,
	}, nil
}

// ParseIDArg разбирает ID заявки из /approve <id> или /reject <id>
func ParseIDArg(text string) (uuid.UUID, error) {
	args := commandArgs(text)
	if len(args) != 1 {
		return uuid.Nil, errUsage
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("некорректный ID заявки %q", args[0])
	}
	return id, nil
}

// parseDate принимает YYYY-MM-DD, ДД.ММ.ГГГГ, "сегодня" и "завтра"
func parseDate(value string, today time.Time) (time.Time, error) {
	switch strings.ToLower(value) {
	case "today", "сегодня":
		return today, nil
	case "tomorrow", "завтра":
		return today.AddDate(0, 0, 1), nil
	}

	if date, err := calendar.ParseDate(value); err == nil {
		return date, nil
	}
	if date, err := time.Parse("02.01.2006", value); err == nil {
		return date, nil
	}
	return time.Time{}, fmt.Errorf("некорректная дата %q, используйте ГГГГ-ММ-ДД или ДД.ММ.ГГГГ", value)
}

func parseSlot(value string) (int, error) {
	slot, err := strconv.Atoi(value)
	if err != nil || slot <= 0 {
		return 0, fmt.Errorf("некорректный номер слота %q", value)
	}
	return slot, nil
}
