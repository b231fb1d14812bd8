package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyDecided     = errors.New("booking already decided")
	ErrConflict           = errors.New("slot is occupied")
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrLockTimeout        = errors.New("lock acquisition timed out")
)

// ValidationError ошибка входных данных с указанием поля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError отказ в одобрении: слот уже занят
type ConflictError struct {
	Verdict Verdict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot is occupied: %s", e.Verdict.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
