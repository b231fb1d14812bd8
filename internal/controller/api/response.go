package api

import (
	"context"
	"errors"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func success(c *fiber.Ctx, code int, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status": "success",
		"code":   code,
		"data":   data,
	})
}

// handleError переводит ошибки сервисов в HTTP коды и единый конверт
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	body := fiber.Map{
		"status":  "error",
		"code":    code,
		"message": err.Error(),
	}

	var conflict *model.ConflictError
	if errors.As(err, &conflict) {
		body["verdict"] = conflict.Verdict
	}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		body["field"] = validation.Field
	}

	if code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable {
		s.logger.Error("HTTP request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		body["message"] = "internal server error"
	}

	return c.Status(code).JSON(body)
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidSlot):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrAlreadyDecided):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
