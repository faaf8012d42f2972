package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/dto"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
)

// errorResponse mapea errores de dominio a códigos HTTP. Los conflictos de
// estado, versión y stock devuelven 409 para que el cliente relea y reintente.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrBelowMinimumQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BELOW_MINIMUM", Message: err.Error()})
	case errors.Is(err, domain.ErrRegalosLimitExceeded):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "REGALOS_LIMIT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VERSION_CONFLICT", Message: "conflicto de versión, reintente"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrAmountBelowExpected):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "AMOUNT_BELOW_EXPECTED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
