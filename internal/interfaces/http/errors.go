package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código.
type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: se usa la primera coincidencia de errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrUnknownRole, fiber.StatusForbidden, "UNKNOWN_ROLE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidPeriod, fiber.StatusBadRequest, "INVALID_PERIOD"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrFarmerNotFound, fiber.StatusNotFound, "FARMER_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicatePayment, fiber.StatusConflict, "DUPLICATE_PAYMENT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNotPayable, fiber.StatusUnprocessableEntity, "NOT_PAYABLE"},
	{domain.ErrCenterInactive, fiber.StatusUnprocessableEntity, "CENTER_INACTIVE"},
	{domain.ErrFarmerCodeExhausted, fiber.StatusServiceUnavailable, "FARMER_CODE_CONFLICT"},
}

// internalMessage es lo único que ve el cliente de un error no mapeado; la causa va al log.
const internalMessage = "error interno"

// writeError responde con el ErrorResponse que corresponde a err; lo no mapeado es 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
