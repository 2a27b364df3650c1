package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// errorStatus traduce errores de dominio a status HTTP y cuerpo; ok=false si no es un error conocido.
func errorStatus(err error) (int, dto.ErrorResponse, bool) {
	var ve *domain.ValidationError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: ve.Message}, true
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "No active session."}, true
	case errors.Is(err, domain.ErrInvalidSignature):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "Invalid hash. Authentication failed."}, true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "Forbidden."}, true
	case errors.Is(err, domain.ErrInvalidShift):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_SHIFT", Message: "Invalid userId or shift provided."}, true
	case errors.Is(err, domain.ErrQuotaExceeded):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "QUOTA_EXCEEDED", Message: unwrapMessage(err)}, true
	case errors.Is(err, domain.ErrDateUnavailable):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "DATE_UNAVAILABLE", Message: unwrapMessage(err)}, true
	case errors.Is(err, domain.ErrDuplicateDate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_DATE", Message: unwrapMessage(err)}, true
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "The request cannot change to that status."}, true
	case errors.Is(err, domain.ErrNotPending):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_PENDING", Message: "User not found or was not pending approval."}, true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "Not found."}, true
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "Invalid input."}, true
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return fe.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message}, true
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Server error."}, false
}

// unwrapMessage usa el mensaje del error tipado y no el del wrapper.
func unwrapMessage(err error) string {
	var qe *domain.QuotaError
	if errors.As(err, &qe) {
		return qe.Error()
	}
	var du *domain.DateUnavailableError
	if errors.As(err, &du) {
		return du.Error()
	}
	var dd *domain.DuplicateDateError
	if errors.As(err, &dd) {
		return dd.Error()
	}
	return err.Error()
}

// ErrorHandler handler de errores de Fiber: errores de dominio con su status, el resto 500 genérico y logueado.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body, known := errorStatus(err)
		if !known {
			log.Error().Err(err).
				Str("request_id", GetRequestID(c)).
				Str("action", c.Query("action")).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}
