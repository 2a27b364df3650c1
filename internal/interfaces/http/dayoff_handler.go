package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/dayoff"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// DayOffHandler acciones de días libres del usuario.
type DayOffHandler struct {
	uc *dayoff.AdmissionUseCase
}

// NewDayOffHandler construye el handler.
func NewDayOffHandler(uc *dayoff.AdmissionUseCase) *DayOffHandler {
	return &DayOffHandler{uc: uc}
}

// GetCalendar godoc
// @Summary      Calendario del turno
// @Description  Aprobadas por fecha del turno del usuario en el mes y sus propias solicitudes.
// @Tags         days-off
// @Produce      json
// @Param        action  query  string  true  "get-calendar"
// @Param        month   query  int     true  "1-12"
// @Param        year    query  int     true  "año"
// @Success      200     {object}  dto.CalendarResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api [get]
func (h *DayOffHandler) GetCalendar(c *fiber.Ctx) error {
	var q dto.CalendarQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.Invalid("Month and year are required.")
	}
	if err := validateStruct(q); err != nil {
		return err
	}
	out, err := h.uc.Calendar(c.UserContext(), GetUserID(c), q.Year, time.Month(q.Month))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RequestDaysOff godoc
// @Summary      Solicitar días libres
// @Description  Todo o nada: cupo de 4 por usuario y tope de 2 aprobadas por turno y fecha.
// @Tags         days-off
// @Accept       json
// @Produce      json
// @Param        action  query  string                     true  "request-days-off"
// @Param        body    body   dto.RequestDaysOffRequest  true  "fechas YYYY-MM-DD"
// @Success      201     {object}  dto.RequestDaysOffResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api [post]
func (h *DayOffHandler) RequestDaysOff(c *fiber.Ctx) error {
	var in dto.RequestDaysOffRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.Invalid("An array of dates is required.")
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	claims := GetClaims(c)
	out, err := h.uc.RequestDaysOff(c.UserContext(), claims.UserID, entity.Shift(claims.Shift), in.Dates)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CancelDayOff elimina una solicitud propia todavía pending.
func (h *DayOffHandler) CancelDayOff(c *fiber.Ctx) error {
	var in dto.CancelDayOffRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.Invalid("A date is required.")
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := h.uc.CancelDayOff(c.UserContext(), GetUserID(c), in.Date); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Day off " + in.Date + " cancelled."})
}
