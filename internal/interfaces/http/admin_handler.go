package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/approval"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
)

// AdminHandler acciones de administración (requieren isAdmin en la sesión).
type AdminHandler struct {
	uc *approval.ApprovalUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *approval.ApprovalUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// GetPending godoc
// @Summary      Usuarios pendientes de aprobación
// @Tags         admin
// @Produce      json
// @Param        action  query  string  true  "admin-get-pending"
// @Success      200     {array}   dto.UserResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api [get]
func (h *AdminHandler) GetPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetAllUsers lista todos los usuarios.
func (h *AdminHandler) GetAllUsers(c *fiber.Ctx) error {
	list, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// ApproveUser godoc
// @Summary      Aprobar usuario
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        action  query  string                  true  "admin-approve-user"
// @Param        body    body   dto.ApproveUserRequest  true  "userId y shift"
// @Success      200     {object}  dto.MessageResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api [post]
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	var in dto.ApproveUserRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.ErrInvalidShift
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	u, err := h.uc.ApproveUser(c.UserContext(), in.UserID, in.Shift)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User %d approved for %s shift.", u.ID, u.Shift)})
}

// ManageRequest godoc
// @Summary      Aprobar o rechazar una solicitud
// @Description  Al aprobar se vuelve a verificar el tope de 2 aprobadas por turno y fecha.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        action  query  string                    true  "admin-manage-request"
// @Param        body    body   dto.ManageRequestRequest  true  "dayOffId y action"
// @Success      200     {object}  dto.DayOffResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api [post]
func (h *AdminHandler) ManageRequest(c *fiber.Ctx) error {
	var in dto.ManageRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.Invalid("dayOffId and action are required.")
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	out, err := h.uc.ManageDayOffRequest(c.UserContext(), in.DayOffID, in.Action)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetCalendar conteos pending/approved por fecha del mes.
func (h *AdminHandler) GetCalendar(c *fiber.Ctx) error {
	var q dto.CalendarQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.Invalid("Month and year are required.")
	}
	if err := validateStruct(q); err != nil {
		return err
	}
	out, err := h.uc.Calendar(c.UserContext(), q.Year, time.Month(q.Month))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetDayDetails solicitudes de una fecha.
func (h *AdminHandler) GetDayDetails(c *fiber.Ctx) error {
	var q dto.DayDetailsQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.Invalid("A date is required.")
	}
	if err := validateStruct(q); err != nil {
		return err
	}
	out, err := h.uc.DayDetails(c.UserContext(), q.Date)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteUser elimina un usuario y sus solicitudes.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	var in dto.DeleteUserRequest
	if err := c.BodyParser(&in); err != nil {
		return domain.Invalid("userId is required.")
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := h.uc.DeleteUser(c.UserContext(), GetUserID(c), in.UserID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User %d deleted.", in.UserID)})
}
