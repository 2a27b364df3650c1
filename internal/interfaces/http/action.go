package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dto"
)

// Action operación solicitada vía ?action=.
type Action string

const (
	ActionAuthTelegram       Action = "auth-telegram"
	ActionLogout             Action = "logout"
	ActionUserInfo           Action = "user-info"
	ActionGetCalendar        Action = "get-calendar"
	ActionRequestDaysOff     Action = "request-days-off"
	ActionCancelDayOff       Action = "cancel-day-off"
	ActionAdminGetPending    Action = "admin-get-pending"
	ActionAdminGetAllUsers   Action = "admin-get-all-users"
	ActionAdminApproveUser   Action = "admin-approve-user"
	ActionAdminManageRequest Action = "admin-manage-request"
	ActionAdminGetCalendar   Action = "admin-get-calendar"
	ActionAdminDayDetails    Action = "admin-get-day-details"
	ActionAdminDeleteUser    Action = "admin-delete-user"
)

type route struct {
	method  string
	guard   Guard
	handler fiber.Handler
}

// Dispatcher resuelve la acción a su ruta tipada: método, guard y handler.
type Dispatcher struct {
	routes   map[Action]route
	sessions *auth.SessionAuthenticator
}

// NewDispatcher arma la tabla de acciones.
func NewDispatcher(deps RouterDeps) *Dispatcher {
	authH := NewAuthHandler(deps.TelegramAuth, deps.UserUC, deps.Cookie)
	dayOffH := NewDayOffHandler(deps.Admission)
	adminH := NewAdminHandler(deps.Approval)

	return &Dispatcher{
		sessions: deps.Sessions,
		routes: map[Action]route{
			ActionAuthTelegram:       {fiber.MethodPost, GuardNone, authH.AuthTelegram},
			ActionLogout:             {fiber.MethodPost, GuardNone, authH.Logout},
			ActionUserInfo:           {fiber.MethodGet, GuardSession, authH.UserInfo},
			ActionGetCalendar:        {fiber.MethodGet, GuardActive, dayOffH.GetCalendar},
			ActionRequestDaysOff:     {fiber.MethodPost, GuardActive, dayOffH.RequestDaysOff},
			ActionCancelDayOff:       {fiber.MethodPost, GuardActive, dayOffH.CancelDayOff},
			ActionAdminGetPending:    {fiber.MethodGet, GuardAdmin, adminH.GetPending},
			ActionAdminGetAllUsers:   {fiber.MethodGet, GuardAdmin, adminH.GetAllUsers},
			ActionAdminApproveUser:   {fiber.MethodPost, GuardAdmin, adminH.ApproveUser},
			ActionAdminManageRequest: {fiber.MethodPost, GuardAdmin, adminH.ManageRequest},
			ActionAdminGetCalendar:   {fiber.MethodGet, GuardAdmin, adminH.GetCalendar},
			ActionAdminDayDetails:    {fiber.MethodGet, GuardAdmin, adminH.GetDayDetails},
			ActionAdminDeleteUser:    {fiber.MethodPost, GuardAdmin, adminH.DeleteUser},
		},
	}
}

// Handle valida acción y método antes de autenticar; luego aplica el guard y delega.
func (d *Dispatcher) Handle(c *fiber.Ctx) error {
	action := Action(strings.TrimSpace(c.Query("action")))
	r, ok := d.routes[action]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ACTION_NOT_FOUND", Message: "Action not found."})
	}
	if c.Method() != r.method {
		c.Set(fiber.HeaderAllow, r.method)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "Method Not Allowed"})
	}
	if err := authorize(c, d.sessions, r.guard); err != nil {
		return err
	}
	return r.handler(c)
}
