package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/telegram"
)

// AuthHandler maneja login con Telegram, logout y datos de la sesión.
type AuthHandler struct {
	uc     *auth.TelegramAuthUseCase
	userUC *usecase.UserUseCase
	cookie config.CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.TelegramAuthUseCase, userUC *usecase.UserUseCase, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, userUC: userUC, cookie: cookie}
}

// AuthTelegram godoc
// @Summary      Login con Telegram
// @Description  Verifica el payload firmado del Telegram Login Widget y entrega la cookie de sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        action  query  string  true  "auth-telegram"
// @Param        body    body   object  true  "payload del widget (id, first_name, ..., hash)"
// @Success      200     {object}  dto.UserInfo
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api [post]
func (h *AuthHandler) AuthTelegram(c *fiber.Ctx) error {
	payload, err := telegram.DecodePayload(c.Body())
	if err != nil {
		return domain.Invalid("Invalid Telegram payload.")
	}
	res, err := h.uc.AuthenticateTelegram(c.UserContext(), payload)
	if err != nil {
		return err
	}
	setSessionCookie(c, h.cookie, res)
	return c.JSON(res.User)
}

// Logout borra la cookie de sesión. No requiere sesión válida.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c, h.cookie)
	return c.JSON(dto.MessageResponse{Message: "Logged out."})
}

// UserInfo godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Produce      json
// @Param        action  query  string  true  "user-info"
// @Success      200     {object}  dto.UserInfoResponse
// @Failure      401     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api [get]
func (h *AuthHandler) UserInfo(c *fiber.Ctx) error {
	info, refreshed, err := h.userUC.Me(c.UserContext(), GetClaims(c))
	if err != nil {
		return err
	}
	if refreshed != nil {
		setSessionCookie(c, h.cookie, refreshed)
	}
	return c.JSON(dto.UserInfoResponse{User: *info})
}
