package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/config"
)

// SessionCookie nombre de la cookie que transporta el token de sesión.
const SessionCookie = "session"

// Locals keys para la sesión y la petición en Fiber.
const (
	LocalClaims    = "session_claims"
	LocalRequestID = "request_id"
)

// Guard nivel de autorización exigido por una acción.
type Guard int

const (
	GuardNone    Guard = iota // pública
	GuardSession              // sesión válida
	GuardActive               // sesión válida y turno asignado
	GuardAdmin                // sesión válida de administrador
)

// authorize lee la cookie de sesión, valida el token y aplica el guard; deja los claims en c.Locals.
func authorize(c *fiber.Ctx, sessions *auth.SessionAuthenticator, g Guard) error {
	if g == GuardNone {
		return nil
	}
	claims, err := sessions.Authenticate(c.Cookies(SessionCookie))
	if err != nil {
		return err
	}
	c.Locals(LocalClaims, claims)

	switch g {
	case GuardActive:
		if claims.Shift == "" || claims.Shift == "pending" {
			return domain.ErrForbidden
		}
	case GuardAdmin:
		if !claims.IsAdmin {
			return domain.ErrForbidden
		}
	}
	return nil
}

// GetClaims devuelve los claims de la sesión (después de authorize).
func GetClaims(c *fiber.Ctx) *dto.SessionClaims {
	claims, _ := c.Locals(LocalClaims).(*dto.SessionClaims)
	return claims
}

// GetUserID devuelve el UserID de la sesión; 0 si no hay sesión.
func GetUserID(c *fiber.Ctx) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// setSessionCookie entrega el token como cookie HttpOnly, SameSite=Lax, válida por la vigencia del token.
func setSessionCookie(c *fiber.Ctx, cfg config.CookieConfig, s *dto.SessionResult) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(s.ExpiresIn / time.Second),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg config.CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
