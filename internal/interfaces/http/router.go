package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/turnos-api/internal/application/approval"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dayoff"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions     *auth.SessionAuthenticator
	TelegramAuth *auth.TelegramAuthUseCase
	UserUC       *usecase.UserUseCase
	Admission    *dayoff.AdmissionUseCase
	Approval     *approval.ApprovalUseCase
	Cookie       config.CookieConfig
}

// NewApp crea la app Fiber con manejo de errores, recover y log de peticiones.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	return app
}

// Router registra el endpoint de acciones. La ruta /.netlify/functions/api mantiene compatibilidad con el frontend existente.
func Router(app *fiber.App, deps RouterDeps) {
	d := NewDispatcher(deps)
	app.All("/api", d.Handle)
	app.All("/.netlify/functions/api", d.Handle)
}
