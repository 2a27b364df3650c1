package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/turnos-api/internal/application/approval"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dayoff"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/turnos-api/internal/interfaces/http"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Int("admins", len(cfg.Telegram.AdminIDs)).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	dayOffRepo := postgres.NewDayOffRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessions := auth.NewSessionAuthenticator(auth.SessionConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	})
	telegramAuthUC := auth.NewTelegramAuthUseCase(txRunner, sessions, cfg.Telegram, log)
	userUC := usecase.NewUserUseCase(userRepo, sessions)
	admissionUC := dayoff.NewAdmissionUseCase(txRunner, userRepo, dayOffRepo, log)
	approvalUC := approval.NewApprovalUseCase(txRunner, userRepo, dayOffRepo, log)

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Turnos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:     sessions,
		TelegramAuth: telegramAuthUC,
		UserUC:       userUC,
		Admission:    admissionUC,
		Approval:     approvalUC,
		Cookie:       cfg.Cookie,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
