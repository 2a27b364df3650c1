package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
	"github.com/jhoicas/turnos-api/pkg/telegram"
)

// TelegramAuthUseCase login con el widget de Telegram: verifica la firma, hace upsert del usuario y emite sesión.
type TelegramAuthUseCase struct {
	tx       ports.TxRunner
	sessions *SessionAuthenticator
	tgCfg    config.TelegramConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewTelegramAuthUseCase construye el caso de uso de login.
func NewTelegramAuthUseCase(tx ports.TxRunner, sessions *SessionAuthenticator, tgCfg config.TelegramConfig, log *logger.Logger) *TelegramAuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TelegramAuthUseCase{tx: tx, sessions: sessions, tgCfg: tgCfg, log: log.Component("auth"), now: time.Now}
}

// AuthenticateTelegram valida el payload firmado y devuelve la sesión del usuario.
// Firma inválida → domain.ErrInvalidSignature sin tocar la base de datos.
func (uc *TelegramAuthUseCase) AuthenticateTelegram(ctx context.Context, p telegram.Payload) (*dto.SessionResult, error) {
	if !telegram.Verify(uc.tgCfg.BotToken, p) {
		return nil, domain.ErrInvalidSignature
	}
	id, err := p.ID()
	if err != nil {
		return nil, domain.Invalid("Invalid Telegram user id.")
	}
	if p["first_name"] == "" {
		return nil, domain.Invalid("first_name is required.")
	}
	profile := entity.NewProfile(p["first_name"], p["last_name"], p["username"])
	isAdmin := uc.tgCfg.IsAdmin(id)

	var user *entity.User
	err = uc.tx.Run(ctx, func(users repository.UserRepository, _ repository.DayOffRepository) error {
		created, err := users.CreateIfAbsent(ctx, entity.NewUser(id, profile, isAdmin, uc.now()))
		if err != nil {
			return err
		}
		u, err := users.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("usuario %d no encontrado tras upsert", id)
		}
		if !created {
			u.ApplyLogin(profile, isAdmin)
			if err := users.Update(ctx, u); err != nil {
				return err
			}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert usuario: %w", err)
	}

	uc.log.Info().Int64("user_id", user.ID).Str("shift", user.Shift.String()).Bool("is_admin", user.IsAdmin).Msg("login telegram")
	return uc.sessions.Issue(user)
}
