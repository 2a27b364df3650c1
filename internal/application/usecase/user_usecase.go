package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// UserUseCase consulta del usuario autenticado.
type UserUseCase struct {
	repo     repository.UserRepository
	sessions *auth.SessionAuthenticator
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, sessions *auth.SessionAuthenticator) *UserUseCase {
	return &UserUseCase{repo: repo, sessions: sessions}
}

// Me devuelve el usuario de la sesión. Si turno o admin cambiaron desde que se emitió el token
// (p. ej. fue aprobado), devuelve además una sesión nueva; si no, refreshed es nil.
func (uc *UserUseCase) Me(ctx context.Context, claims *dto.SessionClaims) (info *dto.UserInfo, refreshed *dto.SessionResult, err error) {
	user, err := uc.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, nil, domain.ErrNotFound
	}
	out := auth.ToUserInfo(user)
	if user.Shift.String() == claims.Shift && user.IsAdmin == claims.IsAdmin {
		return &out, nil, nil
	}
	refreshed, err = uc.sessions.Issue(user)
	if err != nil {
		return nil, nil, err
	}
	return &out, refreshed, nil
}
