package auth

import (
	"errors"
	"time"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/pkg/jwt"
)

// SessionConfig configuración para emisión y verificación de tokens de sesión.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// SessionAuthenticator verifica y emite el token de la cookie de sesión.
type SessionAuthenticator struct {
	cfg SessionConfig
}

// NewSessionAuthenticator construye el autenticador de sesión.
func NewSessionAuthenticator(cfg SessionConfig) *SessionAuthenticator {
	return &SessionAuthenticator{cfg: cfg}
}

// Authenticate valida firma y expiración. Cualquier fallo es domain.ErrUnauthenticated.
func (a *SessionAuthenticator) Authenticate(token string) (*dto.SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := jwt.Parse(a.cfg.Secret, token)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthenticated, err)
	}
	if _, err := entity.ParseShift(claims.Shift); err != nil {
		return nil, errors.Join(domain.ErrUnauthenticated, err)
	}
	return &dto.SessionClaims{UserID: claims.UserID, Shift: claims.Shift, IsAdmin: claims.IsAdmin}, nil
}

// Issue emite un token para el estado actual del usuario.
func (a *SessionAuthenticator) Issue(u *entity.User) (*dto.SessionResult, error) {
	token, err := jwt.Generate(a.cfg.Secret, a.cfg.Issuer, u.ID, u.Shift.String(), u.IsAdmin, a.cfg.TTL)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResult{Token: token, ExpiresIn: a.cfg.TTL, User: ToUserInfo(u)}, nil
}

// ToUserInfo convierte la entidad al DTO de sesión.
func ToUserInfo(u *entity.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Shift:     u.Shift.String(),
		IsAdmin:   u.IsAdmin,
	}
}
