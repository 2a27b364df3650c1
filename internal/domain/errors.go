package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrUnauthenticated   = errors.New("sesión ausente, inválida o expirada")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidShift      = errors.New("turno inválido")
	ErrInvalidSignature  = errors.New("firma de Telegram inválida")
	ErrQuotaExceeded     = errors.New("cupo de días libres excedido")
	ErrDateUnavailable   = errors.New("fecha sin cupo en el turno")
	ErrDuplicateDate     = errors.New("la fecha ya fue solicitada")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrNotPending        = errors.New("usuario no encontrado o ya aprobado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// QuotaError cupo personal excedido; Current son las solicitudes pending+approved vigentes.
type QuotaError struct {
	Current int
	Limit   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("You can only have up to %d days off. You currently have %d.", e.Limit, e.Current)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// DateUnavailableError la fecha ya alcanzó el máximo de aprobados en el turno.
type DateUnavailableError struct {
	Date string // YYYY-MM-DD
}

func (e *DateUnavailableError) Error() string {
	return fmt.Sprintf("Cannot request %s as it is already fully booked for your shift.", e.Date)
}

func (e *DateUnavailableError) Unwrap() error { return ErrDateUnavailable }

// DuplicateDateError el usuario ya tiene una solicitud activa para la fecha.
type DuplicateDateError struct {
	Date string // YYYY-MM-DD
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("You have already requested %s.", e.Date)
}

func (e *DuplicateDateError) Unwrap() error { return ErrDuplicateDate }

// ValidationError entrada mal formada con un mensaje apto para el cliente.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
