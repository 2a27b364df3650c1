package repository

import (
	"context"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// DayOffRepository define el puerto de persistencia para solicitudes de días libres.
// Las operaciones de conteo y bloqueo se usan dentro de transacciones (TxRunner).
type DayOffRepository interface {
	// CountActiveByUser solicitudes pending+approved del usuario.
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
	// CountApprovedByShiftAndDate aprobadas en la fecha entre usuarios del turno.
	CountApprovedByShiftAndDate(ctx context.Context, shift entity.Shift, date time.Time) (int, error)
	// LockShiftDate serializa aprobaciones concurrentes sobre (turno, fecha) hasta el fin de la tx.
	LockShiftDate(ctx context.Context, shift entity.Shift, date time.Time) error
	// Create inserta la solicitud en pending y asigna ID/CreatedAt. Una solicitud rejected
	// previa para la misma fecha se reactiva; cualquier otra devuelve *domain.DuplicateDateError.
	Create(ctx context.Context, d *entity.DayOff) error
	GetByID(ctx context.Context, id int64) (*entity.DayOff, error)
	// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE). (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.DayOff, error)
	UpdateStatus(ctx context.Context, id int64, status entity.DayOffStatus) error
	ListByUser(ctx context.Context, userID int64) ([]*entity.DayOff, error)
	// ApprovedCountsByShift aprobadas por fecha (YYYY-MM-DD) del turno en [from, to).
	ApprovedCountsByShift(ctx context.Context, shift entity.Shift, from, to time.Time) (map[string]int, error)
	// StatusCounts conteo pending/approved por fecha en [from, to), todos los turnos.
	StatusCounts(ctx context.Context, from, to time.Time) ([]entity.DayStatusCount, error)
	ListByDate(ctx context.Context, date time.Time) ([]*entity.DayOffDetail, error)
	// DeletePending elimina la solicitud pending del usuario para la fecha; false si no había.
	DeletePending(ctx context.Context, userID int64, date time.Time) (bool, error)
}
