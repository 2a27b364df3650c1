package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	// CreateIfAbsent inserta el usuario si el id no existe; created=false si ya existía.
	CreateIfAbsent(ctx context.Context, user *entity.User) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetForUpdate obtiene el usuario y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListPending usuarios en pending, más antiguos primero.
	ListPending(ctx context.Context) ([]*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
	// AssignShiftIfPending asigna turno sólo si el usuario está en pending; (nil, nil) si ninguna fila coincide.
	AssignShiftIfPending(ctx context.Context, id int64, shift entity.Shift) (*entity.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
