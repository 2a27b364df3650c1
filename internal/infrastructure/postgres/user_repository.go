package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, first_name, COALESCE(last_name, ''), COALESCE(username, ''), shift, is_admin, created_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// CreateIfAbsent inserta el usuario; si el id ya existe no modifica nada.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, username, shift, is_admin, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.Shift.String(), user.IsAdmin, user.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetForUpdate obtiene el usuario y bloquea la fila (SELECT FOR UPDATE).
func (r *UserRepo) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

// Update actualiza perfil, turno y flag de admin.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET first_name = $2, last_name = NULLIF($3, ''), username = NULLIF($4, ''), shift = $5, is_admin = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.Shift.String(), user.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPending usuarios en pending, los más antiguos primero.
func (r *UserRepo) ListPending(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE shift = 'pending' ORDER BY created_at ASC, id ASC`)
}

// ListAll todos los usuarios por fecha de alta.
func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// AssignShiftIfPending UPDATE condicional; (nil, nil) si el usuario no existe o ya no está en pending.
func (r *UserRepo) AssignShiftIfPending(ctx context.Context, id int64, shift entity.Shift) (*entity.User, error) {
	query := `UPDATE users SET shift = $2 WHERE id = $1 AND shift = 'pending' RETURNING ` + userColumns
	u, err := scanUser(r.q.QueryRow(ctx, query, id, shift.String()))
	if err != nil {
		return nil, fmt.Errorf("assign shift: %w", err)
	}
	return u, nil
}

// Delete elimina un usuario; sus solicitudes caen por ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanUser devuelve (nil, nil) en pgx.ErrNoRows.
func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var shift string
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &shift, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Shift = entity.Shift(shift)
	return &u, nil
}
