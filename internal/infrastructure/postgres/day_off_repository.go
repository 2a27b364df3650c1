package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.DayOffRepository = (*DayOffRepo)(nil)

// DayOffRepo implementación de DayOffRepository sobre PostgreSQL (usable con pool o tx).
type DayOffRepo struct {
	q Querier
}

// NewDayOffRepository construye el adaptador de días libres. Pasar pool o tx (Querier).
func NewDayOffRepository(q Querier) *DayOffRepo {
	return &DayOffRepo{q: q}
}

// CountActiveByUser solicitudes pending+approved del usuario.
func (r *DayOffRepo) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM days_off WHERE user_id = $1 AND status IN ('pending', 'approved')`
	var n int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active days off: %w", err)
	}
	return n, nil
}

// CountApprovedByShiftAndDate aprobadas en la fecha entre usuarios del turno.
func (r *DayOffRepo) CountApprovedByShiftAndDate(ctx context.Context, shift entity.Shift, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM days_off d JOIN users u ON u.id = d.user_id
		WHERE d.date = $1::date AND d.status = 'approved' AND u.shift = $2`
	var n int
	if err := r.q.QueryRow(ctx, query, date, shift.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count approved by shift: %w", err)
	}
	return n, nil
}

// LockShiftDate advisory lock de transacción sobre (turno, fecha); se libera en commit/rollback.
func (r *DayOffRepo) LockShiftDate(ctx context.Context, shift entity.Shift, date time.Time) error {
	query := `SELECT pg_advisory_xact_lock(hashtext('days_off:' || $1::text), ($2::date - DATE '1970-01-01'))`
	if _, err := r.q.Exec(ctx, query, shift.String(), date); err != nil {
		return fmt.Errorf("lock shift date: %w", err)
	}
	return nil
}

// Create inserta en pending; una fila rejected de la misma fecha se reactiva.
func (r *DayOffRepo) Create(ctx context.Context, d *entity.DayOff) error {
	query := `
		INSERT INTO days_off (user_id, date, status)
		VALUES ($1, $2::date, 'pending')
		ON CONFLICT (user_id, date) DO UPDATE SET status = 'pending'
		WHERE days_off.status = 'rejected'
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, d.UserID, d.Date).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		// Sin fila devuelta: el conflicto era con una solicitud activa.
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return &domain.DuplicateDateError{Date: entity.FormatDate(d.Date)}
		}
		return fmt.Errorf("insert day off: %w", err)
	}
	d.Status = entity.DayOffPending
	return nil
}

const dayOffColumns = `id, user_id, date, status, created_at`

// GetByID obtiene una solicitud por ID.
func (r *DayOffRepo) GetByID(ctx context.Context, id int64) (*entity.DayOff, error) {
	d, err := scanDayOff(r.q.QueryRow(ctx, `SELECT `+dayOffColumns+` FROM days_off WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get day off: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *DayOffRepo) GetForUpdate(ctx context.Context, id int64) (*entity.DayOff, error) {
	d, err := scanDayOff(r.q.QueryRow(ctx, `SELECT `+dayOffColumns+` FROM days_off WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get day off for update: %w", err)
	}
	return d, nil
}

// UpdateStatus cambia el estado de una solicitud.
func (r *DayOffRepo) UpdateStatus(ctx context.Context, id int64, status entity.DayOffStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE days_off SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update day off status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser todas las solicitudes del usuario ordenadas por fecha.
func (r *DayOffRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.DayOff, error) {
	rows, err := r.q.Query(ctx, `SELECT `+dayOffColumns+` FROM days_off WHERE user_id = $1 ORDER BY date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list days off: %w", err)
	}
	defer rows.Close()
	var list []*entity.DayOff
	for rows.Next() {
		d, err := scanDayOff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day off: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ApprovedCountsByShift aprobadas por fecha del turno en [from, to).
func (r *DayOffRepo) ApprovedCountsByShift(ctx context.Context, shift entity.Shift, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT TO_CHAR(d.date, 'YYYY-MM-DD'), COUNT(*)
		FROM days_off d JOIN users u ON u.id = d.user_id
		WHERE d.status = 'approved' AND u.shift = $1 AND d.date >= $2::date AND d.date < $3::date
		GROUP BY d.date`
	rows, err := r.q.Query(ctx, query, shift.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("approved counts by shift: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, fmt.Errorf("scan approved count: %w", err)
		}
		out[date] = n
	}
	return out, rows.Err()
}

// StatusCounts pending/approved por fecha en [from, to), todos los turnos.
func (r *DayOffRepo) StatusCounts(ctx context.Context, from, to time.Time) ([]entity.DayStatusCount, error) {
	query := `
		SELECT date,
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved')
		FROM days_off
		WHERE date >= $1::date AND date < $2::date AND status IN ('pending', 'approved')
		GROUP BY date
		ORDER BY date`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()
	var out []entity.DayStatusCount
	for rows.Next() {
		var c entity.DayStatusCount
		if err := rows.Scan(&c.Date, &c.Pending, &c.Approved); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListByDate solicitudes de la fecha con los datos del dueño.
func (r *DayOffRepo) ListByDate(ctx context.Context, date time.Time) ([]*entity.DayOffDetail, error) {
	query := `
		SELECT d.id, d.user_id, d.date, d.status, d.created_at,
		       u.first_name, COALESCE(u.last_name, ''), COALESCE(u.username, ''), u.shift
		FROM days_off d JOIN users u ON u.id = d.user_id
		WHERE d.date = $1::date
		ORDER BY d.id`
	rows, err := r.q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list days off by date: %w", err)
	}
	defer rows.Close()
	var list []*entity.DayOffDetail
	for rows.Next() {
		var det entity.DayOffDetail
		var status, shift string
		if err := rows.Scan(&det.ID, &det.UserID, &det.Date, &status, &det.CreatedAt,
			&det.FirstName, &det.LastName, &det.Username, &shift); err != nil {
			return nil, fmt.Errorf("scan day off detail: %w", err)
		}
		det.Status = entity.DayOffStatus(status)
		det.Shift = entity.Shift(shift)
		list = append(list, &det)
	}
	return list, rows.Err()
}

// DeletePending elimina la solicitud pending del usuario para la fecha.
func (r *DayOffRepo) DeletePending(ctx context.Context, userID int64, date time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM days_off WHERE user_id = $1 AND date = $2::date AND status = 'pending'`, userID, date)
	if err != nil {
		return false, fmt.Errorf("delete pending day off: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanDayOff devuelve (nil, nil) en pgx.ErrNoRows.
func scanDayOff(row pgx.Row) (*entity.DayOff, error) {
	var d entity.DayOff
	var status string
	if err := row.Scan(&d.ID, &d.UserID, &d.Date, &status, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	d.Status = entity.DayOffStatus(status)
	return &d, nil
}
