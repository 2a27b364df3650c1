// Package memstore implementa los puertos de persistencia en memoria para tests.
// Run toma el lock del store durante toda la transacción y trabaja sobre una copia
// que sólo se publica si fn termina sin error.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var (
	_ ports.TxRunner              = (*Store)(nil)
	_ repository.UserRepository   = (*UserRepo)(nil)
	_ repository.DayOffRepository = (*DayOffRepo)(nil)
)

type state struct {
	users   map[int64]entity.User
	daysOff map[int64]entity.DayOff
	nextID  int64
}

func (s *state) clone() *state {
	c := &state{
		users:   make(map[int64]entity.User, len(s.users)),
		daysOff: make(map[int64]entity.DayOff, len(s.daysOff)),
		nextID:  s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.daysOff {
		c.daysOff[k] = v
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu    sync.Mutex
	st    *state
	fail  error
	Now   func() time.Time
	Users *UserRepo
	Days  *DayOffRepo
}

// New crea un store vacío con repositorios fuera de transacción.
func New() *Store {
	s := &Store{
		st:  &state{users: map[int64]entity.User{}, daysOff: map[int64]entity.DayOff{}},
		Now: time.Now,
	}
	s.Users = &UserRepo{store: s}
	s.Days = &DayOffRepo{store: s}
	return s
}

// FailWith hace que toda operación posterior devuelva err (nil restablece).
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Run ejecuta fn con repositorios atados a una copia del estado; commit sólo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(users repository.UserRepository, daysOff repository.DayOffRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.st.clone()
	if err := fn(&UserRepo{store: s, tx: tx}, &DayOffRepo{store: s, tx: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func (s *Store) with(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	return fn(s.st)
}

// SeedUser inserta un usuario tal cual (tests).
func (s *Store) SeedUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.Now()
	}
	s.st.users[u.ID] = u
}

// SeedDayOff inserta una solicitud y devuelve su id (tests).
func (s *Store) SeedDayOff(userID int64, date string, status entity.DayOffStatus) int64 {
	d, err := entity.ParseDate(date)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextID++
	s.st.daysOff[s.st.nextID] = entity.DayOff{ID: s.st.nextID, UserID: userID, Date: d, Status: status, CreatedAt: s.Now()}
	return s.st.nextID
}

// User devuelve una copia del usuario almacenado (tests).
func (s *Store) User(id int64) (entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	return u, ok
}

// AllDaysOff devuelve todas las solicitudes ordenadas por id (tests).
func (s *Store) AllDaysOff() []entity.DayOff {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.DayOff, 0, len(s.st.daysOff))
	for _, d := range s.st.daysOff {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UserRepo implementación en memoria de repository.UserRepository.
type UserRepo struct {
	store *Store
	tx    *state
}

func (r *UserRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	var created bool
	err := r.store.with(r.tx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return nil
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = r.store.Now()
		}
		st.users[user.ID] = *user
		created = true
		return nil
	})
	return created, err
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.store.with(r.tx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrNotFound
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) ListPending(ctx context.Context) ([]*entity.User, error) {
	return r.list(func(u entity.User) bool { return u.Shift == entity.ShiftPending })
}

func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	return r.list(func(entity.User) bool { return true })
}

func (r *UserRepo) list(keep func(entity.User) bool) ([]*entity.User, error) {
	var out []*entity.User
	err := r.store.with(r.tx, func(st *state) error {
		for _, u := range st.users {
			if keep(u) {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *UserRepo) AssignShiftIfPending(ctx context.Context, id int64, shift entity.Shift) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.Shift != entity.ShiftPending {
			return nil
		}
		u.Shift = shift
		st.users[id] = u
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.store.with(r.tx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return nil
		}
		delete(st.users, id)
		for k, d := range st.daysOff {
			if d.UserID == id {
				delete(st.daysOff, k)
			}
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// DayOffRepo implementación en memoria de repository.DayOffRepository.
type DayOffRepo struct {
	store *Store
	tx    *state
}

func (r *DayOffRepo) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if d.UserID == userID && d.Status.CountsAgainstQuota() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *DayOffRepo) CountApprovedByShiftAndDate(ctx context.Context, shift entity.Shift, date time.Time) (int, error) {
	var n int
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if d.Status == entity.DayOffApproved && d.Date.Equal(date) && st.users[d.UserID].Shift == shift {
				n++
			}
		}
		return nil
	})
	return n, err
}

// LockShiftDate no-op: Run ya serializa todas las transacciones.
func (r *DayOffRepo) LockShiftDate(ctx context.Context, shift entity.Shift, date time.Time) error {
	return r.store.with(r.tx, func(*state) error { return nil })
}

func (r *DayOffRepo) Create(ctx context.Context, d *entity.DayOff) error {
	return r.store.with(r.tx, func(st *state) error {
		for id, existing := range st.daysOff {
			if existing.UserID != d.UserID || !existing.Date.Equal(d.Date) {
				continue
			}
			if existing.Status != entity.DayOffRejected {
				return &domain.DuplicateDateError{Date: entity.FormatDate(d.Date)}
			}
			existing.Status = entity.DayOffPending
			st.daysOff[id] = existing
			*d = existing
			return nil
		}
		st.nextID++
		d.ID = st.nextID
		d.Status = entity.DayOffPending
		d.CreatedAt = r.store.Now()
		st.daysOff[d.ID] = *d
		return nil
	})
}

func (r *DayOffRepo) GetByID(ctx context.Context, id int64) (*entity.DayOff, error) {
	var out *entity.DayOff
	err := r.store.with(r.tx, func(st *state) error {
		if d, ok := st.daysOff[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DayOffRepo) GetForUpdate(ctx context.Context, id int64) (*entity.DayOff, error) {
	return r.GetByID(ctx, id)
}

func (r *DayOffRepo) UpdateStatus(ctx context.Context, id int64, status entity.DayOffStatus) error {
	return r.store.with(r.tx, func(st *state) error {
		d, ok := st.daysOff[id]
		if !ok {
			return domain.ErrNotFound
		}
		d.Status = status
		st.daysOff[id] = d
		return nil
	})
}

func (r *DayOffRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.DayOff, error) {
	var out []*entity.DayOff
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if d.UserID == userID {
				d := d
				out = append(out, &d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, err
}

func (r *DayOffRepo) ApprovedCountsByShift(ctx context.Context, shift entity.Shift, from, to time.Time) (map[string]int, error) {
	out := map[string]int{}
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if d.Status == entity.DayOffApproved && inRange(d.Date, from, to) && st.users[d.UserID].Shift == shift {
				out[entity.FormatDate(d.Date)]++
			}
		}
		return nil
	})
	return out, err
}

func (r *DayOffRepo) StatusCounts(ctx context.Context, from, to time.Time) ([]entity.DayStatusCount, error) {
	byDate := map[time.Time]*entity.DayStatusCount{}
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if !inRange(d.Date, from, to) || !d.Status.CountsAgainstQuota() {
				continue
			}
			c, ok := byDate[d.Date]
			if !ok {
				c = &entity.DayStatusCount{Date: d.Date}
				byDate[d.Date] = c
			}
			if d.Status == entity.DayOffApproved {
				c.Approved++
			} else {
				c.Pending++
			}
		}
		return nil
	})
	out := make([]entity.DayStatusCount, 0, len(byDate))
	for _, c := range byDate {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, err
}

func (r *DayOffRepo) ListByDate(ctx context.Context, date time.Time) ([]*entity.DayOffDetail, error) {
	var out []*entity.DayOffDetail
	err := r.store.with(r.tx, func(st *state) error {
		for _, d := range st.daysOff {
			if !d.Date.Equal(date) {
				continue
			}
			u := st.users[d.UserID]
			out = append(out, &entity.DayOffDetail{
				DayOff:    d,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Username:  u.Username,
				Shift:     u.Shift,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *DayOffRepo) DeletePending(ctx context.Context, userID int64, date time.Time) (bool, error) {
	var deleted bool
	err := r.store.with(r.tx, func(st *state) error {
		for id, d := range st.daysOff {
			if d.UserID == userID && d.Date.Equal(date) && d.Status == entity.DayOffPending {
				delete(st.daysOff, id)
				deleted = true
			}
		}
		return nil
	})
	return deleted, err
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && d.Before(to)
}
