package approval_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/approval"
	"github.com/jhoicas/turnos-api/internal/application/dayoff"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/testutil/memstore"
)

func setup(t *testing.T) (*approval.ApprovalUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return approval.NewApprovalUseCase(store, store.Users, store.Days, nil), store
}

func TestApproveUser_AsignaTurno(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 42, FirstName: "Ana", Shift: entity.ShiftPending})

	out, err := uc.ApproveUser(context.Background(), 42, "Evening")
	require.NoError(t, err)
	assert.Equal(t, "Evening", out.Shift)

	u, _ := store.User(42)
	assert.Equal(t, entity.ShiftEvening, u.Shift)
}

func TestApproveUser_EjemploYaAprobadoEsNotPending(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 42, FirstName: "Ana", Shift: entity.ShiftEvening})

	_, err := uc.ApproveUser(context.Background(), 42, "Evening")
	assert.ErrorIs(t, err, domain.ErrNotPending)

	_, err = uc.ApproveUser(context.Background(), 42, "Night")
	assert.ErrorIs(t, err, domain.ErrNotPending)
	u, _ := store.User(42)
	assert.Equal(t, entity.ShiftEvening, u.Shift, "sin mutación")
}

func TestApproveUser_DesconocidoEsNotPending(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.ApproveUser(context.Background(), 404, "Morning")
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestApproveUser_TurnoInvalido(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 42, Shift: entity.ShiftPending})

	for _, bad := range []string{"pending", "", "night", "Afternoon"} {
		_, err := uc.ApproveUser(context.Background(), 42, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidShift, bad)
	}
	u, _ := store.User(42)
	assert.Equal(t, entity.ShiftPending, u.Shift)
}

func TestManageDayOffRequest_AprobarYRechazar(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 1, Shift: entity.ShiftNight})
	id := store.SeedDayOff(1, "2025-09-10", entity.DayOffPending)

	out, err := uc.ManageDayOffRequest(context.Background(), id, "approve")
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	assert.Equal(t, "2025-09-10", out.Date)

	out, err = uc.ManageDayOffRequest(context.Background(), id, "reject")
	require.NoError(t, err)
	assert.Equal(t, "rejected", out.Status, "una aprobada puede rechazarse y libera el cupo")

	_, err = uc.ManageDayOffRequest(context.Background(), id, "approve")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.ManageDayOffRequest(context.Background(), id, "reject")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestManageDayOffRequest_NoEncontrada(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.ManageDayOffRequest(context.Background(), 99, "approve")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManageDayOffRequest_AccionInvalida(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 1, Shift: entity.ShiftNight})
	id := store.SeedDayOff(1, "2025-09-10", entity.DayOffPending)

	_, err := uc.ManageDayOffRequest(context.Background(), id, "delete")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestManageDayOffRequest_TopeAlAprobar(t *testing.T) {
	uc, store := setup(t)
	for _, id := range []int64{1, 2, 3} {
		store.SeedUser(entity.User{ID: id, Shift: entity.ShiftNight})
	}
	store.SeedDayOff(1, "2025-09-10", entity.DayOffApproved)
	store.SeedDayOff(2, "2025-09-10", entity.DayOffApproved)
	third := store.SeedDayOff(3, "2025-09-10", entity.DayOffPending)

	_, err := uc.ManageDayOffRequest(context.Background(), third, "approve")
	require.ErrorIs(t, err, domain.ErrDateUnavailable)

	d := store.AllDaysOff()[2]
	assert.Equal(t, entity.DayOffPending, d.Status, "la solicitud queda intacta")

	_, err = uc.ManageDayOffRequest(context.Background(), third, "reject")
	assert.NoError(t, err, "rechazar no depende del tope")
}

// Dos usuarios del mismo turno piden la misma fecha con 1 aprobada; ambos quedan pending
// pero sólo uno puede aprobarse.
func TestManageDayOffRequest_RecuentoImpideTerceraAprobacion(t *testing.T) {
	store := memstore.New()
	admission := dayoff.NewAdmissionUseCase(store, store.Users, store.Days, nil)
	uc := approval.NewApprovalUseCase(store, store.Users, store.Days, nil)
	for _, id := range []int64{1, 2, 3} {
		store.SeedUser(entity.User{ID: id, Shift: entity.ShiftMorning})
	}
	store.SeedDayOff(1, "2025-09-10", entity.DayOffApproved)

	var wg sync.WaitGroup
	for _, id := range []int64{2, 3} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := admission.RequestDaysOff(context.Background(), id, entity.ShiftMorning, []string{"2025-09-10"})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	var pending []int64
	for _, d := range store.AllDaysOff() {
		if d.Status == entity.DayOffPending {
			pending = append(pending, d.ID)
		}
	}
	require.Len(t, pending, 2)

	results := make(chan error, len(pending))
	for _, id := range pending {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := uc.ManageDayOffRequest(context.Background(), id, "approve")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var ok, full int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDateUnavailable):
			full++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	approved := 0
	for _, d := range store.AllDaysOff() {
		if d.Status == entity.DayOffApproved {
			approved++
		}
	}
	assert.Equal(t, entity.MaxApprovedPerShiftDay, approved)
}

func TestListPending_FIFO(t *testing.T) {
	uc, store := setup(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SeedUser(entity.User{ID: 3, FirstName: "C", Shift: entity.ShiftPending, CreatedAt: base.Add(2 * time.Hour)})
	store.SeedUser(entity.User{ID: 1, FirstName: "A", Shift: entity.ShiftPending, CreatedAt: base})
	store.SeedUser(entity.User{ID: 2, FirstName: "B", Shift: entity.ShiftNight, CreatedAt: base.Add(time.Hour)})

	list, err := uc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	all, err := uc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteUser(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 1, Shift: entity.ShiftMorning, IsAdmin: true})
	store.SeedUser(entity.User{ID: 2, Shift: entity.ShiftNight})
	store.SeedDayOff(2, "2025-09-10", entity.DayOffPending)

	assert.ErrorIs(t, uc.DeleteUser(context.Background(), 1, 1), domain.ErrForbidden)
	require.NoError(t, uc.DeleteUser(context.Background(), 1, 2))
	_, ok := store.User(2)
	assert.False(t, ok)
	assert.Empty(t, store.AllDaysOff(), "las solicitudes se borran en cascada")

	assert.ErrorIs(t, uc.DeleteUser(context.Background(), 1, 2), domain.ErrNotFound)
}

func TestCalendarYDayDetails(t *testing.T) {
	uc, store := setup(t)
	store.SeedUser(entity.User{ID: 1, FirstName: "Ana", Shift: entity.ShiftNight})
	store.SeedUser(entity.User{ID: 2, FirstName: "Leo", Shift: entity.ShiftMorning})
	store.SeedDayOff(1, "2025-09-10", entity.DayOffApproved)
	store.SeedDayOff(2, "2025-09-10", entity.DayOffPending)
	store.SeedDayOff(2, "2025-09-11", entity.DayOffRejected)
	store.SeedDayOff(2, "2025-08-31", entity.DayOffPending)

	cal, err := uc.Calendar(context.Background(), 2025, time.September)
	require.NoError(t, err)
	require.Len(t, cal, 1)
	assert.Equal(t, 1, cal["2025-09-10"].Pending)
	assert.Equal(t, 1, cal["2025-09-10"].Approved)

	details, err := uc.DayDetails(context.Background(), "2025-09-10")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Ana", details[0].FirstName)
	assert.Equal(t, "Night", details[0].Shift)
	assert.Equal(t, "approved", details[0].Status)
	assert.Equal(t, "Leo", details[1].FirstName)

	_, err = uc.DayDetails(context.Background(), "10-09-2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
