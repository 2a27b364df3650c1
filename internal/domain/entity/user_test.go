package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func TestNewUser_TurnoInicial(t *testing.T) {
	now := time.Now()
	p := entity.NewProfile("Ana", "", "ana")

	assert.Equal(t, entity.ShiftPending, entity.NewUser(1, p, false, now).Shift)
	assert.Equal(t, entity.ShiftMorning, entity.NewUser(2, p, true, now).Shift)
}

func TestApplyLogin_PendingAdminSePromueve(t *testing.T) {
	u := &entity.User{ID: 1, FirstName: "Ana", Shift: entity.ShiftPending}
	u.ApplyLogin(entity.NewProfile("Ana María", "Pérez", "anamp"), true)

	assert.Equal(t, entity.ShiftMorning, u.Shift)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "Ana María", u.FirstName)
	assert.Equal(t, "Pérez", u.LastName)
	assert.Equal(t, "anamp", u.Username)
}

func TestApplyLogin_TurnoAsignadoNoCambia(t *testing.T) {
	for _, sh := range entity.WorkingShifts {
		u := &entity.User{ID: 1, Shift: sh}
		u.ApplyLogin(entity.NewProfile("Ana", "", ""), true)
		assert.Equal(t, sh, u.Shift, "un turno asignado nunca se modifica en el login")

		u.ApplyLogin(entity.NewProfile("Ana", "", ""), false)
		assert.Equal(t, sh, u.Shift)
		assert.False(t, u.IsAdmin)
	}
}

func TestApplyLogin_PendingNoAdminSiguePending(t *testing.T) {
	u := &entity.User{ID: 1, Shift: entity.ShiftPending}
	u.ApplyLogin(entity.NewProfile("Ana", "", ""), false)
	assert.Equal(t, entity.ShiftPending, u.Shift)
	assert.False(t, u.IsActive())
}

func TestNewProfile_NormalizaNFC(t *testing.T) {
	// "José" con acento combinado (e + U+0301)
	p := entity.NewProfile("  José ", "", "")
	assert.Equal(t, "José", p.FirstName)
}
