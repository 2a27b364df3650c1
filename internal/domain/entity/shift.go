package entity

import "fmt"

// Shift turno de trabajo; "pending" es el pseudo-turno de usuarios sin aprobar.
type Shift string

const (
	ShiftPending Shift = "pending"
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftNight   Shift = "Night"
)

// DefaultAdminShift turno asignado automáticamente a los administradores.
const DefaultAdminShift = ShiftMorning

// WorkingShifts turnos asignables por el administrador.
var WorkingShifts = []Shift{ShiftMorning, ShiftEvening, ShiftNight}

// ParseShift valida un turno (incluye pending).
func ParseShift(s string) (Shift, error) {
	switch sh := Shift(s); sh {
	case ShiftPending, ShiftMorning, ShiftEvening, ShiftNight:
		return sh, nil
	}
	return "", fmt.Errorf("turno desconocido %q", s)
}

// IsWorking indica si es un turno real (no pending ni desconocido).
func (s Shift) IsWorking() bool {
	return s == ShiftMorning || s == ShiftEvening || s == ShiftNight
}

func (s Shift) String() string { return string(s) }

// InitialShift turno con el que se crea un usuario nuevo.
func InitialShift(isAdmin bool) Shift {
	if isAdmin {
		return DefaultAdminShift
	}
	return ShiftPending
}
