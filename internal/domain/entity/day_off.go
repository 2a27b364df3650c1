package entity

import (
	"fmt"
	"time"
)

// Límites de asignación de días libres.
const (
	MaxDaysOffPerUser      = 4 // pending + approved por usuario
	MaxApprovedPerShiftDay = 2 // approved por turno y fecha
)

// DateLayout formato de fecha de las solicitudes.
const DateLayout = "2006-01-02"

// DayOffStatus estado de una solicitud de día libre.
type DayOffStatus string

const (
	DayOffPending  DayOffStatus = "pending"
	DayOffApproved DayOffStatus = "approved"
	DayOffRejected DayOffStatus = "rejected"
)

// CountsAgainstQuota indica si el estado ocupa cupo personal.
func (s DayOffStatus) CountsAgainstQuota() bool {
	return s == DayOffPending || s == DayOffApproved
}

// DayOffAction acción administrativa sobre una solicitud.
type DayOffAction string

const (
	ActionApprove DayOffAction = "approve"
	ActionReject  DayOffAction = "reject"
)

// transitions estados de origen permitidos por acción.
var transitions = map[DayOffAction]struct {
	from []DayOffStatus
	to   DayOffStatus
}{
	ActionApprove: {from: []DayOffStatus{DayOffPending}, to: DayOffApproved},
	ActionReject:  {from: []DayOffStatus{DayOffPending, DayOffApproved}, to: DayOffRejected},
}

// ParseDayOffAction valida approve|reject.
func ParseDayOffAction(s string) (DayOffAction, error) {
	a := DayOffAction(s)
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("acción desconocida %q", s)
	}
	return a, nil
}

// Transition devuelve el estado destino de aplicar a sobre from; ok=false si no está permitido.
func Transition(from DayOffStatus, a DayOffAction) (DayOffStatus, bool) {
	t, known := transitions[a]
	if !known {
		return "", false
	}
	for _, f := range t.from {
		if f == from {
			return t.to, true
		}
	}
	return "", false
}

// DayOff solicitud de día libre de un usuario para una fecha.
type DayOff struct {
	ID        int64
	UserID    int64
	Date      time.Time // medianoche UTC
	Status    DayOffStatus
	CreatedAt time.Time
}

// ParseDate interpreta YYYY-MM-DD como medianoche UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q", s)
	}
	return d, nil
}

// FormatDate formatea una fecha como YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// MonthRange primer día del mes y primer día del mes siguiente, ambos en UTC.
func MonthRange(year int, month time.Month) (from, to time.Time) {
	from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// DayOffDetail solicitud con datos del dueño (vista de administración).
type DayOffDetail struct {
	DayOff
	FirstName string
	LastName  string
	Username  string
	Shift     Shift
}

// DayStatusCount conteo de solicitudes pending/approved de una fecha.
type DayStatusCount struct {
	Date     time.Time
	Pending  int
	Approved int
}
