package dayoff

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// AdmissionUseCase admite solicitudes de días libres bajo el cupo personal y el tope por turno.
// El chequeo del tope sólo cuenta aprobadas; la aprobación vuelve a verificarlo.
type AdmissionUseCase struct {
	tx      ports.TxRunner
	users   repository.UserRepository
	daysOff repository.DayOffRepository
	log     *logger.Logger
}

// NewAdmissionUseCase construye el caso de uso.
func NewAdmissionUseCase(tx ports.TxRunner, users repository.UserRepository, daysOff repository.DayOffRepository, log *logger.Logger) *AdmissionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdmissionUseCase{tx: tx, users: users, daysOff: daysOff, log: log.Component("admission")}
}

// RequestDaysOff registra en pending todas las fechas o ninguna.
// El turno efectivo es el almacenado en la fila bloqueada del usuario, no el del token.
func (uc *AdmissionUseCase) RequestDaysOff(ctx context.Context, userID int64, shift entity.Shift, rawDates []string) (*dto.RequestDaysOffResponse, error) {
	if !shift.IsWorking() {
		return nil, domain.ErrForbidden
	}
	dates, err := parseDateSet(rawDates)
	if err != nil {
		return nil, err
	}

	created := make([]*entity.DayOff, 0, len(dates))
	err = uc.tx.Run(ctx, func(users repository.UserRepository, daysOff repository.DayOffRepository) error {
		// Serializa solicitudes concurrentes del mismo usuario sobre su cupo.
		u, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil || !u.IsActive() {
			return domain.ErrForbidden
		}

		// Una fecha ya pedida (pending o approved) es duplicada antes que exceso de cupo.
		held, err := daysOff.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if dup := firstHeld(held, dates); dup != nil {
			return &domain.DuplicateDateError{Date: entity.FormatDate(*dup)}
		}

		current, err := daysOff.CountActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if current+len(dates) > entity.MaxDaysOffPerUser {
			return &domain.QuotaError{Current: current, Limit: entity.MaxDaysOffPerUser}
		}

		for _, d := range dates {
			booked, err := daysOff.CountApprovedByShiftAndDate(ctx, u.Shift, d)
			if err != nil {
				return err
			}
			if booked >= entity.MaxApprovedPerShiftDay {
				return &domain.DateUnavailableError{Date: entity.FormatDate(d)}
			}
		}

		for _, d := range dates {
			req := &entity.DayOff{UserID: userID, Date: d, Status: entity.DayOffPending}
			if err := daysOff.Create(ctx, req); err != nil {
				return err
			}
			created = append(created, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("user_id", userID).Int("dates", len(created)).Msg("días libres solicitados")
	out := &dto.RequestDaysOffResponse{
		Message: "Day off requests submitted successfully.",
		DaysOff: make([]dto.DayOffSummary, 0, len(created)),
	}
	for _, d := range created {
		out.DaysOff = append(out.DaysOff, toSummary(d))
	}
	return out, nil
}

// Calendar aprobadas por fecha del turno del usuario en el mes y todas sus solicitudes.
func (uc *AdmissionUseCase) Calendar(ctx context.Context, userID int64, year int, month time.Month) (*dto.CalendarResponse, error) {
	if month < time.January || month > time.December {
		return nil, domain.Invalid("Month and year are required.")
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive() {
		return nil, domain.ErrForbidden
	}
	from, to := entity.MonthRange(year, month)
	counts, err := uc.daysOff.ApprovedCountsByShift(ctx, u.Shift, from, to)
	if err != nil {
		return nil, fmt.Errorf("conteo por turno: %w", err)
	}
	mine, err := uc.daysOff.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("solicitudes del usuario: %w", err)
	}
	out := &dto.CalendarResponse{ShiftDayCounts: counts, MyDaysOff: make([]dto.DayOffSummary, 0, len(mine))}
	for _, d := range mine {
		out.MyDaysOff = append(out.MyDaysOff, toSummary(d))
	}
	return out, nil
}

// CancelDayOff elimina la solicitud pending propia de la fecha. Aprobadas o rechazadas no se cancelan aquí.
func (uc *AdmissionUseCase) CancelDayOff(ctx context.Context, userID int64, rawDate string) error {
	d, err := entity.ParseDate(rawDate)
	if err != nil {
		return domain.Invalid(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", rawDate))
	}
	ok, err := uc.daysOff.DeletePending(ctx, userID, d)
	if err != nil {
		return fmt.Errorf("cancelar solicitud: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.log.Info().Int64("user_id", userID).Str("date", rawDate).Msg("solicitud cancelada")
	return nil
}

// firstHeld primera fecha pedida (en orden) que el usuario ya tiene activa; las rejected se reactivan.
func firstHeld(held []*entity.DayOff, dates []time.Time) *time.Time {
	active := make(map[string]struct{}, len(held))
	for _, d := range held {
		if d.Status.CountsAgainstQuota() {
			active[entity.FormatDate(d.Date)] = struct{}{}
		}
	}
	for i := range dates {
		if _, ok := active[entity.FormatDate(dates[i])]; ok {
			return &dates[i]
		}
	}
	return nil
}

// parseDateSet valida YYYY-MM-DD, elimina duplicados y ordena ascendente.
func parseDateSet(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, domain.Invalid("An array of dates is required.")
	}
	seen := make(map[time.Time]struct{}, len(raw))
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := entity.ParseDate(s)
		if err != nil {
			return nil, domain.Invalid(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", s))
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func toSummary(d *entity.DayOff) dto.DayOffSummary {
	return dto.DayOffSummary{ID: d.ID, Date: entity.FormatDate(d.Date), Status: string(d.Status)}
}
