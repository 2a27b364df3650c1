package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// ApprovalUseCase operaciones de administración: alta de usuarios y gestión de solicitudes.
type ApprovalUseCase struct {
	tx      ports.TxRunner
	users   repository.UserRepository
	daysOff repository.DayOffRepository
	log     *logger.Logger
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(tx ports.TxRunner, users repository.UserRepository, daysOff repository.DayOffRepository, log *logger.Logger) *ApprovalUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ApprovalUseCase{tx: tx, users: users, daysOff: daysOff, log: log.Component("approval")}
}

// ApproveUser asigna turno a un usuario en pending con un único UPDATE condicional.
// Usuario inexistente y ya aprobado devuelven ambos domain.ErrNotPending.
func (uc *ApprovalUseCase) ApproveUser(ctx context.Context, userID int64, rawShift string) (*dto.UserResponse, error) {
	shift, err := entity.ParseShift(rawShift)
	if err != nil || !shift.IsWorking() {
		return nil, domain.ErrInvalidShift
	}
	u, err := uc.users.AssignShiftIfPending(ctx, userID, shift)
	if err != nil {
		return nil, fmt.Errorf("aprobar usuario: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotPending
	}
	uc.log.Info().Int64("user_id", userID).Str("shift", shift.String()).Msg("usuario aprobado")
	return toUserResponse(u), nil
}

// ManageDayOffRequest aplica approve|reject sobre una solicitud.
// Al aprobar se toma un lock por (turno, fecha) y se recuenta: es el control definitivo del tope.
func (uc *ApprovalUseCase) ManageDayOffRequest(ctx context.Context, requestID int64, rawAction string) (*dto.DayOffResponse, error) {
	action, err := entity.ParseDayOffAction(rawAction)
	if err != nil {
		return nil, domain.Invalid("Action must be approve or reject.")
	}

	var updated entity.DayOff
	err = uc.tx.Run(ctx, func(users repository.UserRepository, daysOff repository.DayOffRepository) error {
		req, err := daysOff.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		to, ok := entity.Transition(req.Status, action)
		if !ok {
			return domain.ErrInvalidTransition
		}

		if to == entity.DayOffApproved {
			owner, err := users.GetByID(ctx, req.UserID)
			if err != nil {
				return err
			}
			if owner == nil {
				return domain.ErrNotFound
			}
			if err := daysOff.LockShiftDate(ctx, owner.Shift, req.Date); err != nil {
				return err
			}
			approved, err := daysOff.CountApprovedByShiftAndDate(ctx, owner.Shift, req.Date)
			if err != nil {
				return err
			}
			if approved >= entity.MaxApprovedPerShiftDay {
				return &domain.DateUnavailableError{Date: entity.FormatDate(req.Date)}
			}
		}

		if err := daysOff.UpdateStatus(ctx, req.ID, to); err != nil {
			return err
		}
		updated = *req
		updated.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("day_off_id", requestID).Str("action", string(action)).Msg("solicitud gestionada")
	return &dto.DayOffResponse{
		ID:     updated.ID,
		UserID: updated.UserID,
		Date:   entity.FormatDate(updated.Date),
		Status: string(updated.Status),
	}, nil
}

// ListPending usuarios en pending, FIFO por fecha de alta.
func (uc *ApprovalUseCase) ListPending(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.users.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar pendientes: %w", err)
	}
	return toUserResponses(list), nil
}

// ListAll todos los usuarios.
func (uc *ApprovalUseCase) ListAll(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return toUserResponses(list), nil
}

// DeleteUser borra un usuario y, en cascada, sus solicitudes. Un admin no puede borrarse a sí mismo.
func (uc *ApprovalUseCase) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return domain.ErrForbidden
	}
	ok, err := uc.users.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.log.Warn().Int64("user_id", userID).Int64("actor_id", actorID).Msg("usuario eliminado")
	return nil
}

// Calendar conteo pending/approved por fecha del mes, todos los turnos.
func (uc *ApprovalUseCase) Calendar(ctx context.Context, year int, month time.Month) (map[string]dto.DayCounts, error) {
	if month < time.January || month > time.December {
		return nil, domain.Invalid("Month and year are required.")
	}
	from, to := entity.MonthRange(year, month)
	counts, err := uc.daysOff.StatusCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("calendario admin: %w", err)
	}
	out := make(map[string]dto.DayCounts, len(counts))
	for _, c := range counts {
		out[entity.FormatDate(c.Date)] = dto.DayCounts{Pending: c.Pending, Approved: c.Approved}
	}
	return out, nil
}

// DayDetails solicitudes de una fecha con los datos de sus dueños.
func (uc *ApprovalUseCase) DayDetails(ctx context.Context, rawDate string) ([]dto.DayOffDetailResponse, error) {
	d, err := entity.ParseDate(rawDate)
	if err != nil {
		return nil, domain.Invalid(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", rawDate))
	}
	list, err := uc.daysOff.ListByDate(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("detalle del día: %w", err)
	}
	out := make([]dto.DayOffDetailResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.DayOffDetailResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Username:  r.Username,
			Shift:     r.Shift.String(),
			Status:    string(r.Status),
		})
	}
	return out, nil
}

func toUserResponses(list []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Shift:     u.Shift.String(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
