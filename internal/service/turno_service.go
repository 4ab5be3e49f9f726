package service

import (
	"context"
	"errors"
	"time"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCajaOcupada    = errors.New("la caja ya tiene un turno abierto")
	ErrCajeroConTurno = errors.New("el cajero ya tiene un turno abierto")
	ErrTurnoCerrado   = errors.New("el turno ya está cerrado")
)

// TurnoService manages cashier shifts. The one-active-shift-per-register and
// per-cashier guarantees are enforced by partial unique indexes; the service
// pre-checks only produce friendlier messages.
type TurnoService interface {
	Abrir(ctx context.Context, cajeroID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, cajeroID uuid.UUID, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error)
	EstadoActual(ctx context.Context, cajeroID uuid.UUID) (*dto.TurnoResponse, error)
	Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.ResumenTurnoResponse, error)
	Historial(ctx context.Context, cajeroID string, page, limit int) ([]dto.TurnoResponse, int64, error)
	ListCajas(ctx context.Context) ([]model.Caja, error)
	CrearCaja(ctx context.Context, numero int, nombre string) (*model.Caja, error)
}

type turnoService struct {
	repo      repository.TurnoRepository
	ventaRepo repository.VentaRepository
}

func NewTurnoService(repo repository.TurnoRepository, ventaRepo repository.VentaRepository) TurnoService {
	return &turnoService{repo: repo, ventaRepo: ventaRepo}
}

func (s *turnoService) Abrir(ctx context.Context, cajeroID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, errors.New("el monto inicial no puede ser negativo")
	}

	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, errors.New("caja_id inválido")
	}
	caja, err := s.repo.FindCajaByID(ctx, cajaID)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	if !caja.Activa {
		return nil, errors.New("la caja está deshabilitada")
	}

	if _, err := s.repo.FindActivoByCaja(ctx, cajaID); err == nil {
		return nil, ErrCajaOcupada
	}
	if _, err := s.repo.FindActivoByCajero(ctx, cajeroID); err == nil {
		return nil, ErrCajeroConTurno
	}

	turno := &model.TurnoCajero{
		CajeroID:     cajeroID,
		CajaID:       cajaID,
		MontoInicial: req.MontoInicial,
		Activa:       true,
		FechaInicio:  time.Now(),
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		// The partial unique index is the real guard against races.
		return nil, ErrCajaOcupada
	}

	log.Info().
		Str("turno_id", turno.ID.String()).
		Str("cajero_id", cajeroID.String()).
		Int("caja", caja.Numero).
		Msg("turno abierto")

	return turnoToResponse(turno), nil
}

// Cerrar computes TotalVentas from the completed sales of the shift and
// Diferencia = monto_final - (monto_inicial + total_ventas). Closed shifts
// are terminal. The close records what was counted and never blocks: an
// abandoned draft does not hold the shift open, it just never sums.
func (s *turnoService) Cerrar(ctx context.Context, cajeroID uuid.UUID, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error) {
	if req.MontoFinal.IsNegative() {
		return nil, errors.New("el monto final no puede ser negativo")
	}

	activo, err := s.repo.FindActivoByCajero(ctx, cajeroID)
	if err != nil {
		return nil, ErrSinTurnoActivo
	}

	var turno *model.TurnoCajero
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		turno, err = s.repo.FindByIDForUpdate(ctx, tx, activo.ID)
		if err != nil {
			return err
		}
		if !turno.Activa {
			return ErrTurnoCerrado
		}

		totalVentas, err := s.ventaRepo.SumCompletadasByTurno(ctx, tx, turno.ID)
		if err != nil {
			return err
		}

		diferencia := req.MontoFinal.Sub(turno.MontoInicial.Add(totalVentas))
		now := time.Now()

		turno.MontoFinal = &req.MontoFinal
		turno.TotalVentas = &totalVentas
		turno.Diferencia = &diferencia
		turno.Activa = false
		turno.FechaFin = &now
		if req.Observacion != "" {
			turno.ObservacionesCierre = &req.Observacion
		}
		return s.repo.UpdateTx(tx, turno)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("turno_id", turno.ID.String()).
		Str("diferencia", turno.Diferencia.String()).
		Msg("turno cerrado")

	return turnoToResponse(turno), nil
}

func (s *turnoService) EstadoActual(ctx context.Context, cajeroID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindActivoByCajero(ctx, cajeroID)
	if err != nil {
		return nil, ErrSinTurnoActivo
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.ResumenTurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}

	completadas, err := s.ventaRepo.CountByTurno(ctx, turnoID, "completada")
	if err != nil {
		return nil, err
	}
	totalVentas, err := s.ventaRepo.SumCompletadasByTurno(ctx, s.repo.DB(), turnoID)
	if err != nil {
		return nil, err
	}

	// Per-method breakdown from the sales of the shift.
	ventas, err := s.ventaRepo.ListByTurno(ctx, turnoID)
	if err != nil {
		return nil, err
	}

	porMetodo := map[string]decimal.Decimal{}
	totalAnuladas := decimal.Zero
	efectivo := decimal.Zero
	for _, v := range ventas {
		if v.Estado == "anulada" {
			totalAnuladas = totalAnuladas.Add(v.Total)
			continue
		}
		if v.Estado != "completada" {
			continue
		}
		for _, p := range v.Pagos {
			nombre := "desconocido"
			tipo := ""
			if p.MetodoPago != nil {
				nombre = p.MetodoPago.Nombre
				tipo = p.MetodoPago.Tipo
			}
			porMetodo[nombre] = porMetodo[nombre].Add(p.Monto)
			if tipo == "efectivo" {
				efectivo = efectivo.Add(p.Monto)
			}
		}
	}

	return &dto.ResumenTurnoResponse{
		Turno:            *turnoToResponse(turno),
		CantidadVentas:   completadas,
		TotalVentas:      totalVentas,
		TotalAnuladas:    totalAnuladas,
		PorMetodoPago:    porMetodo,
		EfectivoEsperado: turno.MontoInicial.Add(efectivo),
	}, nil
}

func (s *turnoService) Historial(ctx context.Context, cajeroID string, page, limit int) ([]dto.TurnoResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	turnos, total, err := s.repo.List(ctx, cajeroID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		items = append(items, *turnoToResponse(&turnos[i]))
	}
	return items, total, nil
}

func (s *turnoService) ListCajas(ctx context.Context) ([]model.Caja, error) {
	return s.repo.ListCajas(ctx)
}

func (s *turnoService) CrearCaja(ctx context.Context, numero int, nombre string) (*model.Caja, error) {
	caja := &model.Caja{Numero: numero, Nombre: nombre, Activa: true}
	if err := s.repo.CreateCaja(ctx, caja); err != nil {
		return nil, err
	}
	return caja, nil
}

func turnoToResponse(t *model.TurnoCajero) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:           t.ID.String(),
		CajaID:       t.CajaID.String(),
		CajeroID:     t.CajeroID.String(),
		MontoInicial: t.MontoInicial,
		MontoFinal:   t.MontoFinal,
		TotalVentas:  t.TotalVentas,
		Diferencia:   t.Diferencia,
		Activa:       t.Activa,
		FechaInicio:  t.FechaInicio,
		FechaCierre:  t.FechaFin,
	}
	if t.Caja != nil {
		resp.Caja = t.Caja.Nombre
	}
	if t.Cajero != nil {
		resp.Cajero = t.Cajero.Nombre
	}
	if t.ObservacionesCierre != nil {
		resp.Observacion = *t.ObservacionesCierre
	}
	return resp
}
