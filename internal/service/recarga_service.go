package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"cantina/internal/dto"
	"cantina/internal/infra"
	"cantina/internal/model"
	"cantina/internal/repository"
	"cantina/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSolicitudNoPendiente = errors.New("la solicitud ya fue procesada")
	ErrMontoFueraDeRango    = errors.New("el monto está fuera del rango permitido")
)

// RecargaService manages the top-up request workflow:
// pendiente → aprobada (credits balance atomically) | rechazada.
type RecargaService interface {
	Crear(ctx context.Context, padreUsuarioID uuid.UUID, req dto.CrearRecargaRequest, comprobante *multipart.FileHeader) (*dto.RecargaResponse, error)
	AprobarYAcreditar(ctx context.Context, id, adminID uuid.UUID, req dto.AprobarRecargaRequest) (*dto.RecargaResponse, error)
	Rechazar(ctx context.Context, id, adminID uuid.UUID, req dto.RechazarRecargaRequest) (*dto.RecargaResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.RecargaResponse, error)
	List(ctx context.Context, estado string, page, limit int) ([]dto.RecargaResponse, int64, error)
	ListByPadre(ctx context.Context, padreUsuarioID uuid.UUID, page, limit int) ([]dto.RecargaResponse, int64, error)
}

type recargaService struct {
	solicitudRepo repository.SolicitudRepository
	alumnoRepo    repository.AlumnoRepository
	saldo         SaldoService
	comprobantes  *infra.ComprobanteStore
	dispatcher    *worker.Dispatcher
	montoMin      decimal.Decimal
	montoMax      decimal.Decimal
}

func NewRecargaService(
	solicitudRepo repository.SolicitudRepository,
	alumnoRepo repository.AlumnoRepository,
	saldo SaldoService,
	comprobantes *infra.ComprobanteStore,
	dispatcher *worker.Dispatcher,
	montoMin, montoMax decimal.Decimal,
) RecargaService {
	return &recargaService{
		solicitudRepo: solicitudRepo,
		alumnoRepo:    alumnoRepo,
		saldo:         saldo,
		comprobantes:  comprobantes,
		dispatcher:    dispatcher,
		montoMin:      montoMin,
		montoMax:      montoMax,
	}
}

// Crear registers a pending request. The comprobante (payment proof) is
// required and validated by the store before the row is written.
func (s *recargaService) Crear(ctx context.Context, padreUsuarioID uuid.UUID, req dto.CrearRecargaRequest, comprobante *multipart.FileHeader) (*dto.RecargaResponse, error) {
	if req.Monto.LessThan(s.montoMin) || req.Monto.GreaterThan(s.montoMax) {
		return nil, fmt.Errorf("%w: entre %s y %s", ErrMontoFueraDeRango, s.montoMin, s.montoMax)
	}

	padre, err := s.alumnoRepo.FindPadreByUsuarioID(ctx, padreUsuarioID)
	if err != nil {
		return nil, errors.New("padre no registrado")
	}

	alumnoID, err := uuid.Parse(req.AlumnoID)
	if err != nil {
		return nil, fmt.Errorf("alumno_id inválido: %w", err)
	}
	alumno, err := s.alumnoRepo.FindByID(ctx, alumnoID)
	if err != nil {
		return nil, errors.New("alumno no encontrado")
	}
	if alumno.PadreID != padre.ID {
		return nil, errors.New("el alumno no pertenece a este padre")
	}
	if alumno.Estado != "activo" {
		return nil, ErrAlumnoInactivo
	}

	if comprobante == nil {
		return nil, errors.New("el comprobante de pago es obligatorio")
	}
	path, err := s.comprobantes.Save(comprobante)
	if err != nil {
		return nil, err
	}

	solicitud := &model.SolicitudRecarga{
		AlumnoID:        alumnoID,
		PadreID:         padre.ID,
		MontoSolicitado: req.Monto,
		Estado:          "pendiente",
		MetodoPago:      req.MetodoPago,
		ComprobantePath: path,
		FechaSolicitud:  time.Now(),
	}
	if req.ReferenciaPago != "" {
		solicitud.ReferenciaPago = &req.ReferenciaPago
	}

	if err := s.solicitudRepo.Create(ctx, solicitud); err != nil {
		return nil, err
	}

	log.Info().
		Str("solicitud_id", solicitud.ID.String()).
		Str("alumno_id", alumnoID.String()).
		Str("monto", req.Monto.String()).
		Msg("solicitud de recarga creada")

	return solicitudToResponse(solicitud), nil
}

// AprobarYAcreditar flips the estado AND credits the student balance inside
// ONE transaction. The solicitud row is locked first so two admins cannot
// double-approve.
func (s *recargaService) AprobarYAcreditar(ctx context.Context, id, adminID uuid.UUID, req dto.AprobarRecargaRequest) (*dto.RecargaResponse, error) {
	var solicitud *model.SolicitudRecarga

	txErr := runTx(ctx, s.solicitudRepo.DB(), func(tx *gorm.DB) error {
		var err error
		solicitud, err = s.solicitudRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return errors.New("solicitud no encontrada")
		}
		if solicitud.Estado != "pendiente" {
			return ErrSolicitudNoPendiente
		}

		montoAcreditar := solicitud.MontoSolicitado
		if req.MontoAprobado != nil {
			if !req.MontoAprobado.IsPositive() {
				return ErrMontoInvalido
			}
			montoAcreditar = *req.MontoAprobado
		}

		desc := fmt.Sprintf("Recarga aprobada — solicitud %s", solicitud.ID)
		solicitudRef := solicitud.ID
		if _, err := s.saldo.CargarSaldoTx(ctx, tx, solicitud.AlumnoID, montoAcreditar, desc, &solicitudRef, &adminID); err != nil {
			return err
		}

		now := time.Now()
		solicitud.Estado = "aprobada"
		solicitud.MontoAprobado = &montoAcreditar
		solicitud.FechaProcesamiento = &now
		solicitud.ProcesadoPor = &adminID
		if req.Observacion != "" {
			solicitud.Observaciones = &req.Observacion
		}
		return s.solicitudRepo.UpdateTx(tx, solicitud)
	})
	if txErr != nil {
		return nil, txErr
	}

	if alumno, err := s.alumnoRepo.FindByID(ctx, solicitud.AlumnoID); err == nil {
		s.saldo.InvalidarTarjeta(ctx, alumno.NumeroTarjeta)
	}

	log.Info().
		Str("solicitud_id", solicitud.ID.String()).
		Str("admin_id", adminID.String()).
		Msg("recarga aprobada y acreditada")

	s.notificarPadre(ctx, solicitud, "aprobada")
	return solicitudToResponse(solicitud), nil
}

func (s *recargaService) Rechazar(ctx context.Context, id, adminID uuid.UUID, req dto.RechazarRecargaRequest) (*dto.RecargaResponse, error) {
	var solicitud *model.SolicitudRecarga

	txErr := runTx(ctx, s.solicitudRepo.DB(), func(tx *gorm.DB) error {
		var err error
		solicitud, err = s.solicitudRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return errors.New("solicitud no encontrada")
		}
		if solicitud.Estado != "pendiente" {
			return ErrSolicitudNoPendiente
		}

		now := time.Now()
		solicitud.Estado = "rechazada"
		solicitud.FechaProcesamiento = &now
		solicitud.ProcesadoPor = &adminID
		solicitud.Observaciones = &req.Motivo
		return s.solicitudRepo.UpdateTx(tx, solicitud)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificarPadre(ctx, solicitud, "rechazada")
	return solicitudToResponse(solicitud), nil
}

// notificarPadre enqueues an email job; notification failure never blocks the
// workflow.
func (s *recargaService) notificarPadre(ctx context.Context, solicitud *model.SolicitudRecarga, resultado string) {
	if s.dispatcher == nil {
		return
	}
	padre, err := s.alumnoRepo.FindPadreByID(ctx, solicitud.PadreID)
	if err != nil || padre.Email == "" {
		return
	}
	payload := map[string]interface{}{
		"to":           padre.Email,
		"solicitud_id": solicitud.ID.String(),
		"resultado":    resultado,
		"monto":        solicitud.MontoSolicitado.String(),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("no se pudo encolar notificación de recarga")
	}
}

func (s *recargaService) Detalle(ctx context.Context, id uuid.UUID) (*dto.RecargaResponse, error) {
	solicitud, err := s.solicitudRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("solicitud no encontrada")
	}
	return solicitudToResponse(solicitud), nil
}

func (s *recargaService) List(ctx context.Context, estado string, page, limit int) ([]dto.RecargaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	solicitudes, total, err := s.solicitudRepo.List(ctx, estado, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.RecargaResponse, 0, len(solicitudes))
	for i := range solicitudes {
		items = append(items, *solicitudToResponse(&solicitudes[i]))
	}
	return items, total, nil
}

func (s *recargaService) ListByPadre(ctx context.Context, padreUsuarioID uuid.UUID, page, limit int) ([]dto.RecargaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	padre, err := s.alumnoRepo.FindPadreByUsuarioID(ctx, padreUsuarioID)
	if err != nil {
		return nil, 0, errors.New("padre no registrado")
	}
	solicitudes, total, err := s.solicitudRepo.FindByPadreID(ctx, padre.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.RecargaResponse, 0, len(solicitudes))
	for i := range solicitudes {
		items = append(items, *solicitudToResponse(&solicitudes[i]))
	}
	return items, total, nil
}

func solicitudToResponse(s *model.SolicitudRecarga) *dto.RecargaResponse {
	resp := &dto.RecargaResponse{
		ID:                 s.ID.String(),
		AlumnoID:           s.AlumnoID.String(),
		Monto:              s.MontoSolicitado,
		MontoAprobado:      s.MontoAprobado,
		Estado:             s.Estado,
		ComprobantePath:    s.ComprobantePath,
		FechaSolicitud:     s.FechaSolicitud,
		FechaProcesamiento: s.FechaProcesamiento,
	}
	if s.Alumno != nil {
		resp.Alumno = s.Alumno.Nombre + " " + s.Alumno.Apellido
	}
	if s.Observaciones != nil {
		resp.Observacion = *s.Observaciones
	}
	return resp
}
