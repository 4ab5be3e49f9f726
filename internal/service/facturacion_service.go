package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina/internal/config"
	"cantina/internal/infra"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturacionService renders invoice PDFs for completed sales. Generation is
// asynchronous (the worker calls GenerarParaVenta); failures are retried with
// exponential backoff by the retry cron.
type FacturacionService interface {
	GenerarParaVenta(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error)
	Reintentar(ctx context.Context, facturaID uuid.UUID) error
	Detalle(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	PorVenta(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Factura, int64, error)
	ListPendingRetries(ctx context.Context, limit int) ([]model.Factura, error)
}

type facturacionService struct {
	repo       repository.FacturaRepository
	ventaRepo  repository.VentaRepository
	alumnoRepo repository.AlumnoRepository
	cfg        *config.Config
	maxRetries int
}

func NewFacturacionService(
	repo repository.FacturaRepository,
	ventaRepo repository.VentaRepository,
	alumnoRepo repository.AlumnoRepository,
	cfg *config.Config,
) FacturacionService {
	return &facturacionService{
		repo:       repo,
		ventaRepo:  ventaRepo,
		alumnoRepo: alumnoRepo,
		cfg:        cfg,
		maxRetries: 5,
	}
}

// GenerarParaVenta is idempotent: an already emitted factura is returned as-is.
func (s *facturacionService) GenerarParaVenta(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error) {
	venta, err := s.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	if venta.Estado != "completada" {
		return nil, errors.New("sólo las ventas completadas se facturan")
	}

	factura, err := s.repo.FindByVentaID(ctx, ventaID)
	if err != nil {
		num, err := s.repo.NextNumeroFactura(ctx)
		if err != nil {
			return nil, err
		}
		factura = &model.Factura{
			VentaID: ventaID,
			Numero:  fmt.Sprintf("001-001-%07d", num),
			Total:   venta.Total,
			Estado:  "pendiente",
		}
		// Fiscal data comes from the padre when the sale is on a card.
		if venta.AlumnoID != nil {
			if alumno, err := s.alumnoRepo.FindByID(ctx, *venta.AlumnoID); err == nil {
				if padre, err := s.alumnoRepo.FindPadreByID(ctx, alumno.PadreID); err == nil {
					factura.RazonSocial = padre.RazonSocial
					factura.RUC = padre.RUC
				}
			}
		}
		if err := s.repo.Create(ctx, factura); err != nil {
			return nil, err
		}
	}
	if factura.Estado == "emitida" {
		return factura, nil
	}

	pdfPath, genErr := infra.GenerateFacturaPDF(factura, venta, s.cfg.NombreComercio, s.cfg.PDFStoragePath)
	if genErr != nil {
		s.marcarError(ctx, factura, genErr)
		return nil, genErr
	}

	now := time.Now()
	factura.Estado = "emitida"
	factura.PDFPath = &pdfPath
	factura.FechaEmision = &now
	factura.LastError = nil
	if err := s.repo.Update(ctx, factura); err != nil {
		return nil, err
	}

	log.Info().
		Str("factura_id", factura.ID.String()).
		Str("numero", factura.Numero).
		Msg("factura emitida")
	return factura, nil
}

// marcarError schedules the next retry with exponential backoff (1m, 2m, 4m…).
func (s *facturacionService) marcarError(ctx context.Context, factura *model.Factura, cause error) {
	factura.Estado = "error"
	factura.RetryCount++
	msg := cause.Error()
	factura.LastError = &msg
	backoff := time.Duration(1<<uint(factura.RetryCount)) * time.Minute / 2
	next := time.Now().Add(backoff)
	factura.NextRetryAt = &next

	if err := s.repo.Update(ctx, factura); err != nil {
		log.Error().Err(err).Str("factura_id", factura.ID.String()).Msg("no se pudo marcar error de factura")
	}
}

func (s *facturacionService) Reintentar(ctx context.Context, facturaID uuid.UUID) error {
	factura, err := s.repo.FindByID(ctx, facturaID)
	if err != nil {
		return errors.New("factura no encontrada")
	}
	_, err = s.GenerarParaVenta(ctx, factura.VentaID)
	return err
}

func (s *facturacionService) Detalle(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *facturacionService) PorVenta(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error) {
	factura, err := s.repo.FindByVentaID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("la venta no tiene factura")
	}
	return factura, nil
}

func (s *facturacionService) List(ctx context.Context, estado string, page, limit int) ([]model.Factura, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.repo.List(ctx, estado, page, limit)
}

func (s *facturacionService) ListPendingRetries(ctx context.Context, limit int) ([]model.Factura, error) {
	return s.repo.ListPendingRetries(ctx, s.maxRetries, limit)
}
