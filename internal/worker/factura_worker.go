package worker

// factura_worker.go
// Processes invoice-generation jobs from QueueFacturacion: renders the PDF
// receipt for a completed sale.

import (
	"context"
	"encoding/json"
	"fmt"

	"cantina/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturaGenerator is the slice of the facturación service the workers need.
// Declared here to keep the worker package free of a service dependency.
type FacturaGenerator interface {
	GenerarParaVenta(ctx context.Context, ventaID uuid.UUID) (*model.Factura, error)
	ListPendingRetries(ctx context.Context, limit int) ([]model.Factura, error)
}

// FacturaJobPayload is the job envelope sent to QueueFacturacion.
type FacturaJobPayload struct {
	VentaID string `json:"venta_id"`
}

type FacturaWorker struct {
	facturacion FacturaGenerator
}

func NewFacturaWorker(facturacion FacturaGenerator) *FacturaWorker {
	return &FacturaWorker{facturacion: facturacion}
}

func (w *FacturaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload FacturaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("factura_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("factura_worker: invalid venta_id")
		return nil
	}

	factura, err := w.facturacion.GenerarParaVenta(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("factura_worker: venta %s: %w", ventaID, err)
	}

	log.Info().
		Str("venta_id", ventaID.String()).
		Str("factura", factura.Numero).
		Msg("factura_worker: factura generada")
	return nil
}
