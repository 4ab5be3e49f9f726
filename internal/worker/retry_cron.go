package worker

// retry_cron.go
// Background goroutine that periodically re-attempts PDF generation for
// facturas stuck in estado pendiente/error with next_retry_at in the past.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// StartRetryCron launches a goroutine that ticks every 30s and re-runs
// invoice generation for stuck facturas. It respects the context for
// graceful shutdown.
func StartRetryCron(ctx context.Context, facturacion FacturaGenerator) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, facturacion)
			}
		}
	}()
}

func processRetries(ctx context.Context, facturacion FacturaGenerator) {
	facturas, err := facturacion.ListPendingRetries(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(facturas) == 0 {
		return
	}

	log.Info().Int("count", len(facturas)).Msg("retry_cron: processing stuck facturas")

	for i := range facturas {
		f := &facturas[i]
		if _, err := facturacion.GenerarParaVenta(ctx, f.VentaID); err != nil {
			log.Warn().
				Err(err).
				Str("factura_id", f.ID.String()).
				Int("retry_count", f.RetryCount).
				Msg("retry_cron: reintento fallido")
			continue
		}
		log.Info().
			Str("factura_id", f.ID.String()).
			Int("total_retries", f.RetryCount).
			Msg("retry_cron: factura emitida tras reintento")
	}
}
