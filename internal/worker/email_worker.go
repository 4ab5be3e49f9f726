package worker

// email_worker.go
// Processes notification jobs from QueueEmail. Used to tell parents the
// outcome of their recharge requests.

import (
	"context"
	"encoding/json"
	"fmt"

	"cantina/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To          string `json:"to"`
	SolicitudID string `json:"solicitud_id"`
	Resultado   string `json:"resultado"`
	Monto       string `json:"monto"`
}

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty recipient — skipping")
		return nil
	}

	subject := fmt.Sprintf("Solicitud de recarga %s", payload.Resultado)
	body := fmt.Sprintf(
		"Su solicitud de recarga por %s fue %s.\nNúmero de solicitud: %s",
		payload.Monto, payload.Resultado, payload.SolicitudID,
	)

	if err := w.mailer.Send(payload.To, subject, body, ""); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.To, err)
	}
	log.Info().Str("to", payload.To).Msg("email_worker: notificación enviada")
	return nil
}
