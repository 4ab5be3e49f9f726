package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AjusteSaldoRequest applies a manual balance correction (admin only).
// Monto is signed: positive credits, negative debits.
type AjusteSaldoRequest struct {
	Monto       decimal.Decimal `json:"monto" validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,max=255"`
}

// TransaccionResponse is one immutable ledger entry.
type TransaccionResponse struct {
	ID             string          `json:"id"`
	AlumnoID       string          `json:"alumno_id"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	SaldoAnterior  decimal.Decimal `json:"saldo_anterior"`
	SaldoPosterior decimal.Decimal `json:"saldo_posterior"`
	Descripcion    string          `json:"descripcion"`
	VentaID        *string         `json:"venta_id,omitempty"`
	SolicitudID    *string         `json:"solicitud_id,omitempty"`
	Fecha          time.Time       `json:"fecha"`
}

// HistorialSaldoResponse pages through a student's ledger.
type HistorialSaldoResponse struct {
	AlumnoID      string                `json:"alumno_id"`
	SaldoActual   decimal.Decimal       `json:"saldo_actual"`
	Transacciones []TransaccionResponse `json:"transacciones"`
	Total         int64                 `json:"total"`
	Pagina        int                   `json:"pagina"`
}

// ReconciliacionItem flags one student whose stored balance diverges from
// the sum of their ledger.
type ReconciliacionItem struct {
	AlumnoID      string          `json:"alumno_id"`
	NumeroTarjeta string          `json:"numero_tarjeta"`
	SaldoTarjeta  decimal.Decimal `json:"saldo_tarjeta"`
	SaldoLedger   decimal.Decimal `json:"saldo_ledger"`
	Diferencia    decimal.Decimal `json:"diferencia"`
}

// ReconciliacionResponse is the full reconciliation report.
type ReconciliacionResponse struct {
	Revisados    int                  `json:"revisados"`
	Discrepantes []ReconciliacionItem `json:"discrepantes"`
	GeneradoEn   time.Time            `json:"generado_en"`
}
