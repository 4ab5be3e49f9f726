package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemVentaRequest is one product line in a sale.
type ItemVentaRequest struct {
	ProductoID    string          `json:"producto_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad" validate:"required"`
	DescuentoItem decimal.Decimal `json:"descuento_item"`
}

// PagoVentaRequest is one payment tender for a sale.
type PagoVentaRequest struct {
	MetodoPagoID string          `json:"metodo_pago_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto" validate:"required"`
	Referencia   string          `json:"referencia" validate:"omitempty,max=100"`
}

// ProcesarVentaRequest creates, pays, and completes a sale in one call.
type ProcesarVentaRequest struct {
	NumeroTarjeta string             `json:"numero_tarjeta" validate:"omitempty,max=20"`
	Items         []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
	Pagos         []PagoVentaRequest `json:"pagos" validate:"required,min=1,dive"`
	Descuento     decimal.Decimal    `json:"descuento"`
}

// ValidarVentaRequest is the dry-run preview. Same shape as ProcesarVenta
// but pagos are optional: the preview reports the total to collect.
type ValidarVentaRequest struct {
	NumeroTarjeta string             `json:"numero_tarjeta" validate:"omitempty,max=20"`
	Items         []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
	Descuento     decimal.Decimal    `json:"descuento"`
}

// CrearBorradorRequest opens a pending sale for incremental item entry.
type CrearBorradorRequest struct {
	NumeroTarjeta string `json:"numero_tarjeta" validate:"omitempty,max=20"`
}

// AgregarItemRequest appends one line to a pending sale.
type AgregarItemRequest struct {
	ProductoID    string          `json:"producto_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad" validate:"required"`
	DescuentoItem decimal.Decimal `json:"descuento_item"`
}

// PagarVentaRequest completes a pending sale with its payments.
type PagarVentaRequest struct {
	Pagos     []PagoVentaRequest `json:"pagos" validate:"required,min=1,dive"`
	Descuento decimal.Decimal    `json:"descuento"`
}

// AnularVentaRequest voids a completed sale.
type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,max=255"`
}

// ProcesarVentaResponse mirrors the POS contract: the terminal needs the
// assigned number, the final total, and the change to hand back.
type ProcesarVentaResponse struct {
	Success     bool            `json:"success"`
	VentaID     string          `json:"venta_id"`
	NumeroVenta int             `json:"numero_venta"`
	Total       decimal.Decimal `json:"total"`
	Cambio      decimal.Decimal `json:"cambio"`
}

// ValidarVentaResponse is the dry-run result. Errores lists every problem
// found so the cashier can fix them all at once.
type ValidarVentaResponse struct {
	Valida        bool             `json:"valida"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Descuento     decimal.Decimal  `json:"descuento"`
	Total         decimal.Decimal  `json:"total"`
	SaldoTarjeta  *decimal.Decimal `json:"saldo_tarjeta,omitempty"`
	DisponibleHoy *decimal.Decimal `json:"disponible_hoy,omitempty"`
	Errores       []string         `json:"errores"`
}

// DetalleVentaResponse is one line in a sale view.
type DetalleVentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	DescuentoItem  decimal.Decimal `json:"descuento_item"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// PagoVentaResponse is one tender in a sale view.
type PagoVentaResponse struct {
	ID         string          `json:"id"`
	MetodoPago string          `json:"metodo_pago"`
	Monto      decimal.Decimal `json:"monto"`
	TasaPct    decimal.Decimal `json:"tasa_pct"`
	MontoFinal decimal.Decimal `json:"monto_final"`
	Referencia string          `json:"referencia,omitempty"`
}

// VentaResponse is the full sale view with lines and payments.
type VentaResponse struct {
	ID          string                 `json:"id"`
	NumeroVenta int                    `json:"numero_venta"`
	AlumnoID    *string                `json:"alumno_id,omitempty"`
	CajeroID    string                 `json:"cajero_id"`
	TurnoID     string                 `json:"turno_id"`
	Estado      string                 `json:"estado"`
	Subtotal    decimal.Decimal        `json:"subtotal"`
	Descuento   decimal.Decimal        `json:"descuento"`
	Total       decimal.Decimal        `json:"total"`
	Fecha       time.Time              `json:"fecha"`
	Detalles    []DetalleVentaResponse `json:"detalles"`
	Pagos       []PagoVentaResponse    `json:"pagos"`
}

// ListVentasQuery filters the sales listing.
type ListVentasQuery struct {
	Desde    string `form:"desde"`
	Hasta    string `form:"hasta"`
	Estado   string `form:"estado" validate:"omitempty,oneof=pendiente completada anulada"`
	CajeroID string `form:"cajero_id" validate:"omitempty,uuid"`
	AlumnoID string `form:"alumno_id" validate:"omitempty,uuid"`
	Pagina   int    `form:"pagina"`
	Limite   int    `form:"limite"`
}
