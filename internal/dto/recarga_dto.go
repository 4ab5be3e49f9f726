package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearRecargaRequest is the multipart form for a recharge request. The
// comprobante file travels as a separate form part.
type CrearRecargaRequest struct {
	AlumnoID       string          `form:"alumno_id" validate:"required,uuid"`
	Monto          decimal.Decimal `form:"monto" validate:"required"`
	MetodoPago     string          `form:"metodo_pago" validate:"required,oneof=transferencia deposito efectivo"`
	ReferenciaPago string          `form:"referencia_pago" validate:"omitempty,max=100"`
}

// AprobarRecargaRequest approves a pending request. MontoAprobado is
// optional; when omitted the requested amount is credited.
type AprobarRecargaRequest struct {
	MontoAprobado *decimal.Decimal `json:"monto_aprobado" validate:"omitempty"`
	Observacion   string           `json:"observacion" validate:"omitempty,max=255"`
}

// RechazarRecargaRequest rejects a pending request with a mandatory reason.
type RechazarRecargaRequest struct {
	Motivo string `json:"motivo" validate:"required,max=255"`
}

// RecargaResponse is the public view of a recharge request.
type RecargaResponse struct {
	ID                 string           `json:"id"`
	AlumnoID           string           `json:"alumno_id"`
	Alumno             string           `json:"alumno,omitempty"`
	Monto              decimal.Decimal  `json:"monto"`
	MontoAprobado      *decimal.Decimal `json:"monto_aprobado,omitempty"`
	Estado             string           `json:"estado"`
	ComprobantePath    string           `json:"comprobante_path,omitempty"`
	Observacion        string           `json:"observacion,omitempty"`
	FechaSolicitud     time.Time        `json:"fecha_solicitud"`
	FechaProcesamiento *time.Time       `json:"fecha_procesamiento,omitempty"`
}
