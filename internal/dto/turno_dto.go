package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AbrirTurnoRequest opens a shift on a register.
type AbrirTurnoRequest struct {
	CajaID       string          `json:"caja_id" validate:"required,uuid"`
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"required"`
}

// CerrarTurnoRequest closes the caller's active shift with the counted cash.
type CerrarTurnoRequest struct {
	MontoFinal  decimal.Decimal `json:"monto_final" validate:"required"`
	Observacion string          `json:"observacion" validate:"omitempty,max=255"`
}

// TurnoResponse is the public view of a shift.
type TurnoResponse struct {
	ID           string           `json:"id"`
	CajaID       string           `json:"caja_id"`
	Caja         string           `json:"caja,omitempty"`
	CajeroID     string           `json:"cajero_id"`
	Cajero       string           `json:"cajero,omitempty"`
	MontoInicial decimal.Decimal  `json:"monto_inicial"`
	MontoFinal   *decimal.Decimal `json:"monto_final,omitempty"`
	TotalVentas  *decimal.Decimal `json:"total_ventas,omitempty"`
	Diferencia   *decimal.Decimal `json:"diferencia,omitempty"`
	Activa       bool             `json:"activa"`
	FechaInicio  time.Time        `json:"fecha_inicio"`
	FechaCierre  *time.Time       `json:"fecha_cierre,omitempty"`
	Observacion  string           `json:"observacion,omitempty"`
}

// ResumenTurnoResponse summarizes activity within a shift.
type ResumenTurnoResponse struct {
	Turno            TurnoResponse              `json:"turno"`
	CantidadVentas   int64                      `json:"cantidad_ventas"`
	TotalVentas      decimal.Decimal            `json:"total_ventas"`
	TotalAnuladas    decimal.Decimal            `json:"total_anuladas"`
	PorMetodoPago    map[string]decimal.Decimal `json:"por_metodo_pago"`
	EfectivoEsperado decimal.Decimal            `json:"efectivo_esperado"`
}
