package dto

import "github.com/shopspring/decimal"

// CrearPadreRequest registers a parent account.
type CrearPadreRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=100"`
	Apellido    string `json:"apellido" validate:"required,max=100"`
	Documento   string `json:"documento" validate:"required,max=20"`
	Telefono    string `json:"telefono" validate:"omitempty,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	RazonSocial string `json:"razon_social" validate:"omitempty,max=150"`
	RUC         string `json:"ruc" validate:"omitempty,max=20"`
	UsuarioID   string `json:"usuario_id" validate:"omitempty,uuid"`
}

// CrearAlumnoRequest registers a student under a parent.
type CrearAlumnoRequest struct {
	PadreID       string           `json:"padre_id" validate:"required,uuid"`
	Nombre        string           `json:"nombre" validate:"required,max=100"`
	Apellido      string           `json:"apellido" validate:"required,max=100"`
	NumeroTarjeta string           `json:"numero_tarjeta" validate:"required,max=20"`
	Grado         string           `json:"grado" validate:"omitempty,max=50"`
	LimiteConsumo *decimal.Decimal `json:"limite_consumo" validate:"omitempty"`
}

// ActualizarAlumnoRequest modifies mutable student fields. Balance is NOT
// mutable here; it only moves through the transaction ledger.
type ActualizarAlumnoRequest struct {
	Nombre        *string          `json:"nombre" validate:"omitempty,max=100"`
	Apellido      *string          `json:"apellido" validate:"omitempty,max=100"`
	NumeroTarjeta *string          `json:"numero_tarjeta" validate:"omitempty,max=20"`
	Grado         *string          `json:"grado" validate:"omitempty,max=50"`
	LimiteConsumo *decimal.Decimal `json:"limite_consumo" validate:"omitempty"`
	Estado        *string          `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// AlumnoResponse is the public view of a student.
type AlumnoResponse struct {
	ID            string          `json:"id"`
	PadreID       string          `json:"padre_id"`
	Nombre        string          `json:"nombre"`
	Apellido      string          `json:"apellido"`
	NumeroTarjeta string          `json:"numero_tarjeta"`
	Grado         string          `json:"grado"`
	SaldoTarjeta  decimal.Decimal `json:"saldo_tarjeta"`
	LimiteConsumo decimal.Decimal `json:"limite_consumo"`
	Estado        string          `json:"estado"`
}

// SaldoTarjetaResponse is the cached card lookup used by the POS.
type SaldoTarjetaResponse struct {
	AlumnoID      string          `json:"alumno_id"`
	Nombre        string          `json:"nombre"`
	Apellido      string          `json:"apellido"`
	NumeroTarjeta string          `json:"numero_tarjeta"`
	SaldoTarjeta  decimal.Decimal `json:"saldo_tarjeta"`
	LimiteConsumo decimal.Decimal `json:"limite_consumo"`
	ConsumoDelDia decimal.Decimal `json:"consumo_del_dia"`
	DisponibleHoy decimal.Decimal `json:"disponible_hoy"`
	Estado        string          `json:"estado"`
}
