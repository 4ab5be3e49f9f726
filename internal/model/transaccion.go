package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaccion is one immutable entry in the prepaid-card ledger.
// Tipo: "recarga" | "consumo" | "ajuste" | "devolucion"
//
// Monto is ALWAYS a signed delta (credits positive, debits negative); Tipo is
// purely categorical. SaldoAnterior/SaldoPosterior snapshot the student balance
// around the mutation, so SaldoPosterior = SaldoAnterior + Monto holds for
// every row. Entries are never updated or deleted — corrections are new
// "ajuste" or "devolucion" rows.
type Transaccion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AlumnoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	Monto          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoAnterior  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoPosterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion    string          `gorm:"not null"`
	// Optional references to the originating operation
	SolicitudID   *uuid.UUID `gorm:"type:uuid;index"`
	VentaID       *uuid.UUID `gorm:"type:uuid;index"`
	RegistradoPor *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Alumno *Alumno `gorm:"foreignKey:AlumnoID"`
}

func (Transaccion) TableName() string { return "transacciones" }
