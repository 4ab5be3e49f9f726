package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Padre is the parent/guardian account that requests balance top-ups and
// receives invoices for their children's consumption.
type Padre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Apellido  string    `gorm:"not null"`
	// RazonSocial and RUC are only set when the padre requires fiscal invoices.
	RazonSocial *string
	RUC         *string `gorm:"type:varchar(20);column:ruc"`
	Email       string  `gorm:"not null"`
	Telefono    *string
	Direccion   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Alumnos []Alumno `gorm:"foreignKey:PadreID"`
}

func (Padre) TableName() string { return "padres" }

// Alumno is a student holding a prepaid cafeteria card.
// Estado: "activo" | "inactivo"
//
// SaldoTarjeta is the materialized balance. It is mutated exclusively through
// the saldo ledger operations; the Transaccion trail is the source of truth
// and a reconciliation pass can recompute this field from it.
type Alumno struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PadreID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre        string    `gorm:"not null"`
	Apellido      string    `gorm:"not null"`
	Grado         *string
	Nivel         *string
	NumeroTarjeta string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	SaldoTarjeta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// LimiteConsumo is the optional daily spend cap; zero means no cap.
	LimiteConsumo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Padre *Padre `gorm:"foreignKey:PadreID"`
}

func (Alumno) TableName() string { return "alumnos" }
