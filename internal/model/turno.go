package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja is a physical cash register.
type Caja struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Caja) TableName() string { return "cajas" }

// TurnoCajero brackets the sales a cashier rings on one register.
//
// At most one turno with Activa=true may exist per caja; the real guarantee is
// a partial unique index on (caja_id) WHERE activa (see infra schema patches),
// the application-level pre-check only produces a friendlier message.
// A closed turno is terminal: it is never reopened or re-edited.
type TurnoCajero struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajeroID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CajaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Set on close: MontoFinal is the counted drawer, TotalVentas the sum of
	// completed sales of the turno, Diferencia = final - (inicial + ventas).
	MontoFinal  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalVentas *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Activa      bool             `gorm:"not null;default:true"`
	FechaInicio time.Time
	FechaFin    *time.Time
	ObservacionesApertura *string
	ObservacionesCierre   *string

	Cajero *Usuario `gorm:"foreignKey:CajeroID"`
	Caja   *Caja    `gorm:"foreignKey:CajaID"`
	Ventas []Venta  `gorm:"foreignKey:TurnoID"`
}

func (TurnoCajero) TableName() string { return "turnos_cajero" }
