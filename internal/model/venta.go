package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is one point-of-sale order rung under a cashier shift.
// Estado: "pendiente" | "completada" | "anulada"
//
// AlumnoID is optional — cash sales to walk-in customers carry no student.
// Subtotal/Total are recomputed from the detalles on every mutation.
type Venta struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroVenta int        `gorm:"uniqueIndex;not null"`
	AlumnoID    *uuid.UUID `gorm:"type:uuid;index"`
	CajeroID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TurnoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Estado      string     `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Descuento   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observaciones *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Alumno   *Alumno        `gorm:"foreignKey:AlumnoID"`
	Cajero   *Usuario       `gorm:"foreignKey:CajeroID"`
	Turno    *TurnoCajero   `gorm:"foreignKey:TurnoID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
	Pagos    []PagoVenta    `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one line item of a sale. Stock is decremented the moment the
// detalle is created (a draft sale reserves stock) and restored when the
// detalle is removed or the sale annulled.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoItem  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }

// MetodoPago is a configurable payment method.
// Tipo: "efectivo" | "tarjeta" | "transferencia" | "saldo"
// TasaPct is a surcharge percentage applied on top of the paid amount.
type MetodoPago struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre             string          `gorm:"uniqueIndex;not null"`
	Tipo               string          `gorm:"type:varchar(20);not null"`
	TasaPct            decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	RequiereReferencia bool            `gorm:"not null;default:false"`
	Activo             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (MetodoPago) TableName() string { return "metodos_pago" }

// PagoVenta records one payment applied to a sale.
// MontoFinal = Monto + Monto * TasaPct / 100, with the tasa copied from the
// method at payment time so later method edits don't rewrite history.
type PagoVenta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPagoID uuid.UUID       `gorm:"type:uuid;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TasaPct      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MontoFinal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Referencia   *string
	CreatedAt    time.Time

	MetodoPago *MetodoPago `gorm:"foreignKey:MetodoPagoID"`
}

func (PagoVenta) TableName() string { return "pagos_venta" }
