package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria classifies products on the POS grid.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Categoria) TableName() string { return "categorias" }

// Producto is a cafeteria item.
// Estado: "activo" | "inactivo"
// Cantidad is decimal(10,3) — fractional units (e.g. kilos) are allowed.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	StockMinimo decimal.Decimal `gorm:"type:decimal(10,3);not null;default:5"`
	ProveedorID *uuid.UUID      `gorm:"type:uuid;index"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }

// MovimientoStock registers every stock change with a before/after snapshot.
// Tipo: "venta" | "compra" | "ajuste" | "reversa_anulacion" | "reversa_item"
// Cantidad is signed: positive = entrada, negative = salida.
// Rows are immutable — reversals create inverse entries.
type MovimientoStock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"type:varchar(30);not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
