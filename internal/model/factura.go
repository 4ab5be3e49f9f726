package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factura is the internal receipt generated for a completed sale.
// Estado: "pendiente" | "emitida" | "error"
//
// The PDF is rendered asynchronously by the factura worker; a retry cron
// re-enqueues rows stuck in pendiente/error.
type Factura struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Numero       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	RazonSocial  *string
	RUC          *string         `gorm:"type:varchar(20);column:ruc"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath      *string `gorm:"column:pdf_path"`
	RetryCount   int     `gorm:"not null;default:0"`
	NextRetryAt  *time.Time
	LastError    *string
	FechaEmision *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Venta *Venta `gorm:"foreignKey:VentaID"`
}

func (Factura) TableName() string { return "facturas" }
