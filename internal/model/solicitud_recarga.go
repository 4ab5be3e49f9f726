package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SolicitudRecarga is a parent-initiated balance top-up request.
// Estado: "pendiente" | "aprobada" | "rechazada"
//
// pendiente is the only non-terminal state. Approval credits the student
// balance inside the same transaction that flips the estado — there is no
// approve-without-credit path.
type SolicitudRecarga struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AlumnoID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PadreID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoSolicitado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoAprobado may differ from MontoSolicitado; set on approval only.
	MontoAprobado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	MetodoPago    string           `gorm:"type:varchar(30);not null"`
	ReferenciaPago  *string
	ComprobantePath string `gorm:"not null"`
	Observaciones   *string
	FechaSolicitud     time.Time
	FechaProcesamiento *time.Time
	ProcesadoPor       *uuid.UUID `gorm:"type:uuid"`

	Alumno *Alumno `gorm:"foreignKey:AlumnoID"`
	Padre  *Padre  `gorm:"foreignKey:PadreID"`
}

func (SolicitudRecarga) TableName() string { return "solicitudes_recarga" }
