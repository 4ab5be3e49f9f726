package dto

import "time"

// FacturaResponse is the public view of an invoice.
type FacturaResponse struct {
	ID         string     `json:"id"`
	VentaID    string     `json:"venta_id"`
	Numero     string     `json:"numero,omitempty"`
	Estado     string     `json:"estado"`
	PDFPath    string     `json:"pdf_path,omitempty"`
	RetryCount int        `json:"retry_count"`
	LastError  string     `json:"last_error,omitempty"`
	FechaEmision *time.Time `json:"fecha_emision,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
