package dto

import "github.com/shopspring/decimal"

// ReporteDiarioQuery selects the business day to report on.
type ReporteDiarioQuery struct {
	Fecha string `form:"fecha"`
}

// ProductoVendido is one row in the top-products section.
type ProductoVendido struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Importe    decimal.Decimal `json:"importe"`
}

// ReporteDiarioResponse aggregates one day of sales.
type ReporteDiarioResponse struct {
	Fecha          string                     `json:"fecha"`
	CantidadVentas int64                      `json:"cantidad_ventas"`
	TotalVendido   decimal.Decimal            `json:"total_vendido"`
	TotalAnulado   decimal.Decimal            `json:"total_anulado"`
	PorMetodoPago  map[string]decimal.Decimal `json:"por_metodo_pago"`
	TopProductos   []ProductoVendido          `json:"top_productos"`
	Recargas       decimal.Decimal            `json:"recargas_acreditadas"`
	Consumos       decimal.Decimal            `json:"consumos_tarjeta"`
}

// StockBajoResponse lists products at or below their minimum stock.
type StockBajoResponse struct {
	Productos []ProductoResponse `json:"productos"`
	Total     int                `json:"total"`
}
