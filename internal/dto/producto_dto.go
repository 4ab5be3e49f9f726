package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearCategoriaRequest registers a product category.
type CrearCategoriaRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=100"`
	Descripcion string `json:"descripcion" validate:"omitempty,max=255"`
}

// CrearProductoRequest registers a product in the catalog.
type CrearProductoRequest struct {
	Codigo      string           `json:"codigo" validate:"required,max=50"`
	Nombre      string           `json:"nombre" validate:"required,max=150"`
	Descripcion string           `json:"descripcion" validate:"omitempty,max=255"`
	CategoriaID string           `json:"categoria_id" validate:"required,uuid"`
	Precio      decimal.Decimal  `json:"precio" validate:"required"`
	Costo       decimal.Decimal  `json:"costo"`
	Cantidad    decimal.Decimal  `json:"cantidad"`
	StockMinimo *decimal.Decimal `json:"stock_minimo" validate:"omitempty"`
}

// ActualizarProductoRequest modifies mutable product fields. Stock is NOT
// mutable here; it only moves through sales, purchases, and adjustments.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitempty,max=150"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=255"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	Precio      *decimal.Decimal `json:"precio" validate:"omitempty"`
	Costo       *decimal.Decimal `json:"costo" validate:"omitempty"`
	StockMinimo *decimal.Decimal `json:"stock_minimo" validate:"omitempty"`
	Estado      *string          `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// AjusteStockRequest applies a manual stock correction with a signed quantity.
type AjusteStockRequest struct {
	Cantidad    decimal.Decimal `json:"cantidad" validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,max=255"`
}

// ProductoResponse is the public view of a product.
type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	CategoriaID string          `json:"categoria_id"`
	Categoria   string          `json:"categoria,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Costo       decimal.Decimal `json:"costo"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	StockBajo   bool            `json:"stock_bajo"`
	Estado      string          `json:"estado"`
}

// MovimientoStockResponse is one immutable stock movement.
type MovimientoStockResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Descripcion   string          `json:"descripcion,omitempty"`
	Fecha         time.Time       `json:"fecha"`
}
