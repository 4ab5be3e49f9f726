package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearProveedorRequest registers a supplier.
type CrearProveedorRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=150"`
	RUC       string `json:"ruc" validate:"required,max=20"`
	Telefono  string `json:"telefono" validate:"omitempty,max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	Direccion string `json:"direccion" validate:"omitempty,max=255"`
}

// ActualizarProveedorRequest modifies supplier contact data.
type ActualizarProveedorRequest struct {
	Nombre    *string `json:"nombre" validate:"omitempty,max=150"`
	Telefono  *string `json:"telefono" validate:"omitempty,max=30"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Direccion *string `json:"direccion" validate:"omitempty,max=255"`
	Estado    *string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// ProveedorResponse is the public view of a supplier.
type ProveedorResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	RUC       string `json:"ruc"`
	Telefono  string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Estado    string `json:"estado"`
}

// ItemCompraRequest is one product line in a purchase.
type ItemCompraRequest struct {
	ProductoID     string          `json:"producto_id" validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario" validate:"required"`
}

// CrearCompraRequest registers a purchase and ingresses its stock.
type CrearCompraRequest struct {
	ProveedorID    string              `json:"proveedor_id" validate:"required,uuid"`
	NumeroFactura  string              `json:"numero_factura" validate:"omitempty,max=50"`
	Items          []ItemCompraRequest `json:"items" validate:"required,min=1,dive"`
	ActualizarCosto bool               `json:"actualizar_costo"`
}

// DetalleCompraResponse is one line in a purchase view.
type DetalleCompraResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CompraResponse is the full purchase view.
type CompraResponse struct {
	ID            string                  `json:"id"`
	ProveedorID   string                  `json:"proveedor_id"`
	Proveedor     string                  `json:"proveedor,omitempty"`
	NumeroFactura string                  `json:"numero_factura,omitempty"`
	Total         decimal.Decimal         `json:"total"`
	Fecha         time.Time               `json:"fecha"`
	Detalles      []DetalleCompraResponse `json:"detalles"`
}
