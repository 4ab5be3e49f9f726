package tests

import (
	"context"
	"testing"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCompraSvc() (service.CompraService, *stubProveedorRepo, *stubProductoRepo) {
	proveedorRepo := newStubProveedorRepo()
	productoRepo := newStubProductoRepo()
	svc := service.NewCompraService(proveedorRepo, productoRepo)
	return svc, proveedorRepo, productoRepo
}

func seedProveedor(repo *stubProveedorRepo, ruc string) *model.Proveedor {
	p := &model.Proveedor{
		ID:          uuid.New(),
		RazonSocial: "Distribuidora Norte",
		RUC:         ruc,
		Activo:      true,
	}
	repo.proveedores[p.ID] = p
	return p
}

func TestCrearProveedor_RUCDuplicado(t *testing.T) {
	svc, proveedorRepo, _ := buildCompraSvc()
	seedProveedor(proveedorRepo, "80012345-6")

	_, err := svc.CrearProveedor(context.Background(), dto.CrearProveedorRequest{
		Nombre: "Otra distribuidora", RUC: "80012345-6",
	})
	assert.ErrorContains(t, err, "RUC")
}

func TestRegistrarCompra_IngresaStock(t *testing.T) {
	svc, proveedorRepo, productoRepo := buildCompraSvc()
	proveedor := seedProveedor(proveedorRepo, "80012345-6")
	producto := seedProducto(productoRepo, "Gaseosa", 8, 10)
	costoOriginal := producto.PrecioCosto

	resp, err := svc.RegistrarCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		ProveedorID:   proveedor.ID.String(),
		NumeroFactura: "001-001-0000123",
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec(24), CostoUnitario: dec(3)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(dec(72)))
	assert.Contains(t, resp.NumeroFactura, "001-001-0000123")
	require.Len(t, resp.Detalles, 1)

	assert.True(t, producto.Cantidad.Equal(dec(34)), "la compra ingresa stock")
	assert.True(t, producto.PrecioCosto.Equal(costoOriginal), "sin actualizar_costo el costo no cambia")

	require.Len(t, productoRepo.movimientos, 1)
	mov := productoRepo.movimientos[0]
	assert.Equal(t, "compra", mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec(24)))
	assert.True(t, mov.StockAnterior.Equal(dec(10)))
	assert.True(t, mov.StockNuevo.Equal(dec(34)))
}

func TestRegistrarCompra_ActualizaCosto(t *testing.T) {
	svc, proveedorRepo, productoRepo := buildCompraSvc()
	proveedor := seedProveedor(proveedorRepo, "80012345-6")
	producto := seedProducto(productoRepo, "Gaseosa", 8, 10)

	_, err := svc.RegistrarCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		ProveedorID:     proveedor.ID.String(),
		ActualizarCosto: true,
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec(12), CostoUnitario: dec(4.5)},
		},
	})
	require.NoError(t, err)

	assert.True(t, producto.PrecioCosto.Equal(dec(4.5)), "el costo se reescribe al de la compra")
}

func TestRegistrarCompra_ProveedorInactivo(t *testing.T) {
	svc, proveedorRepo, productoRepo := buildCompraSvc()
	proveedor := seedProveedor(proveedorRepo, "80012345-6")
	proveedor.Activo = false
	producto := seedProducto(productoRepo, "Gaseosa", 8, 10)

	_, err := svc.RegistrarCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		ProveedorID: proveedor.ID.String(),
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec(1), CostoUnitario: dec(3)},
		},
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestRegistrarCompra_CantidadInvalida(t *testing.T) {
	svc, proveedorRepo, productoRepo := buildCompraSvc()
	proveedor := seedProveedor(proveedorRepo, "80012345-6")
	producto := seedProducto(productoRepo, "Gaseosa", 8, 10)

	_, err := svc.RegistrarCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		ProveedorID: proveedor.ID.String(),
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec(0), CostoUnitario: dec(3)},
		},
	})
	assert.ErrorContains(t, err, "cantidad")
	assert.True(t, producto.Cantidad.Equal(dec(10)))
}

func TestActualizarProveedor_CambiaEstado(t *testing.T) {
	svc, proveedorRepo, _ := buildCompraSvc()
	proveedor := seedProveedor(proveedorRepo, "80012345-6")

	estado := "inactivo"
	resp, err := svc.ActualizarProveedor(context.Background(), proveedor.ID, dto.ActualizarProveedorRequest{
		Estado: &estado,
	})
	require.NoError(t, err)

	assert.Equal(t, "inactivo", resp.Estado)
	assert.False(t, proveedor.Activo)
}
