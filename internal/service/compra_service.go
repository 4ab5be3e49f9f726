package service

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService registers supplier purchases; each line ingresses stock and
// leaves a movimiento.
type CompraService interface {
	CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ActualizarProveedor(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	ListProveedores(ctx context.Context, page, limit int) ([]dto.ProveedorResponse, int64, error)

	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	DetalleCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListCompras(ctx context.Context, proveedorID string, page, limit int) ([]dto.CompraResponse, int64, error)
}

type compraService struct {
	repo         repository.ProveedorRepository
	productoRepo repository.ProductoRepository
}

func NewCompraService(repo repository.ProveedorRepository, productoRepo repository.ProductoRepository) CompraService {
	return &compraService{repo: repo, productoRepo: productoRepo}
}

func (s *compraService) CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if _, err := s.repo.FindByRUC(ctx, req.RUC); err == nil {
		return nil, errors.New("ya existe un proveedor con ese RUC")
	}

	p := &model.Proveedor{
		RazonSocial: req.Nombre,
		RUC:         req.RUC,
		Activo:      true,
	}
	if req.Telefono != "" {
		p.Telefono = &req.Telefono
	}
	if req.Email != "" {
		p.Email = &req.Email
	}
	if req.Direccion != "" {
		p.Direccion = &req.Direccion
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *compraService) ActualizarProveedor(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	if req.Nombre != nil {
		p.RazonSocial = *req.Nombre
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if req.Estado != nil {
		p.Activo = *req.Estado == "activo"
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *compraService) ListProveedores(ctx context.Context, page, limit int) ([]dto.ProveedorResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	proveedores, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		items = append(items, *proveedorToResponse(&proveedores[i]))
	}
	return items, total, nil
}

// RegistrarCompra creates the purchase with its lines and ingresses stock in
// one transaction. ActualizarCosto optionally rewrites each product's cost to
// the purchased unit cost.
func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, errors.New("proveedor_id inválido")
	}
	proveedor, err := s.repo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	if !proveedor.Activo {
		return nil, errors.New("el proveedor está inactivo")
	}

	type resolvedLine struct {
		productoID uuid.UUID
		cantidad   decimal.Decimal
		costo      decimal.Decimal
		subtotal   decimal.Decimal
	}

	var lines []resolvedLine
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if !item.Cantidad.IsPositive() {
			return nil, errors.New("la cantidad debe ser mayor a cero")
		}
		if item.CostoUnitario.IsNegative() {
			return nil, errors.New("el costo unitario no puede ser negativo")
		}
		if _, err := s.productoRepo.FindByID(ctx, pid); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		subtotal := item.CostoUnitario.Mul(item.Cantidad).Round(2)
		total = total.Add(subtotal)
		lines = append(lines, resolvedLine{
			productoID: pid,
			cantidad:   item.Cantidad,
			costo:      item.CostoUnitario,
			subtotal:   subtotal,
		})
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			ProveedorID:   proveedorID,
			Total:         total,
			RegistradoPor: usuarioID,
		}
		if req.NumeroFactura != "" {
			obs := "Factura " + req.NumeroFactura
			compra.Observaciones = &obs
		}
		for _, l := range lines {
			compra.Detalles = append(compra.Detalles, model.DetalleCompra{
				ProductoID:     l.productoID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.costo,
				Subtotal:       l.subtotal,
			})
		}
		if err := s.repo.CreateCompraTx(tx, &compra); err != nil {
			return err
		}

		for _, l := range lines {
			p, err := s.productoRepo.FindByIDForUpdate(ctx, tx, l.productoID)
			if err != nil {
				return err
			}
			// Snapshot before the increment; the repo may mutate the loaded row.
			stockAnterior := p.Cantidad
			if err := s.productoRepo.UpdateStockTx(tx, l.productoID, l.cantidad); err != nil {
				return err
			}
			compraRef := compra.ID
			mov := &model.MovimientoStock{
				ProductoID:    l.productoID,
				Tipo:          "compra",
				Cantidad:      l.cantidad,
				StockAnterior: stockAnterior,
				StockNuevo:    stockAnterior.Add(l.cantidad),
				Motivo:        fmt.Sprintf("Compra a %s", proveedor.RazonSocial),
				ReferenciaID:  &compraRef,
			}
			if err := s.productoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
			if req.ActualizarCosto {
				if err := s.productoRepo.UpdateCostoTx(tx, l.productoID, l.costo); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.DetalleCompra(ctx, compra.ID)
}

func (s *compraService) DetalleCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindCompraByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) ListCompras(ctx context.Context, proveedorID string, page, limit int) ([]dto.CompraResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	compras, total, err := s.repo.ListCompras(ctx, proveedorID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		items = append(items, *compraToResponse(&compras[i]))
	}
	return items, total, nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	resp := &dto.ProveedorResponse{
		ID:     p.ID.String(),
		Nombre: p.RazonSocial,
		RUC:    p.RUC,
	}
	if p.Telefono != nil {
		resp.Telefono = *p.Telefono
	}
	if p.Email != nil {
		resp.Email = *p.Email
	}
	if p.Direccion != nil {
		resp.Direccion = *p.Direccion
	}
	if p.Activo {
		resp.Estado = "activo"
	} else {
		resp.Estado = "inactivo"
	}
	return resp
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.DetalleCompraResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleCompraResponse{
			ID:            d.ID.String(),
			ProductoID:    d.ProductoID.String(),
			Producto:      nombre,
			Cantidad:      d.Cantidad,
			CostoUnitario: d.PrecioUnitario,
			Subtotal:      d.Subtotal,
		})
	}
	resp := &dto.CompraResponse{
		ID:          c.ID.String(),
		ProveedorID: c.ProveedorID.String(),
		Total:       c.Total,
		Fecha:       c.CreatedAt,
		Detalles:    detalles,
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	if c.Observaciones != nil {
		resp.NumeroFactura = *c.Observaciones
	}
	return resp
}
