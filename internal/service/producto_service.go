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

// ProductoService manages the catalog. Stock never moves through Update —
// only through sales, purchases, and explicit adjustments, each of which
// leaves a MovimientoStock row.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	List(ctx context.Context, nombre, estado string, page, limit int) ([]dto.ProductoResponse, int64, error)
	AjustarStock(ctx context.Context, id, adminID uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error)
	Movimientos(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error)
	StockBajo(ctx context.Context) (*dto.StockBajoResponse, error)

	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*model.Categoria, error)
	ListCategorias(ctx context.Context) ([]model.Categoria, error)
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, errors.New("el precio debe ser mayor a cero")
	}
	if req.Cantidad.IsNegative() {
		return nil, errors.New("la cantidad inicial no puede ser negativa")
	}

	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, errors.New("categoria_id inválido")
	}

	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		CategoriaID: &categoriaID,
		PrecioCosto: req.Costo,
		PrecioVenta: req.Precio,
		Cantidad:    req.Cantidad,
		Estado:      "activo",
	}
	if req.Descripcion != "" {
		p.Descripcion = &req.Descripcion
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		// Initial stock counts as an adjustment entry so the movement trail
		// is complete from day one.
		if p.Cantidad.IsPositive() {
			mov := &model.MovimientoStock{
				ProductoID:    p.ID,
				Tipo:          "ajuste",
				Cantidad:      p.Cantidad,
				StockAnterior: decimal.Zero,
				StockNuevo:    p.Cantidad,
				Motivo:        "Stock inicial",
			}
			return s.repo.CreateMovimientoTx(tx, mov)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, errors.New("categoria_id inválido")
		}
		p.CategoriaID = &categoriaID
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, errors.New("el precio debe ser mayor a cero")
		}
		p.PrecioVenta = *req.Precio
	}
	if req.Costo != nil {
		p.PrecioCosto = *req.Costo
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Estado != nil {
		p.Estado = *req.Estado
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) List(ctx context.Context, nombre, estado string, page, limit int) ([]dto.ProductoResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	productos, total, err := s.repo.List(ctx, nombre, estado, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return items, total, nil
}

// AjustarStock applies a signed correction under a row lock. Stock may not go
// negative.
func (s *productoService) AjustarStock(ctx context.Context, id, adminID uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error) {
	if req.Cantidad.IsZero() {
		return nil, errors.New("la cantidad del ajuste no puede ser cero")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return errors.New("producto no encontrado")
		}

		nuevo := p.Cantidad.Add(req.Cantidad)
		if nuevo.IsNegative() {
			return fmt.Errorf("%w: el ajuste dejaría stock negativo", ErrStockInsuficiente)
		}

		if err := s.repo.UpdateStockTx(tx, id, req.Cantidad); err != nil {
			return err
		}

		adminRef := adminID
		mov := &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          "ajuste",
			Cantidad:      req.Cantidad,
			StockAnterior: p.Cantidad,
			StockNuevo:    nuevo,
			Motivo:        req.Descripcion,
			ReferenciaID:  &adminRef,
		}
		return s.repo.CreateMovimientoTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Detalle(ctx, id)
}

func (s *productoService) Movimientos(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	movs, total, err := s.repo.ListMovimientos(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Descripcion:   m.Motivo,
			Fecha:         m.CreatedAt,
		})
	}
	return items, total, nil
}

func (s *productoService) StockBajo(ctx context.Context) (*dto.StockBajoResponse, error) {
	productos, err := s.repo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.StockBajoResponse{Productos: items, Total: len(items)}, nil
}

func (s *productoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*model.Categoria, error) {
	c := &model.Categoria{Nombre: req.Nombre, Activo: true}
	if req.Descripcion != "" {
		c.Descripcion = &req.Descripcion
	}
	if err := s.repo.CreateCategoria(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *productoService) ListCategorias(ctx context.Context) ([]model.Categoria, error) {
	return s.repo.ListCategorias(ctx)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Precio:      p.PrecioVenta,
		Costo:       p.PrecioCosto,
		Cantidad:    p.Cantidad,
		StockMinimo: p.StockMinimo,
		StockBajo:   p.Cantidad.LessThanOrEqual(p.StockMinimo),
		Estado:      p.Estado,
	}
	if p.Descripcion != nil {
		resp.Descripcion = *p.Descripcion
	}
	if p.CategoriaID != nil {
		resp.CategoriaID = p.CategoriaID.String()
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	return resp
}
