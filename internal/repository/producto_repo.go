package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines data access for the catalog and stock ledger.
type ProductoRepository interface {
	CreateCategoria(ctx context.Context, c *model.Categoria) error
	ListCategorias(ctx context.Context) ([]model.Categoria, error)

	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, nombre, estado string, page, limit int) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	ListStockBajo(ctx context.Context) ([]model.Producto, error)

	// Used inside transactions — callers must pass the tx instance.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, nuevoCosto decimal.Decimal) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error)

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) CreateCategoria(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productoRepo) ListCategorias(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&categorias).Error
	return categorias, err
}

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ? AND estado = 'activo'", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, nombre, estado string, page, limit int) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch estado {
	case "inactivo":
		q = q.Where("estado = 'inactivo'")
	case "all":
		// no filter
	default:
		q = q.Where("estado = 'activo'")
	}
	if nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Categoria").Order("nombre ASC").Offset(offset).Limit(limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("estado = 'activo' AND cantidad <= stock_minimo").
		Order("cantidad ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	return &p, err
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("cantidad", gorm.Expr("cantidad + ?", delta)).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, nuevoCosto decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("precio_costo", nuevoCosto).Error
}

func (r *productoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *productoRepo) ListMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error) {
	var movs []model.MovimientoStock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Where("producto_id = ?", productoID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}
