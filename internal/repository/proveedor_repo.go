package repository

import (
	"context"

	"cantina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProveedorRepository stores suppliers and purchases.
type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error)
	List(ctx context.Context, page, limit int) ([]model.Proveedor, int64, error)
	Update(ctx context.Context, p *model.Proveedor) error

	CreateCompraTx(tx *gorm.DB, c *model.Compra) error
	FindCompraByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	ListCompras(ctx context.Context, proveedorID string, page, limit int) ([]model.Compra, int64, error)

	DB() *gorm.DB
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) DB() *gorm.DB { return r.db }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *proveedorRepo) FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("ruc = ?", ruc).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, page, limit int) ([]model.Proveedor, int64, error) {
	var proveedores []model.Proveedor
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("activo = true")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("razon_social ASC").Offset(offset).Limit(limit).Find(&proveedores).Error
	return proveedores, total, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) CreateCompraTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *proveedorRepo) FindCompraByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Detalles.Producto").
		First(&c, id).Error
	return &c, err
}

func (r *proveedorRepo) ListCompras(ctx context.Context, proveedorID string, page, limit int) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if proveedorID != "" {
		q = q.Where("proveedor_id = ?", proveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Proveedor").Preload("Detalles.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&compras).Error
	return compras, total, err
}
